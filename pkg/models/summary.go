/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

// Summary is the dashboard aggregate reduced from the final device list.
// Retired devices are counted in Retired and excluded from every other
// bucket and ratio.
type Summary struct {
	TotalDevices   int `json:"total_devices"`
	RetiredDevices int `json:"retired_devices"`

	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	GoodCount     int `json:"good_count"`
	InactiveCount int `json:"inactive_count"`
	UnknownCount  int `json:"unknown_count"`

	ActiveDevices   int `json:"active_devices"`
	InactiveDevices int `json:"inactive_devices"`

	// AverageAgeYears is computed over devices with a known age only;
	// age zero means unknown and never shifts the mean.
	AverageAgeYears float64 `json:"average_age_years"`
	KnownAgeDevices int     `json:"known_age_devices"`

	ReplacementCount int     `json:"replacement_count"`
	ReplacementCost  float64 `json:"replacement_cost"`

	OutOfDateCount int `json:"out_of_date_count"`

	DevicesWithSecurityData int     `json:"devices_with_security_data"`
	TotalVulnerabilities    int     `json:"total_vulnerabilities"`
	HighOrCriticalFindings  int     `json:"high_or_critical_findings"`
	AverageRiskScore        float64 `json:"average_risk_score"`
}
