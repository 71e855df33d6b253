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

package pipeline

import (
	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/models"
)

// Summarize reduces the final device list to the dashboard aggregates.
// Retired devices are counted and then excluded from every other bucket.
// Averages are computed only over the devices that carry the relevant
// signal: unknown ages never shift the mean age, and risk statistics
// cover scanned devices only.
func Summarize(devices []*models.Device, policy config.Policy) *models.Summary {
	summary := &models.Summary{}

	var (
		ageSum  float64
		riskSum float64
	)

	for _, device := range devices {
		summary.TotalDevices++

		if device.Retired {
			summary.RetiredDevices++
			continue
		}

		switch device.Status {
		case models.StatusCritical:
			summary.CriticalCount++
		case models.StatusWarning:
			summary.WarningCount++
		case models.StatusGood:
			summary.GoodCount++
		case models.StatusInactive:
			summary.InactiveCount++
		default:
			summary.UnknownCount++
		}

		if device.ActivityStatus == models.ActivityInactive {
			summary.InactiveDevices++
		} else {
			summary.ActiveDevices++
		}

		if device.AgeKnown() {
			summary.KnownAgeDevices++
			ageSum += device.AgeYears
		}

		if device.ReplacementRecommended {
			summary.ReplacementCount++
		}

		if device.DaysSinceUpdate > policy.OutOfDateDays {
			summary.OutOfDateCount++
		}

		if device.Security != nil {
			summary.DevicesWithSecurityData++
			summary.TotalVulnerabilities += device.Security.TotalFindings
			summary.HighOrCriticalFindings += device.Security.HighOrCritical
			riskSum += device.Security.RiskScore
		}
	}

	summary.ReplacementCost = float64(summary.ReplacementCount) * policy.ReplacementUnitCost

	if summary.KnownAgeDevices > 0 {
		summary.AverageAgeYears = ageSum / float64(summary.KnownAgeDevices)
	}

	if summary.DevicesWithSecurityData > 0 {
		summary.AverageRiskScore = riskSum / float64(summary.DevicesWithSecurityData)
	}

	return summary
}
