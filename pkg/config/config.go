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

// Package config loads the reporter configuration. Every organization
// policy number the pipeline evaluates against lives here; the pipeline
// code carries no thresholds of its own.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/carverauto/assetradar/pkg/classify"
	"github.com/carverauto/assetradar/pkg/logger"
)

// Config is the full reporter configuration.
type Config struct {
	Logger logger.Config `json:"logger"`
	Policy Policy        `json:"policy"`

	// Provisioners are the IT-staff identities that appear as declared
	// owners on devices they only set up.
	Provisioners []string `json:"provisioners"`
}

// Policy carries the organization-specific constants observed in asset
// reporting. Defaults reflect current policy but are configuration, not
// law.
type Policy struct {
	ReplacementAgeYears    float64 `json:"replacement_age_years"`
	ReplacementMaxAgeYears float64 `json:"replacement_max_age_years"`
	InactivityDays         int     `json:"inactivity_days"`
	OutOfDateDays          int     `json:"out_of_date_days"`
	ReplacementUnitCost    float64 `json:"replacement_unit_cost"`
	UnsupportedOSMajorMax  int64   `json:"unsupported_os_major_max"`
	AgingOSMajorMax        int64   `json:"aging_os_major_max"`
	TopCVELimit            int     `json:"top_cve_limit"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Logger: logger.Config{Level: "info"},
		Policy: Policy{
			ReplacementAgeYears:    3,
			ReplacementMaxAgeYears: 6,
			InactivityDays:         30,
			OutOfDateDays:          90,
			ReplacementUnitCost:    1500,
			UnsupportedOSMajorMax:  12,
			AgingOSMajorMax:        13,
			TopCVELimit:            10,
		},
	}
}

// Load reads a JSON config file over the defaults. Missing fields keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot evaluate sanely.
func (c *Config) Validate() error {
	p := c.Policy

	if p.ReplacementAgeYears <= 0 {
		return errReplacementAge
	}

	if p.ReplacementMaxAgeYears < p.ReplacementAgeYears {
		return errReplacementWindow
	}

	if p.InactivityDays <= 0 || p.OutOfDateDays <= 0 {
		return errActivityWindows
	}

	if p.TopCVELimit < 0 {
		return errTopCVELimit
	}

	return nil
}

// ClassifyPolicy projects the policy onto the classifier's input shape.
func (p Policy) ClassifyPolicy() classify.Policy {
	return classify.Policy{
		ReplacementAgeYears:    p.ReplacementAgeYears,
		ReplacementMaxAgeYears: p.ReplacementMaxAgeYears,
		InactivityDays:         p.InactivityDays,
		UnsupportedOSMajorMax:  p.UnsupportedOSMajorMax,
		AgingOSMajorMax:        p.AgingOSMajorMax,
	}
}
