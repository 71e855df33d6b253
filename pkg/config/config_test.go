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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 3, cfg.Policy.ReplacementAgeYears, 0.001)
	assert.Equal(t, 30, cfg.Policy.InactivityDays)
	assert.Equal(t, 90, cfg.Policy.OutOfDateDays)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"policy": {"replacement_age_years": 4, "replacement_max_age_years": 8},
		"provisioners": ["IT Deploy"]
	}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 4, cfg.Policy.ReplacementAgeYears, 0.001)
	assert.InDelta(t, 8, cfg.Policy.ReplacementMaxAgeYears, 0.001)
	assert.Equal(t, []string{"IT Deploy"}, cfg.Provisioners)

	// Unset fields keep their defaults.
	assert.Equal(t, 30, cfg.Policy.InactivityDays)
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero replacement age", mutate: func(c *Config) { c.Policy.ReplacementAgeYears = 0 }},
		{name: "inverted window", mutate: func(c *Config) { c.Policy.ReplacementMaxAgeYears = 1 }},
		{name: "zero inactivity", mutate: func(c *Config) { c.Policy.InactivityDays = 0 }},
		{name: "negative cve limit", mutate: func(c *Config) { c.Policy.TopCVELimit = -1 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestClassifyPolicyProjection(t *testing.T) {
	t.Parallel()

	policy := Default().Policy.ClassifyPolicy()

	assert.InDelta(t, 3, policy.ReplacementAgeYears, 0.001)
	assert.InDelta(t, 6, policy.ReplacementMaxAgeYears, 0.001)
	assert.Equal(t, 30, policy.InactivityDays)
	assert.Equal(t, int64(12), policy.UnsupportedOSMajorMax)
}
