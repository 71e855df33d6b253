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

package qualys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

func testAssets() []AssetRow {
	return []AssetRow{
		{
			AgentID:          "agent-1",
			HostID:           "host-1",
			Name:             "FBS-jsm2ku-2022",
			IP:               "10.1.2.3",
			RiskScore:        "720",
			Criticality:      "4",
			LastLoggedOnUser: `EXAMPLE\jsm2ku`,
			LastScan:         "2026-08-20",
		},
		{
			AgentID:          "agent-2",
			HostID:           "host-2",
			Name:             "lab-loaner-07.example.edu",
			AltName:          "lab-loaner-07",
			RiskScore:        "150",
			LastLoggedOnUser: "tkw7cf@example.edu",
		},
	}
}

func testFindings() []FindingRow {
	return []FindingRow{
		{HostID: "host-1", QID: "91234", Severity: "3", CVE: "CVE-2024-1111", RiskScore: "40"},
		{HostID: "host-1", QID: "91235", Severity: "5", CVE: "CVE-2024-2222", RiskScore: "95"},
		{HostID: "host-1", QID: "91236", Severity: "4", CVE: "CVE-2024-3333", RiskScore: "80"},
		{HostID: "host-1", QID: "91237", Severity: "5", CVE: "CVE-2024-4444", RiskScore: "90"},
		{HostID: "host-2", QID: "20001", Severity: "2", RiskScore: "10"},
	}
}

func enrich(t *testing.T, devices ...*models.Device) []*models.Device {
	t.Helper()

	return Enrich(devices, testAssets(), testFindings(), config.Default().Policy, logger.NewTestLogger())
}

func TestEnrich_ExactNameMatch(t *testing.T) {
	t.Parallel()

	device := &models.Device{Name: "fbs-JSM2KU-2022"}
	enrich(t, device)

	require.NotNil(t, device.Security)
	sec := device.Security

	assert.Equal(t, "host-1", sec.HostID)
	assert.InDelta(t, 720, sec.RiskScore, 0.001)
	assert.Equal(t, 4, sec.Criticality)
	assert.Equal(t, "10.1.2.3", sec.IP)

	assert.Equal(t, 4, sec.TotalFindings)
	assert.Equal(t, 3, sec.HighOrCritical)
	assert.Equal(t, 1, sec.HighFindings)
	assert.Equal(t, 2, sec.CriticalFindings)

	// Sorted by severity desc, then risk sub-score desc.
	require.Len(t, sec.Findings, 4)
	assert.Equal(t, "91235", sec.Findings[0].QID)
	assert.Equal(t, "91237", sec.Findings[1].QID)
	assert.Equal(t, "91236", sec.Findings[2].QID)
	assert.Equal(t, "91234", sec.Findings[3].QID)

	assert.Equal(t, []string{"CVE-2024-2222", "CVE-2024-4444", "CVE-2024-3333", "CVE-2024-1111"}, sec.TopCVEs)
}

func TestEnrich_LoggedOnUserMatch(t *testing.T) {
	t.Parallel()

	// Name differs from every asset, but the owner email carries a
	// computing id that matches an asset's last logged-on user.
	device := &models.Device{Name: "jane-macbook", OwnerEmail: "jsm2ku@example.edu"}
	enrich(t, device)

	require.NotNil(t, device.Security)
	assert.Equal(t, "host-1", device.Security.HostID)
	assert.Contains(t, device.NotesText(), "matched by logged-on-user")
}

func TestEnrich_ContainmentMatch(t *testing.T) {
	t.Parallel()

	// Not an exact match for either the asset name or its alternate
	// name, but contained within the full asset name.
	device := &models.Device{Name: "lab-loaner-07.example"}
	enrich(t, device)

	require.NotNil(t, device.Security)
	assert.Equal(t, "host-2", device.Security.HostID)
}

func TestEnrich_NoMatchLeavesDeviceUntouched(t *testing.T) {
	t.Parallel()

	device := &models.Device{Name: "printer-hall-03", Status: models.StatusGood}
	enrich(t, device)

	assert.Nil(t, device.Security)
	assert.Equal(t, models.StatusGood, device.Status)
	assert.Empty(t, device.Annotations)
}

func TestEnrich_ScannedHostWithZeroFindings(t *testing.T) {
	t.Parallel()

	devices := Enrich(
		[]*models.Device{{Name: "FBS-jsm2ku-2022"}},
		testAssets(),
		nil,
		config.Default().Policy,
		logger.NewTestLogger(),
	)

	// Matched but clean: security summary present with zero counts,
	// distinct from an unscanned device's nil summary.
	require.NotNil(t, devices[0].Security)
	assert.Zero(t, devices[0].Security.TotalFindings)
}

func TestEnrich_TopCVELimit(t *testing.T) {
	t.Parallel()

	policy := config.Default().Policy
	policy.TopCVELimit = 2

	devices := Enrich(
		[]*models.Device{{Name: "FBS-jsm2ku-2022"}},
		testAssets(),
		testFindings(),
		policy,
		logger.NewTestLogger(),
	)

	assert.Equal(t, []string{"CVE-2024-2222", "CVE-2024-4444"}, devices[0].Security.TopCVEs)
}

func TestEnrich_EmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Enrich(nil, testAssets(), testFindings(), config.Default().Policy, logger.NewTestLogger()))

	device := &models.Device{Name: "FBS-jsm2ku-2022"}
	Enrich([]*models.Device{device}, nil, nil, config.Default().Policy, logger.NewTestLogger())
	assert.Nil(t, device.Security)
}

func TestParseAssets(t *testing.T) {
	t.Parallel()

	csv := "Agent ID,Host ID,Asset Name,Alternate Name,IP Address,TruRisk Score,Criticality,Tags,Last Logged On User,Last Scan Date\n" +
		"agent-1,host-1,FBS-jsm2ku-2022,,10.1.2.3,720,4,managed,EXAMPLE\\jsm2ku,2026-08-20\n" +
		",,,,,,,,,\n"

	assets, err := ParseAssets(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "FBS-jsm2ku-2022", assets[0].Name)
}

func TestParseFindings(t *testing.T) {
	t.Parallel()

	csv := "Host ID,QID,Title,Severity,CVE ID,Category,First Detected,Last Detected,QDS,Solution,Threat,Impact\n" +
		"host-1,91235,Old OpenSSL,5,CVE-2024-2222,Software,2026-01-02,2026-08-20,95,Upgrade,Remote exploit,High\n" +
		",99999,No host,3,,,,,,,,\n"

	findings, err := ParseFindings(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "91235", findings[0].QID)
	assert.Equal(t, "CVE-2024-2222", findings[0].CVE)
}
