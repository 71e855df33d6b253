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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

var runNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

const runJamfCSV = "\uFEFFDevice Name,Serial Number,Warranty Expiration,Full Name,Email,Department,Last Inventory Update,Model Identifier,OS Version,Manufacturer\n" +
	"FBS-jsm2ku-2022,C02X1234JHD3,2026-06-01,IT Deploy,deploy@example.edu,\"Facilities, \"\"East\"\"\",2026-08-29,\"MacBookPro14,1\",12.7,Apple\n" +
	"LAB-tkw7cf,C02Z9999BBB2,2028-06-01,Tom Walker,tkw7cf@example.edu,Library,2026-08-30,\"Mac15,3\",15.1,Apple\n" +
	"storage-closet-mini,C02Q1111CCC3,,Unassigned,,,2026-07-01,\"Macmini8,1\",14.2,Apple\n"

const runIntuneCSV = "Device name,User principal name,Compliance status,Last modified,OS version\n" +
	"DESKTOP-PJQ4RR,pjq4rr@example.edu,Noncompliant,2026-08-28,10.0.19045\n"

const runRosterCSV = "Computing ID,Email,Display Name,Restricted\n" +
	"jsm2ku,jsm2ku@example.edu,Jane Smith,no\n" +
	"tkw7cf,tkw7cf@example.edu,Tom Walker,no\n" +
	"pjq4rr,pjq4rr@example.edu,Pat Quinn,no\n"

const runAssetsCSV = "Agent ID,Host ID,Asset Name,Alternate Name,IP Address,TruRisk Score,Criticality,Tags,Last Logged On User,Last Scan Date\n" +
	"agent-1,host-1,fbs-jsm2ku-2022,,10.1.2.3,720,4,,EXAMPLE\\jsm2ku,2026-08-20\n"

const runFindingsCSV = "Host ID,QID,Title,Severity,CVE ID,Category,First Detected,Last Detected,QDS,Solution,Threat,Impact\n" +
	"host-1,91235,Old OpenSSL,5,CVE-2024-2222,Software,2026-01-02,2026-08-20,95,Upgrade,,\n" +
	"host-1,91236,Stale agent,4,CVE-2024-3333,Software,2026-02-02,2026-08-20,80,Upgrade,,\n"

const runCrossRefCSV = "Display name,User principal name,Department,Compliance state\n" +
	"DESKTOP-PJQ4RR,pjq4rr@example.edu,Registrar,Compliant\n"

func runTestConfig() *config.Config {
	cfg := config.Default()
	cfg.Provisioners = []string{"IT Deploy", "deploy"}

	return cfg
}

func runFull(t *testing.T, overlay *models.SettingsOverlay) *Report {
	t.Helper()

	return Run(Inputs{
		JamfCSV:     runJamfCSV,
		IntuneCSV:   runIntuneCSV,
		RosterCSV:   runRosterCSV,
		AssetsCSV:   runAssetsCSV,
		FindingsCSV: runFindingsCSV,
		CrossRefCSV: runCrossRefCSV,
		Overlay:     overlay,
		Now:         runNow,
	}, runTestConfig(), logger.NewTestLogger())
}

func deviceByName(t *testing.T, report *Report, name string) *models.Device {
	t.Helper()

	for _, device := range report.Devices {
		if device.Name == name {
			return device
		}
	}

	t.Fatalf("device %q not in report", name)

	return nil
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	report := runFull(t, nil)

	require.Len(t, report.Devices, 4)
	require.NotNil(t, report.Summary)

	t.Run("provisioner swap with scanner enrichment", func(t *testing.T) {
		device := deviceByName(t, report, "FBS-jsm2ku-2022")

		assert.Equal(t, "Jane Smith", device.Owner)
		assert.Equal(t, "IT Deploy", device.SecondaryOwner)
		assert.Equal(t, `Facilities, "East"`, device.Department)

		// MacBookPro14,1 shipped 2017; the warranty estimate disagrees
		// beyond tolerance, so the model year wins.
		assert.Equal(t, models.StatusCritical, device.Status)
		assert.Equal(t, 2017, device.PurchaseDate.Year())

		require.NotNil(t, device.Security)
		assert.Equal(t, "host-1", device.Security.HostID)
		assert.Equal(t, 2, device.Security.TotalFindings)
		assert.Equal(t, []string{"CVE-2024-2222", "CVE-2024-3333"}, device.Security.TopCVEs)
	})

	t.Run("healthy device stays good and unscanned", func(t *testing.T) {
		device := deviceByName(t, report, "LAB-tkw7cf")

		assert.Equal(t, "Tom Walker", device.Owner)
		assert.Equal(t, models.StatusGood, device.Status)
		assert.Nil(t, device.Security)
	})

	t.Run("UPN owner resolved and department backfilled", func(t *testing.T) {
		device := deviceByName(t, report, "DESKTOP-PJQ4RR")

		assert.Equal(t, "Pat Quinn", device.Owner)
		assert.Equal(t, "Registrar", device.Department)
	})

	t.Run("inactivity short-circuits age risk", func(t *testing.T) {
		device := deviceByName(t, report, "storage-closet-mini")

		assert.Equal(t, models.StatusInactive, device.Status)
		assert.Equal(t, models.ActivityInactive, device.ActivityStatus)
	})

	t.Run("summary excludes unscanned devices from security stats", func(t *testing.T) {
		assert.Equal(t, 1, report.Summary.DevicesWithSecurityData)
		assert.Equal(t, 2, report.Summary.TotalVulnerabilities)
		assert.InDelta(t, 720, report.Summary.AverageRiskScore, 0.001)
	})

	t.Run("merge orders critical first", func(t *testing.T) {
		assert.Equal(t, models.StatusCritical, report.Devices[0].Status)
	})
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	first := runFull(t, nil)
	second := runFull(t, nil)

	require.Equal(t, len(first.Devices), len(second.Devices))

	for i := range first.Devices {
		assert.Equal(t, first.Devices[i].DeviceID, second.Devices[i].DeviceID)
		assert.Equal(t, first.Devices[i].Annotations, second.Devices[i].Annotations)
	}
}

func TestRun_Invariants(t *testing.T) {
	t.Parallel()

	report := runFull(t, nil)

	for _, device := range report.Devices {
		assert.NotEmpty(t, device.StatusReasons, "device %s has no status reasons", device.Name)
		assert.Equal(t,
			device.Status == models.StatusInactive,
			device.ActivityStatus == models.ActivityInactive,
			"device %s activity/status incoherent", device.Name)
		assert.Equal(t,
			device.ReplacementRecommended,
			device.ReplacementReason != "",
			"device %s replacement reason mismatch", device.Name)

		if device.SecondaryOwner != "" {
			assert.NotEqual(t, device.Owner, device.SecondaryOwner,
				"device %s has the same primary and secondary owner", device.Name)
		}
	}
}

func TestRun_Overlay(t *testing.T) {
	t.Parallel()

	probe := runFull(t, nil)
	targetID := deviceByName(t, probe, "LAB-tkw7cf").DeviceID

	report := runFull(t, &models.SettingsOverlay{
		RetiredDeviceIDs: map[string]bool{targetID: true},
		NotesByID:        map[string]string{targetID: "sold at surplus"},
	})

	device := deviceByName(t, report, "LAB-tkw7cf")
	assert.True(t, device.Retired)
	assert.Contains(t, device.NotesText(), "sold at surplus")
	assert.Equal(t, 1, report.Summary.RetiredDevices)
}

func TestRun_EmptyInputs(t *testing.T) {
	t.Parallel()

	report := Run(Inputs{Now: runNow}, runTestConfig(), logger.NewTestLogger())

	assert.Empty(t, report.Devices)
	require.NotNil(t, report.Summary)
	assert.Zero(t, report.Summary.TotalDevices)
}
