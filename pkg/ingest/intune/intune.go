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

// Package intune transforms the compliance-report export into canonical
// devices. The export is thin: a device name, a user principal name, a
// compliance state, and a last-modified timestamp. Age comes from the
// device-name year suffix or not at all.
package intune

import (
	"strings"
	"time"

	"github.com/carverauto/assetradar/pkg/classify"
	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/hardware"
	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/ingest"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

const (
	colDeviceName   = "Device name"
	colUPN          = "User principal name"
	colCompliance   = "Compliance status"
	colLastModified = "Last modified"
	colOSVersion    = "OS version"
)

// Transform converts compliance-report rows into canonical devices.
func Transform(
	records []models.RawRecord,
	dir *identity.Directory,
	provisioners *identity.ProvisionerSet,
	policy config.Policy,
	now time.Time,
	log logger.Logger,
) []*models.Device {
	devices := make([]*models.Device, 0, len(records))

	for _, rec := range records {
		name := rec.Get(colDeviceName)
		if name == "" {
			continue
		}

		device := &models.Device{
			DeviceID:  ingest.DeviceID(models.SourceIntune, name),
			Name:      name,
			Source:    models.SourceIntune,
			OSVersion: rec.Get(colOSVersion),
		}

		if lastModified, ok := ingest.ParseDate(rec.Get(colLastModified), now); ok {
			device.LastUpdate = lastModified
			device.LastSeen = lastModified
		}

		device.DaysSinceUpdate = ingest.DaysSince(device.LastUpdate, now)

		if year, ok := hardware.YearFor(name); ok {
			device.PurchaseDate = time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
			device.AgeYears = ingest.AgeYears(device.PurchaseDate, now)
			device.Annotate("intune", "age estimated from device name year")
		}

		resolveOwner(device, rec.Get(colUPN), dir, provisioners)

		if compliance := rec.Get(colCompliance); compliance != "" && !strings.EqualFold(compliance, "compliant") {
			device.Annotate("intune", "compliance state: "+compliance)
		}

		result := classify.Classify(classify.Input{
			AgeYears:        device.AgeYears,
			DaysSinceUpdate: device.DaysSinceUpdate,
			OSVersion:       device.OSVersion,
			Model:           device.Model,
		}, policy.ClassifyPolicy())

		device.Status = result.Status
		device.ActivityStatus = result.ActivityStatus
		device.StatusReasons = result.Reasons
		device.ReplacementRecommended = result.ReplacementRecommended
		device.ReplacementReason = result.ReplacementReason

		devices = append(devices, device)
	}

	log.Info().
		Int("rows", len(records)).
		Int("devices", len(devices)).
		Str("source", string(models.SourceIntune)).
		Msg("transformed compliance export")

	return devices
}

// resolveOwner treats the UPN as the declared owner signal: the computing
// id in its local part resolves through the directory, with the usual
// provisioner swap against the device-name id.
func resolveOwner(device *models.Device, upn string, dir *identity.Directory, provisioners *identity.ProvisionerSet) {
	declared := ""
	declaredEmail := strings.TrimSpace(upn)

	if id := identity.FirstComputingID(declaredEmail); id != "" {
		if entry, ok := dir.Lookup(id); ok && entry.DisplayName != "" {
			declared = entry.DisplayName
			if entry.Email != "" {
				declaredEmail = entry.Email
			}
		} else {
			declared = id
		}
	} else if declaredEmail != "" {
		// Non-institutional UPN; keep the local part as the owner name.
		declared = declaredEmail
		if at := strings.IndexByte(declaredEmail, '@'); at > 0 {
			declared = declaredEmail[:at]
		}
	}

	resolution := ingest.ResolveOwnership(declared, declaredEmail, device.Name, dir, provisioners)
	device.Owner = resolution.Owner
	device.OwnerEmail = resolution.OwnerEmail
	device.SecondaryOwner = resolution.SecondaryOwner
	device.Annotate("intune", resolution.Note)
}
