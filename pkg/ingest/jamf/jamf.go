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

// Package jamf transforms the endpoint-management console export into
// canonical devices. This is the richest source: it carries warranty,
// serial, model, ownership, and check-in columns.
package jamf

import (
	"time"

	"github.com/carverauto/assetradar/pkg/classify"
	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/hardware"
	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/ingest"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

// Export column names.
const (
	colDeviceName    = "Device Name"
	colProcessor     = "Processor"
	colWarranty      = "Warranty Expiration"
	colSerial        = "Serial Number"
	colLastCheckin   = "Last Check-in"
	colFullName      = "Full Name"
	colDepartment    = "Department"
	colLastInventory = "Last Inventory Update"
	colEmail         = "Email"
	colManufacturer  = "Manufacturer"
	colModel         = "Model"
	colModelID       = "Model Identifier"
	colOSVersion     = "OS Version"
	colManaged       = "Managed"
)

// warrantyTermYears is the standard coverage term used to walk a warranty
// expiration back to an estimated purchase date.
const warrantyTermYears = 3

// modelYearToleranceYears bounds how far the warranty-derived purchase
// estimate may drift from the model release year before the model year is
// taken as the stronger signal.
const modelYearToleranceYears = 2

// Transform converts parsed export rows into canonical devices. Rows
// without a device name or serial are dropped; every other data-quality
// problem degrades to a defined state instead of failing.
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
		device := transformRecord(rec, dir, provisioners, policy, now)
		if device == nil {
			continue
		}

		devices = append(devices, device)
	}

	log.Info().
		Int("rows", len(records)).
		Int("devices", len(devices)).
		Str("source", string(models.SourceJamf)).
		Msg("transformed endpoint management export")

	return devices
}

func transformRecord(
	rec models.RawRecord,
	dir *identity.Directory,
	provisioners *identity.ProvisionerSet,
	policy config.Policy,
	now time.Time,
) *models.Device {
	name := rec.Get(colDeviceName)
	serial := rec.Get(colSerial)

	if name == "" && serial == "" {
		return nil
	}

	anchor := serial
	if anchor == "" {
		anchor = name
	}

	model := rec.Get(colModelID)
	if model == "" {
		model = rec.Get(colModel)
	}

	device := &models.Device{
		DeviceID:     ingest.DeviceID(models.SourceJamf, anchor),
		Name:         name,
		Serial:       serial,
		Model:        model,
		Manufacturer: rec.Get(colManufacturer),
		Source:       models.SourceJamf,
		Department:   rec.Get(colDepartment),
		OSVersion:    rec.Get(colOSVersion),
	}

	if lastSeen, ok := ingest.ParseDate(rec.Get(colLastCheckin), now); ok {
		device.LastSeen = lastSeen
	}

	if lastUpdate, ok := ingest.ParseDate(rec.Get(colLastInventory), now); ok {
		device.LastUpdate = lastUpdate
	}

	device.DaysSinceUpdate = ingest.DaysSince(device.LastUpdate, now)

	purchase, ageSource := estimatePurchase(rec, model, name, now)
	device.PurchaseDate = purchase
	device.AgeYears = ingest.AgeYears(purchase, now)

	if device.AgeYears > 0 && ageSource != "" && ageSource != ageSourceWarranty {
		device.Annotate("jamf", "age estimated from "+ageSource)
	}

	owner := ingest.ResolveOwnership(rec.Get(colFullName), rec.Get(colEmail), name, dir, provisioners)
	device.Owner = owner.Owner
	device.OwnerEmail = owner.OwnerEmail
	device.SecondaryOwner = owner.SecondaryOwner
	device.Annotate("jamf", owner.Note)

	if managed := rec.Get(colManaged); managed != "" && !isTruthy(managed) {
		device.Annotate("jamf", "reported as unmanaged")
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

	return device
}

const (
	ageSourceWarranty  = "warranty expiration"
	ageSourceModelYear = "model release year"
	ageSourceNameYear  = "device name year"
)

// estimatePurchase picks the best available age signal per record:
// warranty-derived purchase date first, then the model release year, then
// a year embedded in the device name. When the warranty estimate and the
// model year disagree by more than the tolerance, the model year wins;
// the two are never averaged.
func estimatePurchase(rec models.RawRecord, model, name string, now time.Time) (time.Time, string) {
	var (
		warrantyPurchase time.Time
		haveWarranty     bool
	)

	if warranty, ok := ingest.ParseDate(rec.Get(colWarranty), now); ok {
		warrantyPurchase = warranty.AddDate(-warrantyTermYears, 0, 0)
		haveWarranty = true
	}

	modelYear, haveModelYear := hardware.YearFor(model)

	if haveWarranty && haveModelYear {
		drift := warrantyPurchase.Year() - modelYear
		if drift < 0 {
			drift = -drift
		}

		if drift > modelYearToleranceYears {
			return midYear(modelYear), ageSourceModelYear
		}

		return warrantyPurchase, ageSourceWarranty
	}

	if haveWarranty {
		return warrantyPurchase, ageSourceWarranty
	}

	if haveModelYear {
		return midYear(modelYear), ageSourceModelYear
	}

	if nameYear, ok := hardware.YearFor(name); ok {
		return midYear(nameYear), ageSourceNameYear
	}

	return time.Time{}, ""
}

// midYear anchors a bare release year at July 1st, splitting the
// difference on when in the year the device actually shipped.
func midYear(year int) time.Time {
	return time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
}

func isTruthy(s string) bool {
	switch s {
	case "true", "True", "TRUE", "yes", "Yes", "1":
		return true
	default:
		return false
	}
}
