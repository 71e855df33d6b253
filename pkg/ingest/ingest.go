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

// Package ingest holds the machinery shared by the per-source
// transformers: deterministic device ids, defensive date parsing, and
// ownership resolution. Source-specific column handling lives in the
// subpackages.
package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/models"
)

// deviceNamespace anchors deterministic device UUIDs. Never change this
// value: re-imports must keep producing the same ids.
var deviceNamespace = uuid.MustParse("a7f1c9e2-4b3d-4f6a-9c8e-2d5b7e1f0a64")

// DeviceID derives the stable device id from the source tag and the
// strongest per-record anchor (serial number, falling back to device
// name). The same raw input always yields the same id, so re-imports are
// idempotent.
func DeviceID(source models.InventorySource, anchor string) string {
	anchor = strings.ToLower(strings.TrimSpace(anchor))

	return "ar:" + uuid.NewSHA1(deviceNamespace, []byte(string(source)+"|"+anchor)).String()
}

// dateFormats are tried in order against export date cells.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
}

// ParseDate parses an export date cell defensively. Sentinel and epoch
// values and out-of-range years resolve to unknown (zero time, false)
// rather than an error; corrupt exports routinely carry both.
func ParseDate(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		t, err := time.Parse(format, raw)
		if err != nil {
			continue
		}

		if t.Year() < 2000 || t.Year() > now.Year()+2 {
			return time.Time{}, false
		}

		return t, true
	}

	return time.Time{}, false
}

// AgeYears computes the age in years at one-decimal precision. A zero or
// future reference date yields 0, the "unknown" marker.
func AgeYears(since, now time.Time) float64 {
	if since.IsZero() || !since.Before(now) {
		return 0
	}

	years := now.Sub(since).Hours() / (24 * 365.25)

	return float64(int(years*10+0.5)) / 10
}

// DaysSince returns whole days elapsed, or -1 for an unknown timestamp.
func DaysSince(t, now time.Time) int {
	if t.IsZero() || t.After(now) {
		return -1
	}

	return int(now.Sub(t).Hours() / 24)
}

// OwnerResolution is the outcome of the declared-owner reconciliation.
type OwnerResolution struct {
	Owner          string
	OwnerEmail     string
	SecondaryOwner string
	Note           string
}

// ResolveOwnership reconciles a declared owner against the provisioner
// set and the secondary signals (computing id embedded in the device
// name, directory lookup of the declared email).
//
// A provisioner declared as owner is swapped out: the recovered end user
// becomes primary and the provisioner is kept as secondary. An explicit
// "unassigned" owner is replaced outright when a real user resolves. The
// result never has primary and secondary naming the same identity.
func ResolveOwnership(
	declared, declaredEmail, deviceName string,
	dir *identity.Directory,
	provisioners *identity.ProvisionerSet,
) OwnerResolution {
	declared = strings.TrimSpace(declared)
	declaredEmail = strings.TrimSpace(declaredEmail)

	isProvisioner := provisioners.Contains(declared) || provisioners.Contains(declaredEmail)
	isUnassigned := identity.IsUnassigned(declared)

	if !isProvisioner && !isUnassigned {
		return OwnerResolution{Owner: declared, OwnerEmail: declaredEmail}
	}

	recovered, recoveredEmail := recoverOwner(deviceName, declaredEmail, dir, provisioners)

	if isUnassigned {
		if recovered == "" {
			return OwnerResolution{OwnerEmail: declaredEmail}
		}

		// Promotion: a real user resolved for an unassigned device takes
		// primary with no secondary.
		return OwnerResolution{
			Owner:      recovered,
			OwnerEmail: recoveredEmail,
			Note:       "owner resolved from device identity signals",
		}
	}

	if recovered == "" || identity.SameIdentity(recovered, declared) {
		return OwnerResolution{Owner: declared, OwnerEmail: declaredEmail}
	}

	return OwnerResolution{
		Owner:          recovered,
		OwnerEmail:     recoveredEmail,
		SecondaryOwner: declared,
		Note:           "provisioner " + declared + " moved to secondary owner",
	}
}

// recoverOwner tries the secondary ownership signals in confidence order:
// computing ids embedded in the device name first, then the declared
// email. Provisioner identities never count as recovered end users.
func recoverOwner(
	deviceName, declaredEmail string,
	dir *identity.Directory,
	provisioners *identity.ProvisionerSet,
) (name, email string) {
	candidates := identity.ExtractComputingIDs(deviceName)
	candidates = append(candidates, identity.ExtractComputingIDs(declaredEmail)...)

	for _, id := range candidates {
		if provisioners.Contains(id) {
			continue
		}

		entry, ok := dir.Lookup(id)
		if !ok || entry.DisplayName == "" {
			continue
		}

		return entry.DisplayName, entry.Email
	}

	return "", ""
}
