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

// Package directory reconciles device ownership against the
// device-to-user cross-reference export. The cross-reference is a
// higher-confidence signal than the name-pattern extraction the
// transformers use, but it still never overwrites a resolved
// non-provisioner primary owner.
package directory

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

// CrossRefRow is one row of the device-to-user export.
type CrossRefRow struct {
	DeviceName string `csv:"Display name"`
	UPN        string `csv:"User principal name"`
	Department string `csv:"Department"`
	Compliance string `csv:"Compliance state"`
}

// Mapping is the device-name keyed ownership map built from the export.
type Mapping struct {
	byDevice map[string]CrossRefRow
}

// ParseCrossRef decodes the export into a Mapping. Device names are keyed
// lowercase; later rows win.
func ParseCrossRef(r io.Reader) (*Mapping, error) {
	var rows []*CrossRefRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	mapping := &Mapping{byDevice: make(map[string]CrossRefRow, len(rows))}

	for _, row := range rows {
		name := strings.ToLower(strings.TrimSpace(row.DeviceName))
		if name == "" || strings.TrimSpace(row.UPN) == "" {
			continue
		}

		mapping.byDevice[name] = *row
	}

	return mapping, nil
}

// NewMapping builds a Mapping directly from rows; used by tests and by
// callers that already hold decoded rows.
func NewMapping(rows []CrossRefRow) *Mapping {
	mapping := &Mapping{byDevice: make(map[string]CrossRefRow, len(rows))}

	for _, row := range rows {
		name := strings.ToLower(strings.TrimSpace(row.DeviceName))
		if name == "" || strings.TrimSpace(row.UPN) == "" {
			continue
		}

		mapping.byDevice[name] = row
	}

	return mapping
}

// Len reports the number of mapped devices.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.byDevice)
}

// EnrichOwnership reconciles every device against the mapping:
//
//   - provisioner or unassigned primary: the mapped user is promoted to
//     primary and a provisioner primary is demoted to secondary;
//   - resolved primary that disagrees with the mapping: the mapped user
//     is attached as secondary if that slot is free;
//   - resolved primary that agrees: no change.
//
// Every change is annotated so the decision can be audited.
func EnrichOwnership(
	devices []*models.Device,
	mapping *Mapping,
	dir *identity.Directory,
	provisioners *identity.ProvisionerSet,
	log logger.Logger,
) []*models.Device {
	if mapping.Len() == 0 {
		return devices
	}

	promoted, attached := 0, 0

	for _, device := range devices {
		row, ok := mapping.byDevice[strings.ToLower(strings.TrimSpace(device.Name))]
		if !ok {
			continue
		}

		mappedName, mappedEmail := resolveMappedUser(row.UPN, dir)
		if mappedName == "" || provisioners.Contains(mappedName) || provisioners.Contains(row.UPN) {
			continue
		}

		if device.Department == "" {
			device.Department = strings.TrimSpace(row.Department)
		}

		currentIsProvisioner := provisioners.Contains(device.Owner) || provisioners.Contains(device.OwnerEmail)

		switch {
		case !device.HasOwner() || identity.IsUnassigned(device.Owner):
			device.Owner = mappedName
			device.OwnerEmail = mappedEmail
			device.Annotate("directory", "owner "+mappedName+" assigned from device-to-user mapping")
			promoted++
		case currentIsProvisioner:
			previous := device.Owner
			device.Owner = mappedName
			device.OwnerEmail = mappedEmail

			if !identity.SameIdentity(previous, mappedName) {
				device.SecondaryOwner = previous
			} else {
				device.SecondaryOwner = ""
			}

			device.Annotate("directory", "provisioner "+previous+" replaced by mapped owner "+mappedName)
			promoted++
		case !identity.SameIdentity(device.Owner, mappedName) && device.SecondaryOwner == "":
			device.SecondaryOwner = mappedName
			device.Annotate("directory", "device-to-user mapping disagrees; "+mappedName+" kept as secondary")
			attached++
		}

		// A mapped user equal to the resolved primary never lingers as
		// secondary.
		if identity.SameIdentity(device.Owner, device.SecondaryOwner) {
			device.SecondaryOwner = ""
		}
	}

	log.Info().
		Int("devices", len(devices)).
		Int("mapped", mapping.Len()).
		Int("promoted", promoted).
		Int("attached_secondary", attached).
		Msg("directory ownership enrichment complete")

	return devices
}

// resolveMappedUser turns a UPN into a display name and email via the
// roster, falling back to the UPN local part.
func resolveMappedUser(upn string, dir *identity.Directory) (name, email string) {
	upn = strings.TrimSpace(upn)
	if upn == "" {
		return "", ""
	}

	if id := identity.FirstComputingID(upn); id != "" {
		if entry, ok := dir.Lookup(id); ok && entry.DisplayName != "" {
			return entry.DisplayName, entry.Email
		}
	}

	name = upn
	if at := strings.IndexByte(upn, '@'); at > 0 {
		name = upn[:at]
	}

	return name, upn
}
