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
	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/models"
)

// ApplyOverlay layers the externally persisted settings over the computed
// devices: retired flags, user-edited notes, and manual owner overrides.
// User edits take precedence over every computed value. The overlay is
// read-only input; the pipeline never writes it back.
func ApplyOverlay(devices []*models.Device, overlay *models.SettingsOverlay) []*models.Device {
	if overlay == nil {
		return devices
	}

	for _, device := range devices {
		if overlay.IsRetired(device.DeviceID) {
			device.Retired = true
		}

		if notes, ok := overlay.NotesByID[device.DeviceID]; ok {
			device.Notes = notes
		}

		if owner, ok := overlay.OwnerOverrides[device.DeviceID]; ok && owner != "" {
			if !identity.SameIdentity(device.Owner, owner) {
				device.Annotate("settings", "owner manually set to "+owner)
			}

			device.Owner = owner
			device.OwnerEmail = ""

			if identity.SameIdentity(device.Owner, device.SecondaryOwner) {
				device.SecondaryOwner = ""
			}
		}
	}

	return devices
}
