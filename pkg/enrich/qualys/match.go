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

	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/models"
)

// minSubstringLength guards the containment strategy against trivial
// matches on short names.
const minSubstringLength = 5

// assetIndex precomputes the lookup structures the matching waterfall
// needs, built once per enrichment run.
type assetIndex struct {
	assets []AssetRow
	byName map[string]int
	byUser map[string]int
}

func newAssetIndex(assets []AssetRow) *assetIndex {
	idx := &assetIndex{
		assets: assets,
		byName: make(map[string]int, len(assets)*2),
		byUser: make(map[string]int, len(assets)),
	}

	// First asset wins on key collisions so matching stays deterministic
	// for duplicate export rows.
	for i, asset := range assets {
		if name := strings.ToLower(strings.TrimSpace(asset.Name)); name != "" {
			if _, ok := idx.byName[name]; !ok {
				idx.byName[name] = i
			}
		}

		if alt := strings.ToLower(strings.TrimSpace(asset.AltName)); alt != "" {
			if _, ok := idx.byName[alt]; !ok {
				idx.byName[alt] = i
			}
		}

		for _, id := range identity.ExtractComputingIDs(asset.LastLoggedOnUser) {
			if _, ok := idx.byUser[id]; !ok {
				idx.byUser[id] = i
			}
		}
	}

	return idx
}

// matchStrategy is one step of the waterfall. Returns the matched asset
// index or -1.
type matchStrategy struct {
	name  string
	match func(device *models.Device, idx *assetIndex) int
}

// strategies run in confidence order; the first hit wins. Serial and MAC
// matching are extension points: the current exports carry neither field,
// so both report no match until the exports grow them.
var strategies = []matchStrategy{
	{name: "exact-name", match: matchExactName},
	{name: "logged-on-user", match: matchLoggedOnUser},
	{name: "name-containment", match: matchContainment},
	{name: "serial", match: matchNever},
	{name: "mac", match: matchNever},
}

func matchExactName(device *models.Device, idx *assetIndex) int {
	name := strings.ToLower(strings.TrimSpace(device.Name))
	if name == "" {
		return -1
	}

	if i, ok := idx.byName[name]; ok {
		return i
	}

	return -1
}

func matchLoggedOnUser(device *models.Device, idx *assetIndex) int {
	seen := make(map[string]struct{})

	for _, text := range []string{device.Name, device.Owner, device.OwnerEmail} {
		for _, id := range identity.ExtractComputingIDs(text) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			if i, ok := idx.byUser[id]; ok {
				return i
			}
		}
	}

	return -1
}

func matchContainment(device *models.Device, idx *assetIndex) int {
	name := strings.ToLower(strings.TrimSpace(device.Name))
	if len(name) < minSubstringLength {
		return -1
	}

	for i := range idx.assets {
		asset := strings.ToLower(strings.TrimSpace(idx.assets[i].Name))
		if len(asset) < minSubstringLength {
			continue
		}

		if strings.Contains(asset, name) || strings.Contains(name, asset) {
			return i
		}
	}

	return -1
}

func matchNever(*models.Device, *assetIndex) int {
	return -1
}

// findAsset runs the waterfall for one device. Returns the asset index
// and the strategy that hit, or -1.
func (idx *assetIndex) findAsset(device *models.Device) (int, string) {
	for _, strategy := range strategies {
		if i := strategy.match(device, idx); i >= 0 {
			return i, strategy.name
		}
	}

	return -1, ""
}
