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
	"sort"

	"github.com/carverauto/assetradar/pkg/models"
)

// Merge concatenates the per-source device lists into the display order:
// status severity ascending (critical first), then age descending within
// equal status. The sort is stable, so equal keys keep their input order.
//
// No cross-source identity collapse happens here: the same physical asset
// reported by two sources appears twice, once per source. That is a known
// and accepted property of the reconciliation model.
func Merge(lists ...[]*models.Device) []*models.Device {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	merged := make([]*models.Device, 0, total)
	for _, list := range lists {
		merged = append(merged, list...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		si, sj := merged[i].Status.Severity(), merged[j].Status.Severity()
		if si != sj {
			return si < sj
		}

		return merged[i].AgeYears > merged[j].AgeYears
	})

	return merged
}
