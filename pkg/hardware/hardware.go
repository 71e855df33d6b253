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

// Package hardware maps endpoint model identifiers to release years and
// generation markers. The table is static data, kept separate from
// pipeline logic so it can grow without touching any stage.
package hardware

import (
	"regexp"
	"strconv"
	"strings"
)

// Generation is a coarse hardware-generation marker used by the
// classifier's warning tier.
type Generation string

const (
	GenerationUnknown Generation = "unknown"
	// GenerationLegacy covers Intel-era Mac hardware and similar aged
	// platforms that warrant a warning on their own.
	GenerationLegacy Generation = "legacy"
	GenerationModern Generation = "modern"
)

// modelYears maps model-identifier prefixes to release years. Longest
// prefix wins. Identifiers follow Apple's Model Identifier convention;
// non-Apple models resolve through the year-suffix fallback instead.
var modelYears = map[string]int{
	"MacBookPro11": 2014,
	"MacBookPro12": 2015,
	"MacBookPro13": 2016,
	"MacBookPro14": 2017,
	"MacBookPro15": 2018,
	"MacBookPro16": 2019,
	"MacBookPro17": 2020,
	"MacBookPro18": 2021,
	"Mac14":        2022,
	"Mac15":        2023,
	"Mac16":        2024,
	"MacBookAir7":  2015,
	"MacBookAir8":  2018,
	"MacBookAir9":  2020,
	"MacBookAir10": 2020,
	"MacBook8":     2015,
	"MacBook9":     2016,
	"MacBook10":    2017,
	"Macmini7":     2014,
	"Macmini8":     2018,
	"Macmini9":     2020,
	"iMac16":       2015,
	"iMac17":       2015,
	"iMac18":       2017,
	"iMac19":       2019,
	"iMac20":       2020,
	"iMac21":       2021,
	"MacPro6":      2013,
	"MacPro7":      2019,
	"VirtualMac2":  2022,
}

// legacyMarkers flag model families old enough to warn on regardless of
// any other signal. Apple-silicon and later identifiers count as modern.
var legacyMarkers = []string{
	"MacBookPro11", "MacBookPro12", "MacBookPro13", "MacBookPro14",
	"MacBookPro15", "MacBookPro16",
	"MacBookAir7", "MacBookAir8", "MacBookAir9",
	"MacBook8", "MacBook9", "MacBook10",
	"Macmini7", "Macmini8",
	"iMac16", "iMac17", "iMac18", "iMac19", "iMac20",
	"MacPro6",
}

var modernMarkers = []string{
	"MacBookPro17", "MacBookPro18", "Mac14", "Mac15", "Mac16",
	"MacBookAir10", "Macmini9", "iMac21", "MacPro7", "VirtualMac2",
}

// embeddedYear matches a plausible 4-digit release year inside a model
// string or device name, e.g. "Latitude 5520 (2021)" or "FBS-jsm2ku-2022".
var embeddedYear = regexp.MustCompile(`\b(20[0-3][0-9])\b`)

// YearFor resolves the release year for a model string. The identifier
// table is consulted first (longest prefix wins); otherwise a 4-digit
// year embedded in the string is used. Returns false when neither signal
// is present.
func YearFor(model string) (int, bool) {
	model = strings.TrimSpace(model)
	if model == "" {
		return 0, false
	}

	normalized := strings.ReplaceAll(model, " ", "")

	var (
		bestYear int
		bestLen  int
	)

	for prefix, year := range modelYears {
		if strings.HasPrefix(normalized, prefix) && len(prefix) > bestLen {
			// Guard against MacBookPro1 matching MacBookPro14,1.
			rest := normalized[len(prefix):]
			if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
				continue
			}
			bestYear = year
			bestLen = len(prefix)
		}
	}

	if bestLen > 0 {
		return bestYear, true
	}

	if match := embeddedYear.FindString(model); match != "" {
		year, err := strconv.Atoi(match)
		if err == nil {
			return year, true
		}
	}

	return 0, false
}

// GenerationFor classifies a model string into a hardware generation.
func GenerationFor(model string) Generation {
	normalized := strings.ReplaceAll(strings.TrimSpace(model), " ", "")
	if normalized == "" {
		return GenerationUnknown
	}

	for _, marker := range modernMarkers {
		if hasModelPrefix(normalized, marker) {
			return GenerationModern
		}
	}

	for _, marker := range legacyMarkers {
		if hasModelPrefix(normalized, marker) {
			return GenerationLegacy
		}
	}

	return GenerationUnknown
}

func hasModelPrefix(normalized, prefix string) bool {
	if !strings.HasPrefix(normalized, prefix) {
		return false
	}

	rest := normalized[len(prefix):]

	return rest == "" || rest[0] < '0' || rest[0] > '9'
}
