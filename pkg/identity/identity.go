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

// Package identity extracts computing ids from free text and resolves
// them against the directory roster. Computing ids are the institution's
// short usernames (e.g. jsm2ku) embedded in device names and emails, and
// are the primary cross-system join key for ownership.
package identity

import (
	"regexp"
	"strings"
)

// minIDLength rejects matches short enough to be serial-number fragments.
const minIDLength = 4

// idPatterns are tried in priority order; every pattern captures the
// candidate id in group 1. Naming conventions covered:
//
//	PREFIX-{id}-{suffix}   e.g. FBS-jsm2ku-2022
//	PREFIX-{id}            e.g. LAB-tkw7cf
//	{id}@domain            e.g. jsm2ku@example.edu
//	DOMAIN\{id}            e.g. EXAMPLE\jsm2ku
//	bare {id}              e.g. jsm2ku
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[a-z]{2,5}-([a-z]{2,3}[0-9][a-z0-9]{1,3})-[a-z0-9]`),
	regexp.MustCompile(`(?i)\b[a-z]{2,5}-([a-z]{2,3}[0-9][a-z0-9]{1,3})\b`),
	regexp.MustCompile(`(?i)\b([a-z]{2,3}[0-9][a-z0-9]{1,3})@`),
	regexp.MustCompile(`(?i)\\([a-z]{2,3}[0-9][a-z0-9]{1,3})\b`),
	regexp.MustCompile(`(?i)^([a-z]{2,3}[0-9][a-z0-9]{1,3})$`),
}

// ExtractComputingIDs pulls every computing id candidate out of free text.
// Matches are lowercased, deduplicated, and returned in pattern-priority
// then first-occurrence order. Pure and deterministic.
func ExtractComputingIDs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		ids  []string
		seen = make(map[string]struct{})
	)

	for _, pattern := range idPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			id := strings.ToLower(match[1])
			if len(id) < minIDLength {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	return ids
}

// FirstComputingID returns the highest-priority computing id in the text,
// or empty string when none match.
func FirstComputingID(text string) string {
	ids := ExtractComputingIDs(text)
	if len(ids) == 0 {
		return ""
	}

	return ids[0]
}
