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

package identity

import "strings"

// unassignedSentinels are the explicit "nobody owns this" values seen in
// the exports.
var unassignedSentinels = map[string]struct{}{
	"":           {},
	"unassigned": {},
	"none":       {},
	"n/a":        {},
	"na":         {},
	"-":          {},
}

// ProvisionerSet holds the IT-staff identities that show up as declared
// owners on devices they merely set up. Matching is case-insensitive over
// names, emails, and computing ids.
type ProvisionerSet struct {
	members map[string]struct{}
}

// NewProvisionerSet builds the set from configured identities.
func NewProvisionerSet(identities []string) *ProvisionerSet {
	set := &ProvisionerSet{members: make(map[string]struct{}, len(identities))}

	for _, id := range identities {
		normalized := normalizeIdentity(id)
		if normalized == "" {
			continue
		}
		set.members[normalized] = struct{}{}
	}

	return set
}

// Contains reports whether the identity belongs to a provisioner. The
// local part of an email is also checked, so "deploy@example.edu" and
// "deploy" both match a configured "deploy".
func (p *ProvisionerSet) Contains(identity string) bool {
	if p == nil {
		return false
	}

	normalized := normalizeIdentity(identity)
	if normalized == "" {
		return false
	}

	if _, ok := p.members[normalized]; ok {
		return true
	}

	if at := strings.IndexByte(normalized, '@'); at > 0 {
		if _, ok := p.members[normalized[:at]]; ok {
			return true
		}
	}

	return false
}

// IsUnassigned reports whether a declared owner value is an explicit
// "unassigned" sentinel rather than a person.
func IsUnassigned(owner string) bool {
	_, ok := unassignedSentinels[normalizeIdentity(owner)]

	return ok
}

// SameIdentity reports whether two owner strings refer to the same
// identity after normalization. Used to enforce that a primary owner
// never reappears as its own secondary.
func SameIdentity(a, b string) bool {
	na, nb := normalizeIdentity(a), normalizeIdentity(b)

	return na != "" && na == nb
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
