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

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/carverauto/assetradar/pkg/models"
)

// Directory is the case-insensitive computing-id lookup built once per
// pipeline run from the roster export. It is read-only during a run and
// threaded through stages as an explicit parameter so runs stay
// independently testable and re-entrant.
type Directory struct {
	entries map[string]models.DirectoryEntry
}

// rosterRow is the roster export schema as decoded by gocsv.
type rosterRow struct {
	ComputingID string `csv:"Computing ID"`
	Email       string `csv:"Email"`
	DisplayName string `csv:"Display Name"`
	Restricted  string `csv:"Restricted"`
}

// NewDirectory builds a Directory from entries, keyed by lowercase
// computing id. Later duplicates win, matching the last-wins convention
// of the exports.
func NewDirectory(entries []models.DirectoryEntry) *Directory {
	dir := &Directory{entries: make(map[string]models.DirectoryEntry, len(entries))}

	for _, entry := range entries {
		id := strings.ToLower(strings.TrimSpace(entry.ComputingID))
		if id == "" {
			continue
		}
		entry.ComputingID = id
		dir.entries[id] = entry
	}

	return dir
}

// ParseRoster decodes the roster export into directory entries. Rows
// without a computing id are dropped.
func ParseRoster(r io.Reader) ([]models.DirectoryEntry, error) {
	var rows []*rosterRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	entries := make([]models.DirectoryEntry, 0, len(rows))

	for _, row := range rows {
		id := strings.ToLower(strings.TrimSpace(row.ComputingID))
		if id == "" {
			continue
		}

		entries = append(entries, models.DirectoryEntry{
			ComputingID: id,
			Email:       strings.TrimSpace(row.Email),
			DisplayName: strings.TrimSpace(row.DisplayName),
			Restricted:  strings.EqualFold(strings.TrimSpace(row.Restricted), "yes"),
		})
	}

	return entries, nil
}

// Lookup returns the directory entry for a computing id, case-insensitive.
func (d *Directory) Lookup(id string) (models.DirectoryEntry, bool) {
	if d == nil {
		return models.DirectoryEntry{}, false
	}

	entry, ok := d.entries[strings.ToLower(strings.TrimSpace(id))]

	return entry, ok
}

// Resolve recovers the display name for a computing id, falling back to
// the id itself when the roster has no entry.
func (d *Directory) Resolve(id string) string {
	if entry, ok := d.Lookup(id); ok && entry.DisplayName != "" {
		return entry.DisplayName
	}

	return id
}

// ResolveEmail recovers the email for a computing id, or empty string.
func (d *Directory) ResolveEmail(id string) string {
	if entry, ok := d.Lookup(id); ok {
		return entry.Email
	}

	return ""
}

// Len reports the number of roster entries loaded.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}

	return len(d.entries)
}
