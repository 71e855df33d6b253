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

// Package tabular parses the messy delimited exports produced by endpoint
// management consoles. The parser is a streaming quote-state machine
// rather than a line splitter: quoted fields may contain commas, doubled
// quotes, and literal newlines, and those must land in one row.
//
// Data quality problems never fail a parse. Short rows are padded with
// empty strings, extra cells are dropped, and blank lines are skipped,
// so a partially corrupt export still yields every recoverable row in
// input order.
package tabular

import (
	"strings"

	"github.com/carverauto/assetradar/pkg/models"
)

const bom = "\ufeff"

// Parse converts raw delimited text into one RawRecord per data row,
// keyed by the trimmed header names from the first row. Returns nil for
// empty or header-only input.
func Parse(raw string) []models.RawRecord {
	rows := splitRows(raw)
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]models.RawRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		record := make(models.RawRecord, len(header))

		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}

		records = append(records, record)
	}

	return records
}

// splitRows runs the quote-state machine over the whole input, producing
// one cell slice per logical row. CRLF and LF are both accepted; a BOM on
// the first cell is stripped.
func splitRows(raw string) [][]string {
	raw = strings.TrimPrefix(raw, bom)
	if raw == "" {
		return nil
	}

	var (
		rows     [][]string
		row      []string
		cell     strings.Builder
		inQuotes bool
	)

	endCell := func() {
		row = append(row, cell.String())
		cell.Reset()
	}

	endRow := func() {
		endCell()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(raw) && raw[i+1] == '"' {
					// Doubled quote is an escaped literal quote.
					cell.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				cell.WriteByte(c)
			}
		case c == '"' && cell.Len() == 0:
			inQuotes = true
		case c == ',':
			endCell()
		case c == '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			endRow()
		case c == '\n':
			endRow()
		default:
			cell.WriteByte(c)
		}
	}

	if cell.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return rows
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
