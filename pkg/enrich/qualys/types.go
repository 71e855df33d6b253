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
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// AssetRow is one row of the scanner asset export as decoded by gocsv.
type AssetRow struct {
	AgentID          string `csv:"Agent ID"`
	HostID           string `csv:"Host ID"`
	Name             string `csv:"Asset Name"`
	AltName          string `csv:"Alternate Name"`
	IP               string `csv:"IP Address"`
	RiskScore        string `csv:"TruRisk Score"`
	Criticality      string `csv:"Criticality"`
	Tags             string `csv:"Tags"`
	LastLoggedOnUser string `csv:"Last Logged On User"`
	LastScan         string `csv:"Last Scan Date"`
}

// FindingRow is one row of the scanner findings export.
type FindingRow struct {
	HostID        string `csv:"Host ID"`
	QID           string `csv:"QID"`
	Title         string `csv:"Title"`
	Severity      string `csv:"Severity"`
	CVE           string `csv:"CVE ID"`
	Category      string `csv:"Category"`
	FirstDetected string `csv:"First Detected"`
	LastDetected  string `csv:"Last Detected"`
	RiskScore     string `csv:"QDS"`
	Solution      string `csv:"Solution"`
	Threat        string `csv:"Threat"`
	Impact        string `csv:"Impact"`
}

// ParseAssets decodes the asset export. Rows without a host id or asset
// name are unusable for matching and are dropped.
func ParseAssets(r io.Reader) ([]AssetRow, error) {
	var rows []*AssetRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	assets := make([]AssetRow, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.HostID) == "" && strings.TrimSpace(row.Name) == "" {
			continue
		}

		assets = append(assets, *row)
	}

	return assets, nil
}

// ParseFindings decodes the findings export. Rows without a host id can
// never attach to an asset and are dropped.
func ParseFindings(r io.Reader) ([]FindingRow, error) {
	var rows []*FindingRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, err
	}

	findings := make([]FindingRow, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.HostID) == "" {
			continue
		}

		findings = append(findings, *row)
	}

	return findings, nil
}

// numeric cell helpers: scanner exports mix blanks, dashes, and floats in
// numeric columns, and none of that should fail an enrichment run.

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return int(parseFloat(s))
	}

	return n
}

var scanDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func parseScanDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, format := range scanDateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
