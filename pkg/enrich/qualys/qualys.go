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

// Package qualys attaches vulnerability-scanner data to canonical
// devices. Matching is a waterfall of strategies in confidence order;
// a device the scanner has never seen passes through untouched, which
// keeps "never scanned" distinguishable from "scanned, zero findings".
package qualys

import (
	"sort"

	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
)

const severityHigh = 4

// Enrich attaches at most one scanner asset, plus that asset's findings,
// to each device. Devices are updated in place and the same slice is
// returned. Enrichment is strictly additive: no match leaves the device
// exactly as it was.
func Enrich(
	devices []*models.Device,
	assets []AssetRow,
	findings []FindingRow,
	policy config.Policy,
	log logger.Logger,
) []*models.Device {
	if len(devices) == 0 || len(assets) == 0 {
		return devices
	}

	idx := newAssetIndex(assets)
	findingsByHost := groupFindings(findings)

	matched := 0

	for _, device := range devices {
		assetPos, strategy := idx.findAsset(device)
		if assetPos < 0 {
			continue
		}

		attach(device, &assets[assetPos], findingsByHost, policy)
		device.Annotate("qualys", "scanner asset matched by "+strategy)
		matched++
	}

	log.Info().
		Int("devices", len(devices)).
		Int("matched", matched).
		Int("assets", len(assets)).
		Int("findings", len(findings)).
		Msg("security enrichment complete")

	return devices
}

func attach(device *models.Device, asset *AssetRow, findingsByHost map[string][]models.SecurityFinding, policy config.Policy) {
	summary := &models.SecuritySummary{
		AgentID:     asset.AgentID,
		HostID:      asset.HostID,
		IP:          asset.IP,
		RiskScore:   parseFloat(asset.RiskScore),
		Criticality: parseInt(asset.Criticality),
		LastScan:    parseScanDate(asset.LastScan),
	}

	hostFindings := findingsByHost[asset.HostID]
	summary.Findings = make([]models.SecurityFinding, len(hostFindings))
	copy(summary.Findings, hostFindings)

	sortFindings(summary.Findings)

	for _, finding := range summary.Findings {
		summary.TotalFindings++

		switch {
		case finding.Severity >= severityHigh+1:
			summary.CriticalFindings++
			summary.HighOrCritical++
		case finding.Severity == severityHigh:
			summary.HighFindings++
			summary.HighOrCritical++
		}

		if finding.CVE != "" && len(summary.TopCVEs) < policy.TopCVELimit {
			summary.TopCVEs = append(summary.TopCVEs, finding.CVE)
		}
	}

	device.Security = summary
}

// groupFindings converts finding rows into model findings keyed by host.
func groupFindings(rows []FindingRow) map[string][]models.SecurityFinding {
	byHost := make(map[string][]models.SecurityFinding, len(rows))

	for _, row := range rows {
		byHost[row.HostID] = append(byHost[row.HostID], models.SecurityFinding{
			QID:           row.QID,
			Title:         row.Title,
			Severity:      parseInt(row.Severity),
			CVE:           row.CVE,
			Category:      row.Category,
			FirstDetected: parseScanDate(row.FirstDetected),
			LastDetected:  parseScanDate(row.LastDetected),
			RiskScore:     parseFloat(row.RiskScore),
			Solution:      row.Solution,
			Threat:        row.Threat,
			Impact:        row.Impact,
		})
	}

	return byHost
}

// sortFindings orders by severity descending, then risk sub-score
// descending, stable so equal findings keep export order.
func sortFindings(findings []models.SecurityFinding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity != findings[j].Severity {
			return findings[i].Severity > findings[j].Severity
		}

		return findings[i].RiskScore > findings[j].RiskScore
	})
}
