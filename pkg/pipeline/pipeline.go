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

// Package pipeline runs the full reconciliation pass: parse the source
// exports, transform them to canonical devices, enrich with scanner and
// directory data, apply the settings overlay, and reduce to summary
// aggregates. One Run is a synchronous batch over immutable input
// snapshots; concurrent runs share nothing.
package pipeline

import (
	"strings"
	"time"

	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/enrich/directory"
	"github.com/carverauto/assetradar/pkg/enrich/qualys"
	"github.com/carverauto/assetradar/pkg/identity"
	"github.com/carverauto/assetradar/pkg/ingest/intune"
	"github.com/carverauto/assetradar/pkg/ingest/jamf"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
	"github.com/carverauto/assetradar/pkg/tabular"
)

// Inputs holds the raw export blobs for one run. Any field may be empty;
// a missing export simply contributes nothing.
type Inputs struct {
	JamfCSV     string
	IntuneCSV   string
	RosterCSV   string
	AssetsCSV   string
	FindingsCSV string
	CrossRefCSV string

	Overlay *models.SettingsOverlay

	// Now anchors age and recency math for the whole run. Zero means
	// wall-clock time.
	Now time.Time
}

// Report is the pipeline output consumed by the surrounding layers.
type Report struct {
	Devices     []*models.Device `json:"devices"`
	Summary     *models.Summary  `json:"summary"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Run executes the full pipeline. Data-quality problems inside any export
// degrade that export's contribution instead of failing the run; a fully
// empty input set yields an empty report.
func Run(in Inputs, cfg *config.Config, log logger.Logger) *Report {
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	dir := loadRoster(in.RosterCSV, log)
	provisioners := identity.NewProvisionerSet(cfg.Provisioners)

	jamfDevices := jamf.Transform(tabular.Parse(in.JamfCSV), dir, provisioners, cfg.Policy, now, log)
	intuneDevices := intune.Transform(tabular.Parse(in.IntuneCSV), dir, provisioners, cfg.Policy, now, log)

	devices := Merge(jamfDevices, intuneDevices)

	devices = qualys.Enrich(devices, loadAssets(in.AssetsCSV, log), loadFindings(in.FindingsCSV, log), cfg.Policy, log)
	devices = directory.EnrichOwnership(devices, loadCrossRef(in.CrossRefCSV, log), dir, provisioners, log)
	devices = ApplyOverlay(devices, in.Overlay)

	return &Report{
		Devices:     devices,
		Summary:     Summarize(devices, cfg.Policy),
		GeneratedAt: now,
	}
}

// The load helpers keep Run total: a structurally unreadable export is
// logged and contributes nothing, matching the rule that data quality
// never fails a run.

func loadRoster(csv string, log logger.Logger) *identity.Directory {
	if strings.TrimSpace(csv) == "" {
		return identity.NewDirectory(nil)
	}

	entries, err := identity.ParseRoster(strings.NewReader(csv))
	if err != nil {
		log.Warn().Err(err).Msg("roster export unreadable; continuing without directory data")
		return identity.NewDirectory(nil)
	}

	return identity.NewDirectory(entries)
}

func loadAssets(csv string, log logger.Logger) []qualys.AssetRow {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	assets, err := qualys.ParseAssets(strings.NewReader(csv))
	if err != nil {
		log.Warn().Err(err).Msg("scanner asset export unreadable; skipping security enrichment")
		return nil
	}

	return assets
}

func loadFindings(csv string, log logger.Logger) []qualys.FindingRow {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	findings, err := qualys.ParseFindings(strings.NewReader(csv))
	if err != nil {
		log.Warn().Err(err).Msg("scanner findings export unreadable; assets attach without findings")
		return nil
	}

	return findings
}

func loadCrossRef(csv string, log logger.Logger) *directory.Mapping {
	if strings.TrimSpace(csv) == "" {
		return directory.NewMapping(nil)
	}

	mapping, err := directory.ParseCrossRef(strings.NewReader(csv))
	if err != nil {
		log.Warn().Err(err).Msg("device-to-user export unreadable; skipping ownership enrichment")
		return directory.NewMapping(nil)
	}

	return mapping
}
