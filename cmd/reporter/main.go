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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carverauto/assetradar/pkg/config"
	"github.com/carverauto/assetradar/pkg/logger"
	"github.com/carverauto/assetradar/pkg/models"
	"github.com/carverauto/assetradar/pkg/pipeline"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to reporter config file (defaults apply when empty)")
	jamfPath := flag.String("jamf", "", "Path to the endpoint-management CSV export")
	intunePath := flag.String("intune", "", "Path to the Windows-management CSV export")
	rosterPath := flag.String("roster", "", "Path to the personnel roster CSV export")
	assetsPath := flag.String("assets", "", "Path to the scanner asset CSV export")
	findingsPath := flag.String("findings", "", "Path to the scanner findings CSV export")
	crossRefPath := flag.String("crossref", "", "Path to the device-to-user CSV export")
	overlayPath := flag.String("overlay", "", "Path to the settings overlay JSON file")
	outputPath := flag.String("output", "", "Report output path (stdout when empty)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logInstance, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	overlay, err := loadOverlay(*overlayPath)
	if err != nil {
		return err
	}

	inputs := pipeline.Inputs{Overlay: overlay}

	for _, src := range []struct {
		path string
		dst  *string
	}{
		{*jamfPath, &inputs.JamfCSV},
		{*intunePath, &inputs.IntuneCSV},
		{*rosterPath, &inputs.RosterCSV},
		{*assetsPath, &inputs.AssetsCSV},
		{*findingsPath, &inputs.FindingsCSV},
		{*crossRefPath, &inputs.CrossRefCSV},
	} {
		if src.path == "" {
			continue
		}

		data, err := os.ReadFile(src.path)
		if err != nil {
			return fmt.Errorf("failed to read export %s: %w", src.path, err)
		}

		*src.dst = string(data)
	}

	report := pipeline.Run(inputs, cfg, logInstance)

	return writeReport(report, *outputPath)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.Load(path)
}

func loadOverlay(path string) (*models.SettingsOverlay, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay: %w", err)
	}

	var overlay models.SettingsOverlay
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse overlay: %w", err)
	}

	return &overlay, nil
}

func writeReport(report *pipeline.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
