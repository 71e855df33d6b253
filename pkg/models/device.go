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

// Package models defines the canonical device, finding, and summary types
// shared by every pipeline stage.
package models

import (
	"strings"
	"time"
)

// Status is the health classification assigned to a device.
type Status string

const (
	StatusCritical Status = "critical"
	StatusWarning  Status = "warning"
	StatusGood     Status = "good"
	StatusInactive Status = "inactive"
	StatusUnknown  Status = "unknown"
)

// Severity returns the sort rank for a status; lower ranks sort first in
// the merged report (critical devices are shown at the top).
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 0
	case StatusWarning:
		return 1
	case StatusInactive:
		return 2
	case StatusGood:
		return 3
	default:
		return 4
	}
}

// ActivityStatus tracks whether a device has checked in recently.
type ActivityStatus string

const (
	ActivityActive   ActivityStatus = "active"
	ActivityInactive ActivityStatus = "inactive"
)

// InventorySource identifies the upstream system a record came from.
type InventorySource string

const (
	SourceJamf   InventorySource = "jamf"
	SourceIntune InventorySource = "intune"
	SourceQualys InventorySource = "qualys"
)

// Device is the unit of reconciliation: one logical device assembled from
// one source record and optionally enriched by the scanner and directory
// stages. Re-importing the same raw rows yields the same DeviceID.
type Device struct {
	DeviceID     string          `json:"device_id"`
	Name         string          `json:"name"`
	Serial       string          `json:"serial,omitempty"`
	Model        string          `json:"model,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	Source       InventorySource `json:"source"`

	Owner          string `json:"owner,omitempty"`
	OwnerEmail     string `json:"owner_email,omitempty"`
	SecondaryOwner string `json:"secondary_owner,omitempty"`
	Department     string `json:"department,omitempty"`

	PurchaseDate    time.Time `json:"purchase_date,omitempty"`
	LastSeen        time.Time `json:"last_seen,omitempty"`
	LastUpdate      time.Time `json:"last_update,omitempty"`
	AgeYears        float64   `json:"age_years"`
	DaysSinceUpdate int       `json:"days_since_update"`
	OSVersion       string    `json:"os_version,omitempty"`

	Status                 Status         `json:"status"`
	ActivityStatus         ActivityStatus `json:"activity_status"`
	StatusReasons          []string       `json:"status_reasons"`
	ReplacementRecommended bool           `json:"replacement_recommended"`
	ReplacementReason      string         `json:"replacement_reason,omitempty"`

	// Security is nil for devices the scanner has never seen; that is
	// distinct from a scanned device with zero findings.
	Security *SecuritySummary `json:"security,omitempty"`

	Annotations []Annotation `json:"annotations,omitempty"`

	Retired bool   `json:"retired"`
	Notes   string `json:"notes,omitempty"`
}

// AgeKnown reports whether the device has a usable age signal. An age of
// exactly zero means "unknown", not "brand new", and is excluded from
// average-age aggregates.
func (d *Device) AgeKnown() bool {
	return d.AgeYears > 0
}

// HasOwner reports whether a real owner was resolved.
func (d *Device) HasOwner() bool {
	return strings.TrimSpace(d.Owner) != ""
}

// SecuritySummary is the scanner enrichment attached to a matched device.
type SecuritySummary struct {
	AgentID          string            `json:"agent_id,omitempty"`
	HostID           string            `json:"host_id,omitempty"`
	IP               string            `json:"ip,omitempty"`
	RiskScore        float64           `json:"risk_score"`
	Criticality      int               `json:"criticality"`
	LastScan         time.Time         `json:"last_scan,omitempty"`
	TotalFindings    int               `json:"total_findings"`
	HighOrCritical   int               `json:"high_or_critical"`
	HighFindings     int               `json:"high_findings"`
	CriticalFindings int               `json:"critical_findings"`
	TopCVEs          []string          `json:"top_cves,omitempty"`
	Findings         []SecurityFinding `json:"findings,omitempty"`
}

// SecurityFinding is a single vulnerability detection for a host. Created
// during enrichment and immutable afterward.
type SecurityFinding struct {
	QID           string    `json:"qid"`
	Title         string    `json:"title,omitempty"`
	Severity      int       `json:"severity"`
	CVE           string    `json:"cve,omitempty"`
	Category      string    `json:"category,omitempty"`
	FirstDetected time.Time `json:"first_detected,omitempty"`
	LastDetected  time.Time `json:"last_detected,omitempty"`
	RiskScore     float64   `json:"risk_score"`
	Solution      string    `json:"solution,omitempty"`
	Threat        string    `json:"threat,omitempty"`
	Impact        string    `json:"impact,omitempty"`
}

// DirectoryEntry maps a computing id to the person behind it. Read-only
// reference data supplied by the roster import.
type DirectoryEntry struct {
	ComputingID string `json:"computing_id" csv:"Computing ID"`
	DisplayName string `json:"display_name" csv:"Display Name"`
	Email       string `json:"email" csv:"Email"`
	Restricted  bool   `json:"restricted" csv:"-"`
}

// RawRecord is one parsed row of a source export: column name to string
// value, untyped. Only the parser layer deals in raw records; transformers
// convert them to typed shapes immediately.
type RawRecord map[string]string

// Get returns the trimmed value for a column, or empty string when the
// column is absent.
func (r RawRecord) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// SettingsOverlay is the externally persisted per-device override set,
// applied after classification and enrichment. The pipeline reads it and
// never writes it.
type SettingsOverlay struct {
	RetiredDeviceIDs map[string]bool   `json:"retired_device_ids,omitempty"`
	NotesByID        map[string]string `json:"notes_by_id,omitempty"`
	OwnerOverrides   map[string]string `json:"owner_overrides,omitempty"`
}

// IsRetired reports whether the overlay marks a device retired.
func (s *SettingsOverlay) IsRetired(deviceID string) bool {
	if s == nil {
		return false
	}
	return s.RetiredDeviceIDs[deviceID]
}
