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

// Package classify assigns health status and replacement recommendations
// from age, check-in recency, OS version, and hardware generation. The
// classifier is a pure function over its inputs; every threshold comes in
// through Policy so organization policy stays configuration, not code.
package classify

import (
	"fmt"

	"github.com/Masterminds/semver"

	"github.com/carverauto/assetradar/pkg/hardware"
	"github.com/carverauto/assetradar/pkg/models"
)

// Policy carries the org-specific thresholds the classifier evaluates
// against.
type Policy struct {
	// ReplacementAgeYears is the refresh-policy age threshold.
	ReplacementAgeYears float64
	// ReplacementMaxAgeYears bounds the replacement recommendation: a
	// device older than this is presumed intentionally retained and is
	// not put on the replacement budget, whatever its status.
	ReplacementMaxAgeYears float64
	// InactivityDays is the check-in window beyond which a device is
	// inactive.
	InactivityDays int
	// UnsupportedOSMajorMax: OS majors at or below this are unsupported.
	UnsupportedOSMajorMax int64
	// AgingOSMajorMax: OS majors at or below this (but still supported)
	// are aging.
	AgingOSMajorMax int64
}

// Input is the per-device signal set the classifier reads. A negative
// DaysSinceUpdate means the device has no recorded check-in; an AgeYears
// of zero means the age is unknown.
type Input struct {
	AgeYears        float64
	DaysSinceUpdate int
	OSVersion       string
	Model           string
}

// Result is the full classification outcome. Reasons is never empty and
// ReplacementReason is set exactly when ReplacementRecommended is true.
type Result struct {
	Status                 models.Status
	ActivityStatus         models.ActivityStatus
	Reasons                []string
	ReplacementRecommended bool
	ReplacementReason      string
}

// Classify runs the precedence state machine: inactivity short-circuits
// everything else, then critical conditions, then warnings, then good.
// Reasons are additive within a tier; status is the tier that fired.
func Classify(in Input, policy Policy) Result {
	result := Result{ActivityStatus: models.ActivityActive}

	if in.DaysSinceUpdate >= 0 && in.DaysSinceUpdate > policy.InactivityDays {
		// An inactive device's age-based risk is not assessed; it may be
		// sitting in a drawer.
		result.Status = models.StatusInactive
		result.ActivityStatus = models.ActivityInactive
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("no check-in for %d days (threshold %d)", in.DaysSinceUpdate, policy.InactivityDays))

		return result
	}

	osMajor, osKnown := osMajorVersion(in.OSVersion)
	unsupportedOS := osKnown && osMajor <= policy.UnsupportedOSMajorMax
	agingOS := osKnown && !unsupportedOS && osMajor <= policy.AgingOSMajorMax

	if in.AgeYears >= policy.ReplacementAgeYears {
		result.Status = models.StatusCritical
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("age %.1f years meets the %.0f-year replacement policy", in.AgeYears, policy.ReplacementAgeYears))
	}

	if unsupportedOS {
		result.Status = models.StatusCritical
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("OS major version %d is no longer supported", osMajor))
	}

	if result.Status == models.StatusCritical {
		result.ReplacementRecommended, result.ReplacementReason = replacement(in, policy, unsupportedOS)

		return result
	}

	if in.AgeYears > 0 && in.AgeYears >= policy.ReplacementAgeYears-1 {
		result.Status = models.StatusWarning
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("age %.1f years is within one year of the replacement policy", in.AgeYears))
	}

	if agingOS {
		result.Status = models.StatusWarning
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("OS major version %d is approaching end of support", osMajor))
	}

	if hardware.GenerationFor(in.Model) == hardware.GenerationLegacy {
		result.Status = models.StatusWarning
		result.Reasons = append(result.Reasons, "older hardware generation")
	}

	if result.Status == models.StatusWarning {
		return result
	}

	result.Status = models.StatusGood

	if in.AgeYears > 0 {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("age %.1f years is within policy", in.AgeYears))
	}

	if in.DaysSinceUpdate >= 0 {
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("checked in %d days ago", in.DaysSinceUpdate))
	}

	if hardware.GenerationFor(in.Model) == hardware.GenerationModern {
		result.Reasons = append(result.Reasons, "modern hardware generation")
	}

	if len(result.Reasons) == 0 {
		result.Reasons = append(result.Reasons, "no risk signals present")
	}

	return result
}

// replacement is the narrower budgeting rule, decoupled from status: a
// critical device past the upper age bound is presumed deliberately
// retained and stays off the replacement list.
func replacement(in Input, policy Policy, unsupportedOS bool) (bool, string) {
	inWindow := in.AgeYears >= policy.ReplacementAgeYears && in.AgeYears <= policy.ReplacementMaxAgeYears

	switch {
	case inWindow:
		return true, fmt.Sprintf("age %.1f years is within the replacement window", in.AgeYears)
	case unsupportedOS:
		return true, "runs an unsupported OS version"
	default:
		return false, ""
	}
}

// osMajorVersion parses the major component out of an OS version string.
// Unparseable versions resolve to unknown rather than failing; corrupt
// exports are the normal path here.
func osMajorVersion(version string) (int64, bool) {
	if version == "" {
		return 0, false
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return 0, false
	}

	return v.Major(), true
}
