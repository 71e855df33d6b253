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

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotate_IdempotentAndOrdered(t *testing.T) {
	t.Parallel()

	device := &Device{}
	device.Annotate("jamf", "age estimated from model release year")
	device.Annotate("qualys", "scanner asset matched by exact-name")
	device.Annotate("jamf", "age estimated from model release year")
	device.Annotate("qualys", "")

	assert.Equal(t, []Annotation{
		{Stage: "jamf", Text: "age estimated from model release year"},
		{Stage: "qualys", Text: "scanner asset matched by exact-name"},
	}, device.Annotations)
}

func TestNotesText(t *testing.T) {
	t.Parallel()

	device := &Device{Notes: "user note"}
	device.Annotate("jamf", "first")
	device.Annotate("directory", "second")

	assert.Equal(t, "user note; first; second", device.NotesText())

	empty := &Device{}
	assert.Equal(t, "", empty.NotesText())
}

func TestStatusSeverity(t *testing.T) {
	t.Parallel()

	assert.Less(t, StatusCritical.Severity(), StatusWarning.Severity())
	assert.Less(t, StatusWarning.Severity(), StatusInactive.Severity())
	assert.Less(t, StatusInactive.Severity(), StatusGood.Severity())
	assert.Less(t, StatusGood.Severity(), StatusUnknown.Severity())
}

func TestRawRecordGet(t *testing.T) {
	t.Parallel()

	rec := RawRecord{"Device Name": "  mbp-01  "}

	assert.Equal(t, "mbp-01", rec.Get("Device Name"))
	assert.Equal(t, "", rec.Get("Missing Column"))
}

func TestAgeKnown(t *testing.T) {
	t.Parallel()

	assert.False(t, (&Device{}).AgeKnown())
	assert.True(t, (&Device{AgeYears: 0.1}).AgeKnown())
}

func TestSettingsOverlayIsRetired(t *testing.T) {
	t.Parallel()

	var nilOverlay *SettingsOverlay
	assert.False(t, nilOverlay.IsRetired("ar:x"))

	overlay := &SettingsOverlay{RetiredDeviceIDs: map[string]bool{"ar:x": true}}
	assert.True(t, overlay.IsRetired("ar:x"))
	assert.False(t, overlay.IsRetired("ar:y"))
}
