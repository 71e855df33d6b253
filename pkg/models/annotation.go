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

import "strings"

// Annotation is one provenance-tagged note appended by a pipeline stage.
// Notes are kept as an ordered list internally so repeated runs and
// repeated merges stay deterministic; the display string is flattened only
// at the boundary.
type Annotation struct {
	Stage string `json:"stage"`
	Text  string `json:"text"`
}

// Annotate appends a stage-tagged note. Appending the same stage and text
// twice is a no-op, which keeps re-merges idempotent.
func (d *Device) Annotate(stage, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	for _, a := range d.Annotations {
		if a.Stage == stage && a.Text == text {
			return
		}
	}

	d.Annotations = append(d.Annotations, Annotation{Stage: stage, Text: text})
}

// NotesText flattens the annotation list, plus any user-edited notes from
// the settings overlay, into the display string. Overlay notes come first
// so human edits stay at the top of the field.
func (d *Device) NotesText() string {
	parts := make([]string, 0, len(d.Annotations)+1)
	if d.Notes != "" {
		parts = append(parts, d.Notes)
	}

	for _, a := range d.Annotations {
		parts = append(parts, a.Text)
	}

	return strings.Join(parts, "; ")
}
