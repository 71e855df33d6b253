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

package config

import "errors"

var (
	errReplacementAge    = errors.New("replacement_age_years must be positive")
	errReplacementWindow = errors.New("replacement_max_age_years must be at or above replacement_age_years")
	errActivityWindows   = errors.New("inactivity_days and out_of_date_days must be positive")
	errTopCVELimit       = errors.New("top_cve_limit must not be negative")
)
