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

package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/assetradar/pkg/models"
)

func TestParse_QuotedFields(t *testing.T) {
	t.Parallel()

	t.Run("embedded comma and escaped quote round-trip", func(t *testing.T) {
		records := Parse("Name,Vendor\nmbp-01,\"Acme, Inc. \"\"East\"\"\"\n")

		require.Len(t, records, 1)
		assert.Equal(t, `Acme, Inc. "East"`, records[0]["Vendor"])
	})

	t.Run("embedded newline stays in one row", func(t *testing.T) {
		records := Parse("Name,Notes\nmbp-01,\"line one\nline two\"\nmbp-02,plain\n")

		require.Len(t, records, 2)
		assert.Equal(t, "line one\nline two", records[0]["Notes"])
		assert.Equal(t, "plain", records[1]["Notes"])
	})

	t.Run("quote mid-cell is literal", func(t *testing.T) {
		records := Parse("Name,Size\nmbp-01,13\" display\n")

		require.Len(t, records, 1)
		assert.Equal(t, `13" display`, records[0]["Size"])
	})
}

func TestParse_Tolerance(t *testing.T) {
	t.Parallel()

	t.Run("BOM prefix stripped from first header", func(t *testing.T) {
		records := Parse("\uFEFFName,Model\nmbp-01,MacBookPro14,1\n")

		require.Len(t, records, 1)
		assert.Equal(t, "mbp-01", records[0]["Name"])
	})

	t.Run("CRLF line endings", func(t *testing.T) {
		records := Parse("Name,Model\r\nmbp-01,MacBookPro14\r\nmbp-02,MacBookAir9\r\n")

		require.Len(t, records, 2)
		assert.Equal(t, "MacBookAir9", records[1]["Model"])
	})

	t.Run("short row pads missing trailing columns", func(t *testing.T) {
		records := Parse("Name,Model,Serial\nmbp-01\n")

		require.Len(t, records, 1)
		assert.Equal(t, "mbp-01", records[0]["Name"])
		assert.Equal(t, "", records[0]["Model"])
		assert.Equal(t, "", records[0]["Serial"])
	})

	t.Run("blank rows skipped, order preserved", func(t *testing.T) {
		records := Parse("Name\nfirst\n\n,\nsecond\n")

		require.Len(t, records, 2)
		assert.Equal(t, "first", records[0]["Name"])
		assert.Equal(t, "second", records[1]["Name"])
	})

	t.Run("empty and header-only input", func(t *testing.T) {
		assert.Nil(t, Parse(""))
		assert.Nil(t, Parse("Name,Model\n"))
	})
}

// Rows come back as canonical raw records so transformers consume them
// directly, trimmed access included.
func TestParse_ReturnsRawRecords(t *testing.T) {
	t.Parallel()

	var records []models.RawRecord = Parse("Name,Owner\nmbp-01,  Jane Smith \n")

	require.Len(t, records, 1)
	assert.Equal(t, "Jane Smith", records[0].Get("Owner"))
}
