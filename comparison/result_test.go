// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

package comparison

import (
	"encoding/json"
	"testing"

	"github.com/rybarj/fieldtrial/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracyResultSortedPaths(t *testing.T) {
	result := AccuracyResult{
		Accuracy: 75,
		FieldDetails: map[string]FieldDetail{
			"skills[1]":     {},
			"location.city": {},
			"age":           {},
			"skills[0]":     {},
		},
	}

	assert.Equal(t, []string{"age", "location.city", "skills[0]", "skills[1]"}, result.SortedPaths())
}

func TestAccuracyResultJSONSchema(t *testing.T) {
	schema := AccuracyResultJSONSchemaRaw()
	require.NotEmpty(t, schema)

	// A marshaled result document conforms to its own published schema.
	result := AccuracyResult{
		Accuracy: 87.5,
		FieldDetails: map[string]FieldDetail{
			"name": {Matched: true, Score: 1, Reason: "string similarity 100.0% (threshold 75.0%)"},
			"age":  {Matched: false, Score: 0, Reason: "missing field"},
		},
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var doc interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.NoError(t, utils.ValidateAgainstSchema(schema, doc))
}

func TestAccuracyResultJSONRoundTrip(t *testing.T) {
	result := AccuracyResult{
		Accuracy: 40,
		FieldDetails: map[string]FieldDetail{
			"critical": {Matched: false, Score: 0.14, Reason: "string similarity 14.3% (threshold 75.0%)"},
		},
	}

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded AccuracyResult
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result, decoded)
}
