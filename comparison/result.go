// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

package comparison

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/rybarj/fieldtrial/pkg/utils"
)

// FieldDetail is the diagnostic record produced for a single compared node.
type FieldDetail struct {
	// Matched indicates whether the node's score crossed the relevant threshold.
	Matched bool `json:"matched"`
	// Score is the node's similarity score in [0, 1].
	Score float64 `json:"score"`
	// Reason describes how the score was determined.
	Reason string `json:"reason"`
}

// AccuracyResult is the outcome of comparing an actual value against an expected value.
type AccuracyResult struct {
	// Accuracy is the overall score as a percentage in [0, 100].
	Accuracy float64 `json:"accuracy"`
	// FieldDetails maps node paths, such as "location.city" or "skills[2]",
	// to their diagnostic records. The root node uses the empty path.
	FieldDetails map[string]FieldDetail `json:"field_details"`
}

// SortedPaths returns all recorded field paths in ascending order.
func (r AccuracyResult) SortedPaths() []string {
	return utils.SortedKeys(r.FieldDetails)
}

// AccuracyResultJSONSchema is a lazily initialized JSON schema for the AccuracyResult type.
var AccuracyResultJSONSchema = sync.OnceValue(func() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(AccuracyResult{})
})

// AccuracyResultJSONSchemaRaw is a lazily initialized generic representation
// of the AccuracyResult JSON schema.
var AccuracyResultJSONSchemaRaw = sync.OnceValue(func() map[string]interface{} {
	schemaBytes, err := json.Marshal(AccuracyResultJSONSchema())
	if err != nil {
		panic(fmt.Errorf("failed to marshal result schema: %w", err))
	}

	var schemaMap map[string]interface{}
	if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		panic(fmt.Errorf("failed to unmarshal result schema: %w", err))
	}

	return schemaMap
})
