// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package utils provides generic helper functions shared across the FieldTrial packages.
package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/exp/constraints"
)

var (
	// ErrInvalidJSONSchema indicates that the given schema is not a valid JSON schema.
	ErrInvalidJSONSchema = errors.New("invalid JSON schema")
	// ErrJSONSchemaValidation indicates that a value does not conform to the schema.
	ErrJSONSchemaValidation = errors.New("value does not conform to JSON schema")
)

// SortedKeys returns the keys of the given maps in ascending order.
// Keys from all maps are merged and de-duplicated before sorting.
func SortedKeys[K constraints.Ordered, V any](maps ...map[K]V) []K {
	seen := make(map[K]struct{})
	keys := make([]K, 0)
	for _, m := range maps {
		for k := range m {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	slices.Sort(keys)
	return keys
}

// ValidateAgainstSchema validates the given values against the JSON schema.
// The schema must be a valid JSON schema document in its generic map representation.
// Returns ErrInvalidJSONSchema if the schema itself cannot be compiled and
// ErrJSONSchemaValidation if any of the values does not conform to it.
func ValidateAgainstSchema(schema map[string]interface{}, values ...interface{}) error {
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSONSchema, err)
	}

	for _, value := range values {
		doc, err := toSchemaDocument(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrJSONSchemaValidation, err)
		}
		if err := compiled.Validate(doc); err != nil {
			return fmt.Errorf("%w: %v", ErrJSONSchemaValidation, err)
		}
	}

	return nil
}

// compileSchema compiles the generic schema representation into an executable schema.
func compileSchema(schema map[string]interface{}) (*jsonschema.Schema, error) {
	doc, err := toSchemaDocument(schema)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

// toSchemaDocument round-trips the value through JSON so that numbers are
// represented the way the schema validator expects.
func toSchemaDocument(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}
