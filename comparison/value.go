// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package comparison implements the structural accuracy scorer that compares
// a JSON-like value produced by an AI model against a hand-labeled expected
// value and reduces the comparison to a single score with per-field diagnostics.
package comparison

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrUnsupportedValue indicates that a dynamic value cannot be represented as a Value.
var ErrUnsupportedValue = errors.New("unsupported value")

// Kind identifies the type of a Value node.
type Kind int

// Value kinds, covering the JSON data model.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String returns a user-friendly name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged union over the JSON data model:
// null, boolean, number, string, sequence and mapping.
// It represents both the actual (model output) and the expected (ground truth)
// side of a comparison.
type Value struct {
	kind        Kind
	boolValue   bool
	numberValue float64
	stringValue string
	sequence    []Value
	mapping     map[string]Value
}

// Null returns the null Value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean Value.
func Bool(value bool) Value {
	return Value{kind: KindBool, boolValue: value}
}

// Number returns a numeric Value.
func Number(value float64) Value {
	return Value{kind: KindNumber, numberValue: value}
}

// String returns a string Value.
func String(value string) Value {
	return Value{kind: KindString, stringValue: value}
}

// Sequence returns an ordered sequence Value. The items are copied.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, sequence: slices.Clone(items)}
}

// Mapping returns a key-value mapping Value. The fields are copied.
func Mapping(fields map[string]Value) Value {
	return Value{kind: KindMapping, mapping: maps.Clone(fields)}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean content of the value, if it is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.boolValue, v.kind == KindBool
}

// AsNumber returns the numeric content of the value, if it is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.numberValue, v.kind == KindNumber
}

// AsString returns the string content of the value, if it is a string.
func (v Value) AsString() (string, bool) {
	return v.stringValue, v.kind == KindString
}

// AsSequence returns a copy of the sequence items, if the value is a sequence.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return slices.Clone(v.sequence), true
}

// AsMapping returns a copy of the mapping fields, if the value is a mapping.
func (v Value) AsMapping() (map[string]Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return maps.Clone(v.mapping), true
}

// Interface converts the value back to its generic dynamically-typed representation.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.boolValue
	case KindNumber:
		return v.numberValue
	case KindString:
		return v.stringValue
	case KindSequence:
		items := make([]interface{}, len(v.sequence))
		for i, item := range v.sequence {
			items[i] = item.Interface()
		}
		return items
	case KindMapping:
		fields := make(map[string]interface{}, len(v.mapping))
		for key, field := range v.mapping {
			fields[key] = field.Interface()
		}
		return fields
	default:
		return nil
	}
}

// FromJSON parses a JSON document into a Value.
func FromJSON(data []byte) (Value, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
	}
	return FromAny(doc)
}

// FromAny converts a dynamically-typed value, such as the result of generic
// JSON or YAML unmarshaling, into a Value. Numeric types are normalized so that
// data from various sources that may represent numbers differently compares consistently.
func FromAny(value interface{}) (Value, error) {
	if value == nil {
		return Null(), nil
	}

	switch val := value.(type) {
	case Value:
		return val, nil

	case bool:
		return Bool(val), nil

	case string:
		return String(val), nil

	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return Number(parsed), nil

	case []interface{}:
		items := make([]Value, len(val))
		for i, elem := range val {
			item, err := FromAny(elem)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Value{kind: KindSequence, sequence: items}, nil

	case map[string]interface{}:
		fields := make(map[string]Value, len(val))
		for key, elem := range val {
			field, err := FromAny(elem)
			if err != nil {
				return Value{}, err
			}
			fields[key] = field
		}
		return Value{kind: KindMapping, mapping: fields}, nil

	default:
		if number, ok := normalizeNumber(value); ok {
			return Number(number), nil
		}
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// normalizeNumber converts any native numeric type to float64.
// Returns false if the value is not numeric.
func normalizeNumber(value interface{}) (float64, bool) {
	switch val := value.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true // precision loss above 2^53 is acceptable for scoring
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
