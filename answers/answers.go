// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package answers decodes raw model answer text into comparable values.
// Model output is frequently almost-JSON; strict decoding is attempted first
// and malformed documents are repaired before giving up.
package answers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rybarj/fieldtrial/comparison"
	"github.com/rybarj/fieldtrial/pkg/logging"
	"github.com/rybarj/fieldtrial/pkg/utils"
)

var (
	// ErrParseAnswer indicates that the answer content could not be decoded as JSON.
	ErrParseAnswer = errors.New("failed to parse answer content")
	// ErrAnswerSchemaValidation indicates that the answer does not conform to the task schema.
	ErrAnswerSchemaValidation = errors.New("answer does not conform to response schema")
)

// Parse decodes the raw answer content into a comparable value.
// Content that fails strict JSON decoding is repaired and decoded again.
// A nil logger suppresses diagnostics.
func Parse(ctx context.Context, logger logging.Logger, content []byte) (comparison.Value, error) {
	doc, err := decode(ctx, logger, content)
	if err != nil {
		return comparison.Value{}, err
	}
	return comparison.FromAny(doc)
}

// ParseValidated decodes the raw answer content and validates the decoded
// document against the given JSON schema before converting it.
func ParseValidated(ctx context.Context, logger logging.Logger, content []byte, schema map[string]interface{}) (comparison.Value, error) {
	doc, err := decode(ctx, logger, content)
	if err != nil {
		return comparison.Value{}, err
	}

	if err := utils.ValidateAgainstSchema(schema, doc); err != nil {
		return comparison.Value{}, fmt.Errorf("%w: %v", ErrAnswerSchemaValidation, err)
	}

	return comparison.FromAny(doc)
}

// decode unmarshals the content into a generic JSON document,
// repairing malformed input on a second attempt.
func decode(ctx context.Context, logger logging.Logger, content []byte) (interface{}, error) {
	if logger == nil {
		logger = logging.NoopLogger{}
	}

	doc, strictErr := unmarshalGeneric(content)
	if strictErr == nil {
		return doc, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(content))
	if repairErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseAnswer, strictErr)
	}

	doc, err := unmarshalGeneric([]byte(repaired))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseAnswer, strictErr)
	}

	logger.Message(ctx, logging.LevelDebug, "repaired malformed answer JSON (%d bytes)", len(content))
	return doc, nil
}

// unmarshalGeneric decodes JSON preserving full number precision.
func unmarshalGeneric(data []byte) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
