// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package config contains the data models representing the structure of comparison
// configuration for the FieldTrial library. It provides configuration management
// and handles loading and validation of comparison settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"maps"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidComparisonProperty indicates invalid comparison configuration.
var ErrInvalidComparisonProperty = errors.New("invalid comparison property")

// ListComparisonMode specifies how sequence values are compared.
type ListComparisonMode string

const (
	// ListComparisonOrdered compares sequences position by position.
	ListComparisonOrdered ListComparisonMode = "ordered"
	// ListComparisonSet finds a best-effort one-to-one matching that ignores order.
	ListComparisonSet ListComparisonMode = "set"
)

// Ptr returns a pointer to the ListComparisonMode value.
func (m ListComparisonMode) Ptr() *ListComparisonMode {
	return &m
}

// Default values applied when the corresponding configuration property is not set.
const (
	// DefaultStringSimilarityThreshold is the minimum string similarity (0-100)
	// for a string pair to be reported as matched.
	DefaultStringSimilarityThreshold = 75.0
	// DefaultNumericalTolerance is the relative tolerance for numeric comparisons.
	DefaultNumericalTolerance = 0.0
	// DefaultFieldWeight is the weight of a mapping field not listed in FieldWeights.
	DefaultFieldWeight = 1.0
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ComparisonConfig defines how an actual value is scored against an expected value.
// All properties are optional; unset properties resolve to documented defaults.
type ComparisonConfig struct {
	// StringSimilarityThreshold is the minimum normalized edit similarity (0-100)
	// below which a string pair is reported as non-matching.
	// The emitted score is always the continuous similarity value.
	StringSimilarityThreshold *float64 `yaml:"string-similarity-threshold" validate:"omitempty,gte=0,lte=100"`

	// ListComparisonMode selects ordered or set comparison for sequences.
	ListComparisonMode *ListComparisonMode `yaml:"list-comparison-mode" validate:"omitempty,oneof=ordered set"`

	// NumericalTolerance is the relative tolerance fraction for numeric comparisons.
	// Two numbers match fully if |actual-expected| <= tolerance * |expected|,
	// or |actual-expected| <= tolerance when the expected value is zero.
	NumericalTolerance *float64 `yaml:"numerical-tolerance" validate:"omitempty,gte=0"`

	// FieldWeights scales the contribution of named mapping fields to their
	// parent's aggregate score. Weights must be positive; unlisted fields weigh 1.
	FieldWeights map[string]float64 `yaml:"field-weights" validate:"omitempty,dive,gt=0"`
}

// GetStringSimilarityThreshold returns the string similarity threshold or its default.
func (c ComparisonConfig) GetStringSimilarityThreshold() float64 {
	if c.StringSimilarityThreshold != nil {
		return *c.StringSimilarityThreshold
	}
	return DefaultStringSimilarityThreshold
}

// GetListComparisonMode returns the list comparison mode or its default.
func (c ComparisonConfig) GetListComparisonMode() ListComparisonMode {
	if c.ListComparisonMode != nil {
		return *c.ListComparisonMode
	}
	return ListComparisonOrdered
}

// GetNumericalTolerance returns the numerical tolerance or its default.
func (c ComparisonConfig) GetNumericalTolerance() float64 {
	if c.NumericalTolerance != nil {
		return *c.NumericalTolerance
	}
	return DefaultNumericalTolerance
}

// GetFieldWeight returns the weight of the named mapping field or the default weight.
func (c ComparisonConfig) GetFieldWeight(name string) float64 {
	if weight, ok := c.FieldWeights[name]; ok {
		return weight
	}
	return DefaultFieldWeight
}

// Validate checks that all configuration properties have valid values.
// It never silently corrects an invalid property.
func (c ComparisonConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidComparisonProperty, err)
	}
	return nil
}

// Resolve returns a copy of the configuration with unset properties
// filled in from the given fallback configuration.
func (c ComparisonConfig) Resolve(fallback ComparisonConfig) ComparisonConfig {
	resolved := c
	if resolved.StringSimilarityThreshold == nil {
		resolved.StringSimilarityThreshold = fallback.StringSimilarityThreshold
	}
	if resolved.ListComparisonMode == nil {
		resolved.ListComparisonMode = fallback.ListComparisonMode
	}
	if resolved.NumericalTolerance == nil {
		resolved.NumericalTolerance = fallback.NumericalTolerance
	}
	if resolved.FieldWeights == nil {
		resolved.FieldWeights = maps.Clone(fallback.FieldWeights)
	}
	return resolved
}
