// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

package comparison

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rybarj/fieldtrial/config"
	"github.com/rybarj/fieldtrial/pkg/logging"
	"github.com/rybarj/fieldtrial/pkg/utils"
)

// Safety bounds protecting against adversarial or buggy model output.
const (
	maxComparisonDepth = 64
	maxSetModeItems    = 256
)

// ErrInputTooLarge indicates that a value exceeds the comparison safety bounds.
var ErrInputTooLarge = errors.New("input too large to compare")

// Compare scores the actual value against the expected value and returns the overall
// accuracy percentage together with a diagnostic record for every compared node.
// Dispatch is driven by the expected value's type; any shape mismatch in the actual
// value is scored as zero rather than rejected, so a malformed actual value always
// yields a well-formed result. The configuration is validated before any comparison
// work begins. A nil logger suppresses trace output.
//
// Compare is a pure function over its inputs and is safe to invoke concurrently
// on independent inputs.
func Compare(ctx context.Context, logger logging.Logger, actual Value, expected Value, cfg config.ComparisonConfig) (AccuracyResult, error) {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return AccuracyResult{}, err
	}

	c := &comparator{
		logger:  logger,
		cfg:     cfg,
		details: make(map[string]FieldDetail),
	}

	score, _, err := c.compare(ctx, actual, expected, "", 0)
	if err != nil {
		return AccuracyResult{}, err
	}

	logger.Message(ctx, logging.LevelDebug, "comparison complete: accuracy %.2f%% across %d compared fields", score*100, len(c.details))
	return AccuracyResult{
		Accuracy:     score * 100,
		FieldDetails: c.details,
	}, nil
}

// comparator carries the state of a single comparison walk.
// A comparator with a nil details map performs probe runs that score
// candidate pairs in set mode without recording diagnostics.
type comparator struct {
	logger  logging.Logger
	cfg     config.ComparisonConfig
	details map[string]FieldDetail
}

// compare walks one node and returns the node's aggregate contribution in [0, 1]
// together with its matched flag.
func (c *comparator) compare(ctx context.Context, actual Value, expected Value, path string, depth int) (float64, bool, error) {
	if depth > maxComparisonDepth {
		return 0, false, fmt.Errorf("%w: nesting depth exceeds %d at %q", ErrInputTooLarge, maxComparisonDepth, path)
	}

	if actual.kind != expected.kind {
		c.record(ctx, path, FieldDetail{
			Reason: fmt.Sprintf("type mismatch: expected %s, got %s", expected.kind, actual.kind),
		})
		return 0, false, nil
	}

	switch expected.kind {
	case KindNull:
		c.record(ctx, path, FieldDetail{Matched: true, Score: 1, Reason: "value is null as expected"})
		return 1, true, nil
	case KindBool:
		score, matched := c.compareBool(ctx, actual, expected, path)
		return score, matched, nil
	case KindNumber:
		score, matched := c.compareNumber(ctx, actual, expected, path)
		return score, matched, nil
	case KindString:
		score, matched := c.compareString(ctx, actual, expected, path)
		return score, matched, nil
	case KindSequence:
		return c.compareSequence(ctx, actual, expected, path, depth)
	default:
		return c.compareMapping(ctx, actual, expected, path, depth)
	}
}

// compareBool scores two boolean values by equality.
func (c *comparator) compareBool(ctx context.Context, actual Value, expected Value, path string) (float64, bool) {
	if actual.boolValue == expected.boolValue {
		c.record(ctx, path, FieldDetail{Matched: true, Score: 1, Reason: "boolean values are equal"})
		return 1, true
	}
	c.record(ctx, path, FieldDetail{Reason: "boolean values differ"})
	return 0, false
}

// compareNumber scores two numbers using the configured relative tolerance,
// falling back to an absolute tolerance when the expected value is zero.
// There is no partial credit outside the tolerance.
func (c *comparator) compareNumber(ctx context.Context, actual Value, expected Value, path string) (float64, bool) {
	tolerance := c.cfg.GetNumericalTolerance()
	difference := math.Abs(actual.numberValue - expected.numberValue)

	var within bool
	var reason string
	if expected.numberValue == 0 {
		within = difference <= tolerance
		reason = fmt.Sprintf("absolute difference %g vs absolute tolerance %g", difference, tolerance)
	} else {
		within = difference <= tolerance*math.Abs(expected.numberValue)
		relativeError := difference / math.Abs(expected.numberValue)
		reason = fmt.Sprintf("relative error %.4g%% vs tolerance %.4g%%", relativeError*100, tolerance*100)
	}

	if within {
		c.record(ctx, path, FieldDetail{Matched: true, Score: 1, Reason: reason})
		return 1, true
	}
	c.record(ctx, path, FieldDetail{Reason: reason})
	return 0, false
}

// compareString scores two strings by normalized edit similarity.
// The recorded score is always the continuous similarity value; the
// contribution to the parent aggregate is zero below the match threshold.
func (c *comparator) compareString(ctx context.Context, actual Value, expected Value, path string) (float64, bool) {
	similarity := stringSimilarity(actual.stringValue, expected.stringValue)
	threshold := c.cfg.GetStringSimilarityThreshold()
	matched := similarity >= threshold

	c.record(ctx, path, FieldDetail{
		Matched: matched,
		Score:   similarity / 100,
		Reason:  fmt.Sprintf("string similarity %.1f%% (threshold %.1f%%)", similarity, threshold),
	})

	if !matched {
		return 0, false
	}
	return similarity / 100, true
}

// compareSequence scores two sequences in the configured list comparison mode.
// An empty expected sequence scores full marks since there is nothing to check.
func (c *comparator) compareSequence(ctx context.Context, actual Value, expected Value, path string, depth int) (float64, bool, error) {
	if len(expected.sequence) == 0 {
		c.recordAggregate(ctx, path, FieldDetail{Matched: true, Score: 1, Reason: "no items to check"})
		return 1, true, nil
	}

	if c.cfg.GetListComparisonMode() == config.ListComparisonSet {
		return c.compareSequenceSet(ctx, actual.sequence, expected.sequence, path, depth)
	}

	var total float64
	matchedCount := 0
	for i := range expected.sequence {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if i < len(actual.sequence) {
			score, matched, err := c.compare(ctx, actual.sequence[i], expected.sequence[i], itemPath, depth+1)
			if err != nil {
				return 0, false, err
			}
			total += score
			if matched {
				matchedCount++
			}
		} else {
			c.record(ctx, itemPath, FieldDetail{Reason: "missing item"})
		}
	}
	// Actual items beyond the expected length are ignored: no penalty, no credit.

	aggregate := total / float64(len(expected.sequence))
	c.recordAggregate(ctx, path, FieldDetail{
		Matched: aggregate == 1,
		Score:   aggregate,
		Reason:  fmt.Sprintf("%d of %d items matched", matchedCount, len(expected.sequence)),
	})
	return aggregate, aggregate == 1, nil
}

// compareSequenceSet scores two sequences using a greedy one-to-one assignment
// that pairs the highest-scoring items first, ignoring order. Expected items
// left without a counterpart score zero.
func (c *comparator) compareSequenceSet(ctx context.Context, actualItems []Value, expectedItems []Value, path string, depth int) (float64, bool, error) {
	if len(expectedItems) > maxSetModeItems || len(actualItems) > maxSetModeItems {
		return 0, false, fmt.Errorf("%w: sequence length exceeds %d in set mode at %q", ErrInputTooLarge, maxSetModeItems, path)
	}

	// Probe all candidate pairs without recording diagnostics.
	probe := &comparator{logger: c.logger, cfg: c.cfg}
	scores := make([][]float64, len(expectedItems))
	for i := range expectedItems {
		scores[i] = make([]float64, len(actualItems))
		for j := range actualItems {
			score, _, err := probe.compare(ctx, actualItems[j], expectedItems[i], fmt.Sprintf("%s[%d]", path, i), depth+1)
			if err != nil {
				return 0, false, err
			}
			scores[i][j] = score
		}
	}

	// Greedy assignment: repeatedly take the best remaining pair.
	// Zero-score pairs are never assigned.
	assignment := make([]int, len(expectedItems))
	for i := range assignment {
		assignment[i] = -1
	}
	actualUsed := make([]bool, len(actualItems))
	for {
		bestExpected, bestActual, bestScore := -1, -1, 0.0
		for i := range expectedItems {
			if assignment[i] >= 0 {
				continue
			}
			for j := range actualItems {
				if actualUsed[j] || scores[i][j] <= bestScore {
					continue
				}
				bestExpected, bestActual, bestScore = i, j, scores[i][j]
			}
		}
		if bestExpected < 0 {
			break
		}
		assignment[bestExpected] = bestActual
		actualUsed[bestActual] = true
	}

	// Re-walk the assigned pairs to record diagnostics at the expected item paths.
	var total float64
	matchedCount := 0
	for i := range expectedItems {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if j := assignment[i]; j >= 0 {
			score, matched, err := c.compare(ctx, actualItems[j], expectedItems[i], itemPath, depth+1)
			if err != nil {
				return 0, false, err
			}
			total += score
			if matched {
				matchedCount++
			}
		} else {
			c.record(ctx, itemPath, FieldDetail{Reason: "no matching item"})
		}
	}

	aggregate := total / float64(len(expectedItems))
	c.recordAggregate(ctx, path, FieldDetail{
		Matched: aggregate == 1,
		Score:   aggregate,
		Reason:  fmt.Sprintf("%d of %d items matched", matchedCount, len(expectedItems)),
	})
	return aggregate, aggregate == 1, nil
}

// compareMapping scores two mappings over the keys of the expected mapping,
// weighting each field's contribution by its configured weight.
// Keys present only in the actual mapping are ignored: extra fields never hurt the score.
func (c *comparator) compareMapping(ctx context.Context, actual Value, expected Value, path string, depth int) (float64, bool, error) {
	keys := utils.SortedKeys(expected.mapping)
	if len(keys) == 0 {
		c.recordAggregate(ctx, path, FieldDetail{Matched: true, Score: 1, Reason: "no fields to check"})
		return 1, true, nil
	}

	var weightedTotal, weightTotal float64
	matchedCount := 0
	for _, key := range keys {
		fieldPath := joinPath(path, key)
		weight := c.cfg.GetFieldWeight(key)
		weightTotal += weight

		expectedField := expected.mapping[key]
		actualField, present := actual.mapping[key]
		if !present {
			// An absent field satisfies an expected null.
			if expectedField.IsNull() {
				c.record(ctx, fieldPath, FieldDetail{Matched: true, Score: 1, Reason: "field is absent and expected to be null"})
				weightedTotal += weight
				matchedCount++
			} else {
				c.record(ctx, fieldPath, FieldDetail{Reason: "missing field"})
			}
			continue
		}

		score, matched, err := c.compare(ctx, actualField, expectedField, fieldPath, depth+1)
		if err != nil {
			return 0, false, err
		}
		weightedTotal += weight * score
		if matched {
			matchedCount++
		}
	}

	aggregate := weightedTotal / weightTotal
	c.recordAggregate(ctx, path, FieldDetail{
		Matched: aggregate == 1,
		Score:   aggregate,
		Reason:  fmt.Sprintf("%d of %d fields matched", matchedCount, len(keys)),
	})
	return aggregate, aggregate == 1, nil
}

// record stores the diagnostic record for the given path unless this is a probe run.
func (c *comparator) record(ctx context.Context, path string, detail FieldDetail) {
	if c.details == nil {
		return
	}
	c.details[path] = detail
	c.logger.Message(ctx, logging.LevelTrace, "compared %q: score %.3f (%s)", path, detail.Score, detail.Reason)
}

// recordAggregate stores the aggregate record of a composite node at its own path.
// The root aggregate is reflected in the overall accuracy instead.
func (c *comparator) recordAggregate(ctx context.Context, path string, detail FieldDetail) {
	if path == "" {
		return
	}
	c.record(ctx, path, detail)
}

// joinPath appends a mapping key to its parent path in dotted notation.
func joinPath(parent string, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
