// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

package comparison

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// stringSimilarity computes a normalized edit similarity between two strings
// on a 0-100 scale: 100 * (1 - distance / max(len(a), len(b))), where distance
// is the Levenshtein distance in runes. Two empty strings have similarity 100.
// Comparison is exact-case; callers wanting case-insensitivity normalize before comparing.
func stringSimilarity(a string, b string) float64 {
	if a == b {
		return 100
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 100
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	if distance > maxLen {
		distance = maxLen
	}

	return 100 * (1 - float64(distance)/float64(maxLen))
}
