// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

// Package testutils provides utilities for managing test files and making assertions in tests.
package testutils

import (
	"os"
	"testing"
)

// CreateMockFile creates a temporary file with the given name pattern and contents,
// returning the file path.
func CreateMockFile(t *testing.T, namePattern string, contents []byte) string {
	fp := CreateOpenNewTestFile(t, namePattern)
	defer fp.Close()

	if _, err := fp.Write(contents); err != nil {
		t.Fatalf("failed to write test file: %v\n", err)
	}

	return fp.Name()
}

// CreateOpenNewTestFile creates and opens a new temporary test file with the given name pattern.
// The caller is responsible for closing the file.
func CreateOpenNewTestFile(t *testing.T, namePattern string) *os.File {
	fp, err := os.CreateTemp("", namePattern)
	if err != nil {
		t.Fatalf("failed to create test file: %v\n", err)
	}
	return fp
}

// Ptr returns a pointer to the given value.
func Ptr[T any](value T) *T {
	return &value
}
