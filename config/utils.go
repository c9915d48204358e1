// Copyright (C) 2026 Jan Rybar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at <https://mozilla.org/MPL/2.0/>.

package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadComparisonConfigFromFile reads and validates comparison configuration from the specified file path.
// Returns error if the file cannot be read or contains invalid configuration.
func LoadComparisonConfigFromFile(ctx context.Context, path string) (*ComparisonConfig, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer fp.Close()

	fileContents, err := io.ReadAll(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg := &ComparisonConfig{}
	if err := yamlUnmarshalStrict(fileContents, cfg); err != nil {
		return nil, fmt.Errorf("malformed configuration file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration definition: %w", err)
	}

	return cfg, nil
}

// yamlUnmarshalStrict is a helper function for strict YAML unmarshaling that fails on unknown fields.
func yamlUnmarshalStrict(in []byte, out interface{}) error {
	decoder := yaml.NewDecoder(bytes.NewReader(in))
	decoder.KnownFields(true) // fail on unknown fields
	return decoder.Decode(out)
}
