// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

// config is the optional YAML configuration file. Every field has a flag
// counterpart; set flags win over config values.
type config struct {
	// RegistryURL overrides the crates.io API endpoint (strategy api).
	RegistryURL string `yaml:"registry_url"`
	// IndexURL overrides the sparse index endpoint (strategy index).
	IndexURL string `yaml:"index_url"`
	// Strategy is "index" or "api".
	Strategy string `yaml:"strategy"`
	// Timeout is a Go duration string, e.g. "10s".
	Timeout string `yaml:"timeout"`
	// Concurrency caps simultaneous registry requests.
	Concurrency int `yaml:"concurrency"`
}

func loadConfig(path string) (*config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	var c config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if c.Strategy != "" && c.Strategy != "index" && c.Strategy != "api" {
		return nil, errors.Errorf("unknown strategy %q in config (want index or api)", c.Strategy)
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return nil, errors.Wrap(err, "parsing timeout in config")
		}
	}
	if c.Concurrency < 0 {
		return nil, errors.Errorf("negative concurrency %d in config", c.Concurrency)
	}
	return &c, nil
}
