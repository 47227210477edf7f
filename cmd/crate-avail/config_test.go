// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
strategy: api
timeout: 5s
concurrency: 8
registry_url: https://staging.crates.io
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	expected := &config{
		RegistryURL: "https://staging.crates.io",
		Strategy:    "api",
		Timeout:     "5s",
		Concurrency: 8,
	}
	if diff := cmp.Diff(cfg, expected); diff != "" {
		t.Errorf("config mismatch: diff\n%v", diff)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "UnknownStrategy",
			content: "strategy: hybrid",
			wantErr: `unknown strategy "hybrid"`,
		},
		{
			name:    "BadTimeout",
			content: "timeout: ten seconds",
			wantErr: "parsing timeout",
		},
		{
			name:    "NegativeConcurrency",
			content: "concurrency: -2",
			wantErr: "negative concurrency",
		},
		{
			name:    "BadYAML",
			content: "strategy: [",
			wantErr: "parsing config",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("loadConfig() error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("loadConfig() succeeded on missing file, want error")
	}
}
