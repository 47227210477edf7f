// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package urlx provides convenience helpers for net/url.
package urlx

import "net/url"

// MustParse parses rawURL, panicking on error. Intended for package-level
// registry endpoints whose validity is a build-time fact.
func MustParse(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}
