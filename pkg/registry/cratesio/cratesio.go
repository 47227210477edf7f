// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cratesio provides existence lookups for crate names against
// crates.io, via either the HTTP API or the sparse index.
package cratesio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/crate-avail/internal/httpx"
	"github.com/google/crate-avail/internal/urlx"
	"github.com/google/crate-avail/pkg/avail"
	"github.com/pkg/errors"
)

var registryURL = urlx.MustParse("https://crates.io")

const (
	// UserAgent identifies this tool to the registry, per the crates.io
	// crawling policy.
	UserAgent = "crate-avail/1.0 (https://github.com/google/crate-avail)"
	// RequestTimeout bounds each registry request. Timeouts are surfaced as
	// lookup failures, never retried.
	RequestTimeout = 10 * time.Second
)

// DefaultClient returns a client suitable for registry lookups: global
// timeout, descriptive User-Agent, safe for concurrent use.
func DefaultClient() httpx.BasicClient {
	return &httpx.WithUserAgent{
		BasicClient: &http.Client{Timeout: RequestTimeout},
		UserAgent:   UserAgent,
	}
}

// Metadata is the crate-specific information returned by the API.
type Metadata struct {
	Name       string    `json:"id"`
	Repository string    `json:"repository"`
	Created    time.Time `json:"created_at"`
	Updated    time.Time `json:"updated_at"`
}

// Crate is the /api/v1/crates/<name> result.
type Crate struct {
	Metadata `json:"crate"`
}

// HTTPRegistry looks up crates through the crates.io HTTP API.
type HTTPRegistry struct {
	Client httpx.BasicClient
	// URL overrides the production registry endpoint when non-nil.
	URL *url.URL
}

func (r HTTPRegistry) base() *url.URL {
	if r.URL != nil {
		return r.URL
	}
	return registryURL
}

func (r HTTPRegistry) get(ctx context.Context, pkg string) (*http.Response, error) {
	pathURL, err := url.Parse(path.Join("/api/v1/crates", pkg))
	if err != nil {
		return nil, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.base().ResolveReference(pathURL).String(), nil)
	return r.Client.Do(req)
}

// Exists reports whether any crate canonically matching name is registered.
// The API applies the same canonical matching as cargo publish, so a single
// request on the canonical form covers every separator spelling.
func (r HTTPRegistry) Exists(ctx context.Context, name string) (bool, error) {
	resp, err := r.get(ctx, avail.CanonicalName(name))
	if err != nil {
		return false, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, errors.Wrap(errors.New(resp.Status), "checking crate existence")
	}
}

// Crate provides the API metadata for the given crate.
func (r HTTPRegistry) Crate(ctx context.Context, pkg string) (*Crate, error) {
	resp, err := r.get(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, errors.Wrap(errors.New(resp.Status), "fetching crate metadata")
	}
	var c Crate
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

var _ avail.Registry = HTTPRegistry{}
