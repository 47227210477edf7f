// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cratesio

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/google/crate-avail/internal/httpx"
	"github.com/google/crate-avail/internal/urlx"
	"github.com/google/crate-avail/pkg/avail"
	"github.com/pkg/errors"
)

var indexURL = urlx.MustParse("https://index.crates.io")

// EntryPath computes the sparse index path for a crate name. Short names get
// length-based top-level directories; longer names shard on their first four
// characters to bound directory fan-out.
func EntryPath(name string) string {
	name = strings.ToLower(name)
	switch len(name) {
	case 1:
		return path.Join("1", name)
	case 2:
		return path.Join("2", name)
	case 3:
		return path.Join("3", string(name[0]), name)
	default:
		return path.Join(name[:2], name[2:4], name)
	}
}

// SparseIndex looks up crates in the static path-sharded crates.io index.
//
// The index stores entries under their literal published spelling, so a
// single probe cannot detect canonical collisions. Exists probes up to three
// spelling variants instead, short-circuiting on the first hit.
type SparseIndex struct {
	Client httpx.BasicClient
	// URL overrides the production index endpoint when non-nil.
	URL *url.URL
}

func (idx SparseIndex) base() *url.URL {
	if idx.URL != nil {
		return idx.URL
	}
	return indexURL
}

// variants returns the spellings to probe for name: the lowercased input,
// then the all-underscore and all-hyphen forms, deduplicated in order.
func variants(name string) []string {
	lower := strings.ToLower(name)
	out := []string{lower}
	for _, v := range []string{
		strings.ReplaceAll(lower, "-", "_"),
		strings.ReplaceAll(lower, "_", "-"),
	} {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// Exists reports whether any spelling variant of name has an index entry.
// A non-404 error response for any variant aborts the remaining probes.
func (idx SparseIndex) Exists(ctx context.Context, name string) (bool, error) {
	for _, v := range variants(name) {
		found, err := idx.lookup(ctx, v)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

func (idx SparseIndex) lookup(ctx context.Context, name string) (bool, error) {
	pathURL, err := url.Parse(EntryPath(name))
	if err != nil {
		return false, err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, idx.base().ResolveReference(pathURL).String(), nil)
	resp, err := idx.Client.Do(req)
	if err != nil {
		return false, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, errors.Wrap(errors.New(resp.Status), "probing index entry")
	}
}

var _ avail.Registry = SparseIndex{}
