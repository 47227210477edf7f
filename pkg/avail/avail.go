// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package avail determines whether a crate name is available for publication
// on crates.io.
//
// A check runs three ordered steps: syntactic validation against the
// crates.io naming rules, membership in the static reserved-name list, and a
// live registry lookup that treats hyphen and underscore spellings as the
// same name. Each step is terminal on the first definitive answer.
package avail

import (
	"context"
	"strings"
)

// MaxConcurrentRequests is the advisory cap on simultaneous registry lookups
// for batch callers. Checks share no mutable state, so any bound works; this
// one keeps a bulk run polite to the registry.
const MaxConcurrentRequests = 20

// Availability is the result of a name check.
type Availability int

const (
	// Available means the name may be published.
	Available Availability = iota
	// Taken means an existing crate (or a canonical collision) holds the name.
	Taken
	// Reserved means crates.io refuses the name regardless of occupancy.
	Reserved
)

// String returns the lowercase display form of the availability.
func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Taken:
		return "taken"
	case Reserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// Registry reports whether a crate name exists on the registry, under any
// spelling that canonicalizes to the same form. Implementations must be safe
// for concurrent use.
type Registry interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// LookupError indicates the registry could not be queried. The check is safe
// to retry at the caller's discretion.
type LookupError struct {
	Cause error
}

func (e *LookupError) Error() string {
	return "registry lookup: " + e.Cause.Error()
}

func (e *LookupError) Unwrap() error {
	return e.Cause
}

// CanonicalName returns the canonical form of a crate name: lowercase with
// hyphens replaced by underscores. crates.io treats names sharing a canonical
// form as the same crate.
func CanonicalName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}

// Checker checks crate name availability against a registry.
type Checker struct {
	Registry Registry
}

// Check determines the availability of name.
//
// It returns an *InvalidNameError if the name fails crates.io validation or
// a *LookupError if the registry cannot be queried; otherwise exactly one of
// Available, Taken, or Reserved.
func (c Checker) Check(ctx context.Context, name string) (Availability, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	canonical := CanonicalName(name)
	if IsReserved(canonical) {
		return Reserved, nil
	}
	exists, err := c.Registry.Exists(ctx, name)
	if err != nil {
		return 0, &LookupError{Cause: err}
	}
	if exists {
		return Taken, nil
	}
	return Available, nil
}
