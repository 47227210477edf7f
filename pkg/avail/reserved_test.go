// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package avail

import "testing"

func TestIsReserved(t *testing.T) {
	reserved := []string{
		"std",
		"core",
		"alloc",
		"test",
		"proc_macro",
		"compiler-builtins",
		"compiler_builtins", // canonical collision with the listed spelling
		"Compiler-Builtins", // case-insensitive too
		"rust-installer",
		"rust_installer",
		"nul",
		"NUL",
		"con",
		"prn",
		"aux",
		"com0",
		"com9",
		"lpt0",
		"lpt9",
	}
	for _, name := range reserved {
		if !IsReserved(name) {
			t.Errorf("IsReserved(%q) = false, want true", name)
		}
	}

	open := []string{
		"serde",
		"com",   // bare prefix of the device names is not reserved
		"com10", // devices stop at 9
		"lpt",
		"stdx",
		"corey",
	}
	for _, name := range open {
		if IsReserved(name) {
			t.Errorf("IsReserved(%q) = true, want false", name)
		}
	}
}

func TestReservedSetBuiltFromCanonicalForms(t *testing.T) {
	set := reservedSet()
	if len(set) != len(reservedNames) {
		t.Fatalf("reserved set has %d entries, want %d", len(set), len(reservedNames))
	}
	for key := range set {
		if key != CanonicalName(key) {
			t.Errorf("reserved set key %q is not canonical", key)
		}
	}
}
