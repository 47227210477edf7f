// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package avail

import "sync"

// reservedNames is the fixed list of names crates.io refuses to register,
// taken from its database migrations: Rust toolchain internals plus Windows
// device names (including com0/lpt0, reserved later than the others).
var reservedNames = []string{
	// Rust toolchain internals
	"alloc",
	"arena",
	"ast",
	"builtins",
	"collections",
	"compiler-builtins",
	"compiler-rt",
	"compiletest",
	"core",
	"coretest",
	"debug",
	"driver",
	"flate",
	"fmt_macros",
	"grammar",
	"graphviz",
	"macro",
	"macros",
	"proc_macro",
	"rbml",
	"rust-installer",
	"rustbook",
	"rustc",
	"rustc_back",
	"rustc_borrowck",
	"rustc_driver",
	"rustc_llvm",
	"rustc_resolve",
	"rustc_trans",
	"rustc_typeck",
	"rustdoc",
	"rustllvm",
	"rustuv",
	"serialize",
	"std",
	"syntax",
	"test",
	"unicode",
	// Windows device names
	"nul",
	"con",
	"prn",
	"aux",
	"com0",
	"com1",
	"com2",
	"com3",
	"com4",
	"com5",
	"com6",
	"com7",
	"com8",
	"com9",
	"lpt0",
	"lpt1",
	"lpt2",
	"lpt3",
	"lpt4",
	"lpt5",
	"lpt6",
	"lpt7",
	"lpt8",
	"lpt9",
}

// reservedSet holds the canonical forms of reservedNames. Built once, then
// read-only, so lookups are safe from any goroutine.
var reservedSet = sync.OnceValue(func() map[string]bool {
	set := make(map[string]bool, len(reservedNames))
	for _, name := range reservedNames {
		set[CanonicalName(name)] = true
	}
	return set
})

// IsReserved reports whether name is reserved by crates.io. Membership is
// decided on the canonical form, so any separator or case spelling of a
// reserved name matches.
func IsReserved(name string) bool {
	return reservedSet()[CanonicalName(name)]
}
