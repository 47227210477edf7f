// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package avail

import "fmt"

// MaxNameLength is the crates.io limit on crate name length.
const MaxNameLength = 64

// InvalidReason classifies why a crate name failed validation.
type InvalidReason int

const (
	// ReasonEmpty: the name is empty.
	ReasonEmpty InvalidReason = iota
	// ReasonTooLong: the name exceeds MaxNameLength characters.
	ReasonTooLong
	// ReasonStartWithDigit: the first character is an ASCII digit.
	ReasonStartWithDigit
	// ReasonStart: the first character is not ASCII alphabetic.
	ReasonStart
	// ReasonChar: an interior character is outside [A-Za-z0-9_-].
	ReasonChar
)

// InvalidNameError reports a crate name rejected by the crates.io naming
// rules. Validation is deterministic, so the error is never transient.
type InvalidNameError struct {
	Name   string
	Reason InvalidReason
	// Char is the offending character for ReasonStart and ReasonChar.
	Char rune
}

// Error mirrors the crates.io rejection wording for each reason.
func (e *InvalidNameError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "crate name cannot be empty"
	case ReasonTooLong:
		return fmt.Sprintf("crate name `%s` is too long (max %d characters)", e.Name, MaxNameLength)
	case ReasonStartWithDigit:
		return fmt.Sprintf("the name `%s` cannot start with a digit", e.Name)
	case ReasonStart:
		return fmt.Sprintf("invalid character `%c` in crate name: `%s`, the first character must be an ASCII character", e.Char, e.Name)
	case ReasonChar:
		return fmt.Sprintf("invalid character `%c` in crate name: `%s`, characters must be ASCII alphanumeric, `-`, or `_`", e.Char, e.Name)
	default:
		return fmt.Sprintf("invalid crate name `%s`", e.Name)
	}
}

// ValidateName checks name against the crates.io naming rules: non-empty, at
// most MaxNameLength characters, ASCII alphabetic first character, and ASCII
// alphanumeric, `-`, or `_` thereafter. Returns an *InvalidNameError naming
// the first violated rule, or nil.
func ValidateName(name string) error {
	runes := []rune(name)
	if len(runes) > MaxNameLength {
		return &InvalidNameError{Name: name, Reason: ReasonTooLong}
	}
	if len(runes) == 0 {
		return &InvalidNameError{Name: name, Reason: ReasonEmpty}
	}
	first := runes[0]
	if first >= '0' && first <= '9' {
		return &InvalidNameError{Name: name, Reason: ReasonStartWithDigit}
	}
	if !isASCIIAlpha(first) {
		return &InvalidNameError{Name: name, Reason: ReasonStart, Char: first}
	}
	for _, ch := range runes[1:] {
		if !isASCIIAlpha(ch) && !(ch >= '0' && ch <= '9') && ch != '-' && ch != '_' {
			return &InvalidNameError{Name: name, Reason: ReasonChar, Char: ch}
		}
	}
	return nil
}

func isASCIIAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
