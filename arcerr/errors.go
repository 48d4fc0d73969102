// Package arcerr defines the structured error type shared by every package of
// the registry core.
package arcerr

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Error() strings are human-readable and may evolve.
type Kind string

const (
	// KindEncoding covers malformed UTF-8, JSON or base64 input and values
	// that cannot be serialized.
	KindEncoding Kind = "Encoding"
	// KindType covers inputs of an unsupported shape.
	KindType Kind = "Type"
	// KindRange covers values outside their byte/uint16/uint64 bounds,
	// non-positive chunk sizes and negative sizes.
	KindRange Kind = "Range"
	// KindParse covers structural failures: records that are too small or
	// too large, malformed URIs.
	KindParse Kind = "Parse"
	// KindInvariant covers policy violations.
	KindInvariant Kind = "Invariant"
)

// Error is the structured error type of the registry core.
//
// RuleID is a stable identifier (e.g. ARC89-BOX-001) naming the violated rule.
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a structured error.
func New(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// Newf is like New with a formatted message.
func Newf(kind Kind, ruleID, format string, args ...any) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a structured error carrying cause. A nil cause yields the
// same value as New.
func Wrap(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return New(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
