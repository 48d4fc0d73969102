package jsonmeta

import (
	"xdao.co/arc89/arcerr"
)

// ValidateARC3 applies the structural ARC-3 checks to o. Every check is an
// independent predicate over an optional key; unknown keys are always
// allowed.
func ValidateARC3(o *Object) error {
	if o == nil {
		return arcerr.New(arcerr.KindRange, "ARC3-SCHEMA-000", "ARC-3 metadata must be an object")
	}
	for _, check := range arc3Checks {
		v, ok := o.Get(check.key)
		if !ok {
			continue
		}
		if err := check.fn(v); err != nil {
			return err
		}
	}
	return nil
}

type fieldCheck struct {
	key string
	fn  func(Value) error
}

var arc3Checks = []fieldCheck{
	{"decimals", func(v Value) error {
		// Booleans are not integers even where a host language treats them so.
		// The value counts, not the literal: 2.0 and 2e0 are both 2.
		n, ok := v.AsFloat()
		if !ok || !n.IsInt() || n.Sign() < 0 {
			return schemaErr("ARC3-SCHEMA-001", "decimals must be a non-negative integer")
		}
		return nil
	}},
	{"description", requireString("ARC3-SCHEMA-002", "description")},
	{"image", requireString("ARC3-SCHEMA-003", "image")},
	{"unitName", requireString("ARC3-SCHEMA-004", "unitName")},
	{"properties", func(v Value) error {
		if v.Kind() != KindObject {
			return schemaErr("ARC3-SCHEMA-005", "properties must be an object")
		}
		return nil
	}},
	{"localization", validateLocalization},
}

func requireString(rule, field string) func(Value) error {
	return func(v Value) error {
		if v.Kind() != KindString {
			return schemaErr(rule, field+" must be a string")
		}
		return nil
	}
}

func validateLocalization(v Value) error {
	loc, ok := v.AsObject()
	if !ok {
		return schemaErr("ARC3-SCHEMA-006", "localization must be an object")
	}
	if s, ok := loc.Get("uri"); !ok || s.Kind() != KindString {
		return schemaErr("ARC3-SCHEMA-007", "localization.uri must be a string")
	}
	if s, ok := loc.Get("default"); !ok || s.Kind() != KindString {
		return schemaErr("ARC3-SCHEMA-008", "localization.default must be a string")
	}
	locales, ok := loc.Get("locales")
	items, isArray := locales.AsArray()
	if !ok || !isArray {
		return schemaErr("ARC3-SCHEMA-009", "localization.locales must be an array of strings")
	}
	for _, item := range items {
		if item.Kind() != KindString {
			return schemaErr("ARC3-SCHEMA-009", "localization.locales must be an array of strings")
		}
	}
	return nil
}

func schemaErr(rule, msg string) error { return arcerr.New(arcerr.KindRange, rule, msg) }
