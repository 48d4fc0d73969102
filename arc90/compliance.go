// Package arc90 implements the compact location URI of a registry record and
// its compliance-tag fragment:
//
//	algorand://[net:<tag>/]app/<uint>?box=<base64url>[#arc<n>[+<n>...]]
package arc90

import (
	"strconv"
	"strings"

	"xdao.co/arc89/arcerr"
)

// ARC3 is the compliance number that must be declared alone.
const ARC3 = 3

// Compliance is the ordered set of ARC numbers a record declares conformance
// to. A value may be built holding ARC3 together with other numbers, but it
// cannot be serialized that way.
type Compliance struct {
	tags []uint64
}

// NewCompliance builds a set from tags in order, dropping duplicates.
func NewCompliance(tags ...uint64) Compliance {
	var c Compliance
	for _, t := range tags {
		if !c.Has(t) {
			c.tags = append(c.tags, t)
		}
	}
	return c
}

// ParseCompliance parses a fragment of the form "#arc<n>[+<n>...]"; the
// leading '#' is optional. Numbers are decimal without leading zeros.
//
// Malformed fragments, and fragments combining ARC3 with anything else, parse
// to the empty set rather than failing.
func ParseCompliance(fragment string) Compliance {
	s := strings.TrimPrefix(fragment, "#")
	if s == "" {
		return Compliance{}
	}
	body, ok := strings.CutPrefix(s, "arc")
	if !ok || body == "" {
		return Compliance{}
	}
	var c Compliance
	for _, part := range strings.Split(body, "+") {
		n, ok := parseTagNumber(part)
		if !ok {
			return Compliance{}
		}
		if !c.Has(n) {
			c.tags = append(c.tags, n)
		}
	}
	if !c.Valid() {
		return Compliance{}
	}
	return c
}

func parseTagNumber(s string) (uint64, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Tags returns a copy of the ARC numbers in declaration order.
func (c Compliance) Tags() []uint64 { return append([]uint64(nil), c.tags...) }

func (c Compliance) Len() int      { return len(c.tags) }
func (c Compliance) IsEmpty() bool { return len(c.tags) == 0 }

// Has reports whether n is declared.
func (c Compliance) Has(n uint64) bool {
	for _, t := range c.tags {
		if t == n {
			return true
		}
	}
	return false
}

// Valid reports whether the set obeys the ARC3-alone rule.
func (c Compliance) Valid() bool { return !(c.Has(ARC3) && len(c.tags) > 1) }

// Equal compares two sets including order.
func (c Compliance) Equal(o Compliance) bool {
	if len(c.tags) != len(o.tags) {
		return false
	}
	for i := range c.tags {
		if c.tags[i] != o.tags[i] {
			return false
		}
	}
	return true
}

// Fragment serializes the set as "#arc<n>[+<n>...]", or "" when empty.
func (c Compliance) Fragment() (string, error) {
	if len(c.tags) == 0 {
		return "", nil
	}
	if !c.Valid() {
		return "", arcerr.New(arcerr.KindInvariant, "ARC90-COMP-001", "ARC-3 compliance cannot be combined with other tags")
	}
	var b strings.Builder
	b.WriteString("#arc")
	for i, t := range c.tags {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.FormatUint(t, 10))
	}
	return b.String(), nil
}
