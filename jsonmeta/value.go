// Package jsonmeta is the JSON model of record bodies: an insertion-ordered
// object of tagged values, strict UTF-8 decoding, compact encoding and the
// structural ARC-3 checks.
package jsonmeta

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// Kind tags a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is one JSON value. The zero Value is null.
//
// Numbers keep their literal text so that decoding and re-encoding never
// changes their representation.
type Value struct {
	kind Kind
	b    bool
	s    string
	arr  []Value
	obj  *Object
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, s: s} }

// Number wraps a number literal. Literals that are not valid JSON numbers
// are rejected at encoding time.
func Number(n json.Number) Value { return Value{kind: KindNumber, s: string(n)} }

func Int(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// Float wraps f in its shortest representation. NaN and infinities cannot be
// encoded.
func Float(f float64) Value { return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)} }

func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value{}, items...)}
}

// ObjectValue wraps o; a nil object is null.
func ObjectValue(o *Object) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.s), true
}

// IsInteger reports whether v is a number written without fraction or
// exponent.
func (v Value) IsInteger() bool {
	if v.kind != KindNumber || v.s == "" {
		return false
	}
	for i := 0; i < len(v.s); i++ {
		switch c := v.s[i]; {
		case c == '-' && i == 0:
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return v.s != "-"
}

// AsFloat returns the exact value of a number. Literals that cannot be held
// exactly in 1024 bits of mantissa are refused.
func (v Value) AsFloat() (*big.Float, bool) {
	if v.kind != KindNumber {
		return nil, false
	}
	f, _, err := big.ParseFloat(v.s, 10, 1024, big.ToNearestEven)
	if err != nil || f.Acc() != big.Exact {
		return nil, false
	}
	return f, true
}

// IsIntegral reports whether v is a number with a whole value, however it is
// written: 2, 2.0 and 2e0 all qualify.
func (v Value) IsIntegral() bool {
	f, ok := v.AsFloat()
	return ok && f.IsInt()
}

// AsInt returns v as an int64 when it is an integer literal in range.
func (v Value) AsInt() (int64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	return n, err == nil
}

// AsArray returns a copy of the elements.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return append([]Value{}, v.arr...), true
}

func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// Object is a JSON object that remembers insertion order.
type Object struct {
	keys []string
	vals map[string]Value
}

func NewObject() *Object { return &Object{vals: map[string]Value{}} }

// Set stores v under key. Replacing keeps the key's original position.
func (o *Object) Set(key string, v Value) *Object {
	if o.vals == nil {
		o.vals = map[string]Value{}
	}
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
	return o
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.vals[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON encodes o compactly; see Encode.
func (o *Object) MarshalJSON() ([]byte, error) { return Encode(o) }

// UnmarshalJSON decodes a JSON object into o; see Decode.
func (o *Object) UnmarshalJSON(b []byte) error {
	d, err := Decode(b)
	if err != nil {
		return err
	}
	*o = *d
	return nil
}
