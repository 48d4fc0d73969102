package jsonmeta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"xdao.co/arc89/arcerr"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// maxDepth bounds nesting on conversion from Go values, which is where
// cyclic maps and slices would otherwise recurse forever.
const maxDepth = 512

// Decode parses a record body. The input must be UTF-8 without a byte-order
// mark and hold a single JSON object; empty input decodes to an empty object.
// Duplicate keys keep their first position and their last value.
func Decode(b []byte) (*Object, error) {
	if len(b) == 0 {
		return NewObject(), nil
	}
	if bytes.HasPrefix(b, bom) {
		return nil, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-001", "metadata must not start with a byte-order mark")
	}
	if !utf8.Valid(b) {
		return nil, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-002", "metadata is not valid UTF-8")
	}
	if !json.Valid(b) {
		return nil, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-003", "metadata is not valid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, arcerr.Wrap(arcerr.KindEncoding, "ARC89-JSON-003", "metadata is not valid JSON", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-003", "metadata is not valid JSON: trailing data")
	}
	obj, ok := v.AsObject()
	if !ok {
		return nil, arcerr.Newf(arcerr.KindEncoding, "ARC89-JSON-004", "metadata must be a JSON object, got %s", v.Kind())
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ObjectValue(obj), nil
		case '[':
			items := []Value{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{kind: KindArray, arr: items}, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// Encode serializes o as compact UTF-8 JSON: no insignificant whitespace, no
// byte-order mark, keys in insertion order, non-ASCII text left unescaped.
// Cyclic objects and invalid number literals fail with KindEncoding.
func Encode(o *Object) ([]byte, error) {
	if o == nil {
		return nil, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-010", "cannot encode a nil object")
	}
	e := encoder{active: map[*Object]bool{}}
	if err := e.object(o); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf    bytes.Buffer
	active map[*Object]bool
}

func (e *encoder) value(v Value) error {
	switch v.kind {
	case KindNull:
		e.buf.WriteString("null")
	case KindBool:
		if v.b {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case KindNumber:
		if !validNumber(v.s) {
			return arcerr.Newf(arcerr.KindEncoding, "ARC89-JSON-011", "value is not JSON serializable: number %q", v.s)
		}
		e.buf.WriteString(v.s)
	case KindString:
		writeString(&e.buf, v.s)
	case KindArray:
		e.buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case KindObject:
		return e.object(v.obj)
	default:
		return arcerr.Newf(arcerr.KindEncoding, "ARC89-JSON-011", "value is not JSON serializable: kind %d", v.kind)
	}
	return nil
}

func (e *encoder) object(o *Object) error {
	if e.active[o] {
		return arcerr.New(arcerr.KindEncoding, "ARC89-JSON-012", "value is not JSON serializable: cyclic reference")
	}
	e.active[o] = true
	defer delete(e.active, o)

	e.buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeString(&e.buf, k)
		e.buf.WriteByte(':')
		if err := e.value(o.vals[k]); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func validNumber(s string) bool {
	if s == "" {
		return false
	}
	var n json.Number
	return json.Unmarshal([]byte(s), &n) == nil && string(n) == s
}

const hexDigits = "0123456789abcdef"

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteString("\ufffd")
			} else {
				buf.WriteString(s[i : i+size])
			}
			i += size
			continue
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hexDigits[c>>4])
				buf.WriteByte(hexDigits[c&0xf])
			} else {
				buf.WriteByte(c)
			}
		}
		i++
	}
	buf.WriteByte('"')
}

// FromGo converts a generic Go value (as produced by encoding/json or
// written by hand) into a Value. Map keys are sorted because Go maps carry
// no order. The accepted shapes are nil, bool, string, json.Number, the Go
// integer and float types, []any, map[string]any, *Object and Value.
func FromGo(v any) (Value, error) { return fromGo(v, 0) }

func fromGo(v any, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, arcerr.New(arcerr.KindEncoding, "ARC89-JSON-012", "value is not JSON serializable: nesting too deep or cyclic")
	}
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Object:
		return ObjectValue(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(json.Number(fmt.Sprint(t))), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(json.Number(fmt.Sprint(t))), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			iv, err := fromGo(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, iv)
		}
		return Value{kind: KindArray, arr: items}, nil
	case []string:
		items := make([]Value, 0, len(t))
		for _, s := range t {
			items = append(items, String(s))
		}
		return Value{kind: KindArray, arr: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			iv, err := fromGo(t[k], depth+1)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, iv)
		}
		return ObjectValue(obj), nil
	default:
		return Value{}, arcerr.Newf(arcerr.KindEncoding, "ARC89-JSON-013", "value is not JSON serializable: %T", v)
	}
}

// ToGo converts v into generic Go values: nil, bool, string, json.Number,
// []any and map[string]any. Order is lost.
func ToGo(v Value) any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = ToGo(item)
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj.keys))
		for _, k := range v.obj.keys {
			out[k] = ToGo(v.obj.vals[k])
		}
		return out
	default:
		return nil
	}
}

// Pretty renders o indented for display.
func Pretty(o *Object) (string, error) {
	b, err := Encode(o)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", err
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
