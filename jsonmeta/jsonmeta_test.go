package jsonmeta

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
)

func TestDecode_Empty(t *testing.T) {
	o, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, o.Len())
	b, err := Encode(o)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))
}

func TestDecode_PreservesOrder(t *testing.T) {
	o, err := Decode([]byte(`{ "z": 1, "a": [true, null, "x"], "m": {"k": 2.50} }`))
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())

	b, err := Encode(o)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,"x"],"m":{"k":2.50}}`, string(b))
}

func TestDecode_DuplicateKeys(t *testing.T) {
	o, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, _ := o.Get("a")
	n, ok := v.AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(3), n)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		rule string
	}{
		{"bom", []byte("\xEF\xBB\xBF{}"), "ARC89-JSON-001"},
		{"invalid utf8", []byte("{\"a\":\"\xff\"}"), "ARC89-JSON-002"},
		{"invalid json", []byte(`{"a":`), "ARC89-JSON-003"},
		{"trailing", []byte(`{} {}`), "ARC89-JSON-003"},
		{"array", []byte(`[1]`), "ARC89-JSON-004"},
		{"string", []byte(`"x"`), "ARC89-JSON-004"},
		{"number", []byte(`1`), "ARC89-JSON-004"},
		{"null", []byte(`null`), "ARC89-JSON-004"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.in)
			require.Error(t, err)
			assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))
			assert.Equal(t, tc.rule, arcerr.RuleID(err))
		})
	}
}

func TestEncode_Compact_NonASCII_NoHTMLEscape(t *testing.T) {
	o := NewObject().
		Set("name", String("Zoë <&> \"q\" \\ \n\t\x01")).
		Set("emoji", String("🚀"))
	b, err := Encode(o)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Zoë <&> \"q\" \\ \n\t\u0001","emoji":"🚀"}`, string(b))

	back, err := Decode(b)
	require.NoError(t, err)
	v, _ := back.Get("name")
	s, _ := v.AsString()
	assert.Equal(t, "Zoë <&> \"q\" \\ \n\t\x01", s)
}

func TestEncode_Cycle(t *testing.T) {
	a := NewObject()
	b := NewObject().Set("a", ObjectValue(a))
	a.Set("b", ObjectValue(b))
	_, err := Encode(a)
	require.Error(t, err)
	assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))
	assert.Equal(t, "ARC89-JSON-012", arcerr.RuleID(err))
}

func TestEncode_SharedObjectIsNotACycle(t *testing.T) {
	shared := NewObject().Set("x", Int(1))
	o := NewObject().Set("a", ObjectValue(shared)).Set("b", ObjectValue(shared))
	b, err := Encode(o)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"x":1},"b":{"x":1}}`, string(b))
}

func TestEncode_InvalidNumbers(t *testing.T) {
	for _, v := range []Value{Float(math.NaN()), Float(math.Inf(1)), Number("1.2.3"), Number("")} {
		_, err := Encode(NewObject().Set("n", v))
		require.Error(t, err)
		assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))
	}
	b, err := Encode(NewObject().Set("f", Float(1.5)).Set("i", Int(-3)))
	require.NoError(t, err)
	assert.Equal(t, `{"f":1.5,"i":-3}`, string(b))
}

func TestObject_SetDelete(t *testing.T) {
	o := NewObject().Set("a", Int(1)).Set("b", Int(2)).Set("c", Int(3))
	o.Set("a", Int(9))
	o.Delete("b")
	o.Delete("missing")
	assert.Equal(t, []string{"a", "c"}, o.Keys())
	assert.False(t, o.Has("b"))

	var zero Object
	zero.Set("k", Bool(true))
	assert.Equal(t, 1, zero.Len())
}

func TestObject_JSONInterop(t *testing.T) {
	var o Object
	require.NoError(t, json.Unmarshal([]byte(`{"b":1,"a":2}`), &o))
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	b, err := json.Marshal(&o)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":2}`, string(b))
}

func TestFromGoToGo(t *testing.T) {
	v, err := FromGo(map[string]any{"b": []any{1, "x", nil, true}, "a": 2.5})
	require.NoError(t, err)
	o, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	b, err := Encode(o)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2.5,"b":[1,"x",null,true]}`, string(b))

	g := ToGo(v).(map[string]any)
	assert.Equal(t, json.Number("2.5"), g["a"])

	_, err = FromGo(struct{}{})
	assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))

	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	_, err = FromGo(cyclic)
	assert.True(t, arcerr.IsKind(err, arcerr.KindEncoding))
}

func TestValue_Accessors(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.True(t, Int(5).IsInteger())
	assert.True(t, Number("-0").IsInteger())
	assert.False(t, Number("2.0").IsInteger())
	assert.False(t, Number("1e3").IsInteger())
	assert.False(t, String("1").IsInteger())
	assert.True(t, Number("2.0").IsIntegral())
	assert.True(t, Number("1e3").IsIntegral())
	assert.False(t, Number("1.5").IsIntegral())
	assert.False(t, Bool(true).IsIntegral())
	_, ok := Number("99999999999999999999").AsInt()
	assert.False(t, ok)
	assert.Equal(t, "object", KindObject.String())
	assert.True(t, ObjectValue(nil).IsNull())
}

func TestPretty(t *testing.T) {
	s, err := Pretty(NewObject().Set("a", Int(1)))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", s)
}
