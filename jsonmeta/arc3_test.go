package jsonmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/arc89/arcerr"
)

func mustDecode(t *testing.T, s string) *Object {
	t.Helper()
	o, err := Decode([]byte(s))
	require.NoError(t, err)
	return o
}

func TestValidateARC3_Valid(t *testing.T) {
	docs := []string{
		`{}`,
		`{"name":"x","decimals":0,"description":"d","image":"ipfs://x","unitName":"U","properties":{"a":1},"custom":[1,2]}`,
		`{"decimals":18}`,
		`{"decimals":-0}`,
		`{"decimals":2.0}`,
		`{"decimals":1e0}`,
		`{"decimals":-0.0}`,
		`{"decimals":1.5e1}`,
		`{"localization":{"uri":"ipfs://x/{locale}.json","default":"en","locales":["en","fr"]}}`,
		`{"localization":{"uri":"u","default":"en","locales":[]}}`,
	}
	for _, d := range docs {
		assert.NoError(t, ValidateARC3(mustDecode(t, d)), d)
	}
}

func TestValidateARC3_Invalid(t *testing.T) {
	tests := []struct {
		doc  string
		rule string
	}{
		{`{"decimals":-1}`, "ARC3-SCHEMA-001"},
		{`{"decimals":1.5}`, "ARC3-SCHEMA-001"},
		{`{"decimals":-1.0}`, "ARC3-SCHEMA-001"},
		{`{"decimals":1e-1}`, "ARC3-SCHEMA-001"},
		{`{"decimals":true}`, "ARC3-SCHEMA-001"},
		{`{"decimals":"2"}`, "ARC3-SCHEMA-001"},
		{`{"description":1}`, "ARC3-SCHEMA-002"},
		{`{"image":null}`, "ARC3-SCHEMA-003"},
		{`{"unitName":["U"]}`, "ARC3-SCHEMA-004"},
		{`{"properties":[]}`, "ARC3-SCHEMA-005"},
		{`{"localization":"en"}`, "ARC3-SCHEMA-006"},
		{`{"localization":{"default":"en","locales":[]}}`, "ARC3-SCHEMA-007"},
		{`{"localization":{"uri":"u","locales":[]}}`, "ARC3-SCHEMA-008"},
		{`{"localization":{"uri":"u","default":"en"}}`, "ARC3-SCHEMA-009"},
		{`{"localization":{"uri":"u","default":"en","locales":["en",1]}}`, "ARC3-SCHEMA-009"},
	}
	for _, tc := range tests {
		t.Run(tc.doc, func(t *testing.T) {
			err := ValidateARC3(mustDecode(t, tc.doc))
			require.Error(t, err)
			assert.True(t, arcerr.IsKind(err, arcerr.KindRange))
			assert.Equal(t, tc.rule, arcerr.RuleID(err))
		})
	}
	assert.Error(t, ValidateARC3(nil))
}
