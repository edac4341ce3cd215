package id

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalJSON(t *testing.T) {
	valid := New()

	tests := []struct {
		name  string
		input string
		want  Ref
	}{
		{name: "null", input: `null`, want: Ref{}},
		{name: "empty string", input: `""`, want: Ref{}},
		{name: "malformed", input: `"not-a-uuid"`, want: Ref{}},
		{name: "number", input: `42`, want: Ref{}},
		{name: "valid", input: `"` + valid.String() + `"`, want: RefOf(valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRef_MarshalJSON(t *testing.T) {
	v := New()

	out, err := json.Marshal(struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
	}{A: RefOf(v)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"`+v.String()+`","b":null}`, string(out))
}

func TestRef_Value(t *testing.T) {
	v := New()

	got, err := RefOf(v).Value()
	require.NoError(t, err)
	assert.Equal(t, v.String(), got)

	got, err = Ref{}.Value()
	require.NoError(t, err)
	assert.Nil(t, got)

	var r Ref
	require.NoError(t, r.Scan(v.String()))
	assert.Equal(t, RefOf(v), r)

	require.NoError(t, r.Scan(nil))
	assert.False(t, r.Valid)
}

func TestRefOf_NilID(t *testing.T) {
	assert.False(t, RefOf(Nil()).Valid)
	assert.Nil(t, Ref{}.Ptr())
}
