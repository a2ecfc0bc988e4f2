package jsonconv

import (
	"testing"

	"github.com/aarondl/null/v8"
	boilertypes "github.com/aarondl/sqlboiler/v4/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	got, err := ToJSON(map[string]string{"rig": "IC-7300"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rig":"IC-7300"}`, string(got.(boilertypes.JSON)))

	var nilMap map[string]string
	got, err = ToJSON(nilMap)
	require.NoError(t, err)
	assert.Empty(t, got.(boilertypes.JSON))

	_, err = ToJSON(make(chan int))
	assert.Error(t, err)
}

func TestToNullJSON(t *testing.T) {
	tests := []struct {
		name  string
		input any
		valid bool
		want  string
	}{
		{name: "map", input: map[string]int{"power": 100}, valid: true, want: `{"power":100}`},
		{name: "nil", input: nil},
		{name: "nil slice", input: []string(nil)},
		{name: "empty slice", input: []string{}, valid: true, want: `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToNullJSON(tt.input)
			require.NoError(t, err)
			nj := got.(null.JSON)
			assert.Equal(t, tt.valid, nj.Valid)
			if tt.valid {
				assert.JSONEq(t, tt.want, string(nj.JSON))
			}
		})
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    map[string]string
		wantErr bool
	}{
		{name: "types.JSON", input: boilertypes.JSON(`{"a":"1"}`), want: map[string]string{"a": "1"}},
		{name: "null.JSON", input: null.JSONFrom([]byte(`{"b":"2"}`)), want: map[string]string{"b": "2"}},
		{name: "invalid null.JSON", input: null.JSON{}},
		{name: "string", input: `{"c":"3"}`, want: map[string]string{"c": "3"}},
		{name: "json null", input: []byte("null")},
		{name: "nil", input: nil},
		{name: "bad json", input: `{"c":`, wantErr: true},
		{name: "not a carrier", input: 12, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromJSON[map[string]string](tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.(map[string]string))
		})
	}
}

func TestViaJSON(t *testing.T) {
	type station struct {
		Call string `json:"call"`
		Grid string `json:"grid"`
	}
	type row struct {
		Call string `json:"call"`
		Grid string `json:"grid"`
		Rig  string `json:"rig"`
	}

	got, err := ViaJSON[row](station{Call: "DL1ABC", Grid: "JO62"})
	require.NoError(t, err)
	assert.Equal(t, row{Call: "DL1ABC", Grid: "JO62"}, got)

	got, err = ViaJSON[row](nil)
	require.NoError(t, err)
	assert.Equal(t, row{}, got)

	_, err = ViaJSON[row](func() {})
	assert.Error(t, err)
}
