package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValue_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want FieldValue
	}{
		{"string", `"Ada"`, StringValue("Ada")},
		{"bool", `true`, BoolValue(true)},
		{"null", `null`, StringValue("")},
		{"number", `1.50`, StringValue("1.5")},
		{"mixed list keeps numbers", `["a", 2, 3.25, true, null]`, ListValue([]string{"a", "2", "3.25", "true", ""})},
		{"object in list", `[{"city":"Oslo"}]`, ListValue([]string{`{"city":"Oslo"}`})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var v FieldValue
			require.NoError(t, json.Unmarshal([]byte(tc.in), &v))
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestFieldValue_ListSurvivesEncoding(t *testing.T) {
	var v FieldValue
	require.NoError(t, json.Unmarshal([]byte(`[7, "x"]`), &v))

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `["7","x"]`, string(data))
}
