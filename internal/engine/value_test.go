package engine

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMagnitude(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		missing bool
	}{
		{in: "3.2M", want: 3_200_000},
		{in: "450k", want: 450_000},
		{in: "1,234", want: 1234},
		{in: "  12.5 ", want: 12.5},
		{in: "1,500.5k", want: 1_500_500},
		{in: "3.2 M", want: 3_200_000},
		{in: "-4k", want: -4000},
		{in: "7", want: 7},
		{in: "..", missing: true},
		{in: "", missing: true},
		{in: "   ", missing: true},
		{in: "N/A", missing: true},
		{in: "notanumber", missing: true},
		{in: "M", missing: true},
		{in: "12K", missing: true},
		{in: "NaN", missing: true},
		{in: "Inf", missing: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseMagnitude(tc.in)
			if tc.missing {
				assert.False(t, got.Valid(), "expected missing, got %v", got)
				return
			}
			f, ok := got.Float()
			require.True(t, ok)
			assert.InDelta(t, tc.want, f, 1e-6)
		})
	}
}

func TestParseCellMissingMarker(t *testing.T) {
	assert.False(t, ParseCell(MissingCell).Valid())
	assert.Equal(t, 10.0, ParseCell(TextCell("10")).Or(-1))
}

func TestSomeRejectsNonFinite(t *testing.T) {
	assert.False(t, Some(math.NaN()).Valid())
	assert.False(t, Some(math.Inf(1)).Valid())
	assert.True(t, Some(0).Valid())
	assert.False(t, Missing.Coerce().Valid())
	assert.Equal(t, 2.5, Some(2.5).Coerce().Or(0))
}

func TestValueJSON(t *testing.T) {
	out, err := json.Marshal([]Value{Some(2500000), Missing, Some(71.3)})
	require.NoError(t, err)
	assert.JSONEq(t, `[2500000, null, 71.3]`, string(out))

	var back []Value
	require.NoError(t, json.Unmarshal(out, &back))
	require.Len(t, back, 3)
	assert.Equal(t, Some(2500000), back[0])
	assert.False(t, back[1].Valid())
}
