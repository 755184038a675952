package postalcodes

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testdata/dk_sample.dbf is a dBase III table (POSTNR N(4), NAVN C(30),
// LAT C(12), LON C(12)) in Windows-1252 with six rows: two valid, one with
// comma decimals, one deleted, one with a non-numeric latitude and one out of
// range.
func TestLoadDBF(t *testing.T) {
	rows, err := LoadDBF(filepath.Join("testdata", "dk_sample.dbf"), DefaultDBFFields)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "5000", rows[0].Code)
	assert.Equal(t, "Odense C", rows[0].City)
	assert.InDelta(t, 55.3959, rows[0].Coordinates.Lat, 1e-9)
	assert.InDelta(t, 10.3883, rows[0].Coordinates.Lon, 1e-9)

	// Comma decimals and a non-ASCII city name.
	assert.Equal(t, "5240", rows[1].Code)
	assert.Equal(t, "Odense NØ", rows[1].City)
	assert.InDelta(t, 55.4038, rows[1].Coordinates.Lat, 1e-9)
	assert.InDelta(t, 10.4024, rows[1].Coordinates.Lon, 1e-9)

	// Numeric postal codes are rendered without padding.
	assert.Equal(t, "800", rows[2].Code)
	assert.Equal(t, "Høje Taastrup", rows[2].City)
}

func TestLoadFileDetectsDBF(t *testing.T) {
	rows, err := LoadFile(filepath.Join("testdata", "dk_sample.dbf"), "")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoadDBFMissingFile(t *testing.T) {
	_, err := LoadDBF(filepath.Join(t.TempDir(), "missing.dbf"), DefaultDBFFields)
	assert.Error(t, err)
}

func TestDBFValueConversion(t *testing.T) {
	assert.Equal(t, "", dbfString(nil))
	assert.Equal(t, "5000", dbfString(int64(5000)))
	assert.Equal(t, "800", dbfString(int32(800)))
	assert.Equal(t, "Odense C", dbfString(" Odense C "))
	assert.Equal(t, "Aarhus", dbfString([]byte("Aarhus  ")))
	assert.Equal(t, "5000.5", dbfString(5000.5))

	for _, tc := range []struct {
		in   interface{}
		want float64
	}{
		{in: 55.4, want: 55.4},
		{in: float32(10.5), want: 10.5},
		{in: int64(12), want: 12},
		{in: int32(-8), want: -8},
		{in: "55,4038", want: 55.4038},
		{in: " 10.4024 ", want: 10.4024},
		{in: []byte("9,92"), want: 9.92},
	} {
		got, ok := dbfFloat(tc.in)
		require.True(t, ok, "dbfFloat(%v)", tc.in)
		assert.InDelta(t, tc.want, got, 1e-9, "dbfFloat(%v)", tc.in)
	}

	for _, in := range []interface{}{nil, "north", "", true} {
		_, ok := dbfFloat(in)
		assert.False(t, ok, "dbfFloat(%v)", in)
	}
}
