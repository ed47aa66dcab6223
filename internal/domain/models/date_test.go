package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "2024-03-05"},
		{"2024/03/05", "2024-03-05"},
		{"05/03/2024", "2024-03-05"}, // DD/MM/YYYY
		{"31/12/2023", "2023-12-31"},
		{" 2024-03-05 ", "2024-03-05"},
		{"2024-03-05T10:30:00Z", "2024-03-05"},
		{"Mar 5, 2024", "2024-03-05"},
	}

	for _, tc := range cases {
		got, err := NormalizeDate(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeDate_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "13/13/13", "2024-3-5"} {
		_, err := NormalizeDate(in)
		require.Error(t, err, "input %q", in)
		assert.Contains(t, err.Error(), in, "the error should name the offending string")
	}
}

func TestParseDay(t *testing.T) {
	parsed, err := ParseDay("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDay("05/03/2024")
	assert.Error(t, err)
}

func TestMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	in := time.Date(2024, 3, 5, 23, 59, 58, 123, loc)

	out := Midnight(in)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, loc), out)
}
