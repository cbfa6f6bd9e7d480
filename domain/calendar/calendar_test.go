package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	start := time.Date(2024, 6, 1, 14, 30, 0, 0, loc)
	end := time.Date(2024, 6, 3, 9, 0, 0, 0, loc)

	r := Normalize(start, end, loc)

	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), r.CheckIn)
	assert.Equal(t, time.Date(2024, 6, 3, 23, 59, 59, 999000000, loc), r.CheckOut)
}

func TestNormalize_UsesLocationCalendarDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 1st is already the 2nd in IST
	start := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)

	r := Normalize(start, start, loc)

	assert.Equal(t, 2, r.CheckIn.Day())
	assert.Equal(t, 2, r.CheckOut.Day())
}

func TestNormalize_IsIdempotent(t *testing.T) {
	r := Normalize(day(t, "2024-01-10"), day(t, "2024-01-12"), time.UTC)
	again := Normalize(r.CheckIn, r.CheckOut, time.UTC)
	assert.True(t, r.Equal(again))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     [2]string
		expected bool
	}{
		{"same-day turnover", [2]string{"2024-01-10", "2024-01-12"}, [2]string{"2024-01-12", "2024-01-14"}, true},
		{"disjoint", [2]string{"2024-01-10", "2024-01-11"}, [2]string{"2024-01-13", "2024-01-14"}, false},
		{"adjacent days", [2]string{"2024-01-10", "2024-01-11"}, [2]string{"2024-01-12", "2024-01-14"}, false},
		{"contained", [2]string{"2024-06-01", "2024-06-10"}, [2]string{"2024-06-03", "2024-06-04"}, true},
		{"partial", [2]string{"2024-06-01", "2024-06-03"}, [2]string{"2024-06-02", "2024-06-04"}, true},
		{"identical", [2]string{"2024-06-01", "2024-06-03"}, [2]string{"2024-06-01", "2024-06-03"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Normalize(day(t, tt.a[0]), day(t, tt.a[1]), time.UTC)
			b := Normalize(day(t, tt.b[0]), day(t, tt.b[1]), time.UTC)

			assert.Equal(t, tt.expected, a.Overlaps(b))
			assert.Equal(t, tt.expected, b.Overlaps(a), "overlap must be symmetric")
			assert.Equal(t, tt.expected, Overlaps(a.CheckIn, a.CheckOut, b.CheckIn, b.CheckOut))
		})
	}
}

func TestRangeEqual_IgnoresLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	r := Normalize(day(t, "2024-06-01"), day(t, "2024-06-03"), loc)
	inUTC := Range{CheckIn: r.CheckIn.UTC(), CheckOut: r.CheckOut.UTC()}

	assert.True(t, r.Equal(inUTC))
}

func TestRangeNights(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		name     string
		in, out  string
		loc      *time.Location
		expected int
	}{
		{"two nights", "2024-06-01", "2024-06-03", time.UTC, 2},
		{"same day counts once", "2024-06-01", "2024-06-01", time.UTC, 1},
		{"across a month end", "2024-01-30", "2024-02-02", time.UTC, 3},
		{"non-UTC calendar", "2024-06-01", "2024-06-04", ist, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ParseDate(tt.in, tt.loc)
			require.NoError(t, err)
			out, err := ParseDate(tt.out, tt.loc)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, Normalize(in, out, tt.loc).Nights())
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	ts, err := ParseDate("2024-06-01T10:15:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, ts.Hour())

	_, err = ParseDate("01/06/2024", time.UTC)
	assert.Error(t, err)
}
