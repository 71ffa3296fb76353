package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRef = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestResolver() *Resolver {
	return NewResolverAt(time.UTC, func() time.Time { return testRef })
}

// TestParseRelative tests relative expressions against fixed unit lengths.
func TestParseRelative(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		input string
		want  time.Duration
	}{
		{"1h", time.Hour},
		{"24h", 24 * time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"1w", 7 * 24 * time.Hour},
		{"2m", 60 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
		{"10D", 10 * 24 * time.Hour}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := r.Parse(tt.input, testRef)
			require.NoError(t, err)
			assert.Equal(t, testRef.Add(-tt.want), got)
		})
	}
}

// TestParseAbsolute tests the two absolute grammars.
func TestParseAbsolute(t *testing.T) {
	r := newTestResolver()

	got, err := r.Parse("2025-01-10", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = r.Parse("2025-01-10 14:30:15", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 14, 30, 15, 0, time.UTC), got)
}

// TestParseInvalid tests that malformed expressions fail with ErrInvalidFormat.
func TestParseInvalid(t *testing.T) {
	r := newTestResolver()

	invalid := []string{
		"3x",          // bad unit, must not fall through to absolute grammars
		"abc",
		"d3",
		"-3d",
		"2025-1-1",    // wrong width
		"2025-01-10 14:30", // missing seconds
		"20250110",
		"",
	}

	for _, input := range invalid {
		t.Run(input, func(t *testing.T) {
			_, err := r.Parse(input, testRef)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

// TestRangeDefaults tests that an empty end resolves to the reference instant.
func TestRangeDefaults(t *testing.T) {
	r := newTestResolver()

	from, to, err := r.Range("3d", "", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, testRef.Add(-3*24*time.Hour), from)
	assert.Equal(t, testRef, to)
}

// TestRangeEndOfDay tests that a bare absolute end date covers the whole day
// while the same string as start resolves to midnight.
func TestRangeEndOfDay(t *testing.T) {
	r := newTestResolver()

	from, to, err := r.Range("2025-01-10", "2025-01-10", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC), to)
}

// TestRangeEndWithTimeNotAdjusted tests that a date-time end keeps its exact time.
func TestRangeEndWithTimeNotAdjusted(t *testing.T) {
	r := newTestResolver()

	_, to, err := r.Range("2025-01-01", "2025-01-10 10:00:00", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC), to)
}

// TestRangeSwap tests that an inverted range is silently reordered.
func TestRangeSwap(t *testing.T) {
	r := newTestResolver()

	from, to, err := r.Range("1d", "1w", time.Time{})
	require.NoError(t, err)
	assert.True(t, !from.After(to), "range must be ascending")
	assert.Equal(t, testRef.Add(-7*24*time.Hour), from)
	assert.Equal(t, testRef.Add(-24*time.Hour), to)
}

// TestRangePropagatesInvalid tests that bad expressions in either position fail.
func TestRangePropagatesInvalid(t *testing.T) {
	r := newTestResolver()

	_, _, err := r.Range("3x", "", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, _, err = r.Range("3d", "3x", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

// TestFormatDisplay tests display formatting with and without zone.
func TestFormatDisplay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-15 09:30:00 UTC", FormatDisplay(ts, true))
	assert.Equal(t, "2025-06-15 09:30:00", FormatDisplay(ts, false))
}

// TestResolverZone tests absolute parsing in a non-UTC canonical zone.
func TestResolverZone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	r := NewResolver(chicago)
	got, err := r.Parse("2025-01-10", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, chicago, got.Location())
	assert.Equal(t, 0, got.Hour())
}
