package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(buckets []Bucket) []string {
	out := make([]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.Label)
	}
	return out
}

func TestWindow(t *testing.T) {
	now := time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

	start, end := Window(now, WindowRolling)
	assert.Equal(t, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)

	start, end = Window(now, WindowYear)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)

	start, _ = Window(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), WindowRolling)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestBuildMonthlyZeroFillsMissingMonths(t *testing.T) {
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 28, 23, 59, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	buckets := BuildMonthly(now, WindowYear, stamps)
	require.Len(t, buckets, MonthsInWindow)
	require.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}, labels(buckets))

	march := buckets[2]
	require.Equal(t, time.March, march.Month)
	require.Equal(t, 2026, march.Year)
	require.Zero(t, march.Count)
	require.EqualValues(t, 2, buckets[1].Count)
	require.EqualValues(t, 1, buckets[3].Count)
}

func TestBuildMonthlyRollingAcrossYears(t *testing.T) {
	now := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 24, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	}

	buckets := BuildMonthly(now, WindowRolling, stamps)
	require.Len(t, buckets, MonthsInWindow)
	require.Equal(t, "Apr", buckets[0].Label)
	require.Equal(t, 2025, buckets[0].Year)
	require.Equal(t, "Mar", buckets[11].Label)
	require.Equal(t, 2026, buckets[11].Year)

	var total int64
	for _, b := range buckets {
		total += b.Count
	}
	require.EqualValues(t, 3, total)
	require.EqualValues(t, 1, buckets[0].Count)
	require.EqualValues(t, 1, buckets[8].Count)
	require.EqualValues(t, 1, buckets[11].Count)
}

func TestBuildMonthlyEmpty(t *testing.T) {
	buckets := BuildMonthly(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), WindowRolling, nil)
	require.Len(t, buckets, MonthsInWindow)
	for _, b := range buckets {
		require.Zero(t, b.Count)
	}
}

func TestParseWindowMode(t *testing.T) {
	mode, err := ParseWindowMode("")
	require.NoError(t, err)
	require.Equal(t, WindowRolling, mode)

	mode, err = ParseWindowMode("year")
	require.NoError(t, err)
	require.Equal(t, WindowYear, mode)

	_, err = ParseWindowMode("decade")
	require.Error(t, err)
}

func TestBadgeColorFor(t *testing.T) {
	assert.Equal(t, "primary", BadgeColorFor(0).String())
	assert.Equal(t, "primary", BadgeColorFor(100).String())
	assert.Equal(t, "warning", BadgeColorFor(101).String())
}
