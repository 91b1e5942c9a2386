package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCheck(t *testing.T) {
	hire := date(2015, time.March, 15)
	t.Run("exact anniversary is eligible", func(t *testing.T) {
		res := Check(&hire, date(2025, time.March, 15), 10)
		require.True(t, res.Known)
		require.True(t, res.Eligible)
		require.Equal(t, 10.0, res.YearsOfService)
		require.Zero(t, res.YearsUntilEligible)
	})
	t.Run("day before anniversary is not eligible", func(t *testing.T) {
		res := Check(&hire, date(2025, time.March, 14), 10)
		require.True(t, res.Known)
		require.False(t, res.Eligible)
		require.Less(t, res.YearsOfService, 10.0)
		require.Greater(t, res.YearsUntilEligible, 0.0)
		require.Equal(t, "2025-03-15", res.EligibleFrom)
	})
	t.Run("time of day is ignored", func(t *testing.T) {
		now := time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)
		require.True(t, Check(&hire, now, 10).Eligible)
	})
	t.Run("leap day hire", func(t *testing.T) {
		leap := date(2016, time.February, 29)
		require.False(t, Check(&leap, date(2026, time.February, 28), 10).Eligible)
		require.True(t, Check(&leap, date(2026, time.March, 1), 10).Eligible)
	})
	t.Run("unknown hire date", func(t *testing.T) {
		res := Check(nil, date(2025, time.March, 15), 10)
		require.False(t, res.Known)
		require.False(t, res.Eligible)
		require.Zero(t, res.YearsUntilEligible)
	})
	t.Run("default threshold", func(t *testing.T) {
		require.True(t, Check(&hire, date(2025, time.March, 15), 0).Eligible)
	})
	t.Run("fractional years", func(t *testing.T) {
		require.Equal(t, 4.5, YearsBetween(date(2020, time.January, 1), date(2024, time.July, 2)))
		require.Equal(t, 0.0, YearsBetween(date(2024, time.January, 1), date(2023, time.January, 1)))
	})
}
