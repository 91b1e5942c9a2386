package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLeaveOptions(t *testing.T) {
	t.Run("duration in whole weeks", func(t *testing.T) {
		start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		require.Equal(t, 8, DurationWeeks(start, end))
		require.Equal(t, 0, DurationWeeks(end, start))
		require.Equal(t, 0, DurationWeeks(start, start.AddDate(0, 0, 6)))
	})
	t.Run("end date from option", func(t *testing.T) {
		start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
		require.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), LeaveEightWeeksFullPay.EndDate(start))
		require.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), LeaveTwelveWeeksPartialPay.EndDate(start))
	})
	t.Run("legacy labels", func(t *testing.T) {
		opt, ok := ParseLeaveLabel("8 Weeks - 100% Salary")
		require.True(t, ok)
		require.Equal(t, LeaveEightWeeksFullPay, opt)
		opt, ok = ParseLeaveLabel(" 12 weeks (67% salary)")
		require.True(t, ok)
		require.Equal(t, LeaveTwelveWeeksPartialPay, opt)
		_, ok = ParseLeaveLabel("6 months")
		require.False(t, ok)
	})
	t.Run("status sets", func(t *testing.T) {
		require.True(t, StatusPlanSubmitted.AllowWithdraw())
		require.False(t, StatusApproved.AllowWithdraw())
		require.True(t, StatusApproved.IsActive())
		require.True(t, StatusWithdrawn.IsTerminal())
		require.False(t, ApplicationStatus("pending").IsValid())
	})
}
