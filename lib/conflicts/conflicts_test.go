package conflicts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"sabbatical-backend/models"
)

func ptr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func candidate(id, site string, status models.ApplicationStatus, start, end *time.Time) Candidate {
	return Candidate{ID: id, Site: site, Status: status, Start: start, End: end}
}

func TestCheck(t *testing.T) {
	query := Query{
		Site:  "Arthur Ashe",
		Start: *ptr(2026, time.January, 5),
		End:   *ptr(2026, time.March, 2),
	}
	policy := Policy{BlockThreshold: 2}

	t.Run("identical range at same site warns", func(t *testing.T) {
		list := []Candidate{candidate("a", "arthur ashe ", models.StatusSubmitted, ptr(2026, time.January, 5), ptr(2026, time.March, 2))}
		report := policy.Check(query, list)
		require.Equal(t, 1, report.Count)
		require.Equal(t, TierWarning, report.Tier)
	})
	t.Run("three overlapping block", func(t *testing.T) {
		list := []Candidate{
			candidate("a", "Arthur Ashe", models.StatusSubmitted, ptr(2026, time.January, 1), ptr(2026, time.January, 5)),
			candidate("b", "Arthur Ashe", models.StatusApproved, ptr(2026, time.March, 2), ptr(2026, time.April, 1)),
			candidate("c", "Arthur Ashe", models.StatusPlanSubmitted, ptr(2026, time.February, 1), ptr(2026, time.February, 10)),
		}
		report := policy.Check(query, list)
		require.Equal(t, 3, report.Count)
		require.Equal(t, TierBlocked, report.Tier)
	})
	t.Run("ignored candidates", func(t *testing.T) {
		list := []Candidate{
			candidate("other-site", "Langston Hughes", models.StatusSubmitted, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
			candidate("denied", "Arthur Ashe", models.StatusDenied, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
			candidate("withdrawn", "Arthur Ashe", models.StatusWithdrawn, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
			candidate("self", "Arthur Ashe", models.StatusSubmitted, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
			candidate("no-dates", "Arthur Ashe", models.StatusSubmitted, nil, nil),
			candidate("before", "Arthur Ashe", models.StatusSubmitted, ptr(2025, time.December, 1), ptr(2026, time.January, 4)),
		}
		q := query
		q.ExcludeID = "self"
		report := policy.Check(q, list)
		require.Equal(t, 0, report.Count)
		require.Equal(t, TierOK, report.Tier)
		require.NotNil(t, report.Conflicts)
	})
	t.Run("default threshold", func(t *testing.T) {
		list := []Candidate{
			candidate("a", "Arthur Ashe", models.StatusSubmitted, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
			candidate("b", "Arthur Ashe", models.StatusSubmitted, ptr(2026, time.January, 5), ptr(2026, time.March, 2)),
		}
		require.Equal(t, TierBlocked, Policy{}.Check(query, list).Tier)
		require.Equal(t, TierWarning, Policy{BlockThreshold: 3}.Check(query, list).Tier)
	})
	t.Run("closed interval touching endpoints", func(t *testing.T) {
		a, b := *ptr(2026, time.January, 1), *ptr(2026, time.January, 5)
		require.True(t, Overlaps(a, b, b, *ptr(2026, time.February, 1)))
		require.False(t, Overlaps(a, b, *ptr(2026, time.January, 6), *ptr(2026, time.February, 1)))
	})
}
