package eligibility

import (
	"math"
	"time"
)

const DefaultRequiredYears = 10

type Result struct {
	Known              bool    `json:"known"`
	Eligible           bool    `json:"eligible"`
	YearsOfService     float64 `json:"years_of_service"`
	YearsUntilEligible float64 `json:"years_until_eligible,omitempty"`
	EligibleFrom       string  `json:"eligible_from,omitempty"`
}

// Check uses the calendar year convention: service reaches N years on the
// Nth anniversary of the hire date, so the anniversary itself is eligible.
func Check(hireDate *time.Time, now time.Time, requiredYears int) Result {
	if requiredYears <= 0 {
		requiredYears = DefaultRequiredYears
	}
	if hireDate == nil || hireDate.IsZero() {
		return Result{}
	}
	hire := day(*hireDate)
	today := day(now)
	eligibleFrom := hire.AddDate(requiredYears, 0, 0)
	result := Result{
		Known:          true,
		YearsOfService: YearsBetween(hire, today),
		EligibleFrom:   eligibleFrom.Format(time.DateOnly),
	}
	if !today.Before(eligibleFrom) {
		result.Eligible = true
		return result
	}
	gap := float64(requiredYears) - result.YearsOfService
	result.YearsUntilEligible = round2(math.Max(gap, 0.01))
	return result
}

// YearsBetween is whole anniversaries plus the elapsed fraction of the current anniversary year.
func YearsBetween(from, to time.Time) float64 {
	from, to = day(from), day(to)
	if to.Before(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if from.AddDate(years, 0, 0).After(to) {
		years--
	}
	last := from.AddDate(years, 0, 0)
	next := from.AddDate(years+1, 0, 0)
	fraction := to.Sub(last).Hours() / next.Sub(last).Hours()
	return round2(float64(years) + fraction)
}

func round2(v float64) float64 {
	return math.Floor(v*100) / 100
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
