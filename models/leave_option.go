package models

import (
	"strings"
	"time"
)

type LeaveOption string

const (
	LeaveEightWeeksFullPay     LeaveOption = "8_weeks_full_pay"
	LeaveTwelveWeeksPartialPay LeaveOption = "12_weeks_partial_pay"
)

type LeaveOptionInfo struct {
	Option           LeaveOption `json:"option"`
	Weeks            int         `json:"weeks"`
	SalaryPercentage int         `json:"salary_percentage"`
	Label            string      `json:"label"`
}

var LeaveOptions = []LeaveOptionInfo{
	{Option: LeaveEightWeeksFullPay, Weeks: 8, SalaryPercentage: 100, Label: "8 Weeks - 100% Salary"},
	{Option: LeaveTwelveWeeksPartialPay, Weeks: 12, SalaryPercentage: 67, Label: "12 Weeks - 67% Salary"},
}

func (o LeaveOption) Info() (LeaveOptionInfo, bool) {
	for _, info := range LeaveOptions {
		if info.Option == o {
			return info, true
		}
	}
	return LeaveOptionInfo{}, false
}

func (o LeaveOption) IsValid() bool {
	_, ok := o.Info()
	return ok
}

// EndDate is start plus the option's whole weeks.
func (o LeaveOption) EndDate(start time.Time) time.Time {
	info, ok := o.Info()
	if !ok {
		return start
	}
	return start.AddDate(0, 0, info.Weeks*7)
}

// ParseLeaveLabel accepts tags and the labels used by the old intake form.
func ParseLeaveLabel(label string) (LeaveOption, bool) {
	label = strings.TrimSpace(label)
	for _, info := range LeaveOptions {
		if strings.EqualFold(label, string(info.Option)) || strings.EqualFold(label, info.Label) {
			return info.Option, true
		}
	}
	lower := strings.ToLower(label)
	switch {
	case strings.HasPrefix(lower, "8 week"):
		return LeaveEightWeeksFullPay, true
	case strings.HasPrefix(lower, "12 week"):
		return LeaveTwelveWeeksPartialPay, true
	}
	return "", false
}

// DurationWeeks counts whole weeks between two calendar dates.
func DurationWeeks(start, end time.Time) int {
	days := int(truncateDay(end).Sub(truncateDay(start)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days / 7
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
