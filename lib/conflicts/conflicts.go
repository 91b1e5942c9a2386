package conflicts

import (
	"strings"
	"time"

	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
)

const DefaultBlockThreshold = 2

type Tier string

const (
	TierOK      Tier = "ok"
	TierWarning Tier = "warning"
	TierBlocked Tier = "blocked"
)

// Candidate is the subset of an application the checker looks at.
type Candidate struct {
	ID           string                   `json:"id"`
	EmployeeName string                   `json:"employee_name"`
	Site         string                   `json:"site"`
	Status       models.ApplicationStatus `json:"status"`
	Start        *time.Time               `json:"start_date"`
	End          *time.Time               `json:"end_date"`
}

type Query struct {
	Site      string
	Start     time.Time
	End       time.Time
	ExcludeID string
}

type Report struct {
	Count     int         `json:"count"`
	Tier      Tier        `json:"tier"`
	Conflicts []Candidate `json:"conflicts"`
	Message   string      `json:"message,omitempty"`
}

type Policy struct {
	BlockThreshold int
}

func (p Policy) threshold() int {
	if p.BlockThreshold <= 0 {
		return DefaultBlockThreshold
	}
	return p.BlockThreshold
}

// Overlaps treats both ranges as closed intervals.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

func SameSite(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(b))
}

// Check finds active applications at the same site whose dates overlap the query range.
func (p Policy) Check(q Query, candidates []Candidate) Report {
	report := Report{Conflicts: []Candidate{}}
	for _, c := range candidates {
		if c.ID != "" && c.ID == q.ExcludeID {
			continue
		}
		if !c.Status.IsActive() || !SameSite(c.Site, q.Site) {
			continue
		}
		if c.Start == nil || c.End == nil {
			continue
		}
		if Overlaps(*c.Start, *c.End, q.Start, q.End) {
			report.Conflicts = append(report.Conflicts, c)
		}
	}
	report.Count = len(report.Conflicts)
	report.Tier, report.Message = p.classify(report.Count)
	return report
}

func (p Policy) classify(count int) (Tier, string) {
	switch {
	case count == 0:
		return TierOK, ""
	case count < p.threshold():
		return TierWarning, "Another staff member at this site has overlapping sabbatical dates"
	default:
		return TierBlocked, "Too many staff members at this site have overlapping sabbatical dates"
	}
}

// CandidatesFrom skips applications without both dates.
func CandidatesFrom(list []dbmodels.Application) []Candidate {
	result := make([]Candidate, 0, len(list))
	for _, rec := range list {
		start, okStart := rec.StartDate()
		end, okEnd := rec.EndDate()
		if !okStart || !okEnd {
			continue
		}
		result = append(result, Candidate{
			ID:           rec.ID,
			EmployeeName: rec.EmployeeName,
			Site:         rec.Site,
			Status:       rec.Status,
			Start:        &start,
			End:          &end,
		})
	}
	return result
}
