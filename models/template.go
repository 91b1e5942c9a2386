package models

import "time"

// TemplateData feeds notification bodies and the approval letter.
type TemplateData struct {
	ApplicationID    string
	EmployeeName     string
	EmployeeEmail    string
	Site             string
	JobTitle         string
	StartDate        time.Time
	EndDate          time.Time
	DurationWeeks    int
	Duration         string
	LeaveOption      string
	SalaryPercentage int
	Status           string
	ReviewerName     string
	Notes            string
	ApproverName     string
	Link             string
	ProgramName      string
}
