package dbmodels

import (
	"sabbatical-backend/models"
	"time"

	"gorm.io/datatypes"
)

type Application struct {
	BaseModel
	EmployeeEmail      string `gorm:"type:varchar(255);index"`
	EmployeeName       string
	EmployeeNumber     string
	HireDate           *datatypes.Date
	YearsOfService     float64
	JobTitle           string
	Department         string
	Site               string `gorm:"index"`
	SupervisorName     string
	SupervisorEmail    string
	RequestedStartDate *datatypes.Date
	RequestedEndDate   *datatypes.Date
	DurationWeeks      int
	LeaveOption        models.LeaveOption `gorm:"type:varchar(50)"`
	LeaveWeeks         int
	SalaryPercentage   int
	SabbaticalPurpose  string
	WhyNow             string
	CoveragePlan       string
	Flexible           string
	FlexibilityDetails string
	ManagerDiscussed   string
	AdditionalComments string
	PlanDetails        string
	Status             models.ApplicationStatus `gorm:"type:varchar(50);index"`
	TalentReview       StageReview              `gorm:"embedded;embeddedPrefix:talent_"`
	HRReview           StageReview              `gorm:"embedded;embeddedPrefix:hr_"`
	SubmittedAt        time.Time
}

// StageReview holds the fields written when an application leaves a review stage.
type StageReview struct {
	Reviewer     *string
	ReviewerName *string
	Decision     *models.Decision `gorm:"type:varchar(20)"`
	Notes        *string
	ReviewedAt   *time.Time
}

func (s StageReview) IsEmpty() bool {
	return s.Reviewer == nil && s.Decision == nil && s.ReviewedAt == nil
}

func (r Application) StartDate() (time.Time, bool) {
	return dateValue(r.RequestedStartDate)
}

func (r Application) EndDate() (time.Time, bool) {
	return dateValue(r.RequestedEndDate)
}

func (r Application) HireDateValue() (time.Time, bool) {
	return dateValue(r.HireDate)
}

func (r Application) IsOwner(email string) bool {
	return SameEmail(r.EmployeeEmail, email)
}

// ReviewsInOrder reports whether stage fields are filled no further than the status allows.
func (r Application) ReviewsInOrder() bool {
	switch r.Status {
	case models.StatusSubmitted:
		return r.TalentReview.IsEmpty() && r.HRReview.IsEmpty()
	case models.StatusTentativelyApproved, models.StatusPlanSubmitted, models.StatusApproved:
		return !r.TalentReview.IsEmpty() && r.HRReview.IsEmpty()
	case models.StatusCompleted:
		return !r.TalentReview.IsEmpty() && !r.HRReview.IsEmpty()
	case models.StatusDenied, models.StatusWithdrawn:
		return r.HRReview.IsEmpty() || !r.TalentReview.IsEmpty()
	}
	return false
}

func NewDate(t time.Time) *datatypes.Date {
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}

func dateValue(d *datatypes.Date) (time.Time, bool) {
	if d == nil {
		return time.Time{}, false
	}
	t := time.Time(*d)
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
