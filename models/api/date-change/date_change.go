package datechangeapimodels

import (
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/models"
	apimodels "sabbatical-backend/models/api"
	dbmodels "sabbatical-backend/models/db"
	"time"
)

type CreateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"` // derived from the leave option when empty
	Reason    string `json:"reason" validate:"required,max=2000"`
}

func (r CreateRequest) Validate() error {
	return apimodels.ValidateStruct(r)
}

// Dates resolves the new range. The end defaults to start plus the leave option length.
func (r CreateRequest) Dates(option models.LeaveOption) (start, end time.Time, err error) {
	s, err := apimodels.ParseDate("start_date", r.StartDate)
	if err != nil {
		return start, end, err
	}
	if s == nil {
		return start, end, apperrors.Validation("start_date is required")
	}
	e, err := apimodels.ParseDate("end_date", r.EndDate)
	if err != nil {
		return start, end, err
	}
	if e == nil {
		if !option.IsValid() {
			return start, end, apperrors.Validation("end_date is required")
		}
		end = option.EndDate(*s)
	} else {
		end = *e
	}
	if end.Before(*s) {
		return start, end, apperrors.Validation("end_date must not be before start_date")
	}
	return *s, end, nil
}

type ReviewRequest struct {
	Decision models.Decision `json:"decision"`
	Notes    string          `json:"notes" validate:"max=2000"`
}

func (r ReviewRequest) Validate() error {
	if !r.Decision.IsValid() {
		return apperrors.Validation("decision must be %q or %q", models.DecisionApproved, models.DecisionDenied)
	}
	return apimodels.ValidateStruct(r)
}

type DateChangeView struct {
	ID            string                 `json:"id"`
	ApplicationID string                 `json:"application_id"`
	RequestedBy   string                 `json:"requested_by"`
	CurrentStart  string                 `json:"current_start,omitempty"`
	CurrentEnd    string                 `json:"current_end,omitempty"`
	NewStart      string                 `json:"new_start"`
	NewEnd        string                 `json:"new_end"`
	Reason        string                 `json:"reason"`
	State         models.DateChangeState `json:"state"`
	ReviewerEmail *string                `json:"reviewer_email"`
	ReviewNotes   *string                `json:"review_notes"`
	ReviewedAt    *time.Time             `json:"reviewed_at"`
	CreatedAt     time.Time              `json:"created_at"`
}

func DateChangeConvert(rec dbmodels.DateChangeRequest) DateChangeView {
	view := DateChangeView{
		ID:            rec.ID,
		ApplicationID: rec.ApplicationID,
		RequestedBy:   rec.RequestedBy,
		NewStart:      time.Time(rec.NewStart).Format(apimodels.DateLayout),
		NewEnd:        time.Time(rec.NewEnd).Format(apimodels.DateLayout),
		Reason:        rec.Reason,
		State:         rec.State,
		ReviewerEmail: rec.ReviewerEmail,
		ReviewNotes:   rec.ReviewNotes,
		ReviewedAt:    rec.ReviewedAt,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.CurrentStart != nil {
		view.CurrentStart = time.Time(*rec.CurrentStart).Format(apimodels.DateLayout)
	}
	if rec.CurrentEnd != nil {
		view.CurrentEnd = time.Time(*rec.CurrentEnd).Format(apimodels.DateLayout)
	}
	return view
}
