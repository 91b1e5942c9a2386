package dbmodels

import (
	"sabbatical-backend/models"
	"time"

	"gorm.io/datatypes"
)

type DateChangeRequest struct {
	BaseModel
	ApplicationID string `gorm:"type:varchar(36);index"`
	RequestedBy   string
	CurrentStart  *datatypes.Date
	CurrentEnd    *datatypes.Date
	NewStart      datatypes.Date
	NewEnd        datatypes.Date
	Reason        string
	State         models.DateChangeState `gorm:"type:varchar(20)"`
	ReviewerEmail *string
	ReviewNotes   *string
	ReviewedAt    *time.Time
}
