package dbmodels

type NotificationLog struct {
	BaseModel
	ApplicationID string `gorm:"type:varchar(36);index"`
	Template      string
	Recipient     string
	Subject       string
	Status        NotificationStatus `gorm:"type:varchar(20)"`
	Error         string
}

type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped"
)
