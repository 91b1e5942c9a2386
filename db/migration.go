package db

import (
	"fmt"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.StaffMember{}); err != nil {
		return errors.Wrap(err, "failed to migrate StaffMember")
	}
	if err := DB.AutoMigrate(&dbmodels.Application{}); err != nil {
		return errors.Wrap(err, "failed to migrate Application")
	}
	if err := DB.Exec(activeApplicationIndex()).Error; err != nil {
		return errors.Wrap(err, "failed to create active application index")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalTask{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApprovalTask")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "failed to migrate ApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.DateChangeRequest{}); err != nil {
		return errors.Wrap(err, "failed to migrate DateChangeRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.NotificationLog{}); err != nil {
		return errors.Wrap(err, "failed to migrate NotificationLog")
	}
	log.Info("migrations finished")
	return nil
}

// activeApplicationIndex allows one active application per employee.
func activeApplicationIndex() string {
	statuses := make([]string, 0, len(models.ActiveStatuses))
	for _, status := range models.ActiveStatuses {
		statuses = append(statuses, fmt.Sprintf("'%v'", status))
	}
	return fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_active_employee ON applications (LOWER(employee_email)) WHERE status IN (%v)",
		strings.Join(statuses, ", "))
}
