package staffdirectory

import (
	"context"
	"io"
	"sabbatical-backend/config"
	"sabbatical-backend/db"
	xlsexport "sabbatical-backend/lib/export/xls"
	staffstore "sabbatical-backend/lib/staff-directory/store"
	apperrors "sabbatical-backend/lib/utils/app-errors"
	"sabbatical-backend/lib/utils/canonical"
	"sabbatical-backend/lib/utils/lock"
	dbmodels "sabbatical-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// LoadRoster upserts every row of an xlsx staff export. Rows without an email are skipped.
func LoadRoster(store staffstore.Provider, r io.Reader) (loaded int, err error) {
	rows, err := xlsexport.ReadRecords(r)
	if err != nil {
		return 0, err
	}
	for idx, row := range rows {
		emp := fromRecord(canonical.StaffMapping.Apply(row))
		if emp.Email == "" {
			log.WithField("row", idx+2).Warn("roster row without email skipped")
			continue
		}
		rec := dbmodels.StaffMember{
			Email:           emp.Email,
			EmployeeNumber:  emp.EmployeeNumber,
			FirstName:       emp.FirstName,
			LastName:        emp.LastName,
			JobTitle:        emp.JobTitle,
			Department:      emp.Department,
			Site:            emp.Site,
			SupervisorName:  emp.SupervisorName,
			SupervisorEmail: emp.SupervisorEmail,
		}
		if emp.HireDate != nil {
			rec.HireDate = dbmodels.NewDate(*emp.HireDate)
		}
		if err = store.Upsert(rec); err != nil {
			return loaded, errors.Wrapf(err, "failed to save roster row for %v", emp.Email)
		}
		loaded++
	}
	return loaded, nil
}

const rosterLockKey = "staff-roster"

// UploadRoster loads a roster into the configured staff table and drops the cached snapshot.
// Concurrent loads are serialized.
func UploadRoster(ctx context.Context, r io.Reader) (loaded int, err error) {
	success, err := lock.WithDelay(ctx, rosterLockKey, 30*time.Second, func() error {
		var loadErr error
		loaded, loadErr = LoadRoster(staffstore.NewInstance(db.DB, config.Conf.Directory.Table), r)
		if Instance != nil {
			Instance.Invalidate()
		}
		return loadErr
	})
	if !success {
		return 0, apperrors.Conflict("Another roster load is in progress")
	}
	return loaded, err
}
