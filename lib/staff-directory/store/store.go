package staffstore

import (
	"sabbatical-backend/lib/utils/canonical"
	dbmodels "sabbatical-backend/models/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	// LoadAll reads the whole staff table and canonicalizes every row.
	LoadAll() (list []canonical.Record, err error)
	Upsert(rec dbmodels.StaffMember) error
}

func NewInstance(DB *gorm.DB, table string) Provider {
	if table == "" {
		table = "staff_members"
	}
	return &impl{
		db:    DB,
		table: table,
	}
}

type impl struct {
	db    *gorm.DB
	table string
}

func (i impl) LoadAll() (list []canonical.Record, err error) {
	rows := []map[string]interface{}{}
	err = i.db.
		Table(i.table).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	list = make([]canonical.Record, 0, len(rows))
	for _, row := range rows {
		list = append(list, canonical.StaffMapping.Apply(row))
	}
	return list, nil
}

func (i impl) Upsert(rec dbmodels.StaffMember) error {
	return i.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"employee_number", "first_name", "last_name", "hire_date", "job_title", "department", "site", "supervisor_name", "supervisor_email", "updated_at"}),
		}).
		Create(&rec).
		Error
}
