package dbmodels

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type StaffMember struct {
	BaseModel
	Email           string `gorm:"type:varchar(255);uniqueIndex"`
	EmployeeNumber  string
	FirstName       string
	LastName        string
	HireDate        *datatypes.Date
	JobTitle        string
	Department      string
	Site            string
	SupervisorName  string
	SupervisorEmail string
}

func (r StaffMember) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%v %v", r.FirstName, r.LastName))
}

func (r StaffMember) HireDateValue() (time.Time, bool) {
	return dateValue(r.HireDate)
}
