package xlsexport

import (
	"bytes"
	"sabbatical-backend/models"
	dbmodels "sabbatical-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportApplicationList(list []dbmodels.Application) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

type column struct {
	header string
	value  func(rec dbmodels.Application) interface{}
}

var applicationColumns = []column{
	{"Employee", func(rec dbmodels.Application) interface{} { return rec.EmployeeName }},
	{"Email", func(rec dbmodels.Application) interface{} { return rec.EmployeeEmail }},
	{"Employee number", func(rec dbmodels.Application) interface{} { return rec.EmployeeNumber }},
	{"Site", func(rec dbmodels.Application) interface{} { return rec.Site }},
	{"Department", func(rec dbmodels.Application) interface{} { return rec.Department }},
	{"Job title", func(rec dbmodels.Application) interface{} { return rec.JobTitle }},
	{"Years of service", func(rec dbmodels.Application) interface{} { return rec.YearsOfService }},
	{"Start date", func(rec dbmodels.Application) interface{} { return formatDate(rec.StartDate()) }},
	{"End date", func(rec dbmodels.Application) interface{} { return formatDate(rec.EndDate()) }},
	{"Weeks", func(rec dbmodels.Application) interface{} { return rec.DurationWeeks }},
	{"Leave option", func(rec dbmodels.Application) interface{} { return leaveLabel(rec.LeaveOption) }},
	{"Salary %", func(rec dbmodels.Application) interface{} { return rec.SalaryPercentage }},
	{"Status", func(rec dbmodels.Application) interface{} { return rec.Status.ToHuman() }},
	{"Talent decision", func(rec dbmodels.Application) interface{} { return decision(rec.TalentReview) }},
	{"HR decision", func(rec dbmodels.Application) interface{} { return decision(rec.HRReview) }},
	{"Submitted", func(rec dbmodels.Application) interface{} { return rec.SubmittedAt.Format("01/02/2006") }},
}

func (i impl) ExportApplicationList(list []dbmodels.Application) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	headers := make([]string, 0, len(applicationColumns))
	for _, c := range applicationColumns {
		headers = append(headers, c.header)
	}
	row := 0
	row, err := writeHeader(f, sheet, row, headers)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		_, err = writeApplicationData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	if err = f.SetSheetName(sheet, "Applications"); err != nil {
		return nil, errors.Wrap(err, "failed to rename sheet")
	}
	return f.WriteToBuffer()
}

func writeApplicationData(f *excelize.File, sheet string, list []dbmodels.Application, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(applicationColumns), row+len(list)); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		for idx, c := range applicationColumns {
			if err := writeColumn(f, sheet, idx+1, row, c.value(item)); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func formatDate(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format("01/02/2006")
}

func leaveLabel(option models.LeaveOption) string {
	if info, ok := option.Info(); ok {
		return info.Label
	}
	return string(option)
}

func decision(review dbmodels.StageReview) string {
	if review.Decision == nil {
		return ""
	}
	return string(*review.Decision)
}
