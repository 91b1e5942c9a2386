package pdfexport

import (
	"bytes"
	"fmt"
	"html/template"
	"sabbatical-backend/models"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const letterBody = `Dear {{.EmployeeName}},<br><br>
We are pleased to confirm that your application to the <b>{{.ProgramName}}</b> has been approved.<br><br>
<b>Sabbatical dates:</b> {{date .StartDate}} to {{date .EndDate}}<br>
<b>Duration:</b> {{.Duration}}<br>
<b>Leave option:</b> {{.LeaveOption}}<br>
<b>Salary during leave:</b> {{.SalaryPercentage}}%<br>
<b>Position:</b> {{.JobTitle}}, {{.Site}}<br><br>
Please coordinate the final handover of your responsibilities with your manager before your leave begins.
Any change to these dates has to be requested through the sabbatical portal.<br><br>
Congratulations, and enjoy your sabbatical.<br><br>
{{.ApproverName}}<br>
`

var letterFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "TBD"
		}
		return t.Format("January 2, 2006")
	},
}

// GenerateApprovalLetter renders the approval letter for an approved sabbatical.
func GenerateApprovalLetter(organization string, tplData models.TemplateData) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalLetter panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("%v approval letter", tplData.ProgramName), true)
	pdf.SetAuthor(organization, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(organization), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(tplData.ProgramName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(8)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	tpl, err := template.New("letter_body").Funcs(letterFuncs).Parse(letterBody)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	err = tpl.Execute(buf, tplData)
	if err != nil {
		return nil, err
	}
	pdf.SetFont("Helvetica", "", 12)
	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	html.Write(lineHt*1.5, tr(buf.String()))

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Application %v", tplData.ApplicationID)), "", 1, "C", false, 0, "")

	buf = new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
