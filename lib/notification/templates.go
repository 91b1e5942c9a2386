package notification

import (
	"bytes"
	"sabbatical-backend/models"
	"sort"
	"text/template"
	"time"

	"github.com/hako/durafmt"
	"github.com/pkg/errors"
)

type Tag string

const (
	TplSubmittedToTalent     Tag = "submitted_to_talent"
	TplSubmittedConfirmation Tag = "submitted_confirmation"
	TplTalentApproved        Tag = "talent_approved"
	TplTalentDenied          Tag = "talent_denied"
	TplPlanToApprover        Tag = "plan_submitted_to_approver"
	TplPlanChangesRequested  Tag = "plan_changes_requested"
	TplPlanApproved          Tag = "plan_approved"
	TplPlanApprovedToHR      Tag = "plan_approved_to_hr"
	TplPlanDenied            Tag = "plan_denied"
	TplHRApproved            Tag = "hr_approved"
	TplHRDenied              Tag = "hr_denied"
	TplWithdrawn             Tag = "withdrawn"
	TplDateChangeRequested   Tag = "date_change_requested"
	TplDateChangeReviewed    Tag = "date_change_reviewed"
)

type messageTemplate struct {
	Description string
	Subject     string
	Body        string
}

const footer = `
{{.ProgramName}}
{{.Link}}
`

var templates = map[Tag]messageTemplate{
	TplSubmittedToTalent: {
		Description: "New application, sent to the talent team",
		Subject:     "New sabbatical application: {{.EmployeeName}}",
		Body: `A new sabbatical application was submitted.

Employee: {{.EmployeeName}} ({{.EmployeeEmail}})
Site: {{.Site}}
Dates: {{date .StartDate}} to {{date .EndDate}} ({{.Duration}})
Option: {{.LeaveOption}}

Please review it in the sabbatical portal.
` + footer,
	},
	TplSubmittedConfirmation: {
		Description: "Receipt sent to the applicant",
		Subject:     "We received your sabbatical application",
		Body: `Hi {{.EmployeeName}},

Your sabbatical application for {{date .StartDate}} to {{date .EndDate}} ({{.Duration}}) was received.
The talent team will review it and get back to you.
` + footer,
	},
	TplTalentApproved: {
		Description: "Talent review passed, applicant asked for a coverage plan",
		Subject:     "Your sabbatical application was tentatively approved",
		Body: `Hi {{.EmployeeName}},

{{.ReviewerName}} tentatively approved your sabbatical application.
Next step: submit your coverage plan so your manager, talent and HR can sign off.
{{if .Notes}}
Notes: {{.Notes}}
{{end}}` + footer,
	},
	TplTalentDenied: {
		Description: "Talent review denied",
		Subject:     "Update on your sabbatical application",
		Body: `Hi {{.EmployeeName}},

Your sabbatical application was not approved at this time.
{{if .Notes}}
Notes: {{.Notes}}
{{end}}` + footer,
	},
	TplPlanToApprover: {
		Description: "Coverage plan waiting for an approver",
		Subject:     "Sabbatical plan to review: {{.EmployeeName}}",
		Body: `Hi {{.ApproverName}},

{{.EmployeeName}} submitted a coverage plan for a sabbatical from {{date .StartDate}} to {{date .EndDate}}.
Please approve it, request changes or deny it in the sabbatical portal.
` + footer,
	},
	TplPlanChangesRequested: {
		Description: "An approver asked the applicant to change the plan",
		Subject:     "Changes requested on your sabbatical plan",
		Body: `Hi {{.EmployeeName}},

{{.ApproverName}} asked for changes to your coverage plan.
{{if .Notes}}
Comment: {{.Notes}}
{{end}}
Update the plan and resubmit it.
` + footer,
	},
	TplPlanApproved: {
		Description: "Every approver signed off the plan",
		Subject:     "Your sabbatical plan was approved",
		Body: `Hi {{.EmployeeName}},

Everyone signed off your coverage plan. HR will finalize your sabbatical from {{date .StartDate}} to {{date .EndDate}}.
` + footer,
	},
	TplPlanApprovedToHR: {
		Description: "Plan signed off, sent to HR for final review",
		Subject:     "Sabbatical ready for HR review: {{.EmployeeName}}",
		Body: `{{.EmployeeName}} ({{.Site}}) has a signed off sabbatical plan for {{date .StartDate}} to {{date .EndDate}}.
Please complete the HR review.
` + footer,
	},
	TplPlanDenied: {
		Description: "An approver denied the plan",
		Subject:     "Update on your sabbatical plan",
		Body: `Hi {{.EmployeeName}},

{{.ApproverName}} denied your coverage plan, so the sabbatical application is closed.
{{if .Notes}}
Comment: {{.Notes}}
{{end}}` + footer,
	},
	TplHRApproved: {
		Description: "HR finalized the sabbatical",
		Subject:     "Your sabbatical is confirmed",
		Body: `Hi {{.EmployeeName}},

Your sabbatical from {{date .StartDate}} to {{date .EndDate}} ({{.Duration}}, {{.SalaryPercentage}}% salary) is confirmed.
Your approval letter is available in the sabbatical portal.
` + footer,
	},
	TplHRDenied: {
		Description: "HR denied the sabbatical",
		Subject:     "Update on your sabbatical application",
		Body: `Hi {{.EmployeeName}},

HR could not finalize your sabbatical.
{{if .Notes}}
Notes: {{.Notes}}
{{end}}` + footer,
	},
	TplWithdrawn: {
		Description: "Applicant withdrew the application",
		Subject:     "Sabbatical application withdrawn: {{.EmployeeName}}",
		Body: `{{.EmployeeName}} withdrew the sabbatical application for {{date .StartDate}} to {{date .EndDate}}.
` + footer,
	},
	TplDateChangeRequested: {
		Description: "Applicant asked to move the dates",
		Subject:     "Sabbatical date change request: {{.EmployeeName}}",
		Body: `{{.EmployeeName}} asked to move the sabbatical to {{date .StartDate}} to {{date .EndDate}}.
{{if .Notes}}
Reason: {{.Notes}}
{{end}}` + footer,
	},
	TplDateChangeReviewed: {
		Description: "Date change request decided",
		Subject:     "Your sabbatical date change was {{.Status}}",
		Body: `Hi {{.EmployeeName}},

Your request to move the sabbatical to {{date .StartDate}} to {{date .EndDate}} was {{.Status}}.
{{if .Notes}}
Notes: {{.Notes}}
{{end}}` + footer,
	},
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "TBD"
		}
		return t.Format("January 2, 2006")
	},
}

type Rendered struct {
	Tag     Tag    `json:"tag"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type TemplateInfo struct {
	Tag         Tag    `json:"tag"`
	Description string `json:"description"`
}

func Render(tag Tag, data models.TemplateData) (Rendered, error) {
	tpl, ok := templates[tag]
	if !ok {
		return Rendered{}, errors.Errorf("unknown template %q", tag)
	}
	if data.Duration == "" && data.DurationWeeks > 0 {
		data.Duration = FormatWeeks(data.DurationWeeks)
	}
	subject, err := execute(string(tag)+"_subject", tpl.Subject, data)
	if err != nil {
		return Rendered{}, err
	}
	body, err := execute(string(tag)+"_body", tpl.Body, data)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Tag: tag, Subject: subject, Body: body}, nil
}

func execute(name, text string, data models.TemplateData) (string, error) {
	tpl, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse template %v", name)
	}
	buf := new(bytes.Buffer)
	if err = tpl.Execute(buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render template %v", name)
	}
	return buf.String(), nil
}

func Templates() []TemplateInfo {
	result := make([]TemplateInfo, 0, len(templates))
	for tag, tpl := range templates {
		result = append(result, TemplateInfo{Tag: tag, Description: tpl.Description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Tag < result[j].Tag
	})
	return result
}

// SampleData fills every placeholder for template previews.
func SampleData(programName, link string) models.TemplateData {
	start := time.Now().AddDate(0, 3, 0)
	return models.TemplateData{
		ApplicationID:    "00000000-0000-0000-0000-000000000000",
		EmployeeName:     "Jane Doe",
		EmployeeEmail:    "jane.doe@example.org",
		Site:             "Sample Campus",
		JobTitle:         "Teacher",
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 56),
		DurationWeeks:    8,
		LeaveOption:      "8 Weeks - 100% Salary",
		SalaryPercentage: 100,
		Status:           "approved",
		ReviewerName:     "Talent Team",
		Notes:            "Sample notes",
		ApproverName:     "Sam Manager",
		Link:             link,
		ProgramName:      programName,
	}
}

// FormatWeeks renders a leave length like "8 weeks".
func FormatWeeks(weeks int) string {
	return durafmt.Parse(time.Duration(weeks) * 7 * 24 * time.Hour).LimitFirstN(1).String()
}
