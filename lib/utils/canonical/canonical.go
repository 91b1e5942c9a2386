package canonical

import (
	"fmt"
	"strings"
	"time"
)

// Mapping maps source column names to canonical field names.
type Mapping struct {
	Direct map[string][]string
	Concat []ConcatTransform
}

// ConcatTransform builds one canonical field from several source columns.
type ConcatTransform struct {
	SourceColumns []string
	Separator     string
	TargetField   string
}

// Record is a row keyed by canonical field names.
type Record map[string]any

const (
	FieldEmail           = "email"
	FieldEmployeeNumber  = "employee_number"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldFullName        = "full_name"
	FieldHireDate        = "hire_date"
	FieldJobTitle        = "job_title"
	FieldDepartment      = "department"
	FieldSite            = "site"
	FieldSupervisorName  = "supervisor_name"
	FieldSupervisorEmail = "supervisor_email"

	FieldSubmittedAt        = "submitted_at"
	FieldLeaveOption        = "leave_option"
	FieldStartDate          = "start_date"
	FieldEndDate            = "end_date"
	FieldFlexible           = "flexible"
	FieldFlexibilityDetails = "flexibility_details"
	FieldPurpose            = "sabbatical_purpose"
	FieldWhyNow             = "why_now"
	FieldCoveragePlan       = "coverage_plan"
	FieldManagerDiscussed   = "manager_discussed"
	FieldAdditionalComments = "additional_comments"
)

// StaffMapping accepts both the warehouse staff list and the current column names.
var StaffMapping = Mapping{
	Direct: map[string][]string{
		FieldEmail:           {"email", "email_address", "work_email"},
		FieldEmployeeNumber:  {"employee_number", "name_key", "employee_id"},
		FieldFirstName:       {"first_name", "preferred_first_name"},
		FieldLastName:        {"last_name"},
		FieldHireDate:        {"hire_date", "last_hire_date", "original_hire_date"},
		FieldJobTitle:        {"job_title", "position", "title"},
		FieldDepartment:      {"department", "function", "job_function"},
		FieldSite:            {"site", "location_name", "location"},
		FieldSupervisorName:  {"supervisor_name", "supervisor_name__unsecured_", "manager"},
		FieldSupervisorEmail: {"supervisor_email", "supervisor_email_address", "manager_email"},
	},
	Concat: []ConcatTransform{
		{SourceColumns: []string{"first_name", "last_name"}, Separator: " ", TargetField: FieldFullName},
	},
}

// LegacyApplicationMapping accepts the exported intake form columns.
var LegacyApplicationMapping = Mapping{
	Direct: map[string][]string{
		FieldSubmittedAt:        {"submitted_at", "timestamp"},
		FieldEmail:              {"employee_email", "email_address", "email"},
		FieldLeaveOption:        {"leave_option", "sabbatical_option"},
		FieldStartDate:          {"start_date", "preferred_dates", "preferred_start_date"},
		FieldEndDate:            {"end_date"},
		FieldFlexible:           {"flexible", "date_flexibility"},
		FieldFlexibilityDetails: {"flexibility_details", "flexibility_explanation"},
		FieldPurpose:            {"sabbatical_purpose", "purpose"},
		FieldWhyNow:             {"why_now"},
		FieldCoveragePlan:       {"coverage_plan"},
		FieldManagerDiscussed:   {"manager_discussed", "manager_discussion"},
		FieldAdditionalComments: {"additional_comments", "additional_notes"},
	},
}

// NormalizeKey lowercases a column header and joins its words with underscores.
func NormalizeKey(key string) string {
	key = strings.TrimFunc(strings.ToLower(key), func(r rune) bool {
		return !isWordRune(r) && r != '_'
	})
	var b strings.Builder
	lastUnderscore := false
	for _, r := range key {
		if isWordRune(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if r == '_' && lastUnderscore {
			b.WriteRune(r)
			continue
		}
		if !lastUnderscore {
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Apply canonicalizes a source row. The first non-empty alias wins.
func (m Mapping) Apply(row map[string]any) Record {
	normalized := make(map[string]any, len(row))
	for k, v := range row {
		normalized[NormalizeKey(k)] = v
	}
	result := Record{}
	for field, aliases := range m.Direct {
		for _, alias := range aliases {
			v, ok := normalized[alias]
			if !ok || isEmpty(v) {
				continue
			}
			result[field] = v
			break
		}
	}
	for _, ct := range m.Concat {
		if _, exists := result[ct.TargetField]; exists {
			continue
		}
		parts := make([]string, 0, len(ct.SourceColumns))
		for _, col := range ct.SourceColumns {
			if v := result.String(col); v != "" {
				parts = append(parts, v)
				continue
			}
			if v, ok := normalized[col]; ok && !isEmpty(v) {
				parts = append(parts, strings.TrimSpace(fmt.Sprint(v)))
			}
		}
		if len(parts) != 0 {
			result[ct.TargetField] = strings.Join(parts, ct.Separator)
		}
	}
	return result
}

func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case time.Time:
		return t.Format(time.DateOnly)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.DateOnly)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"01-02-06",
}

// Date parses the field as a calendar date. Unknown formats yield nil.
func (r Record) Date(field string) *time.Time {
	v, ok := r[field]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t
	}
	s := r.String(field)
	if s == "" {
		return nil
	}
	// multi-date answers like "1/5/2026 or 2/1/2026" use the first date
	if idx := strings.IndexAny(s, ",;"); idx > 0 {
		s = strings.TrimSpace(s[:idx])
	}
	if fields := strings.Fields(s); len(fields) > 1 && !strings.Contains(s, ":") {
		s = fields[0]
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return &parsed
		}
	}
	return nil
}

// Bool reads yes/no style answers.
func (r Record) Bool(field string) (value bool, ok bool) {
	switch v := r[field].(type) {
	case bool:
		return v, true
	case nil:
		return false, false
	}
	switch strings.ToLower(r.String(field)) {
	case "yes", "y", "true", "1":
		return true, true
	case "no", "n", "false", "0":
		return false, true
	}
	return false, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []byte:
		return len(strings.TrimSpace(string(t))) == 0
	}
	return false
}
