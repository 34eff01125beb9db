package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is returned when input fails validation; order is stable.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// ByField groups messages by field name.
func (v ValidationErrors) ByField() map[string][]string {
	out := make(map[string][]string)
	for _, e := range v {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

var (
	websiteURLPattern = regexp.MustCompile(`^https?://.+\..+`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateLeadField checks one display value of an editable lead field.
func ValidateLeadField(field, value string) []ValidationError {
	var errs []ValidationError
	trimmed := strings.TrimSpace(value)

	switch field {
	case entity.FieldName:
		if trimmed == "" {
			errs = append(errs, ValidationError{field, "Name is required"})
		}
	case entity.FieldWebsiteURL:
		if trimmed == "" {
			errs = append(errs, ValidationError{field, "Website URL is required"})
		} else if !websiteURLPattern.MatchString(trimmed) {
			errs = append(errs, ValidationError{field, "Please enter a valid website URL"})
		}
	case entity.FieldEmail:
		if trimmed != "" && !emailPattern.MatchString(trimmed) {
			errs = append(errs, ValidationError{field, "Please enter a valid email address"})
		}
	case entity.FieldLinkedInURL:
		if trimmed != "" && !websiteURLPattern.MatchString(trimmed) {
			errs = append(errs, ValidationError{field, "Please enter a valid LinkedIn URL"})
		}
	case entity.FieldTeamSize:
		if !entity.IsTeamSize(value) {
			errs = append(errs, ValidationError{field, "Please select a valid team size"})
		}
	case entity.FieldStatus:
		if !entity.IsLeadStatus(value) {
			errs = append(errs, ValidationError{field, "Please select a valid status"})
		}
	case entity.FieldFundingType:
		if !entity.IsFundingType(value) {
			errs = append(errs, ValidationError{field, "Please select a valid funding type"})
		}
	case entity.FieldEdition:
		if !entity.IsEdition(value) {
			errs = append(errs, ValidationError{field, "Please select a valid edition"})
		}
	case entity.FieldCategory:
		if trimmed == "" {
			errs = append(errs, ValidationError{field, "Category is required"})
		}
	case entity.FieldARR:
		if _, err := entity.ParseARR(value); err != nil {
			errs = append(errs, ValidationError{field, err.Error()})
		}
	case entity.FieldFollowUpDate:
		if trimmed != "" {
			if _, err := entity.ParseDate(trimmed); err != nil {
				errs = append(errs, ValidationError{field, "Please enter a valid date (YYYY-MM-DD)"})
			}
		}
	}
	return errs
}

// ValidateLead checks a full lead as submitted by the create form.
func ValidateLead(l *entity.Lead) ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, ValidateLeadField(entity.FieldWebsiteURL, l.WebsiteURL)...)
	errs = append(errs, ValidateLeadField(entity.FieldEmail, l.Email)...)
	errs = append(errs, ValidateLeadField(entity.FieldLinkedInURL, l.LinkedInURL)...)
	errs = append(errs, ValidateLeadField(entity.FieldStatus, l.Status)...)
	errs = append(errs, ValidateLeadField(entity.FieldFundingType, l.FundingType)...)
	errs = append(errs, ValidateLeadField(entity.FieldEdition, l.Edition)...)
	errs = append(errs, ValidateLeadField(entity.FieldFollowUpDate, l.FollowUpDate)...)
	if l.ARR < 0 {
		errs = append(errs, ValidationError{entity.FieldARR, "ARR cannot be negative"})
	}
	return errs
}

// ValidateDeal applies the deal form rules.
func ValidateDeal(d *entity.Deal) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, ValidationError{entity.FieldName, "Deal name is required"})
	}
	if strings.TrimSpace(d.LeadName) == "" {
		errs = append(errs, ValidationError{entity.FieldDealLeadName, "Lead name is required"})
	}
	if d.Value <= 0 {
		errs = append(errs, ValidationError{entity.FieldDealValue, "Value must be greater than 0"})
	}
	if !entity.IsDealStage(d.Stage) {
		errs = append(errs, ValidationError{entity.FieldDealStage, "Please select a valid stage"})
	}
	if !entity.IsAssignableRep(d.AssignedRep) {
		errs = append(errs, ValidationError{entity.FieldDealAssignedRep, "Please select a sales rep"})
	}
	if d.Edition != "" && !entity.IsEdition(d.Edition) {
		errs = append(errs, ValidationError{entity.FieldEdition, "Please select a valid edition"})
	}
	if d.StartMonth < 1 || d.StartMonth > 12 {
		errs = append(errs, ValidationError{entity.FieldDealStartMonth, "Start month must be between 1 and 12"})
	}
	if d.EndMonth < 1 || d.EndMonth > 12 {
		errs = append(errs, ValidationError{entity.FieldDealEndMonth, "End month must be between 1 and 12"})
	} else if d.StartMonth >= 1 && d.EndMonth < d.StartMonth {
		errs = append(errs, ValidationError{entity.FieldDealEndMonth, "End month must be after start month"})
	}
	return errs
}

// ValidateDealPatch checks the fields present in a partial deal update.
func ValidateDealPatch(p entity.DealPatch) ValidationErrors {
	var errs ValidationErrors
	if v, ok := p[entity.FieldDealStage]; ok {
		if s, _ := v.(string); !entity.IsDealStage(s) {
			errs = append(errs, ValidationError{entity.FieldDealStage, "Please select a valid stage"})
		}
	}
	if v, ok := p[entity.FieldDealAssignedRep]; ok {
		if s, _ := v.(string); !entity.IsAssignableRep(s) {
			errs = append(errs, ValidationError{entity.FieldDealAssignedRep, "Please select a sales rep"})
		}
	}
	if v, ok := p[entity.FieldDealValue]; ok {
		if f, ok := toFloat(v); !ok || f <= 0 {
			errs = append(errs, ValidationError{entity.FieldDealValue, "Value must be greater than 0"})
		}
	}
	for _, field := range []string{entity.FieldDealStartMonth, entity.FieldDealEndMonth} {
		if v, ok := p[field]; ok {
			if f, ok := toFloat(v); !ok || f < 1 || f > 12 {
				errs = append(errs, ValidationError{field, "Month must be between 1 and 12"})
			}
		}
	}
	return errs
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
