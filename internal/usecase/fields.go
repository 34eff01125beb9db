package usecase

import (
	"slices"
	"strings"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// EditableFields are the lead columns the inline editor can change.
var EditableFields = []string{
	entity.FieldName, entity.FieldEmail, entity.FieldWebsiteURL, entity.FieldTeamSize,
	entity.FieldARR, entity.FieldCategory, entity.FieldLinkedInURL, entity.FieldStatus,
	entity.FieldFundingType, entity.FieldEdition, entity.FieldFollowUpDate,
}

func IsEditableField(field string) bool {
	return slices.Contains(EditableFields, field)
}

// DisplayValue renders a lead field the way the table shows it. ARR is in millions.
func DisplayValue(l *entity.Lead, field string) string {
	switch field {
	case entity.FieldName:
		return l.Name
	case entity.FieldEmail:
		return l.Email
	case entity.FieldWebsiteURL:
		return l.WebsiteURL
	case entity.FieldTeamSize:
		return l.TeamSize
	case entity.FieldARR:
		return entity.FormatARR(l.ARR)
	case entity.FieldCategory:
		return l.Category
	case entity.FieldLinkedInURL:
		return l.LinkedInURL
	case entity.FieldStatus:
		return l.Status
	case entity.FieldFundingType:
		return l.FundingType
	case entity.FieldEdition:
		return l.Edition
	case entity.FieldFollowUpDate:
		return l.FollowUpDate
	}
	return ""
}

// EncodeValue converts a display value into what the record API stores.
func EncodeValue(field, display string) (any, error) {
	switch field {
	case entity.FieldARR:
		return entity.ParseARR(display)
	case entity.FieldFollowUpDate:
		display = strings.TrimSpace(display)
		if display == "" {
			return nil, nil
		}
		t, err := entity.ParseDate(display)
		if err != nil {
			return nil, err
		}
		return t.Format("2006-01-02"), nil
	case entity.FieldName, entity.FieldEmail, entity.FieldWebsiteURL, entity.FieldLinkedInURL, entity.FieldCategory:
		return strings.TrimSpace(display), nil
	}
	return display, nil
}

// applyDisplay writes a display value into l. Unparseable ARR leaves l.ARR as is.
func applyDisplay(l *entity.Lead, field, display string) {
	switch field {
	case entity.FieldName:
		l.Name = display
	case entity.FieldEmail:
		l.Email = display
	case entity.FieldWebsiteURL:
		l.WebsiteURL = display
	case entity.FieldTeamSize:
		l.TeamSize = display
	case entity.FieldARR:
		if raw, err := entity.ParseARR(display); err == nil {
			l.ARR = raw
		}
	case entity.FieldCategory:
		l.Category = display
	case entity.FieldLinkedInURL:
		l.LinkedInURL = display
	case entity.FieldStatus:
		l.Status = display
	case entity.FieldFundingType:
		l.FundingType = display
	case entity.FieldEdition:
		l.Edition = display
	case entity.FieldFollowUpDate:
		l.FollowUpDate = display
	}
}
