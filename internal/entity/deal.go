package entity

import (
	"regexp"
	"strings"
)

const (
	FieldDealLeadName    = "lead_name"
	FieldDealLeadID      = "lead_id"
	FieldDealValue       = "value"
	FieldDealStage       = "stage"
	FieldDealAssignedRep = "assigned_rep"
	FieldDealStartMonth  = "start_month"
	FieldDealEndMonth    = "end_month"
)

var DealFields = []string{
	FieldName, FieldDealLeadName, FieldDealLeadID, FieldDealValue, FieldDealStage,
	FieldDealAssignedRep, FieldEdition, FieldDealStartMonth, FieldDealEndMonth,
	FieldCreatedAt, FieldTags,
}

type Deal struct {
	ID          int64     `json:"Id"`
	Name        string    `json:"Name"`
	LeadName    string    `json:"lead_name"`
	LeadID      string    `json:"lead_id,omitempty"`
	Value       float64   `json:"value"`
	Stage       string    `json:"stage"`
	AssignedRep string    `json:"assigned_rep"`
	Edition     string    `json:"edition,omitempty"`
	StartMonth  int       `json:"start_month,omitempty"`
	EndMonth    int       `json:"end_month,omitempty"`
	Tags        string    `json:"Tags,omitempty"`
	CreatedAt   Timestamp `json:"created_at,omitzero"`
}

// DealPatch is a partial deal update keyed by record API field name.
type DealPatch map[string]any

var dealSuffix = regexp.MustCompile(`(?i)\s*deal\s*$`)

// CleanDealName drops the URL protocol and a trailing "Deal" word.
func CleanDealName(name string) string {
	cleaned := strings.TrimPrefix(strings.TrimPrefix(name, "https://"), "http://")
	cleaned = dealSuffix.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// AddMonths moves a 1-12 month forward by n, wrapping past December.
func AddMonths(month, n int) int {
	return ((month-1+n)%12+12)%12 + 1
}
