package entity

import (
	"time"
)

// Field names of the "lead" collection as the record API knows them.
const (
	FieldName         = "Name"
	FieldEmail        = "email"
	FieldWebsiteURL   = "website_url"
	FieldTeamSize     = "team_size"
	FieldARR          = "arr"
	FieldCategory     = "category"
	FieldLinkedInURL  = "linkedin_url"
	FieldStatus       = "status"
	FieldFundingType  = "funding_type"
	FieldEdition      = "edition"
	FieldFollowUpDate = "follow_up_date"
	FieldAddedBy      = "added_by"
	FieldAddedByName  = "added_by_name"
	FieldCreatedAt    = "created_at"
	FieldProductName  = "product_name"
	FieldTags         = "Tags"
)

// LeadFields is the projection requested on every lead fetch.
var LeadFields = []string{
	FieldName, FieldTags, FieldEmail, FieldWebsiteURL, FieldTeamSize, FieldARR,
	FieldCategory, FieldLinkedInURL, FieldStatus, FieldFundingType, FieldEdition,
	FieldAddedByName, FieldCreatedAt, FieldFollowUpDate, FieldAddedBy, FieldProductName,
}

type Lead struct {
	ID           int64     `json:"Id"`
	Name         string    `json:"Name,omitempty"`
	Email        string    `json:"email,omitempty"`
	WebsiteURL   string    `json:"website_url"`
	TeamSize     string    `json:"team_size,omitempty"`
	ARR          float64   `json:"arr"` // raw currency units
	Category     string    `json:"category,omitempty"`
	LinkedInURL  string    `json:"linkedin_url,omitempty"`
	Status       string    `json:"status,omitempty"`
	FundingType  string    `json:"funding_type,omitempty"`
	Edition      string    `json:"edition,omitempty"`
	FollowUpDate string    `json:"follow_up_date,omitempty"` // YYYY-MM-DD
	AddedBy      Lookup    `json:"added_by,omitempty"`
	AddedByName  string    `json:"added_by_name,omitempty"`
	ProductName  string    `json:"product_name,omitempty"`
	Tags         string    `json:"Tags,omitempty"`
	CreatedAt    Timestamp `json:"created_at,omitzero"`
}

// LeadPatch is a partial update keyed by record API field name.
type LeadPatch map[string]any

// FollowUp returns the parsed follow-up date, if any.
func (l *Lead) FollowUp() (time.Time, bool) {
	if l.FollowUpDate == "" {
		return time.Time{}, false
	}
	t, err := ParseDate(l.FollowUpDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Host is the website URL without protocol and trailing slash.
func (l *Lead) Host() string {
	return StripURL(l.WebsiteURL)
}

// NewLead applies the creation defaults used by both the form and the
// inline empty row.
func NewLead(websiteURL string) *Lead {
	return &Lead{
		WebsiteURL:  websiteURL,
		TeamSize:    DefaultTeamSize,
		Category:    DefaultCategory,
		Status:      DefaultStatus,
		FundingType: DefaultFundingType,
		Edition:     DefaultEdition,
	}
}
