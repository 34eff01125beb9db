package usecase

import (
	"slices"
	"strings"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

const filterAll = "all"

// LeadFilter is the table's search box, filter dropdowns and sort header.
type LeadFilter struct {
	Search      string
	Status      string
	FundingType string
	Category    string
	TeamSize    string
	SortField   string
	SortDesc    bool
}

func matches(want, got string) bool {
	return want == "" || want == filterAll || want == got
}

// FilterLeads applies search, filters and sort without touching the input.
func FilterLeads(leads []entity.Lead, f LeadFilter) []entity.Lead {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.WebsiteURL), search) &&
			!strings.Contains(strings.ToLower(l.Category), search) &&
			!strings.Contains(strings.ToLower(l.TeamSize), search) {
			continue
		}
		if !matches(f.Status, l.Status) || !matches(f.FundingType, l.FundingType) ||
			!matches(f.Category, l.Category) || !matches(f.TeamSize, l.TeamSize) {
			continue
		}
		out = append(out, l)
	}

	if f.SortField != "" {
		SortLeads(out, f.SortField, f.SortDesc)
	}
	return out
}

// SortLeads sorts in place. The website column sorts by creation time.
func SortLeads(leads []entity.Lead, field string, desc bool) {
	cmp := func(a, b *entity.Lead) int {
		switch field {
		case entity.FieldARR:
			return compareFloat(a.ARR, b.ARR)
		case entity.FieldCreatedAt, entity.FieldWebsiteURL:
			return a.CreatedAt.Compare(b.CreatedAt.Time)
		case entity.FieldAddedByName:
			return strings.Compare(a.AddedByName, b.AddedByName)
		default:
			return strings.Compare(DisplayValue(a, field), DisplayValue(b, field))
		}
	}
	slices.SortStableFunc(leads, func(a, b entity.Lead) int {
		c := cmp(&a, &b)
		if desc {
			return -c
		}
		return c
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
