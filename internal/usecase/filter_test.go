package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

func filterFixture() []entity.Lead {
	day := func(d int) entity.Timestamp {
		return entity.NewTimestamp(time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC))
	}
	return []entity.Lead{
		{ID: 1, WebsiteURL: "https://alpha.io", Category: "CRM", TeamSize: "1-3", Status: "Hotlist", FundingType: "Angel", ARR: 3e6, AddedByName: "Mike", CreatedAt: day(2)},
		{ID: 2, WebsiteURL: "https://beta.dev", Category: "Form Builder", TeamSize: "11-50", Status: "Locked", FundingType: "Bootstrapped", ARR: 1e6, AddedByName: "Anna", CreatedAt: day(5)},
		{ID: 3, WebsiteURL: "https://gamma.ai", Category: "AI Code Assistant", TeamSize: "500+", Status: "Hotlist", FundingType: "Series A", ARR: 12e6, AddedByName: "Zed", CreatedAt: day(1)},
	}
}

func ids(leads []entity.Lead) []int64 {
	out := make([]int64, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func TestFilterLeads(t *testing.T) {
	leads := filterFixture()

	tests := []struct {
		name string
		f    LeadFilter
		want []int64
	}{
		{"no filter", LeadFilter{}, []int64{1, 2, 3}},
		{"all is a wildcard", LeadFilter{Status: "all", Category: "all"}, []int64{1, 2, 3}},
		{"search is case-insensitive on url", LeadFilter{Search: "BETA"}, []int64{2}},
		{"search matches category", LeadFilter{Search: "code"}, []int64{3}},
		{"search matches team size", LeadFilter{Search: "500"}, []int64{3}},
		{"status filter", LeadFilter{Status: "Hotlist"}, []int64{1, 3}},
		{"combined filters", LeadFilter{Status: "Hotlist", FundingType: "Angel"}, []int64{1}},
		{"sort arr desc", LeadFilter{SortField: entity.FieldARR, SortDesc: true}, []int64{3, 1, 2}},
		{"website column sorts by creation", LeadFilter{SortField: entity.FieldWebsiteURL}, []int64{3, 1, 2}},
		{"sort by rep name", LeadFilter{SortField: entity.FieldAddedByName}, []int64{2, 1, 3}},
		{"sort by category", LeadFilter{SortField: entity.FieldCategory}, []int64{3, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterLeads(leads, tt.f)))
		})
	}
	assert.Equal(t, []int64{1, 2, 3}, ids(leads), "input must not be reordered")
}
