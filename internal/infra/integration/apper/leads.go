package apper

import (
	"context"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// LeadStore maps the "lead" table onto entity.Lead.
type LeadStore struct {
	*Collection[entity.Lead]
}

func NewLeadStore(c *Client) *LeadStore {
	return &LeadStore{
		Collection: NewCollection[entity.Lead](c, TableLead, entity.LeadFields,
			OrderBy{FieldName: entity.FieldCreatedAt, SortType: SortDesc}),
	}
}

func (s *LeadStore) FindAll(ctx context.Context) ([]entity.Lead, error) {
	return s.List(ctx)
}

func (s *LeadStore) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return s.Get(ctx, id)
}

// FindCreatedOn returns the leads created on day (YYYY-MM-DD), ordered by rep.
func (s *LeadStore) FindCreatedOn(ctx context.Context, day string) ([]entity.Lead, error) {
	return s.Query(ctx,
		[]Where{{FieldName: entity.FieldCreatedAt, Operator: OpEqualTo, Values: []any{day}}},
		[]OrderBy{{FieldName: entity.FieldAddedBy, SortType: SortAsc}},
	)
}

// FindFollowUpsBetween returns leads whose follow-up date lies in [from, to].
func (s *LeadStore) FindFollowUpsBetween(ctx context.Context, from, to string) ([]entity.Lead, error) {
	return s.Query(ctx,
		[]Where{
			{FieldName: entity.FieldFollowUpDate, Operator: OpGreaterThanOrEqualTo, Values: []any{from}},
			{FieldName: entity.FieldFollowUpDate, Operator: OpLessThanOrEqualTo, Values: []any{to}},
		},
		[]OrderBy{{FieldName: entity.FieldFollowUpDate, SortType: SortAsc}},
	)
}

func (s *LeadStore) Update(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error) {
	return s.Collection.Update(ctx, id, patch)
}
