package apper

import (
	"context"
	"strconv"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// DealStore maps the "deal" table onto entity.Deal.
type DealStore struct {
	*Collection[entity.Deal]
}

func NewDealStore(c *Client) *DealStore {
	return &DealStore{
		Collection: NewCollection[entity.Deal](c, TableDeal, entity.DealFields,
			OrderBy{FieldName: entity.FieldCreatedAt, SortType: SortDesc}),
	}
}

// FindAll lists deals, restricted to a creation year when year > 0.
func (s *DealStore) FindAll(ctx context.Context, year int) ([]entity.Deal, error) {
	if year <= 0 {
		return s.List(ctx)
	}
	return s.Query(ctx,
		[]Where{{FieldName: entity.FieldCreatedAt, Operator: OpRelativeMatch, Values: []any{strconv.Itoa(year)}}},
		nil,
	)
}

func (s *DealStore) FindByID(ctx context.Context, id int64) (*entity.Deal, error) {
	return s.Get(ctx, id)
}

func (s *DealStore) FindByLeadID(ctx context.Context, leadID string) ([]entity.Deal, error) {
	return s.Query(ctx,
		[]Where{{FieldName: entity.FieldDealLeadID, Operator: OpEqualTo, Values: []any{leadID}}},
		nil,
	)
}

func (s *DealStore) Update(ctx context.Context, id int64, patch entity.DealPatch) (*entity.Deal, error) {
	return s.Collection.Update(ctx, id, patch)
}
