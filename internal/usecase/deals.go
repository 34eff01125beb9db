package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

type DealUseCase struct {
	Deals DealRepository
	notifier
	Log *zap.Logger
}

func NewDealUseCase(deals DealRepository, sink Notifier, log *zap.Logger) *DealUseCase {
	return &DealUseCase{Deals: deals, notifier: notifier{sink: sink}, Log: logger.Or(log)}
}

// List returns deals newest first, limited to a creation year when year > 0.
func (uc *DealUseCase) List(ctx context.Context, year int) ([]entity.Deal, error) {
	deals, err := uc.Deals.FindAll(ctx, year)
	if err != nil {
		uc.Log.Error("failed to fetch deals", zap.Int("year", year), zap.Error(err))
		return nil, remoteError("failed to fetch deals", err)
	}
	return deals, nil
}

func (uc *DealUseCase) Get(ctx context.Context, id int64) (*entity.Deal, error) {
	deal, err := uc.Deals.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, NotFound("deal", id)
	}
	if err != nil {
		uc.failure(ctx, "Failed to load deal")
		return nil, remoteError("failed to fetch deal", err)
	}
	return deal, nil
}

func (uc *DealUseCase) Create(ctx context.Context, d entity.Deal) (*entity.Deal, error) {
	normalizeDeal(&d)
	if errs := ValidateDeal(&d); len(errs) > 0 {
		uc.failure(ctx, "Please fix the form errors")
		return nil, errs
	}

	created, err := uc.Deals.Create(ctx, &d)
	if err != nil {
		uc.Log.Error("failed to create deal", zap.String("name", d.Name), zap.Error(err))
		uc.failure(ctx, "Failed to create deal")
		return nil, remoteError("failed to create deal", err)
	}
	uc.success(ctx, "Deal created successfully")
	return created, nil
}

func (uc *DealUseCase) Update(ctx context.Context, id int64, patch entity.DealPatch) (*entity.Deal, error) {
	if len(patch) == 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "no fields to update"}
	}
	if name, ok := patch[entity.FieldName].(string); ok {
		patch[entity.FieldName] = entity.CleanDealName(name)
	}
	if errs := ValidateDealPatch(patch); len(errs) > 0 {
		uc.failure(ctx, "Please fix the form errors")
		return nil, errs
	}

	updated, err := uc.Deals.Update(ctx, id, patch)
	if err != nil {
		uc.Log.Error("failed to update deal", zap.Int64("deal_id", id), zap.Error(err))
		uc.failure(ctx, "Failed to update deal")
		return nil, remoteError("failed to update deal", err)
	}
	uc.success(ctx, "Deal updated successfully")
	return updated, nil
}

func (uc *DealUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.Deals.Delete(ctx, id); err != nil {
		uc.Log.Error("failed to delete deal", zap.Int64("deal_id", id), zap.Error(err))
		uc.failure(ctx, "Failed to delete deal")
		return remoteError("failed to delete deal", err)
	}
	uc.success(ctx, "Deal deleted successfully")
	return nil
}

func normalizeDeal(d *entity.Deal) {
	d.Name = entity.CleanDealName(d.Name)
	d.LeadName = strings.TrimSpace(d.LeadName)
	if d.Edition == "" {
		d.Edition = entity.DefaultEdition
	}
}
