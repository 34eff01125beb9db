package usecase

import (
	"context"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

type LeadRepository interface {
	FindAll(ctx context.Context) ([]entity.Lead, error)
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
	FindCreatedOn(ctx context.Context, day string) ([]entity.Lead, error)
	FindFollowUpsBetween(ctx context.Context, from, to string) ([]entity.Lead, error)
	Create(ctx context.Context, l *entity.Lead) (*entity.Lead, error)
	Update(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error)
	Delete(ctx context.Context, id int64) error
}

type DealRepository interface {
	FindAll(ctx context.Context, year int) ([]entity.Deal, error)
	FindByID(ctx context.Context, id int64) (*entity.Deal, error)
	FindByLeadID(ctx context.Context, leadID string) ([]entity.Deal, error)
	Create(ctx context.Context, d *entity.Deal) (*entity.Deal, error)
	Update(ctx context.Context, id int64, patch entity.DealPatch) (*entity.Deal, error)
	Delete(ctx context.Context, id int64) error
}

// LeadUpdater is the slice of LeadRepository the autosave coordinator needs.
type LeadUpdater interface {
	Update(ctx context.Context, id int64, patch entity.LeadPatch) (*entity.Lead, error)
}

type SalesRepLister interface {
	List(ctx context.Context) ([]entity.SalesRep, error)
}

// Notifier receives every user-facing outcome message.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// SyncGuard suppresses concurrent pipeline syncs for the same lead.
// Acquire returns false only when another sync is known to hold the key.
type SyncGuard interface {
	Acquire(ctx context.Context, key string) bool
	Release(ctx context.Context, key string)
}

// AutosaveObserver is told about each field commit; used for metrics.
type AutosaveObserver interface {
	CommitFinished(field, outcome string)
}
