package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

// DirectoryStore is CRUD over one directory table (reps, team, contacts).
type DirectoryStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, record *T) (*T, error)
	Update(ctx context.Context, id int64, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// DirectoryWording holds the notification texts of one directory.
type DirectoryWording struct {
	Noun    string // "sales rep"
	Created string
	Updated string
	Deleted string
}

var (
	SalesRepWording = DirectoryWording{"sales rep", "Sales rep created successfully", "Sales rep updated successfully", "Sales rep deleted successfully"}
	TeamWording     = DirectoryWording{"team member", "Team member invited successfully", "Team member updated successfully", "Team member removed successfully"}
	ContactWording  = DirectoryWording{"contact", "Contact created successfully", "Contact updated successfully", "Contact deleted successfully"}
)

type DirectoryUseCase[T any] struct {
	Store   DirectoryStore[T]
	Wording DirectoryWording
	notifier
	Log *zap.Logger
}

func NewDirectoryUseCase[T any](store DirectoryStore[T], wording DirectoryWording, sink Notifier, log *zap.Logger) *DirectoryUseCase[T] {
	return &DirectoryUseCase[T]{Store: store, Wording: wording, notifier: notifier{sink: sink}, Log: logger.Or(log)}
}

func (uc *DirectoryUseCase[T]) List(ctx context.Context) ([]T, error) {
	items, err := uc.Store.List(ctx)
	if err != nil {
		uc.Log.Error("failed to list "+uc.Wording.Noun, zap.Error(err))
		return nil, remoteError("failed to fetch "+uc.Wording.Noun+"s", err)
	}
	return items, nil
}

func (uc *DirectoryUseCase[T]) Get(ctx context.Context, id int64) (*T, error) {
	item, err := uc.Store.Get(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, NotFound(uc.Wording.Noun, id)
	}
	if err != nil {
		return nil, remoteError("failed to fetch "+uc.Wording.Noun, err)
	}
	return item, nil
}

func (uc *DirectoryUseCase[T]) Create(ctx context.Context, record *T) (*T, error) {
	created, err := uc.Store.Create(ctx, record)
	if err != nil {
		uc.Log.Error("failed to create "+uc.Wording.Noun, zap.Error(err))
		uc.failure(ctx, "Failed to create "+uc.Wording.Noun+": "+userMessage(err))
		return nil, remoteError("failed to create "+uc.Wording.Noun, err)
	}
	uc.success(ctx, uc.Wording.Created)
	return created, nil
}

func (uc *DirectoryUseCase[T]) Update(ctx context.Context, id int64, patch map[string]any) (*T, error) {
	if len(patch) == 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "no fields to update"}
	}
	if name, ok := patch[entity.FieldName].(string); ok && strings.TrimSpace(name) == "" {
		return nil, ValidationErrors{{entity.FieldName, "Name is required"}}
	}
	updated, err := uc.Store.Update(ctx, id, patch)
	if err != nil {
		uc.Log.Error("failed to update "+uc.Wording.Noun, zap.Int64("id", id), zap.Error(err))
		uc.failure(ctx, "Failed to update "+uc.Wording.Noun)
		return nil, remoteError("failed to update "+uc.Wording.Noun, err)
	}
	uc.success(ctx, uc.Wording.Updated)
	return updated, nil
}

func (uc *DirectoryUseCase[T]) Delete(ctx context.Context, id int64) error {
	if err := uc.Store.Delete(ctx, id); err != nil {
		uc.Log.Error("failed to delete "+uc.Wording.Noun, zap.Int64("id", id), zap.Error(err))
		uc.failure(ctx, "Failed to delete "+uc.Wording.Noun)
		return remoteError("failed to delete "+uc.Wording.Noun, err)
	}
	uc.success(ctx, uc.Wording.Deleted)
	return nil
}
