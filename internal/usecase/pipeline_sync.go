package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

type SyncOutcome string

const (
	SyncNotMapped SyncOutcome = "not_mapped"
	SyncCreated   SyncOutcome = "created"
	SyncMoved     SyncOutcome = "moved"
	SyncInFlight  SyncOutcome = "in_flight"
	SyncFailed    SyncOutcome = "failed"
)

const syncFailedMessage = "Lead status updated, but failed to sync with deal pipeline"

type SyncResult struct {
	Outcome SyncOutcome  `json:"outcome"`
	Stage   string       `json:"stage,omitempty"`
	Deal    *entity.Deal `json:"deal,omitempty"`
}

// Message is the notification shown after a status change with this result.
func (r SyncResult) Message() (entity.NotificationLevel, string) {
	switch r.Outcome {
	case SyncMoved:
		return entity.LevelSuccess, fmt.Sprintf("Lead status updated and deal moved to %s stage!", r.Stage)
	case SyncCreated:
		return entity.LevelSuccess, fmt.Sprintf("Lead status updated and deal created in %s stage!", r.Stage)
	case SyncFailed:
		return entity.LevelWarning, syncFailedMessage
	default:
		return entity.LevelSuccess, "Lead status updated successfully!"
	}
}

// PipelineSync keeps the deal pipeline in step with lead statuses.
type PipelineSync struct {
	Deals DealRepository
	Guard SyncGuard
	Now   func() time.Time
	Log   *zap.Logger
}

func NewPipelineSync(deals DealRepository, guard SyncGuard, log *zap.Logger) *PipelineSync {
	return &PipelineSync{Deals: deals, Guard: guard, Now: time.Now, Log: logger.Or(log)}
}

// Sync moves the lead's deal to the stage mapped from its status, creating
// the deal when none exists. The lead has already been saved.
func (s *PipelineSync) Sync(ctx context.Context, lead *entity.Lead) (SyncResult, error) {
	stage, ok := entity.StageForStatus(lead.Status)
	if !ok {
		return SyncResult{Outcome: SyncNotMapped}, nil
	}
	leadID := strconv.FormatInt(lead.ID, 10)

	if s.Guard != nil {
		key := "deal-sync:" + leadID
		if !s.Guard.Acquire(ctx, key) {
			s.Log.Info("deal sync already running", zap.Int64("lead_id", lead.ID))
			return SyncResult{Outcome: SyncInFlight, Stage: stage}, nil
		}
		defer s.Guard.Release(ctx, key)
	}

	existing, err := s.Deals.FindByLeadID(ctx, leadID)
	if err != nil {
		return s.fail(lead, stage, "lookup", err)
	}

	if len(existing) > 0 {
		deal := existing[0]
		updated, err := s.Deals.Update(ctx, deal.ID, entity.DealPatch{entity.FieldDealStage: stage})
		if err != nil {
			return s.fail(lead, stage, "update", err)
		}
		return SyncResult{Outcome: SyncMoved, Stage: stage, Deal: updated}, nil
	}

	created, err := s.Deals.Create(ctx, DealForLead(lead, stage, s.Now()))
	if err != nil {
		return s.fail(lead, stage, "create", err)
	}
	return SyncResult{Outcome: SyncCreated, Stage: stage, Deal: created}, nil
}

func (s *PipelineSync) fail(lead *entity.Lead, stage, op string, err error) (SyncResult, error) {
	s.Log.Warn("deal sync failed",
		zap.Int64("lead_id", lead.ID),
		zap.String("stage", stage),
		zap.String("op", op),
		zap.Error(err),
	)
	return SyncResult{Outcome: SyncFailed, Stage: stage}, remoteError("deal sync "+op, err)
}

// DealForLead builds the deal created when a lead first enters the pipeline.
func DealForLead(lead *entity.Lead, stage string, now time.Time) *entity.Deal {
	edition := lead.Edition
	if edition == "" {
		edition = entity.DefaultEdition
	}
	start := int(now.Month())
	return &entity.Deal{
		Name:        lead.WebsiteURL + " Deal",
		LeadName:    entity.StripURL(lead.WebsiteURL),
		LeadID:      strconv.FormatInt(lead.ID, 10),
		Value:       lead.ARR,
		Stage:       stage,
		AssignedRep: entity.UnassignedRep,
		StartMonth:  start,
		EndMonth:    entity.AddMonths(start, 2),
		Edition:     edition,
	}
}
