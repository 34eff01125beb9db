package usecase

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

type LeadUseCase struct {
	Leads LeadRepository
	Sync  *PipelineSync
	notifier
	Log *zap.Logger
}

func NewLeadUseCase(leads LeadRepository, sync *PipelineSync, sink Notifier, log *zap.Logger) *LeadUseCase {
	return &LeadUseCase{
		Leads:    leads,
		Sync:     sync,
		notifier: notifier{sink: sink},
		Log:      logger.Or(log),
	}
}

// CreateLeadInput is the lead form. ARR is given in millions.
type CreateLeadInput struct {
	Name         string  `json:"Name"`
	Email        string  `json:"email"`
	WebsiteURL   string  `json:"website_url"`
	TeamSize     string  `json:"team_size"`
	ARR          float64 `json:"arr"`
	Category     string  `json:"category"`
	LinkedInURL  string  `json:"linkedin_url"`
	Status       string  `json:"status"`
	FundingType  string  `json:"funding_type"`
	Edition      string  `json:"edition"`
	FollowUpDate string  `json:"follow_up_date"`
	AddedBy      int64   `json:"added_by"`
	AddedByName  string  `json:"added_by_name"`
}

func (in CreateLeadInput) toLead(log *zap.Logger) *entity.Lead {
	l := entity.NewLead(strings.TrimSpace(in.WebsiteURL))
	l.Name = strings.TrimSpace(in.Name)
	l.Email = strings.TrimSpace(in.Email)
	l.ARR = entity.ARRFromDisplay(in.ARR)
	l.LinkedInURL = strings.TrimSpace(in.LinkedInURL)
	l.FollowUpDate = strings.TrimSpace(in.FollowUpDate)
	l.AddedBy = entity.Lookup(in.AddedBy)
	l.AddedByName = in.AddedByName

	if in.TeamSize != "" {
		if entity.IsTeamSize(in.TeamSize) {
			l.TeamSize = in.TeamSize
		} else {
			log.Warn("invalid team size, using default",
				zap.String("team_size", in.TeamSize),
				zap.String("default", entity.DefaultTeamSize))
		}
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		l.Category = c
	}
	if in.Status != "" {
		l.Status = in.Status
	}
	if in.FundingType != "" {
		l.FundingType = in.FundingType
	}
	if in.Edition != "" {
		l.Edition = in.Edition
	}
	return l
}

func (uc *LeadUseCase) List(ctx context.Context, f LeadFilter) ([]entity.Lead, error) {
	leads, err := uc.Leads.FindAll(ctx)
	if err != nil {
		uc.Log.Error("failed to fetch leads", zap.Error(err))
		return nil, remoteError("failed to fetch leads", err)
	}
	return FilterLeads(leads, f), nil
}

func (uc *LeadUseCase) Get(ctx context.Context, id int64) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, NotFound("lead", id)
	}
	if err != nil {
		return nil, remoteError("failed to fetch lead", err)
	}
	return lead, nil
}

func (uc *LeadUseCase) Create(ctx context.Context, in CreateLeadInput) (*entity.Lead, error) {
	lead := in.toLead(uc.Log)
	if errs := ValidateLead(lead); len(errs) > 0 {
		uc.failure(ctx, errs[0].Message)
		return nil, errs
	}

	created, err := uc.Leads.Create(ctx, lead)
	if err != nil {
		uc.Log.Error("failed to create lead", zap.String("website_url", lead.WebsiteURL), zap.Error(err))
		uc.failure(ctx, "Failed to add lead: "+userMessage(err))
		return nil, remoteError("failed to create lead", err)
	}
	uc.success(ctx, "Lead added successfully!")
	return created, nil
}

type UpdateLeadOutput struct {
	Lead *entity.Lead `json:"lead"`
	Sync *SyncResult  `json:"sync,omitempty"`
}

// Update applies a partial update. A status change also syncs the pipeline.
func (uc *LeadUseCase) Update(ctx context.Context, id int64, patch entity.LeadPatch) (*UpdateLeadOutput, error) {
	if len(patch) == 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "no fields to update"}
	}
	if errs := validateLeadPatch(patch); len(errs) > 0 {
		uc.failure(ctx, errs[0].Message)
		return nil, errs
	}
	patch = encodeLeadPatch(patch)

	updated, err := uc.Leads.Update(ctx, id, patch)
	if err != nil {
		uc.Log.Error("failed to update lead", zap.Int64("lead_id", id), zap.Error(err))
		uc.failure(ctx, "Failed to update lead")
		return nil, remoteError("failed to update lead", err)
	}

	out := &UpdateLeadOutput{Lead: updated}
	if _, ok := patch[entity.FieldStatus]; ok && uc.Sync != nil {
		res, _ := uc.Sync.Sync(ctx, updated)
		out.Sync = &res
		level, msg := res.Message()
		uc.emit(ctx, level, msg)
		return out, nil
	}
	uc.success(ctx, "Lead updated successfully!")
	return out, nil
}

// ChangeStatus sets a lead's status and moves its deal accordingly.
func (uc *LeadUseCase) ChangeStatus(ctx context.Context, id int64, status string) (*UpdateLeadOutput, error) {
	if !entity.IsLeadStatus(status) {
		return nil, ValidationErrors{{entity.FieldStatus, "Please select a valid status"}}
	}
	updated, err := uc.Leads.Update(ctx, id, entity.LeadPatch{entity.FieldStatus: status})
	if err != nil {
		uc.Log.Error("failed to update lead status", zap.Int64("lead_id", id), zap.Error(err))
		uc.failure(ctx, "Failed to update lead status")
		return nil, remoteError("failed to update lead status", err)
	}

	out := &UpdateLeadOutput{Lead: updated}
	res := SyncResult{Outcome: SyncNotMapped}
	if uc.Sync != nil {
		res, _ = uc.Sync.Sync(ctx, updated)
	}
	out.Sync = &res
	level, msg := res.Message()
	uc.emit(ctx, level, msg)
	return out, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.Leads.Delete(ctx, id); err != nil {
		uc.Log.Error("failed to delete lead", zap.Int64("lead_id", id), zap.Error(err))
		uc.failure(ctx, "Failed to delete lead")
		return remoteError("failed to delete lead", err)
	}
	uc.success(ctx, "Lead deleted successfully!")
	return nil
}

type BulkDeleteResult struct {
	Deleted []int64                  `json:"deleted"`
	Failed  []int64                  `json:"failed"`
	Level   entity.NotificationLevel `json:"level"`
	Message string                   `json:"message"`
}

// BulkDelete deletes each id on its own. Ids that failed stay in Failed so the
// caller keeps those rows.
func (uc *LeadUseCase) BulkDelete(ctx context.Context, ids []int64) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, &DomainError{Code: CodeValidation, Message: "no leads selected"}
	}

	batch := NewBatch()
	for _, id := range ids {
		batch.Add(fmt.Sprintf("delete lead %d", id), func(ctx context.Context) error {
			return uc.Leads.Delete(ctx, id)
		})
	}
	run := batch.Run(ctx)

	res := &BulkDeleteResult{Deleted: []int64{}, Failed: []int64{}}
	for _, i := range run.Succeeded {
		res.Deleted = append(res.Deleted, ids[i])
	}
	for _, f := range run.Failed {
		res.Failed = append(res.Failed, ids[f.Index])
		uc.Log.Warn("bulk delete: lead not deleted", zap.Int64("lead_id", ids[f.Index]), zap.Error(f.Err))
	}

	res.Level, res.Message = bulkDeleteSummary(len(res.Deleted), len(res.Failed))
	uc.emit(ctx, res.Level, res.Message)
	return res, nil
}

func bulkDeleteSummary(ok, failed int) (entity.NotificationLevel, string) {
	switch {
	case ok > 0 && failed == 0:
		return entity.LevelSuccess, fmt.Sprintf("Successfully deleted %d %s", ok, plural(ok, "lead", "leads"))
	case ok > 0:
		return entity.LevelWarning, fmt.Sprintf("Deleted %d %s, failed to delete %d", ok, plural(ok, "lead", "leads"), failed)
	default:
		return entity.LevelError, "Failed to delete selected leads"
	}
}

// Survivors drops the deleted ids from rows, keeping order.
func Survivors(rows []entity.Lead, deleted []int64) []entity.Lead {
	gone := make(map[int64]struct{}, len(deleted))
	for _, id := range deleted {
		gone[id] = struct{}{}
	}
	out := make([]entity.Lead, 0, len(rows))
	for _, r := range rows {
		if _, ok := gone[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// encodeLeadPatch returns a copy of p with ARR converted from millions to raw units.
func encodeLeadPatch(p entity.LeadPatch) entity.LeadPatch {
	out := maps.Clone(p)
	if v, ok := out[entity.FieldARR]; ok {
		f, _ := toFloat(v)
		out[entity.FieldARR] = entity.ARRFromDisplay(f)
	}
	return out
}

// validateLeadPatch checks a patch whose ARR is given in millions.
func validateLeadPatch(p entity.LeadPatch) ValidationErrors {
	var errs ValidationErrors
	for _, field := range slices.Sorted(maps.Keys(p)) {
		if !IsEditableField(field) {
			errs = append(errs, ValidationError{field, "field " + field + " cannot be updated"})
		}
	}
	for _, field := range EditableFields {
		v, ok := p[field]
		if !ok {
			continue
		}
		if field == entity.FieldARR {
			if f, ok := toFloat(v); !ok || f < 0 {
				errs = append(errs, ValidationError{field, "ARR must be a non-negative number"})
			}
			continue
		}
		if v == nil {
			if field == entity.FieldName || field == entity.FieldWebsiteURL {
				errs = append(errs, ValidateLeadField(field, "")...)
			}
			continue
		}
		s, ok := v.(string)
		if !ok {
			errs = append(errs, ValidationError{field, "must be a string"})
			continue
		}
		errs = append(errs, ValidateLeadField(field, s)...)
	}
	return errs
}
