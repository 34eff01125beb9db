package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/infra/integration/apper"
)

func TestBulkDelete_PartialFailureKeepsFailedRow(t *testing.T) {
	leads := new(MockLeadRepository)
	notes := &recorder{}
	uc := NewLeadUseCase(leads, nil, notes, nil)

	leads.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	leads.On("Delete", mock.Anything, int64(2)).Return(&apper.APIError{Table: "lead", Op: "delete", Message: "locked"}).Once()
	leads.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	res, err := uc.BulkDelete(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, res.Deleted)
	assert.Equal(t, []int64{2}, res.Failed)
	assert.Equal(t, "Deleted 2 leads, failed to delete 1", res.Message)
	assert.Equal(t, entity.LevelWarning, notes.last().Level)

	rows := []entity.Lead{{ID: 1}, {ID: 2}, {ID: 3}}
	left := Survivors(rows, res.Deleted)
	require.Len(t, left, 1)
	assert.Equal(t, int64(2), left[0].ID)
	leads.AssertExpectations(t)
}

func TestBulkDelete_Summaries(t *testing.T) {
	level, msg := bulkDeleteSummary(1, 0)
	assert.Equal(t, entity.LevelSuccess, level)
	assert.Equal(t, "Successfully deleted 1 lead", msg)

	_, msg = bulkDeleteSummary(4, 0)
	assert.Equal(t, "Successfully deleted 4 leads", msg)

	_, msg = bulkDeleteSummary(1, 2)
	assert.Equal(t, "Deleted 1 lead, failed to delete 2", msg)

	level, msg = bulkDeleteSummary(0, 3)
	assert.Equal(t, entity.LevelError, level)
	assert.Equal(t, "Failed to delete selected leads", msg)
}

func TestBulkDelete_EmptySelection(t *testing.T) {
	uc := NewLeadUseCase(new(MockLeadRepository), nil, nil, nil)
	_, err := uc.BulkDelete(context.Background(), nil)
	assert.True(t, IsDomainError(err))
}

func TestChangeStatus_MovesExistingDeal(t *testing.T) {
	leads := new(MockLeadRepository)
	deals := new(MockDealRepository)
	notes := &recorder{}
	pipeline := NewPipelineSync(deals, nil, nil)
	uc := NewLeadUseCase(leads, pipeline, notes, nil)

	saved := baseLead()
	saved.Status = "Negotiation"
	leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"status": "Negotiation"}).Return(&saved, nil).Once()
	deals.On("FindByLeadID", mock.Anything, "1").Return([]entity.Deal{{ID: 5, LeadID: "1", Stage: "Locked"}}, nil).Once()
	deals.On("Update", mock.Anything, int64(5), entity.DealPatch{"stage": "Negotiation"}).
		Return(&entity.Deal{ID: 5, Stage: "Negotiation"}, nil).Once()

	out, err := uc.ChangeStatus(context.Background(), 1, "Negotiation")
	require.NoError(t, err)
	assert.Equal(t, SyncMoved, out.Sync.Outcome)
	assert.Equal(t, "Negotiation", out.Sync.Deal.Stage)
	assert.Equal(t, "Lead status updated and deal moved to Negotiation stage!", notes.last().Message)
	deals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	deals.AssertExpectations(t)
}

func TestChangeStatus_ClosedLostMapsToLost(t *testing.T) {
	leads := new(MockLeadRepository)
	deals := new(MockDealRepository)
	uc := NewLeadUseCase(leads, NewPipelineSync(deals, nil, nil), nil, nil)

	saved := baseLead()
	saved.Status = "Closed Lost"
	leads.On("Update", mock.Anything, int64(1), mock.Anything).Return(&saved, nil).Once()
	deals.On("FindByLeadID", mock.Anything, "1").Return([]entity.Deal{}, nil).Once()
	deals.On("Create", mock.Anything, mock.MatchedBy(func(d *entity.Deal) bool { return d.Stage == "Lost" })).
		Return(&entity.Deal{ID: 2, Stage: "Lost"}, nil).Once()

	out, err := uc.ChangeStatus(context.Background(), 1, "Closed Lost")
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, out.Sync.Outcome)
	deals.AssertExpectations(t)
}

func TestChangeStatus_UnmappedStatusSkipsPipeline(t *testing.T) {
	leads := new(MockLeadRepository)
	deals := new(MockDealRepository)
	notes := &recorder{}
	uc := NewLeadUseCase(leads, NewPipelineSync(deals, nil, nil), notes, nil)

	saved := baseLead()
	saved.Status = "Hotlist"
	leads.On("Update", mock.Anything, int64(1), mock.Anything).Return(&saved, nil).Once()

	out, err := uc.ChangeStatus(context.Background(), 1, "Hotlist")
	require.NoError(t, err)
	assert.Equal(t, SyncNotMapped, out.Sync.Outcome)
	assert.Equal(t, "Lead status updated successfully!", notes.last().Message)
	deals.AssertNotCalled(t, "FindByLeadID", mock.Anything, mock.Anything)
}

func TestChangeStatus_PrimaryFailure(t *testing.T) {
	leads := new(MockLeadRepository)
	deals := new(MockDealRepository)
	notes := &recorder{}
	uc := NewLeadUseCase(leads, NewPipelineSync(deals, nil, nil), notes, nil)
	leads.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil, errors.New("down")).Once()

	_, err := uc.ChangeStatus(context.Background(), 1, "Locked")
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "Failed to update lead status", notes.last().Message)
	deals.AssertNotCalled(t, "FindByLeadID", mock.Anything, mock.Anything)
}

func TestPipelineSync_GuardSuppressesConcurrentSync(t *testing.T) {
	deals := new(MockDealRepository)
	guard := &fakeGuard{}
	ps := NewPipelineSync(deals, guard, nil)
	lead := baseLead()
	lead.Status = "Locked"

	require.True(t, guard.Acquire(context.Background(), "deal-sync:1"))
	res, err := ps.Sync(context.Background(), &lead)
	require.NoError(t, err)
	assert.Equal(t, SyncInFlight, res.Outcome)
	deals.AssertNotCalled(t, "FindByLeadID", mock.Anything, mock.Anything)

	guard.Release(context.Background(), "deal-sync:1")
	deals.On("FindByLeadID", mock.Anything, "1").Return([]entity.Deal{}, nil).Once()
	deals.On("Create", mock.Anything, mock.Anything).Return(&entity.Deal{ID: 1}, nil).Once()
	res, err = ps.Sync(context.Background(), &lead)
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, res.Outcome)
	assert.Empty(t, guard.held)
}

func TestDealForLead_DefaultsEdition(t *testing.T) {
	lead := baseLead()
	lead.Edition = ""
	lead.WebsiteURL = "http://beta.dev/"
	d := DealForLead(&lead, "Connected", fixedNow())
	assert.Equal(t, entity.DefaultEdition, d.Edition)
	assert.Equal(t, "beta.dev", d.LeadName)
	assert.Equal(t, "http://beta.dev/ Deal", d.Name)
}

func TestLeadCreate_AppliesDefaults(t *testing.T) {
	leads := new(MockLeadRepository)
	notes := &recorder{}
	uc := NewLeadUseCase(leads, nil, notes, nil)

	leads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.TeamSize == "1-3" && l.Category == "Other" && l.Status == "Keep an Eye" &&
			l.FundingType == "Bootstrapped" && l.Edition == "Select Edition" && l.ARR == 1_500_000
	})).Return(&entity.Lead{ID: 3}, nil).Once()

	created, err := uc.Create(context.Background(), CreateLeadInput{WebsiteURL: "https://x.io", TeamSize: "bogus", ARR: 1.5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "Lead added successfully!", notes.last().Message)
}

func TestLeadCreate_RejectsInvalidURL(t *testing.T) {
	leads := new(MockLeadRepository)
	uc := NewLeadUseCase(leads, nil, nil, nil)

	_, err := uc.Create(context.Background(), CreateLeadInput{WebsiteURL: "x"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Please enter a valid website URL", verrs[0].Message)
	leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadUpdate_StatusInPatchSyncs(t *testing.T) {
	leads := new(MockLeadRepository)
	deals := new(MockDealRepository)
	uc := NewLeadUseCase(leads, NewPipelineSync(deals, nil, nil), nil, nil)

	saved := baseLead()
	saved.Status = "Connected"
	patch := entity.LeadPatch{"status": "Connected", "Name": "Acme"}
	leads.On("Update", mock.Anything, int64(1), patch).Return(&saved, nil).Once()
	deals.On("FindByLeadID", mock.Anything, "1").Return([]entity.Deal{}, nil).Once()
	deals.On("Create", mock.Anything, mock.Anything).Return(&entity.Deal{ID: 1, Stage: "Connected"}, nil).Once()

	out, err := uc.Update(context.Background(), 1, patch)
	require.NoError(t, err)
	require.NotNil(t, out.Sync)
	assert.Equal(t, SyncCreated, out.Sync.Outcome)
}

func TestLeadUpdate_RejectsBadPatch(t *testing.T) {
	uc := NewLeadUseCase(new(MockLeadRepository), nil, nil, nil)

	_, err := uc.Update(context.Background(), 1, entity.LeadPatch{"arr": -5.0, "email": "nope"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
}

func TestLeadUpdate_ARRIsInMillions(t *testing.T) {
	leads := new(MockLeadRepository)
	uc := NewLeadUseCase(leads, nil, nil, nil)

	saved := baseLead()
	saved.ARR = 2_500_000
	leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"arr": 2_500_000.0}).Return(&saved, nil).Once()

	patch := entity.LeadPatch{"arr": 2.5}
	out, err := uc.Update(context.Background(), 1, patch)
	require.NoError(t, err)
	assert.Equal(t, 2_500_000.0, out.Lead.ARR)
	assert.Equal(t, 2.5, patch["arr"])
	leads.AssertExpectations(t)
}

func TestLeadUpdate_RejectsFieldsOutsideTheEditor(t *testing.T) {
	leads := new(MockLeadRepository)
	uc := NewLeadUseCase(leads, nil, nil, nil)

	_, err := uc.Update(context.Background(), 1, entity.LeadPatch{"created_at": "2026-01-01", "added_by": 3, "Name": "Acme"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, entity.FieldAddedBy, verrs[0].Field)
	assert.Equal(t, entity.FieldCreatedAt, verrs[1].Field)
	leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeadGet_NotFound(t *testing.T) {
	leads := new(MockLeadRepository)
	uc := NewLeadUseCase(leads, nil, nil, nil)
	leads.On("FindByID", mock.Anything, int64(9)).Return(nil, entity.ErrNotFound).Once()

	_, err := uc.Get(context.Background(), 9)
	assert.True(t, IsDomainError(err))
}
