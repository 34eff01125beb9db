package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

func baseLead() entity.Lead {
	l := entity.NewLead("https://acme.io")
	l.ID = 1
	l.Name = "Acme"
	l.Email = "sales@acme.io"
	l.ARR = 1_000_000
	return *l
}

type coordFixture struct {
	leads  *MockLeadRepository
	deals  *MockDealRepository
	notes  *recorder
	timers *fakeTimers
	obs    *countingObserver
	coord  *Coordinator
}

func newCoordFixture(t *testing.T) *coordFixture {
	t.Helper()
	f := &coordFixture{
		leads:  new(MockLeadRepository),
		deals:  new(MockDealRepository),
		notes:  &recorder{},
		timers: &fakeTimers{},
		obs:    &countingObserver{},
	}
	pipeline := NewPipelineSync(f.deals, nil, nil)
	pipeline.Now = fixedNow
	f.coord = NewCoordinator("sess-1", f.leads, f.notes, nil,
		WithScheduler(f.timers.schedule),
		WithPipeline(pipeline),
		WithObserver(f.obs),
	)
	f.coord.Track(baseLead())
	return f
}

func TestCoordinator_EditThenCommitShowsServerValue(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.Email = "ceo@acme.io"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"email": "ceo@acme.io"}).Return(&saved, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldEmail, "ceo@acme.io"))
	view, err := f.coord.View(1)
	require.NoError(t, err)
	assert.Equal(t, "ceo@acme.io", view.Values[entity.FieldEmail])
	assert.Equal(t, []string{entity.FieldEmail}, view.Dirty)
	assert.Equal(t, []string{entity.FieldEmail}, view.Pending)

	require.NoError(t, f.coord.Commit(context.Background(), 1, entity.FieldEmail))

	view, err = f.coord.View(1)
	require.NoError(t, err)
	assert.Equal(t, "ceo@acme.io", view.Values[entity.FieldEmail])
	assert.Equal(t, "ceo@acme.io", view.Confirmed.Email)
	assert.Empty(t, view.Dirty)
	assert.Empty(t, view.Pending)
	assert.Equal(t, 0, f.timers.active())
	assert.Equal(t, "Changes saved successfully", f.notes.last().Message)
	assert.Equal(t, "sess-1", f.notes.last().SessionID)
	f.leads.AssertExpectations(t)
}

func TestCoordinator_EscapeRevertsAndStopsTimer(t *testing.T) {
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme Corp"))
	require.NoError(t, f.coord.Cancel(context.Background(), 1))

	view, err := f.coord.View(1)
	require.NoError(t, err)
	assert.Equal(t, "Acme", view.Values[entity.FieldName])
	assert.Empty(t, view.Dirty)
	assert.Empty(t, view.Pending)
	assert.Equal(t, 0, f.timers.active())
	assert.Equal(t, "Changes cancelled", f.notes.last().Message)

	// the stopped timer firing anyway must not save anything
	f.timers.fire(0)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_DebounceRearmsAndSavesLatestValue(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.Name = "Acme Inc"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"Name": "Acme Inc"}).Return(&saved, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme I"))
	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme Inc"))
	assert.Equal(t, 2, f.timers.count())
	assert.Equal(t, 1, f.timers.active())
	assert.Equal(t, DefaultDebounce, f.timers.timers[1].d)

	f.timers.fire(0) // stale
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	f.timers.fire(1)
	view, _ := f.coord.View(1)
	assert.Equal(t, "Acme Inc", view.Values[entity.FieldName])
	assert.Empty(t, view.Dirty)
	f.leads.AssertNumberOfCalls(t, "Update", 1)
}

func TestCoordinator_ARRRoundTrip(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.ARR = 2_500_000
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"arr": 2_500_000.0}).Return(&saved, nil).Once()

	view, _ := f.coord.View(1)
	assert.Equal(t, "1", view.Values[entity.FieldARR])

	require.NoError(t, f.coord.Edit(1, entity.FieldARR, "2.5"))
	require.NoError(t, f.coord.Commit(context.Background(), 1, entity.FieldARR))

	view, _ = f.coord.View(1)
	assert.Equal(t, "2.5", view.Values[entity.FieldARR])
	assert.Equal(t, 2_500_000.0, view.Confirmed.ARR)
}

func TestCoordinator_ValidationFailureKeepsOverlay(t *testing.T) {
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Edit(1, entity.FieldEmail, "not-an-email"))
	err := f.coord.Commit(context.Background(), 1, entity.FieldEmail)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	view, _ := f.coord.View(1)
	assert.Equal(t, "not-an-email", view.Values[entity.FieldEmail])
	assert.Equal(t, []string{entity.FieldEmail}, view.Dirty)
	assert.Equal(t, []string{"Please enter a valid email address"}, view.Errors[entity.FieldEmail])
	assert.Equal(t, entity.LevelError, f.notes.last().Level)
	assert.Equal(t, "Please enter a valid email address", f.notes.last().Message)
	assert.Equal(t, []string{"email:invalid"}, f.obs.outcomes)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_SavingOtherFieldKeepsPendingError(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.Name = "Acme Inc"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"Name": "Acme Inc"}).Return(&saved, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldEmail, "not-an-email"))
	require.Error(t, f.coord.Commit(context.Background(), 1, entity.FieldEmail))

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme Inc"))
	require.NoError(t, f.coord.Commit(context.Background(), 1, entity.FieldName))

	view, err := f.coord.View(1)
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", view.Confirmed.Name)
	assert.Equal(t, []string{entity.FieldEmail}, view.Dirty)
	assert.Equal(t, []string{"Please enter a valid email address"}, view.Errors[entity.FieldEmail])
	f.leads.AssertExpectations(t)
}

func TestCoordinator_EmptyWebsiteRejected(t *testing.T) {
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Edit(1, entity.FieldWebsiteURL, "  "))
	err := f.coord.Commit(context.Background(), 1, entity.FieldWebsiteURL)
	require.Error(t, err)
	assert.Equal(t, "Website URL is required", f.notes.last().Message)
}

func TestCoordinator_FailureRollsBackOnlyThatField(t *testing.T) {
	f := newCoordFixture(t)
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"Name": "Acme 2"}).
		Return(nil, errors.New("boom")).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme 2"))
	require.NoError(t, f.coord.Edit(1, entity.FieldCategory, "CRM"))

	err := f.coord.Commit(context.Background(), 1, entity.FieldName)
	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))

	view, _ := f.coord.View(1)
	assert.Equal(t, "Acme", view.Values[entity.FieldName])
	assert.Equal(t, "CRM", view.Values[entity.FieldCategory])
	assert.Equal(t, []string{entity.FieldCategory}, view.Dirty)
	assert.Equal(t, "Failed to save changes: boom", f.notes.last().Message)
}

func TestCoordinator_ReEditDuringSaveKeepsNewerOverlay(t *testing.T) {
	f := newCoordFixture(t)
	release := make(chan struct{})
	started := make(chan struct{})
	saved := baseLead()
	saved.Name = "First"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"Name": "First"}).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&saved, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "First"))
	done := make(chan error)
	go func() { done <- f.coord.Commit(context.Background(), 1, entity.FieldName) }()

	<-started
	view, _ := f.coord.View(1)
	assert.True(t, view.Saving)
	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Second"))
	close(release)
	require.NoError(t, <-done)

	view, _ = f.coord.View(1)
	assert.Equal(t, "Second", view.Values[entity.FieldName])
	assert.Equal(t, "First", view.Confirmed.Name)
	assert.Equal(t, []string{entity.FieldName}, view.Dirty)
	assert.False(t, view.Saving)
}

func TestCoordinator_CommitRowSavesEachFieldSeparately(t *testing.T) {
	f := newCoordFixture(t)
	afterName := baseLead()
	afterName.Name = "Acme Two"
	afterTeam := afterName
	afterTeam.TeamSize = "11-50"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"Name": "Acme Two"}).Return(&afterName, nil).Once()
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"team_size": "11-50"}).Return(&afterTeam, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldTeamSize, "11-50"))
	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Acme Two"))
	require.NoError(t, f.coord.CommitRow(context.Background(), 1))

	view, _ := f.coord.View(1)
	assert.Empty(t, view.Dirty)
	assert.Equal(t, 0, f.timers.active())
	assert.Equal(t, "11-50", view.Values[entity.FieldTeamSize])
	f.leads.AssertExpectations(t)
}

func TestCoordinator_CommitRowValidatesFirst(t *testing.T) {
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Fine"))
	require.NoError(t, f.coord.Edit(1, entity.FieldStatus, "Nope"))
	err := f.coord.CommitRow(context.Background(), 1)
	require.Error(t, err)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	view, _ := f.coord.View(1)
	assert.Len(t, view.Dirty, 2)
	assert.Contains(t, view.Errors, entity.FieldStatus)
}

func TestCoordinator_StatusCommitCreatesDeal(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.Status = "Negotiation"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"status": "Negotiation"}).Return(&saved, nil).Once()
	f.deals.On("FindByLeadID", mock.Anything, "1").Return([]entity.Deal{}, nil).Once()
	f.deals.On("Create", mock.Anything, mock.MatchedBy(func(d *entity.Deal) bool {
		return d.Stage == "Negotiation" && d.LeadID == "1" && d.Name == "https://acme.io Deal" &&
			d.LeadName == "acme.io" && d.Value == 1_000_000 && d.AssignedRep == "Unassigned" &&
			d.StartMonth == 11 && d.EndMonth == 1
	})).Return(&entity.Deal{ID: 9, Stage: "Negotiation"}, nil).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldStatus, "Negotiation"))
	require.NoError(t, f.coord.Commit(context.Background(), 1, entity.FieldStatus))

	f.deals.AssertExpectations(t)
	f.deals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{"Changes saved successfully", "Lead status updated and deal created in Negotiation stage!"}, f.notes.messages())
}

func TestCoordinator_StatusCommitSyncFailureWarns(t *testing.T) {
	f := newCoordFixture(t)
	saved := baseLead()
	saved.Status = "Locked"
	f.leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"status": "Locked"}).Return(&saved, nil).Once()
	f.deals.On("FindByLeadID", mock.Anything, "1").Return(nil, errors.New("timeout")).Once()

	require.NoError(t, f.coord.Edit(1, entity.FieldStatus, "Locked"))
	require.NoError(t, f.coord.Commit(context.Background(), 1, entity.FieldStatus))

	view, _ := f.coord.View(1)
	assert.Equal(t, "Locked", view.Confirmed.Status)
	last := f.notes.last()
	assert.Equal(t, entity.LevelWarning, last.Level)
	assert.Equal(t, "Lead status updated, but failed to sync with deal pipeline", last.Message)
}

func TestCoordinator_CloseStopsTimersAndRejectsEdits(t *testing.T) {
	f := newCoordFixture(t)

	require.NoError(t, f.coord.Edit(1, entity.FieldName, "Later"))
	f.coord.Close()
	assert.Equal(t, 0, f.timers.active())

	f.timers.fire(0)
	f.leads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	assert.ErrorIs(t, f.coord.Edit(1, entity.FieldName, "Again"), ErrSessionClosed)
}

func TestCoordinator_RejectsUnknownRowAndField(t *testing.T) {
	f := newCoordFixture(t)

	assert.True(t, IsDomainError(f.coord.Edit(42, entity.FieldName, "x")))
	assert.True(t, IsDomainError(f.coord.Edit(1, entity.FieldCreatedAt, "x")))
}

func TestCoordinator_RealTimerFires(t *testing.T) {
	leads := new(MockLeadRepository)
	saved := baseLead()
	saved.Category = "CRM"
	leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{"category": "CRM"}).Return(&saved, nil).Once()

	c := NewCoordinator("s", leads, nil, nil, WithDebounce(10*time.Millisecond))
	defer c.Close()
	c.Track(baseLead())
	require.NoError(t, c.Edit(1, entity.FieldCategory, "CRM"))

	assert.Eventually(t, func() bool {
		v, _ := c.View(1)
		return len(v.Dirty) == 0 && v.Confirmed.Category == "CRM"
	}, time.Second, 5*time.Millisecond)
	c.Wait()
	leads.AssertExpectations(t)
}
