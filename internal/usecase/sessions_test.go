package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

func TestSessionManager_EditCommitDrainsFeed(t *testing.T) {
	leads := new(MockLeadRepository)
	timers := &fakeTimers{}
	m := NewSessionManager(leads, nil, nil, nil, WithScheduler(timers.schedule))
	leads.On("FindAll", mock.Anything).Return([]entity.Lead{baseLead()}, nil).Once()

	s, err := m.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, s.Rows)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	view, err := s.Edit(context.Background(), 1, entity.FieldName, "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", view.Values[entity.FieldName])

	saved := baseLead()
	saved.Name = "Acme Corp"
	leads.On("Update", mock.Anything, int64(1), entity.LeadPatch{entity.FieldName: "Acme Corp"}).Return(&saved, nil).Once()

	view, err = s.Commit(context.Background(), 1, entity.FieldName)
	require.NoError(t, err)
	assert.Empty(t, view.Dirty)
	assert.Equal(t, "Acme Corp", view.Confirmed.Name)

	notes := s.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Changes saved successfully", notes[0].Message)
	assert.Equal(t, s.ID, notes[0].SessionID)
	assert.Empty(t, s.Notifications())
}

func TestSession_LoadsUnknownRowOnDemand(t *testing.T) {
	leads := new(MockLeadRepository)
	m := NewSessionManager(leads, nil, nil, nil, WithScheduler((&fakeTimers{}).schedule))
	leads.On("FindAll", mock.Anything).Return([]entity.Lead{}, nil).Once()
	late := baseLead()
	late.ID = 7
	leads.On("FindByID", mock.Anything, int64(7)).Return(&late, nil).Once()
	leads.On("FindByID", mock.Anything, int64(8)).Return(nil, entity.ErrNotFound).Once()

	s, err := m.Open(context.Background())
	require.NoError(t, err)

	view, err := s.View(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), view.ID)

	_, err = s.View(context.Background(), 8)
	assert.True(t, IsDomainError(err))
}

func TestSessionManager_ReapAndClose(t *testing.T) {
	leads := new(MockLeadRepository)
	m := NewSessionManager(leads, nil, nil, nil, WithScheduler((&fakeTimers{}).schedule))
	leads.On("FindAll", mock.Anything).Return([]entity.Lead{}, nil)

	clock := fixedNow()
	m.now = func() time.Time { return clock }

	idle, err := m.Open(context.Background())
	require.NoError(t, err)
	clock = clock.Add(20 * time.Minute)
	busy, err := m.Open(context.Background())
	require.NoError(t, err)

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 1, m.Reap(30*time.Minute))
	_, err = m.Get(idle.ID)
	assert.True(t, IsDomainError(err))
	_, err = m.Get(busy.ID)
	require.NoError(t, err)

	require.NoError(t, m.Close(busy.ID))
	assert.Zero(t, m.Count())
	assert.True(t, IsDomainError(m.Close(busy.ID)))
	assert.ErrorIs(t, busy.Coordinator().Edit(1, entity.FieldName, "x"), ErrSessionClosed)
}
