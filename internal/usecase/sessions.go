package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

// Session is one client's editing session: a coordinator plus the feed of
// notifications the client has not read yet.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Rows      int       `json:"rows"`

	coord    *Coordinator
	feed     *Feed
	leads    LeadRepository
	lastSeen time.Time
}

func (s *Session) Coordinator() *Coordinator { return s.coord }

func (s *Session) Notifications() []entity.Notification { return s.feed.Drain() }

// ensureRow tracks a row the session has not loaded yet.
func (s *Session) ensureRow(ctx context.Context, row int64) error {
	if s.coord.Tracked(row) {
		return nil
	}
	lead, err := s.leads.FindByID(ctx, row)
	if errors.Is(err, entity.ErrNotFound) {
		return NotFound("lead", row)
	}
	if err != nil {
		return remoteError("failed to fetch lead", err)
	}
	s.coord.Track(*lead)
	return nil
}

func (s *Session) Edit(ctx context.Context, row int64, field, value string) (RowView, error) {
	if err := s.ensureRow(ctx, row); err != nil {
		return RowView{}, err
	}
	if err := s.coord.Edit(row, field, value); err != nil {
		return RowView{}, err
	}
	return s.coord.View(row)
}

func (s *Session) Commit(ctx context.Context, row int64, field string) (RowView, error) {
	if err := s.ensureRow(ctx, row); err != nil {
		return RowView{}, err
	}
	err := s.coord.Commit(ctx, row, field)
	view, verr := s.coord.View(row)
	if verr != nil {
		return RowView{}, verr
	}
	return view, err
}

func (s *Session) CommitRow(ctx context.Context, row int64) (RowView, error) {
	if err := s.ensureRow(ctx, row); err != nil {
		return RowView{}, err
	}
	err := s.coord.CommitRow(ctx, row)
	view, verr := s.coord.View(row)
	if verr != nil {
		return RowView{}, verr
	}
	return view, err
}

func (s *Session) Cancel(ctx context.Context, row int64) (RowView, error) {
	if err := s.ensureRow(ctx, row); err != nil {
		return RowView{}, err
	}
	if err := s.coord.Cancel(ctx, row); err != nil {
		return RowView{}, err
	}
	return s.coord.View(row)
}

func (s *Session) View(ctx context.Context, row int64) (RowView, error) {
	if err := s.ensureRow(ctx, row); err != nil {
		return RowView{}, err
	}
	return s.coord.View(row)
}

// SessionManager owns the open editing sessions.
type SessionManager struct {
	leads LeadRepository
	sync  *PipelineSync
	sink  Notifier
	log   *zap.Logger
	opts  []CoordinatorOption
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(leads LeadRepository, pipeline *PipelineSync, sink Notifier, log *zap.Logger, opts ...CoordinatorOption) *SessionManager {
	return &SessionManager{
		leads:    leads,
		sync:     pipeline,
		sink:     sink,
		log:      logger.Or(log),
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open starts a session with every current lead loaded as confirmed state.
func (m *SessionManager) Open(ctx context.Context) (*Session, error) {
	leads, err := m.leads.FindAll(ctx)
	if err != nil {
		return nil, remoteError("failed to fetch leads", err)
	}

	id := uuid.NewString()
	feed := NewFeed(200)
	opts := append([]CoordinatorOption{WithPipeline(m.sync)}, m.opts...)
	coord := NewCoordinator(id, m.leads, Notifiers{feed, m.sink}, m.log, opts...)
	coord.Track(leads...)

	now := m.now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		Rows:      len(leads),
		coord:     coord,
		feed:      feed,
		leads:     m.leads,
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Info("editing session opened", zap.String("session_id", id), zap.Int("rows", len(leads)))
	return s, nil
}

// Get returns an open session and marks it as used.
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, NotFound("session", id)
	}
	s.lastSeen = m.now()
	return s, nil
}

func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return NotFound("session", id)
	}
	s.coord.Close()
	m.log.Info("editing session closed", zap.String("session_id", id))
	return nil
}

// Reap closes sessions unused for longer than idle and returns how many.
func (m *SessionManager) Reap(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.coord.Close()
		m.log.Info("editing session expired", zap.String("session_id", s.ID))
	}
	return len(stale)
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CloseAll stops every session; used on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range all {
		s.coord.Close()
	}
}
