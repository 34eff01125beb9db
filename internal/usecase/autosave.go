package usecase

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

const DefaultDebounce = 500 * time.Millisecond

var ErrSessionClosed = &DomainError{Code: CodeConflict, Message: "editing session is closed"}

// Timer is the handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. The default is time.AfterFunc.
type Scheduler func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }

type fieldKey struct {
	row   int64
	field string
}

type armedTimer struct {
	t   Timer
	gen uint64
}

type rowState struct {
	confirmed *entity.Lead
	overlay   map[string]string // unsaved display values, one per dirty field
	gen       map[string]uint64 // bumped on every edit and cancel
	errors    map[string][]string
	saving    int
}

func newRowState(l *entity.Lead) *rowState {
	return &rowState{
		confirmed: l,
		overlay:   make(map[string]string),
		gen:       make(map[string]uint64),
		errors:    make(map[string][]string),
	}
}

// composite is the row as the user currently sees it.
func (st *rowState) composite() *entity.Lead {
	l := *st.confirmed
	for field, v := range st.overlay {
		applyDisplay(&l, field, v)
	}
	return &l
}

// RowView is the display state of one row.
type RowView struct {
	ID        int64               `json:"id"`
	Values    map[string]string   `json:"values"`
	Dirty     []string            `json:"dirty"`
	Pending   []string            `json:"pending"`
	Errors    map[string][]string `json:"errors"`
	Saving    bool                `json:"saving"`
	Confirmed entity.Lead         `json:"confirmed"`
}

type CoordinatorOption func(*Coordinator)

func WithDebounce(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

func WithScheduler(s Scheduler) CoordinatorOption {
	return func(c *Coordinator) { c.schedule = s }
}

func WithPipeline(s *PipelineSync) CoordinatorOption {
	return func(c *Coordinator) { c.sync = s }
}

func WithObserver(o AutosaveObserver) CoordinatorOption {
	return func(c *Coordinator) { c.observer = o }
}

// Coordinator owns the inline-editing state of one editing session: the
// optimistic overlay over each row, its debounce timers and validation errors.
// Remote calls are made without holding the lock, so saves of different
// fields may overlap and complete in any order.
type Coordinator struct {
	leads LeadUpdater
	sync  *PipelineSync
	notifier
	log      *zap.Logger
	observer AutosaveObserver
	debounce time.Duration
	schedule Scheduler

	mu     sync.Mutex
	rows   map[int64]*rowState
	timers map[fieldKey]armedTimer
	closed bool
	wg     sync.WaitGroup
}

func NewCoordinator(sessionID string, leads LeadUpdater, sink Notifier, log *zap.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		leads:    leads,
		notifier: notifier{sink: sink, sessionID: sessionID},
		log:      logger.Or(log).With(zap.String("session_id", sessionID)),
		debounce: DefaultDebounce,
		schedule: afterFunc,
		rows:     make(map[int64]*rowState),
		timers:   make(map[fieldKey]armedTimer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Track loads server records as the confirmed state of their rows. Pending
// edits on already tracked rows are kept.
func (c *Coordinator) Track(leads ...entity.Lead) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range leads {
		l := leads[i]
		if st, ok := c.rows[l.ID]; ok {
			st.confirmed = &l
			continue
		}
		c.rows[l.ID] = newRowState(&l)
	}
}

// Untrack forgets a row, e.g. after it was deleted.
func (c *Coordinator) Untrack(row int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRowTimersLocked(row)
	delete(c.rows, row)
}

func (c *Coordinator) Tracked(row int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.rows[row]
	return ok
}

// Edit records a keystroke-level change and (re)arms the field's debounce timer.
func (c *Coordinator) Edit(row int64, field, value string) error {
	if !IsEditableField(field) {
		return &DomainError{Code: CodeValidation, Message: "field " + field + " is not editable"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	st, ok := c.rows[row]
	if !ok {
		return NotFound("row", row)
	}

	st.overlay[field] = value
	st.gen[field]++
	gen := st.gen[field]

	key := fieldKey{row, field}
	if prev, ok := c.timers[key]; ok {
		prev.t.Stop()
	}
	c.timers[key] = armedTimer{
		t:   c.schedule(c.debounce, func() { c.fire(key, gen) }),
		gen: gen,
	}
	return nil
}

func (c *Coordinator) fire(key fieldKey, gen uint64) {
	c.mu.Lock()
	armed, ok := c.timers[key]
	if c.closed || !ok || armed.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.timers, key)
	c.mu.Unlock()

	_ = c.commitField(context.Background(), key.row, key.field)
}

// Commit saves one field now, cancelling its debounce timer.
func (c *Coordinator) Commit(ctx context.Context, row int64, field string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	key := fieldKey{row, field}
	if armed, ok := c.timers[key]; ok {
		armed.t.Stop()
		delete(c.timers, key)
	}
	c.mu.Unlock()

	return c.commitField(ctx, row, field)
}

// CommitRow validates every dirty field of the row and then saves them one
// by one, each as its own update.
func (c *Coordinator) CommitRow(ctx context.Context, row int64) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	st, ok := c.rows[row]
	if !ok {
		c.mu.Unlock()
		return NotFound("row", row)
	}
	c.stopRowTimersLocked(row)

	fields := dirtyFields(st)
	if len(fields) == 0 {
		c.mu.Unlock()
		return nil
	}
	if errs := validateRow(st, fields); len(errs) > 0 {
		st.errors = errs.ByField()
		c.mu.Unlock()
		c.failure(ctx, errs[0].Message)
		c.observe(fields[0], "invalid")
		return errs
	}
	c.mu.Unlock()

	var all []error
	for _, field := range fields {
		if err := c.commitField(ctx, row, field); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

// Cancel drops every unsaved change of the row.
func (c *Coordinator) Cancel(ctx context.Context, row int64) error {
	c.mu.Lock()
	st, ok := c.rows[row]
	if !ok {
		c.mu.Unlock()
		return NotFound("row", row)
	}
	c.stopRowTimersLocked(row)
	for field := range st.overlay {
		st.gen[field]++
	}
	clear(st.overlay)
	clear(st.errors)
	c.mu.Unlock()

	c.info(ctx, "Changes cancelled")
	return nil
}

func (c *Coordinator) View(row int64) (RowView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.rows[row]
	if !ok {
		return RowView{}, NotFound("row", row)
	}

	shown := st.composite()
	v := RowView{
		ID:        row,
		Values:    make(map[string]string, len(EditableFields)),
		Dirty:     dirtyFields(st),
		Pending:   []string{},
		Errors:    make(map[string][]string, len(st.errors)),
		Saving:    st.saving > 0,
		Confirmed: *st.confirmed,
	}
	for _, field := range EditableFields {
		if raw, ok := st.overlay[field]; ok {
			v.Values[field] = raw
		} else {
			v.Values[field] = DisplayValue(shown, field)
		}
		if _, ok := c.timers[fieldKey{row, field}]; ok {
			v.Pending = append(v.Pending, field)
		}
	}
	for f, msgs := range st.errors {
		v.Errors[f] = slices.Clone(msgs)
	}
	return v, nil
}

// Close stops every timer. Saves already in flight still complete.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for key, armed := range c.timers {
		armed.t.Stop()
		delete(c.timers, key)
	}
}

// Wait blocks until in-flight saves have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) commitField(ctx context.Context, row int64, field string) error {
	c.mu.Lock()
	st, ok := c.rows[row]
	if !ok {
		c.mu.Unlock()
		return NotFound("row", row)
	}
	value, dirty := st.overlay[field]
	if !dirty {
		c.mu.Unlock()
		return nil
	}
	if errs := validateRow(st, []string{field}); len(errs) > 0 {
		maps.Copy(st.errors, errs.ByField())
		c.mu.Unlock()
		c.failure(ctx, errs[0].Message)
		c.observe(field, "invalid")
		return errs
	}
	encoded, err := EncodeValue(field, value)
	if err != nil {
		c.mu.Unlock()
		return &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	delete(st.errors, field)
	gen := st.gen[field]
	st.saving++
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	updated, err := c.leads.Update(ctx, row, entity.LeadPatch{field: encoded})

	c.mu.Lock()
	st.saving--
	if err != nil {
		if st.gen[field] == gen {
			delete(st.overlay, field)
		}
		c.mu.Unlock()
		c.log.Warn("autosave failed", zap.Int64("lead_id", row), zap.String("field", field), zap.Error(err))
		c.failure(ctx, "Failed to save changes: "+userMessage(err))
		c.observe(field, "failed")
		return remoteError("failed to save "+field, err)
	}
	if updated == nil || updated.ID == 0 {
		l := *st.confirmed
		applyDisplay(&l, field, value)
		updated = &l
	}
	st.confirmed = updated
	if st.gen[field] == gen {
		delete(st.overlay, field)
		delete(st.errors, field)
	}
	saved := *updated
	c.mu.Unlock()

	c.success(ctx, "Changes saved successfully")
	c.observe(field, "saved")

	if field == entity.FieldStatus && c.sync != nil {
		res, _ := c.sync.Sync(ctx, &saved)
		if res.Outcome != SyncNotMapped {
			level, msg := res.Message()
			c.emit(ctx, level, msg)
		}
	}
	return nil
}

func (c *Coordinator) stopRowTimersLocked(row int64) {
	for key, armed := range c.timers {
		if key.row == row {
			armed.t.Stop()
			delete(c.timers, key)
		}
	}
}

func (c *Coordinator) observe(field, outcome string) {
	if c.observer != nil {
		c.observer.CommitFinished(field, outcome)
	}
}

// dirtyFields lists the row's unsaved fields in column order.
func dirtyFields(st *rowState) []string {
	out := []string{}
	for _, f := range EditableFields {
		if _, ok := st.overlay[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// validateRow checks the given fields plus the row-level rule that the
// website URL of the row as displayed is never empty.
func validateRow(st *rowState, fields []string) ValidationErrors {
	var errs ValidationErrors
	for _, f := range fields {
		errs = append(errs, ValidateLeadField(f, st.overlay[f])...)
	}
	if !slices.Contains(fields, entity.FieldWebsiteURL) {
		if st.composite().WebsiteURL == "" {
			errs = append(errs, ValidationError{entity.FieldWebsiteURL, "Website URL is required"})
		}
	}
	return errs
}
