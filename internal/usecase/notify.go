package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
)

// Notifiers fans a notification out to each member in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, n entity.Notification) {
	for _, x := range ns {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

type NotifierFunc func(ctx context.Context, n entity.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n entity.Notification) { f(ctx, n) }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Log *zap.Logger
}

func (l LogNotifier) Notify(_ context.Context, n entity.Notification) {
	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("level", string(n.Level)),
	}
	if n.SessionID != "" {
		fields = append(fields, zap.String("session_id", n.SessionID))
	}
	switch n.Level {
	case entity.LevelError:
		l.Log.Warn(n.Message, fields...)
	default:
		l.Log.Info(n.Message, fields...)
	}
}

// Feed is a bounded in-memory queue of notifications for one editing session.
type Feed struct {
	mu    sync.Mutex
	items []entity.Notification
	max   int
}

func NewFeed(max int) *Feed {
	if max <= 0 {
		max = 100
	}
	return &Feed{max: max}
}

func (f *Feed) Notify(_ context.Context, n entity.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.max; over > 0 {
		f.items = append(f.items[:0:0], f.items[over:]...)
	}
}

// Drain returns and clears the pending notifications, oldest first.
func (f *Feed) Drain() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	if out == nil {
		out = []entity.Notification{}
	}
	return out
}

// notifier is embedded by use cases that report outcomes.
type notifier struct {
	sink      Notifier
	sessionID string
}

func (n notifier) emit(ctx context.Context, level entity.NotificationLevel, msg string) {
	if n.sink == nil {
		return
	}
	n.sink.Notify(ctx, entity.NewNotification(n.sessionID, level, msg))
}

func (n notifier) success(ctx context.Context, msg string) { n.emit(ctx, entity.LevelSuccess, msg) }
func (n notifier) info(ctx context.Context, msg string)    { n.emit(ctx, entity.LevelInfo, msg) }
func (n notifier) warning(ctx context.Context, msg string) { n.emit(ctx, entity.LevelWarning, msg) }
func (n notifier) failure(ctx context.Context, msg string) { n.emit(ctx, entity.LevelError, msg) }
