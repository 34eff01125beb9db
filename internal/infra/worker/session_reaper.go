package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/logger"
)

type SessionReaper interface {
	Reap(idle time.Duration) int
}

// SessionReaperWorker closes editing sessions nobody has touched for idle.
type SessionReaperWorker struct {
	sessions     SessionReaper
	idle         time.Duration
	tickInterval time.Duration
	log          *zap.Logger
}

func NewSessionReaperWorker(sessions SessionReaper, idle time.Duration, log *zap.Logger) *SessionReaperWorker {
	tick := idle / 4
	if tick < time.Minute {
		tick = time.Minute
	}
	return &SessionReaperWorker{
		sessions:     sessions,
		idle:         idle,
		tickInterval: tick,
		log:          logger.Or(log),
	}
}

func (w *SessionReaperWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := w.sessions.Reap(w.idle); n > 0 {
				w.log.Info("idle sessions closed", zap.Int("count", n))
			}
		}
	}
}
