package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/logger"
	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type DigestSource interface {
	Digest(ctx context.Context) (*usecase.Digest, error)
}

type DigestMailer interface {
	SendDigest(ctx context.Context, d *usecase.Digest) error
}

// DigestWorker mails the daily report and pending follow-ups on a ticker.
type DigestWorker struct {
	source       DigestSource
	mailer       DigestMailer
	tickInterval time.Duration
	log          *zap.Logger
}

func NewDigestWorker(source DigestSource, mailer DigestMailer, interval time.Duration, log *zap.Logger) *DigestWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DigestWorker{
		source:       source,
		mailer:       mailer,
		tickInterval: interval,
		log:          logger.Or(log),
	}
}

func (w *DigestWorker) Start(ctx context.Context) {
	w.log.Info("digest worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("digest worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce builds and sends one digest. It reports whether a mail went out.
func (w *DigestWorker) RunOnce(ctx context.Context) bool {
	d, err := w.source.Digest(ctx)
	if err != nil {
		w.log.Error("digest not built", zap.Error(err))
		return false
	}
	if len(d.Report) == 0 && len(d.FollowUps) == 0 {
		w.log.Info("digest skipped, nothing to report", zap.String("date", d.Date))
		return false
	}
	if err := w.mailer.SendDigest(ctx, d); err != nil {
		w.log.Error("digest not sent", zap.String("date", d.Date), zap.Error(err))
		return false
	}
	w.log.Info("digest sent",
		zap.String("date", d.Date),
		zap.Int("reps", len(d.Report)),
		zap.Int("follow_ups", len(d.FollowUps)))
	return true
}
