package usecase

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

// LowPerformanceThreshold is the daily lead count under which a rep is flagged.
const LowPerformanceThreshold = 5

type RepDailyReport struct {
	SalesRep       string        `json:"salesRep"`
	SalesRepID     int64         `json:"salesRepId"`
	Leads          []entity.Lead `json:"leads"`
	LeadCount      int           `json:"leadCount"`
	LowPerformance bool          `json:"lowPerformance"`
}

type Digest struct {
	Date      string           `json:"date"`
	Report    []RepDailyReport `json:"report"`
	FollowUps []entity.Lead    `json:"followUps"`
}

type ReportUseCase struct {
	Leads LeadRepository
	Now   func() time.Time
	Log   *zap.Logger
}

func NewReportUseCase(leads LeadRepository, log *zap.Logger) *ReportUseCase {
	return &ReportUseCase{Leads: leads, Now: time.Now, Log: logger.Or(log)}
}

// DailyReport groups today's leads by the rep who added them, busiest first.
func (uc *ReportUseCase) DailyReport(ctx context.Context) ([]RepDailyReport, error) {
	today := uc.Now().Format("2006-01-02")
	leads, err := uc.Leads.FindCreatedOn(ctx, today)
	if err != nil {
		uc.Log.Error("failed to load daily leads report", zap.String("day", today), zap.Error(err))
		return nil, remoteError("failed to load daily leads report", err)
	}
	return GroupByRep(leads), nil
}

// GroupByRep builds the per-rep report in first-seen rep order, then sorts by count.
func GroupByRep(leads []entity.Lead) []RepDailyReport {
	index := make(map[string]int)
	out := []RepDailyReport{}
	for _, l := range leads {
		name := l.AddedByName
		if name == "" {
			name = "Unknown"
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, RepDailyReport{SalesRep: name, SalesRepID: int64(l.AddedBy), Leads: []entity.Lead{}})
		}
		out[i].Leads = append(out[i].Leads, l)
	}
	for i := range out {
		out[i].LeadCount = len(out[i].Leads)
		out[i].LowPerformance = out[i].LeadCount < LowPerformanceThreshold
	}
	slices.SortStableFunc(out, func(a, b RepDailyReport) int { return b.LeadCount - a.LeadCount })
	return out
}

// PendingFollowUps lists leads with a follow-up date in the next seven days, today included.
func (uc *ReportUseCase) PendingFollowUps(ctx context.Context) ([]entity.Lead, error) {
	now := uc.Now()
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, 7).Format("2006-01-02")
	leads, err := uc.Leads.FindFollowUpsBetween(ctx, from, to)
	if err != nil {
		uc.Log.Error("failed to load follow-ups", zap.Error(err))
		return nil, remoteError("failed to load follow-ups", err)
	}
	return leads, nil
}

// Digest gathers the daily report and pending follow-ups concurrently.
func (uc *ReportUseCase) Digest(ctx context.Context) (*Digest, error) {
	d := &Digest{Date: uc.Now().Format("2006-01-02")}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Report, err = uc.DailyReport(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.FollowUps, err = uc.PendingFollowUps(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
