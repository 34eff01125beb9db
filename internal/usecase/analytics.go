package usecase

import (
	"context"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

const (
	PeriodToday     = "today"
	PeriodYesterday = "yesterday"
	PeriodWeek      = "week"
	PeriodMonth     = "month"
	PeriodAll       = "all"
)

const day = 24 * time.Hour

// Window returns the [start, end) range of a reporting period relative to now.
// Week and month are the trailing 7 and 30 days including today.
func Window(period string, now time.Time) (start, end time.Time, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.Add(day)
	switch period {
	case PeriodToday:
		return today, tomorrow, true
	case PeriodYesterday:
		return today.Add(-day), today, true
	case PeriodWeek:
		return today.Add(-7 * day), tomorrow, true
	case PeriodMonth:
		return today.Add(-30 * day), tomorrow, true
	}
	return time.Time{}, time.Time{}, false
}

func inWindow(t entity.Timestamp, start, end time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(start) && t.Before(end)
}

func byUser(leads []entity.Lead, userID int64) []entity.Lead {
	if userID == 0 {
		return leads
	}
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if int64(l.AddedBy) == userID {
			out = append(out, l)
		}
	}
	return out
}

func countIn(leads []entity.Lead, start, end time.Time) int {
	n := 0
	for _, l := range leads {
		if inWindow(l.CreatedAt, start, end) {
			n++
		}
	}
	return n
}

type PeriodCount struct {
	Count int    `json:"count"`
	Trend *int   `json:"trend,omitempty"`
	Label string `json:"label"`
}

type LeadMetrics struct {
	Today                PeriodCount    `json:"today"`
	Yesterday            PeriodCount    `json:"yesterday"`
	Week                 PeriodCount    `json:"week"`
	Month                PeriodCount    `json:"month"`
	StatusDistribution   map[string]int `json:"statusDistribution"`
	CategoryDistribution map[string]int `json:"categoryDistribution"`
	TotalLeads           int            `json:"totalLeads"`
}

type LeadWithRep struct {
	entity.Lead
	RepName string `json:"addedByName"`
}

type PeriodLeads struct {
	Leads      []LeadWithRep `json:"leads"`
	TotalCount int           `json:"totalCount"`
}

type ChartPoint struct {
	Date          string `json:"date"`
	Count         int    `json:"count"`
	FormattedDate string `json:"formattedDate"`
}

type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

type Chart struct {
	Points     []ChartPoint `json:"chartData,omitempty"`
	Categories []string     `json:"categories"`
	Series     []Series     `json:"series"`
}

type RepPerformance struct {
	ID             int64   `json:"Id"`
	Name           string  `json:"name"`
	TotalLeads     int     `json:"totalLeads"`
	TodayLeads     int     `json:"todayLeads"`
	WeekLeads      int     `json:"weekLeads"`
	MonthLeads     int     `json:"monthLeads"`
	ConversionRate int     `json:"conversionRate"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

type AnalyticsUseCase struct {
	Leads LeadRepository
	Deals DealRepository
	Reps  SalesRepLister
	Now   func() time.Time
	Log   *zap.Logger
}

func NewAnalyticsUseCase(leads LeadRepository, deals DealRepository, reps SalesRepLister, log *zap.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{Leads: leads, Deals: deals, Reps: reps, Now: time.Now, Log: logger.Or(log)}
}

// leadsAndReps fetches both collections concurrently.
func (uc *AnalyticsUseCase) leadsAndReps(ctx context.Context) ([]entity.Lead, []entity.SalesRep, error) {
	var (
		leads []entity.Lead
		reps  []entity.SalesRep
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = uc.Leads.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reps, err = uc.Reps.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		uc.Log.Error("analytics fetch failed", zap.Error(err))
		return nil, nil, remoteError("failed to fetch analytics data", err)
	}
	return leads, reps, nil
}

func (uc *AnalyticsUseCase) Metrics(ctx context.Context, userID int64) (*LeadMetrics, error) {
	all, err := uc.Leads.FindAll(ctx)
	if err != nil {
		uc.Log.Error("failed to fetch leads metrics", zap.Error(err))
		return nil, remoteError("failed to fetch leads", err)
	}
	leads := byUser(all, userID)
	now := uc.Now()

	count := func(period string) int {
		start, end, _ := Window(period, now)
		return countIn(leads, start, end)
	}
	today, yesterday := count(PeriodToday), count(PeriodYesterday)
	trend := 100
	if yesterday != 0 {
		trend = int(math.Round(float64(today-yesterday) / float64(yesterday) * 100))
	}

	m := &LeadMetrics{
		Today:                PeriodCount{Count: today, Trend: &trend, Label: "Today"},
		Yesterday:            PeriodCount{Count: yesterday, Label: "Yesterday"},
		Week:                 PeriodCount{Count: count(PeriodWeek), Label: "This Week"},
		Month:                PeriodCount{Count: count(PeriodMonth), Label: "This Month"},
		StatusDistribution:   map[string]int{},
		CategoryDistribution: map[string]int{},
		TotalLeads:           len(leads),
	}
	for _, l := range leads {
		m.StatusDistribution[l.Status]++
		m.CategoryDistribution[l.Category]++
	}
	return m, nil
}

// LeadsForPeriod lists the leads created in period, each with its rep's name.
func (uc *AnalyticsUseCase) LeadsForPeriod(ctx context.Context, period string, userID int64) (*PeriodLeads, error) {
	all, reps, err := uc.leadsAndReps(ctx)
	if err != nil {
		return nil, err
	}
	leads := byUser(all, userID)
	if start, end, ok := Window(period, uc.Now()); ok {
		filtered := make([]entity.Lead, 0, len(leads))
		for _, l := range leads {
			if inWindow(l.CreatedAt, start, end) {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}

	names := make(map[int64]string, len(reps))
	for _, r := range reps {
		names[r.ID] = r.Name
	}
	out := &PeriodLeads{Leads: make([]LeadWithRep, 0, len(leads)), TotalCount: len(leads)}
	for _, l := range leads {
		name, ok := names[int64(l.AddedBy)]
		if !ok {
			name = "Unknown"
		}
		out.Leads = append(out.Leads, LeadWithRep{Lead: l, RepName: name})
	}
	return out, nil
}

// DailyChart counts new leads per day for the last days days, oldest first.
func (uc *AnalyticsUseCase) DailyChart(ctx context.Context, userID int64, days int) (*Chart, error) {
	if days <= 0 {
		days = 30
	}
	all, err := uc.Leads.FindAll(ctx)
	if err != nil {
		uc.Log.Error("failed to fetch daily chart", zap.Error(err))
		return nil, remoteError("failed to fetch leads", err)
	}
	leads := byUser(all, userID)
	now := uc.Now()
	loc := now.Location()

	perDay := make(map[string]int)
	for _, l := range leads {
		if !l.CreatedAt.IsZero() {
			perDay[l.CreatedAt.In(loc).Format("2006-01-02")]++
		}
	}

	chart := &Chart{
		Points:     make([]ChartPoint, 0, days),
		Categories: make([]string, 0, days),
	}
	data := make([]float64, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		key := d.Format("2006-01-02")
		p := ChartPoint{Date: key, Count: perDay[key], FormattedDate: d.Format("Jan 2")}
		chart.Points = append(chart.Points, p)
		chart.Categories = append(chart.Categories, p.FormattedDate)
		data = append(data, float64(p.Count))
	}
	chart.Series = []Series{{Name: "New Leads", Data: data}}
	return chart, nil
}

// Performance ranks sales reps by the number of leads they added.
func (uc *AnalyticsUseCase) Performance(ctx context.Context) ([]RepPerformance, error) {
	leads, reps, err := uc.leadsAndReps(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.Now()

	out := make([]RepPerformance, 0, len(reps))
	for _, rep := range reps {
		var mine []entity.Lead
		if rep.ID != 0 {
			mine = byUser(leads, rep.ID)
		}
		p := RepPerformance{
			ID:             rep.ID,
			Name:           rep.Name,
			TotalLeads:     len(mine),
			ConversionRate: rep.ConversionRate(),
			TotalRevenue:   rep.TotalRevenue,
		}
		if s, e, ok := Window(PeriodToday, now); ok {
			p.TodayLeads = countIn(mine, s, e)
		}
		if s, e, ok := Window(PeriodWeek, now); ok {
			p.WeekLeads = countIn(mine, s, e)
		}
		if s, e, ok := Window(PeriodMonth, now); ok {
			p.MonthLeads = countIn(mine, s, e)
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b RepPerformance) int { return b.TotalLeads - a.TotalLeads })
	return out, nil
}

// RevenueTrends sums deal value per creation month of year.
func (uc *AnalyticsUseCase) RevenueTrends(ctx context.Context, year int) (*Chart, error) {
	if year <= 0 {
		year = uc.Now().Year()
	}
	deals, err := uc.Deals.FindAll(ctx, year)
	if err != nil {
		uc.Log.Error("failed to fetch revenue trends", zap.Int("year", year), zap.Error(err))
		return nil, remoteError("failed to fetch deals", err)
	}

	revenue := make([]float64, 12)
	for _, d := range deals {
		if d.CreatedAt.IsZero() || d.CreatedAt.Year() != year {
			continue
		}
		revenue[d.CreatedAt.Month()-1] += d.Value
	}

	chart := &Chart{Categories: make([]string, 12)}
	for m := 0; m < 12; m++ {
		chart.Categories[m] = time.Month(m + 1).String()[:3]
	}
	chart.Series = []Series{{Name: "Monthly Revenue", Data: revenue}}
	return chart, nil
}
