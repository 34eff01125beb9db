package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/logger"
)

// ParseURLs pulls website URLs out of pasted text. Tokens are split on any
// whitespace, normalised to https://host form, de-duplicated in first-seen
// order and kept only when they parse as a URL with a dotted host. Tokens
// with any other scheme are dropped.
func ParseURLs(input string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, word := range strings.Fields(input) {
		clean := strings.TrimPrefix(word, "https://")
		clean = strings.TrimPrefix(clean, "http://")
		clean = strings.TrimSuffix(clean, "/")
		if strings.Contains(clean, "://") {
			continue
		}
		clean = "https://" + clean
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}

		u, err := url.Parse(clean)
		if err != nil || u.Host == "" {
			continue
		}
		if !strings.Contains(clean, ".") || len(clean) <= 4 {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// LeadTemplate holds the values of the empty row a URL is pasted into.
// Zero values fall back to the lead defaults. ARR is in millions.
type LeadTemplate struct {
	TeamSize    string  `json:"team_size"`
	ARR         float64 `json:"arr"`
	Category    string  `json:"category"`
	LinkedInURL string  `json:"linkedin_url"`
	Status      string  `json:"status"`
	FundingType string  `json:"funding_type"`
	AddedBy     int64   `json:"added_by"`
	AddedByName string  `json:"added_by_name"`
}

func (t LeadTemplate) leadFor(websiteURL string) *entity.Lead {
	l := entity.NewLead(websiteURL)
	if entity.IsTeamSize(t.TeamSize) {
		l.TeamSize = t.TeamSize
	}
	l.ARR = entity.ARRFromDisplay(t.ARR)
	if t.Category != "" {
		l.Category = t.Category
	}
	if t.Status != "" {
		l.Status = t.Status
	}
	if t.FundingType != "" {
		l.FundingType = t.FundingType
	}
	l.LinkedInURL = t.LinkedInURL
	if l.LinkedInURL == "" {
		l.LinkedInURL = "https://linkedin.com/company/" + entity.StripURL(websiteURL)
	}
	l.AddedBy = entity.Lookup(t.AddedBy)
	l.AddedByName = t.AddedByName
	return l
}

type IngestFailure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

type IngestResult struct {
	URLs    []string        `json:"urls"`
	Created []entity.Lead   `json:"created"`
	Failed  []IngestFailure `json:"failed"`
}

type IngestUseCase struct {
	Leads LeadRepository
	notifier
	Log *zap.Logger
}

func NewIngestUseCase(leads LeadRepository, sink Notifier, log *zap.Logger) *IngestUseCase {
	return &IngestUseCase{Leads: leads, notifier: notifier{sink: sink}, Log: logger.Or(log)}
}

// Ingest creates one lead per URL found in input. Each create is attempted
// once and independently of the others.
func (uc *IngestUseCase) Ingest(ctx context.Context, input string, tmpl LeadTemplate) (*IngestResult, error) {
	urls := ParseURLs(input)
	if len(urls) == 0 {
		uc.failure(ctx, "No valid URLs found in the input")
		return nil, &DomainError{Code: CodeValidation, Message: "No valid URLs found in the input"}
	}

	res := &IngestResult{URLs: urls, Created: []entity.Lead{}, Failed: []IngestFailure{}}
	batch := NewBatch()
	for _, u := range urls {
		batch.Add(u, func(ctx context.Context) error {
			created, err := uc.Leads.Create(ctx, tmpl.leadFor(u))
			if err != nil {
				return err
			}
			res.Created = append(res.Created, *created)
			return nil
		})
	}
	run := batch.Run(ctx)
	for _, f := range run.Failed {
		uc.Log.Warn("ingest: lead not created", zap.String("url", f.Name), zap.Error(f.Err))
		res.Failed = append(res.Failed, IngestFailure{URL: f.Name, Error: userMessage(f.Err)})
	}

	uc.summarise(ctx, res)
	uc.Log.Info("ingest finished",
		zap.Int("urls", len(urls)),
		zap.Int("created", len(res.Created)),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

func (uc *IngestUseCase) summarise(ctx context.Context, res *IngestResult) {
	ok, failed := len(res.Created), len(res.Failed)
	if len(res.URLs) == 1 {
		if ok == 1 {
			uc.success(ctx, "Lead created successfully!")
		} else {
			uc.failure(ctx, "Failed to create lead: "+res.Failed[0].Error)
		}
		return
	}
	switch {
	case failed == 0:
		uc.success(ctx, fmt.Sprintf("Successfully created %d leads from %d URLs!", ok, len(res.URLs)))
	case ok > 0:
		uc.success(ctx, fmt.Sprintf("Created %d leads successfully", ok))
		uc.warning(ctx, fmt.Sprintf("Failed to create %d leads (duplicates or invalid URLs)", failed))
	default:
		uc.failure(ctx, "Failed to create any leads - all URLs were duplicates or invalid")
	}
}
