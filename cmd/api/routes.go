package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/infra/http/handlers"
	"github.com/pipeline-crm/leadboard/internal/infra/http/middleware"
)

type api struct {
	health        *handlers.HealthHandler
	leads         *handlers.LeadHandler
	deals         *handlers.DealHandler
	categories    *handlers.CategoryHandler
	sessions      *handlers.SessionHandler
	analytics     *handlers.AnalyticsHandler
	reports       *handlers.ReportHandler
	salesReps     *handlers.DirectoryHandler[entity.SalesRep]
	team          *handlers.DirectoryHandler[entity.TeamMember]
	contacts      *handlers.DirectoryHandler[entity.Contact]
	notifications *handlers.NotificationHandler // nil without a database
}

func (a *api) routes(origins []string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}))

	r.Get("/health", a.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", a.leads.List)
		r.Post("/", a.leads.Create)
		r.Post("/ingest", a.leads.Ingest)
		r.Post("/bulk-delete", a.leads.BulkDelete)
		r.Get("/{id}", a.leads.Get)
		r.Patch("/{id}", a.leads.Update)
		r.Put("/{id}/status", a.leads.ChangeStatus)
		r.Delete("/{id}", a.leads.Delete)
	})

	r.Route("/deals", func(r chi.Router) {
		r.Get("/", a.deals.List)
		r.Post("/", a.deals.Create)
		r.Get("/{id}", a.deals.Get)
		r.Patch("/{id}", a.deals.Update)
		r.Delete("/{id}", a.deals.Delete)
	})

	r.Get("/categories", a.categories.List)
	r.Post("/categories", a.categories.Add)

	r.Mount("/sessions", a.sessions.Routes())

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/metrics", a.analytics.Metrics)
		r.Get("/leads", a.analytics.LeadsForPeriod)
		r.Get("/daily", a.analytics.DailyChart)
		r.Get("/performance", a.analytics.Performance)
		r.Get("/revenue", a.analytics.RevenueTrends)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/daily", a.reports.Daily)
		r.Get("/follow-ups", a.reports.FollowUps)
		r.Get("/digest", a.reports.Digest)
	})

	r.Mount("/sales-reps", a.salesReps.Routes())
	r.Mount("/team", a.team.Routes())
	r.Mount("/contacts", a.contacts.Routes())

	if a.notifications != nil {
		r.Get("/notifications", a.notifications.List)
		r.Post("/notifications/read", a.notifications.MarkRead)
	}
	return r
}
