package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/api/handler"
	apimw "github.com/reviewhub/xmpp-relay/internal/api/middleware"
	"github.com/reviewhub/xmpp-relay/internal/config"
	"github.com/reviewhub/xmpp-relay/internal/dispatch"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	d *dispatch.Dispatcher,
	settings config.Source,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1 << 20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	eh := handler.NewEventHandler(d, logger)
	sh := handler.NewSettingsHandler(settings)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// One webhook per host event kind. Handlers reply 202 whether or
		// not delivery succeeds; the host never observes failures.
		r.Route("/events", func(r chi.Router) {
			r.Post("/review-request-published", eh.ReviewRequestPublished)
			r.Post("/review-request-reopened", eh.ReviewRequestReopened)
			r.Post("/review-request-closed", eh.ReviewRequestClosed)
			r.Post("/review-published", eh.ReviewPublished)
			r.Post("/reply-published", eh.ReplyPublished)
			r.Post("/user-registered", eh.UserRegistered)
		})

		r.Get("/settings", sh.Get)
	})

	return r
}
