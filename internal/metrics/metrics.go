package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reviewhub/xmpp-relay/internal/dispatch"
	"github.com/reviewhub/xmpp-relay/internal/domain"
	"github.com/reviewhub/xmpp-relay/internal/xmpp"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	NotificationsSent       *prometheus.CounterVec
	NotificationsSuppressed *prometheus.CounterVec
	StanzasSent             prometheus.Counter
	SessionsEnded           *prometheus.CounterVec
	SessionDuration         prometheus.Histogram
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Notifications handed to a delivery session, by event kind.",
		}, []string{"event"}),

		NotificationsSuppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_suppressed_total",
			Help: "Notifications skipped before delivery, by event kind and reason.",
		}, []string{"event", "reason"}),

		StanzasSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stanzas_sent_total",
			Help: "Message stanzas accepted by the transport.",
		}),

		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessions_ended_total",
			Help: "Protocol sessions by terminal state (closed or failed).",
		}, []string{"state"}),

		SessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "session_duration_seconds",
			Help:    "Full connect-auth-deliver-disconnect cycle duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.NotificationsSent,
		m.NotificationsSuppressed,
		m.StanzasSent,
		m.SessionsEnded,
		m.SessionDuration,
	)

	return m
}

// DispatchHooks returns the callbacks expected by dispatch.Hooks so the
// dispatcher stays free of prometheus imports.
func (m *Metrics) DispatchHooks() dispatch.Hooks {
	return dispatch.Hooks{
		OnSent: func(kind domain.Kind, stanzas int) {
			m.NotificationsSent.WithLabelValues(string(kind)).Inc()
		},
		OnSuppressed: func(kind domain.Kind, reason string) {
			m.NotificationsSuppressed.WithLabelValues(string(kind), reason).Inc()
		},
	}
}

// CourierHooks returns the callbacks expected by xmpp.Hooks.
func (m *Metrics) CourierHooks() xmpp.Hooks {
	return xmpp.Hooks{
		OnStanzaSent: func() { m.StanzasSent.Inc() },
		OnSessionDone: func(final xmpp.State, elapsed time.Duration) {
			m.SessionsEnded.WithLabelValues(final.String()).Inc()
			m.SessionDuration.Observe(elapsed.Seconds())
		},
	}
}
