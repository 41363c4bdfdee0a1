package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"mellium.im/xmpp/jid"

	"github.com/reviewhub/xmpp-relay/internal/api"
	"github.com/reviewhub/xmpp-relay/internal/config"
	"github.com/reviewhub/xmpp-relay/internal/dispatch"
	"github.com/reviewhub/xmpp-relay/internal/domain"
	"github.com/reviewhub/xmpp-relay/internal/xmpp"
)

type recordingDeliverer struct{ deliveries int }

func (r *recordingDeliverer) Deliver(_ context.Context, _ config.Connection, _ string, _ []xmpp.Stanza) {
	r.deliveries++
}

type badSource struct{}

func (badSource) Snapshot() (config.Settings, error) {
	return config.Settings{}, domain.ErrHostEmpty
}

func newServer(t *testing.T, src config.Source) (http.Handler, *recordingDeliverer) {
	t.Helper()
	rec := &recordingDeliverer{}
	d := dispatch.New(src, rec, zap.NewNop(), dispatch.Hooks{})
	return api.NewRouter(d, src, prometheus.NewRegistry(), zap.NewNop()), rec
}

func validSource() config.Source {
	return config.Static(config.Settings{
		SendReviewNotify: true,
		Connection: config.Connection{
			Host:   "chat.example.com",
			Port:   5222,
			Sender: jid.MustParse("notifier@chat.example.com"),
		},
	})
}

const publishedPayload = `{
	"user": {"id": 1, "username": "alice", "first_name": "Alice", "last_name": "Anderson", "active": true},
	"review_request": {
		"id": 42, "summary": "Fix bug", "url": "https://reviews.example.com/r/42/",
		"public": true, "status": "pending",
		"submitter": {"id": 2, "username": "bob", "active": true}
	}
}`

func TestEventEndpoints(t *testing.T) {
	t.Run("decodable event is accepted and dispatched", func(t *testing.T) {
		srv, rec := newServer(t, validSource())
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/events/review-request-published", strings.NewReader(publishedPayload))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusAccepted {
			t.Fatalf("status: got %d, want 202", w.Code)
		}
		if rec.deliveries != 1 {
			t.Fatalf("expected one delivery, got %d", rec.deliveries)
		}
	})

	t.Run("delivery outcome never changes the response", func(t *testing.T) {
		// Flag off: nothing is delivered, the host still gets 202.
		srv, rec := newServer(t, config.Static(config.Settings{}))
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/events/review-request-published", strings.NewReader(publishedPayload))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusAccepted {
			t.Fatalf("status: got %d, want 202", w.Code)
		}
		if rec.deliveries != 0 {
			t.Fatalf("expected no delivery, got %d", rec.deliveries)
		}
	})

	t.Run("undecodable payload is a 400", func(t *testing.T) {
		srv, rec := newServer(t, validSource())
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/events/user-registered", strings.NewReader("{not json"))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status: got %d, want 400", w.Code)
		}
		if rec.deliveries != 0 {
			t.Fatalf("expected no delivery, got %d", rec.deliveries)
		}
	})

	t.Run("every event kind is routed", func(t *testing.T) {
		srv, _ := newServer(t, validSource())
		paths := []string{
			"/api/v1/events/review-request-published",
			"/api/v1/events/review-request-reopened",
			"/api/v1/events/review-request-closed",
			"/api/v1/events/review-published",
			"/api/v1/events/reply-published",
			"/api/v1/events/user-registered",
		}
		for _, p := range paths {
			req := httptest.NewRequest(http.MethodPost, p, strings.NewReader(`{}`))
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)
			if w.Code != http.StatusAccepted {
				t.Fatalf("%s: got %d, want 202", p, w.Code)
			}
		}
	})
}

func TestSettingsEndpoint(t *testing.T) {
	t.Run("valid settings are exposed without the password", func(t *testing.T) {
		src := config.Static(config.Settings{
			SendReviewNotify: true,
			Connection: config.Connection{
				Host:           "chat.example.com",
				Port:           5222,
				Sender:         jid.MustParse("notifier@chat.example.com"),
				SenderPassword: "hunter2",
			},
		})
		srv, _ := newServer(t, src)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, want 200", w.Code)
		}
		if strings.Contains(w.Body.String(), "hunter2") {
			t.Fatal("password must never be exposed")
		}
	})

	t.Run("invalid settings map to 422", func(t *testing.T) {
		srv, _ := newServer(t, badSource{})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status: got %d, want 422", w.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, validSource())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
}
