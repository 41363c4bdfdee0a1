package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/reviewhub/xmpp-relay/internal/config"
	"github.com/reviewhub/xmpp-relay/internal/domain"
)

func setValid(t *testing.T) {
	t.Helper()
	t.Setenv("XMPP_HOST", "chat.example.com")
	t.Setenv("XMPP_SENDER_JID", "notifier@chat.example.com")
	t.Setenv("XMPP_SENDER_PASSWORD", "secret")
}

func TestLoadSettings(t *testing.T) {
	t.Run("valid settings with defaults", func(t *testing.T) {
		setValid(t)
		s, err := config.LoadSettings()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Connection.Host != "chat.example.com" {
			t.Fatalf("host: got %q", s.Connection.Host)
		}
		if s.Connection.Port != 5222 {
			t.Fatalf("expected default port 5222, got %d", s.Connection.Port)
		}
		if s.Connection.Timeout != 0 {
			t.Fatalf("expected zero timeout (session default), got %s", s.Connection.Timeout)
		}
		if !s.Connection.TLSVerifyPeer {
			t.Fatal("peer verification must default to on")
		}
		if s.SendReviewNotify || s.SendReviewCloseNotify || s.SendNewUserNotify {
			t.Fatal("notify flags must default to off")
		}
	})

	t.Run("host is trimmed", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_HOST", "  chat.example.com  ")
		s, err := config.LoadSettings()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Connection.Host != "chat.example.com" {
			t.Fatalf("host not trimmed: %q", s.Connection.Host)
		}
	})

	t.Run("whitespace-only host rejected", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_HOST", "   ")
		if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrHostEmpty) {
			t.Fatalf("expected ErrHostEmpty, got %v", err)
		}
	})

	t.Run("port out of range rejected", func(t *testing.T) {
		for _, port := range []string{"0", "-1", "65536"} {
			setValid(t)
			t.Setenv("XMPP_PORT", port)
			if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrPortOutOfRange) {
				t.Fatalf("port %s: expected ErrPortOutOfRange, got %v", port, err)
			}
		}
	})

	t.Run("negative timeout rejected", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_TIMEOUT", "-5")
		if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrTimeoutInvalid) {
			t.Fatalf("expected ErrTimeoutInvalid, got %v", err)
		}
	})

	t.Run("timeout is seconds", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_TIMEOUT", "15")
		s, err := config.LoadSettings()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Connection.Timeout != 15*time.Second {
			t.Fatalf("got %s, want 15s", s.Connection.Timeout)
		}
	})

	t.Run("sender without local part rejected", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_SENDER_JID", "chat.example.com")
		if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrSenderInvalid) {
			t.Fatalf("expected ErrSenderInvalid, got %v", err)
		}
	})

	t.Run("missing sender rejected", func(t *testing.T) {
		t.Setenv("XMPP_HOST", "chat.example.com")
		t.Setenv("XMPP_SENDER_JID", "")
		if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrSenderInvalid) {
			t.Fatalf("expected ErrSenderInvalid, got %v", err)
		}
	})

	t.Run("partychat rooms parsed in order", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_PARTYCHAT", "dev@rooms.example.com  qa@rooms.example.com")
		s, err := config.LoadSettings()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(s.Connection.Rooms) != 2 {
			t.Fatalf("expected 2 rooms, got %d", len(s.Connection.Rooms))
		}
		if s.Connection.Rooms[0].String() != "dev@rooms.example.com" ||
			s.Connection.Rooms[1].String() != "qa@rooms.example.com" {
			t.Fatalf("rooms out of order: %v", s.Connection.Rooms)
		}
	})

	t.Run("malformed room rejected", func(t *testing.T) {
		setValid(t)
		t.Setenv("XMPP_PARTYCHAT", "dev@rooms.example.com not a@jid@either")
		if _, err := config.LoadSettings(); !errors.Is(err, domain.ErrRoomInvalid) {
			t.Fatalf("expected ErrRoomInvalid, got %v", err)
		}
	})
}

func TestStaticSource(t *testing.T) {
	want := config.Settings{SendReviewNotify: true}
	got, err := config.Static(want).Snapshot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SendReviewNotify != want.SendReviewNotify {
		t.Fatal("static source must return the wrapped value")
	}
}
