package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mellium.im/xmpp/jid"

	"github.com/reviewhub/xmpp-relay/internal/domain"
)

// Server holds the HTTP ingress configuration, loaded once at startup.
// Every field has a sensible default.
type Server struct {
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Settings is the notification configuration snapshotted once per dispatch.
// It is a value: the session's behaviour for a given call is fully
// determined by the snapshot it was handed, never by later mutation of the
// settings store.
type Settings struct {
	SendReviewNotify      bool
	SendReviewCloseNotify bool
	SendNewUserNotify     bool

	Connection Connection
}

// Connection describes one outbound XMPP session.
type Connection struct {
	Host           string
	Port           int
	Timeout        time.Duration // zero means the session default
	Sender         jid.JID
	SenderPassword string
	UseTLS         bool
	TLSVerifyPeer  bool
	Rooms          []jid.JID
	PartychatOnly  bool
}

// Source yields a settings snapshot for one dispatch. The environment-backed
// implementation re-reads on every call, mirroring a live settings store;
// tests substitute Static.
type Source interface {
	Snapshot() (Settings, error)
}

// Env is a Source backed by process environment variables.
type Env struct{}

func (Env) Snapshot() (Settings, error) { return LoadSettings() }

// Static wraps a fixed Settings value as a Source.
type Static Settings

func (s Static) Snapshot() (Settings, error) { return Settings(s), nil }

// LoadServer reads the HTTP server configuration from the environment.
func LoadServer() Server {
	return Server{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout: getDuration("READ_TIMEOUT", 5*time.Second),
		// Must outlast a full session cycle: event webhooks block until the
		// delivery session closes or times out.
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// LoadSettings reads and validates the notification settings. Invalid hosts,
// sender identities, or room addresses are rejected here, at the
// configuration boundary; a session never sees them.
func LoadSettings() (Settings, error) {
	s := Settings{
		SendReviewNotify:      getBool("XMPP_SEND_REVIEW_NOTIFY", false),
		SendReviewCloseNotify: getBool("XMPP_SEND_REVIEW_CLOSE_NOTIFY", false),
		SendNewUserNotify:     getBool("XMPP_SEND_NEW_USER_NOTIFY", false),
	}

	host := strings.TrimSpace(getEnv("XMPP_HOST", ""))
	if host == "" {
		return Settings{}, domain.ErrHostEmpty
	}

	port := getInt("XMPP_PORT", 5222)
	if port < 1 || port > 65535 {
		return Settings{}, fmt.Errorf("%w: got %d", domain.ErrPortOutOfRange, port)
	}

	timeout := getInt("XMPP_TIMEOUT", 0)
	if timeout < 0 {
		return Settings{}, fmt.Errorf("%w: got %d", domain.ErrTimeoutInvalid, timeout)
	}

	sender, err := parseSender(getEnv("XMPP_SENDER_JID", ""))
	if err != nil {
		return Settings{}, err
	}

	rooms, err := parseRooms(getEnv("XMPP_PARTYCHAT", ""))
	if err != nil {
		return Settings{}, err
	}

	s.Connection = Connection{
		Host:           host,
		Port:           port,
		Timeout:        time.Duration(timeout) * time.Second,
		Sender:         sender,
		SenderPassword: getEnv("XMPP_SENDER_PASSWORD", ""),
		UseTLS:         getBool("XMPP_USE_TLS", false),
		TLSVerifyPeer:  getBool("XMPP_TLS_VERIFY_PEER", true),
		Rooms:          rooms,
		PartychatOnly:  getBool("XMPP_PARTYCHAT_ONLY", false),
	}
	return s, nil
}

// parseSender validates the configured sender identity. A bare domain is not
// enough: authentication needs a local part.
func parseSender(raw string) (jid.JID, error) {
	j, err := jid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return jid.JID{}, fmt.Errorf("%w: %q", domain.ErrSenderInvalid, raw)
	}
	if j.Localpart() == "" {
		return jid.JID{}, fmt.Errorf("%w: %q has no local part", domain.ErrSenderInvalid, raw)
	}
	return j, nil
}

// parseRooms splits the whitespace-separated room list and validates each
// address. Order is preserved.
func parseRooms(raw string) ([]jid.JID, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, nil
	}
	rooms := make([]jid.JID, 0, len(fields))
	for _, f := range fields {
		j, err := jid.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrRoomInvalid, f)
		}
		rooms = append(rooms, j)
	}
	return rooms, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
