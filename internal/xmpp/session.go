// Package xmpp owns the outbound protocol session: one short-lived,
// independently authenticated connection per notification, driven as an
// explicit state machine by transport events.
package xmpp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/config"
)

// DefaultTimeout bounds the connect→auth→deliver→disconnect cycle when the
// configuration leaves the timeout unset.
const DefaultTimeout = 30 * time.Second

// State is one of the session lifecycle states.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAuthenticating
	StateAuthenticated
	StateDelivering
	StateDisconnecting
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateDelivering:
		return "delivering"
	case StateDisconnecting:
		return "disconnecting"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// terminal reports whether the session has finished, successfully or not.
func (s State) terminal() bool { return s == StateClosed || s == StateFailed }

// EventKind identifies a transport event delivered to the session.
type EventKind int

const (
	EventConnected EventKind = iota
	EventAuthorized
	EventDisconnected
	EventError
)

// Event is emitted by a Stream as the underlying connection progresses.
type Event struct {
	Kind EventKind
	Err  error
}

// Stream is one outbound connection in the making. Implementations emit
// lifecycle events on Events; Close must be safe to call more than once and
// must eventually emit EventDisconnected and close the channel.
type Stream interface {
	Events() <-chan Event
	Send(st Stanza) error
	Close() error
}

// Dialer opens a Stream for one session. Dial must not block; connection
// errors arrive as EventError on the stream.
type Dialer interface {
	Dial(ctx context.Context, conn config.Connection) Stream
}

// Hooks carries optional metric callbacks; nil fields are skipped.
type Hooks struct {
	OnStanzaSent  func()
	OnSessionDone func(final State, elapsed time.Duration)
}

// Session drives one delivery cycle over one connection. It subscribes to
// transport events, never polls, and is never reused: after Run returns the
// session is inert in a terminal state.
type Session struct {
	conn    config.Connection
	reqID   string
	stanzas []Stanza
	dialer  Dialer
	logger  *zap.Logger
	hooks   Hooks

	state State
}

func NewSession(conn config.Connection, reqID string, stanzas []Stanza, d Dialer, logger *zap.Logger, hooks Hooks) *Session {
	return &Session{
		conn:    conn,
		reqID:   reqID,
		stanzas: stanzas,
		dialer:  d,
		logger:  logger,
		hooks:   hooks,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Run blocks until the full cycle completes or the configured timeout
// elapses, and returns the terminal state. Every failure is logged with the
// correlation id and contained here: Run never panics outward and has no
// error return.
func (s *Session) Run(ctx context.Context) (final State) {
	if s.state != StateIdle {
		s.logger.Warn("session reused after completion",
			zap.String("request", s.reqID),
			zap.Stringer("state", s.state))
		return s.state
	}

	timeout := s.conn.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.state = StateFailed
			final = StateFailed
			s.logger.Error("session panicked",
				zap.String("request", s.reqID),
				zap.Any("panic", r))
		}
	}()

	s.transition(StateConnecting)
	stream := s.dialer.Dial(ctx, s.conn)
	defer stream.Close()

	for {
		select {
		case ev, ok := <-stream.Events():
			if !ok {
				// Stream vanished without a disconnect event.
				s.fail("stream closed unexpectedly", nil)
				return s.state
			}
			if done := s.handle(ev, stream); done {
				return s.state
			}
		case <-ctx.Done():
			s.fail("session timed out", ctx.Err())
			return s.state
		}
	}
}

// handle applies one transport event. Returns true once a terminal state is
// reached.
func (s *Session) handle(ev Event, stream Stream) bool {
	switch ev.Kind {
	case EventConnected:
		s.transition(StateAuthenticating)
	case EventAuthorized:
		// Transports that fuse connect and auth skip EventConnected.
		s.transition(StateAuthenticated)
		s.deliver(stream)
	case EventDisconnected:
		s.transition(StateClosed)
	case EventError:
		s.fail("transport error", ev.Err)
	}
	return s.state.terminal()
}

// deliver sends every stanza in the order built, then requests disconnect.
// A rejected stanza is logged and lost; the session is not retried.
func (s *Session) deliver(stream Stream) {
	s.transition(StateDelivering)
	for _, st := range s.stanzas {
		if err := stream.Send(st); err != nil {
			s.logger.Warn("stanza rejected",
				zap.String("request", s.reqID),
				zap.String("to", st.To.String()),
				zap.Error(err))
			continue
		}
		if s.hooks.OnStanzaSent != nil {
			s.hooks.OnStanzaSent()
		}
	}
	s.transition(StateDisconnecting)
	if err := stream.Close(); err != nil {
		s.logger.Debug("stream close",
			zap.String("request", s.reqID), zap.Error(err))
	}
}

func (s *Session) transition(next State) {
	s.logger.Debug("session state",
		zap.String("request", s.reqID),
		zap.Stringer("from", s.state),
		zap.Stringer("to", next))
	s.state = next
}

func (s *Session) fail(msg string, err error) {
	s.logger.Error("xmpp notification failed: "+msg,
		zap.String("request", s.reqID),
		zap.Stringer("state", s.state),
		zap.Error(err))
	s.state = StateFailed
}
