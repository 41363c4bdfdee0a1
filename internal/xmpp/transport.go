package xmpp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	goxmpp "github.com/xmppo/go-xmpp"

	"github.com/reviewhub/xmpp-relay/internal/config"
)

var errNotConnected = errors.New("stream is not connected")

// NetDialer opens real XMPP streams. The underlying client performs the TCP
// connect, optional STARTTLS negotiation, and SASL password authentication
// in one handshake, so the stream emits EventAuthorized directly.
type NetDialer struct{}

func (NetDialer) Dial(ctx context.Context, conn config.Connection) Stream {
	st := &netStream{events: make(chan Event, 4)}
	go st.run(ctx, conn)
	return st
}

type netStream struct {
	events chan Event

	mu     sync.Mutex
	client *goxmpp.Client
	closed bool
}

func (s *netStream) Events() <-chan Event { return s.events }

func (s *netStream) run(ctx context.Context, conn config.Connection) {
	opts := goxmpp.Options{
		Host:     net.JoinHostPort(conn.Host, strconv.Itoa(conn.Port)),
		User:     conn.Sender.Bare().String(),
		Resource: conn.Sender.Resourcepart(),
		Password: conn.SenderPassword,
		NoTLS:    true,
		StartTLS: conn.UseTLS,
		Session:  false,
	}
	if dl, ok := ctx.Deadline(); ok {
		opts.DialTimeout = time.Until(dl)
	}
	if conn.UseTLS {
		opts.TLSConfig = &tls.Config{
			ServerName:         conn.Host,
			InsecureSkipVerify: !conn.TLSVerifyPeer, //nolint:gosec // operator opt-out
		}
	} else {
		opts.InsecureAllowUnencryptedAuth = true
	}

	client, err := opts.NewClient()
	if err != nil {
		s.emit(Event{Kind: EventError, Err: fmt.Errorf("connect %s: %w", opts.Host, err)})
		return
	}

	s.mu.Lock()
	if s.closed {
		// Session gave up (timeout) while the handshake was in flight.
		s.mu.Unlock()
		client.Close() //nolint:errcheck
		return
	}
	s.client = client
	s.mu.Unlock()

	s.emit(Event{Kind: EventAuthorized})
}

func (s *netStream) Send(st Stanza) error {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return errNotConnected
	}
	_, err := client.Send(goxmpp.Chat{
		Remote: st.To.String(),
		Type:   "chat",
		Text:   st.Body,
	})
	return err
}

// Close releases the connection, emits EventDisconnected, and closes the
// event channel. Safe to call more than once.
func (s *netStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	client := s.client
	s.client = nil

	var err error
	if client != nil {
		err = client.Close()
	}
	select {
	case s.events <- Event{Kind: EventDisconnected}:
	default:
	}
	close(s.events)
	s.mu.Unlock()
	return err
}

// emit drops the event if the stream is already closed or the buffer is
// full; a late handshake result must not panic on a closed channel.
func (s *netStream) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
	}
}

var _ Dialer = NetDialer{}
