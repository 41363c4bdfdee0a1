package xmpp

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/config"
)

// Courier opens exactly one session per delivery. Sessions are never pooled
// or reused across notifications; isolation between dispatches is total.
type Courier struct {
	dialer Dialer
	logger *zap.Logger
	hooks  Hooks
}

func NewCourier(d Dialer, logger *zap.Logger, hooks Hooks) *Courier {
	return &Courier{dialer: d, logger: logger, hooks: hooks}
}

// Deliver runs a full session for the given stanzas. Delivery is best
// effort: failures are logged against the correlation id and swallowed, so
// the caller observes no outcome.
func (c *Courier) Deliver(ctx context.Context, conn config.Connection, reqID string, stanzas []Stanza) {
	if len(stanzas) == 0 {
		return
	}

	start := time.Now()
	sess := NewSession(conn, reqID, stanzas, c.dialer, c.logger, c.hooks)
	final := sess.Run(ctx)

	if c.hooks.OnSessionDone != nil {
		c.hooks.OnSessionDone(final, time.Since(start))
	}
	if final != StateClosed {
		c.logger.Warn("notification delivery incomplete",
			zap.String("request", reqID),
			zap.Stringer("state", final),
			zap.Int("stanzas", len(stanzas)))
	}
}
