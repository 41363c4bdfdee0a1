// Package dispatch turns host-application events into delivered
// notifications. It owns the per-event gating rules; rendering, recipient
// resolution, and the protocol session are delegated.
package dispatch

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/reviewhub/xmpp-relay/internal/address"
	"github.com/reviewhub/xmpp-relay/internal/config"
	"github.com/reviewhub/xmpp-relay/internal/domain"
	"github.com/reviewhub/xmpp-relay/internal/message"
	"github.com/reviewhub/xmpp-relay/internal/recipient"
	"github.com/reviewhub/xmpp-relay/internal/xmpp"
)

// Deliverer hands a built stanza collection to a protocol session.
// Implementations must be best-effort and must never return delivery
// outcome to the dispatcher.
type Deliverer interface {
	Deliver(ctx context.Context, conn config.Connection, reqID string, stanzas []xmpp.Stanza)
}

// Suppression reasons reported through Hooks.OnSuppressed.
const (
	ReasonFlagDisabled = "flag_disabled"
	ReasonNotPublic    = "not_public"
	ReasonNoRecipients = "no_recipients"
	ReasonBadSettings  = "bad_settings"
)

// Hooks carries optional metric callbacks; nil fields are skipped.
type Hooks struct {
	OnSent       func(kind domain.Kind, stanzas int)
	OnSuppressed func(kind domain.Kind, reason string)
}

// Dispatcher exposes one strongly-typed entry point per event kind. Entry
// points never return errors and never panic outward: a notification
// failure must not break the host's publish pipeline, and must not affect
// sibling dispatches.
type Dispatcher struct {
	settings config.Source
	courier  Deliverer
	logger   *zap.Logger
	hooks    Hooks
}

func New(settings config.Source, courier Deliverer, logger *zap.Logger, hooks Hooks) *Dispatcher {
	return &Dispatcher{settings: settings, courier: courier, logger: logger, hooks: hooks}
}

// ReviewRequestPublished notifies when a review request goes public.
// Gated by the review-notify flag; not-yet-public subjects are skipped.
func (d *Dispatcher) ReviewRequestPublished(ctx context.Context, ev domain.ReviewRequestPublished) {
	defer d.contain(ev.Kind())
	d.notifyReviewRequest(ctx, ev.Kind(), ev.User, ev.ReviewRequest)
}

// ReviewRequestReopened notifies when a closed review request is reopened.
func (d *Dispatcher) ReviewRequestReopened(ctx context.Context, ev domain.ReviewRequestReopened) {
	defer d.contain(ev.Kind())
	d.notifyReviewRequest(ctx, ev.Kind(), ev.User, ev.ReviewRequest)
}

// ReviewRequestClosed notifies when a review request is closed. The closed
// path has no visibility or discard guard: discarded requests still get a
// closed notification.
func (d *Dispatcher) ReviewRequestClosed(ctx context.Context, ev domain.ReviewRequestClosed) {
	defer d.contain(ev.Kind())
	d.notifyReviewRequest(ctx, ev.Kind(), ev.User, ev.ReviewRequest)
}

// ReviewPublished notifies when a review of a review request is published.
func (d *Dispatcher) ReviewPublished(ctx context.Context, ev domain.ReviewPublished) {
	defer d.contain(ev.Kind())
	if ev.Review == nil {
		return
	}
	d.notifyReviewRequest(ctx, ev.Kind(), ev.User, ev.Review.Request)
}

// ReplyPublished notifies when a reply to a review is published.
func (d *Dispatcher) ReplyPublished(ctx context.Context, ev domain.ReplyPublished) {
	defer d.contain(ev.Kind())
	d.notifyReviewRequest(ctx, ev.Kind(), ev.User, ev.Reply.Request())
}

// UserRegistered sends the fixed welcome message to a newly registered
// user. Independent of the review-related flags; rendering and recipient
// resolution are bypassed.
func (d *Dispatcher) UserRegistered(ctx context.Context, ev domain.UserRegistered) {
	defer d.contain(ev.Kind())

	s, ok := d.snapshot(ev.Kind())
	if !ok {
		return
	}
	if !s.SendNewUserNotify {
		d.suppress(ev.Kind(), ReasonFlagDisabled)
		return
	}

	users := make(recipient.Set)
	users.Add(ev.User)

	d.send(ctx, ev.Kind(), s.Connection, users, ev.User.Username, message.Welcome)
}

// notifyReviewRequest is the shared pipeline for the five review-related
// kinds: guard, render, resolve, exclude the actor, deliver.
func (d *Dispatcher) notifyReviewRequest(ctx context.Context, kind domain.Kind, actor domain.User, req *domain.ReviewRequest) {
	if req == nil {
		d.logger.Warn("event without a review request", zap.String("event", string(kind)))
		return
	}

	s, ok := d.snapshot(kind)
	if !ok {
		return
	}
	if !enabled(s, kind) {
		d.suppress(kind, ReasonFlagDisabled)
		return
	}
	if kind != domain.KindReviewRequestClosed && !req.Public {
		d.suppress(kind, ReasonNotPublic)
		return
	}

	body := message.Render(kind, actor, req)

	users := recipient.Resolve(req)
	// Never notify the user that triggered the update.
	users.Discard(actor)

	d.send(ctx, kind, s.Connection, users, strconv.FormatInt(req.ID, 10), body)
}

// send translates recipients to addresses, applies group-chat routing, and
// hands the stanza collection to the deliverer. A recipient whose username
// does not form a valid address is skipped, not fatal.
func (d *Dispatcher) send(ctx context.Context, kind domain.Kind, conn config.Connection, users recipient.Set, reqID, body string) {
	var stanzas []xmpp.Stanza

	if !conn.PartychatOnly {
		for _, u := range users.Users() {
			to, err := address.ForUser(u, conn.Sender)
			if err != nil {
				d.logger.Warn("skipping recipient",
					zap.String("request", reqID),
					zap.String("username", u.Username),
					zap.Error(err))
				continue
			}
			stanzas = append(stanzas, xmpp.Stanza{To: to, Body: body})
		}
	}
	for _, room := range conn.Rooms {
		stanzas = append(stanzas, xmpp.Stanza{To: room, Body: body})
	}

	if len(stanzas) == 0 {
		d.suppress(kind, ReasonNoRecipients)
		return
	}

	if d.hooks.OnSent != nil {
		d.hooks.OnSent(kind, len(stanzas))
	}
	d.courier.Deliver(ctx, conn, reqID, stanzas)
}

// snapshot loads the settings for this dispatch. Behaviour of the whole
// dispatch is determined by this one value, not by later store mutation.
func (d *Dispatcher) snapshot(kind domain.Kind) (config.Settings, bool) {
	s, err := d.settings.Snapshot()
	if err != nil {
		d.logger.Error("notification settings rejected",
			zap.String("event", string(kind)), zap.Error(err))
		d.suppress(kind, ReasonBadSettings)
		return config.Settings{}, false
	}
	return s, true
}

func enabled(s config.Settings, kind domain.Kind) bool {
	if kind == domain.KindReviewRequestClosed {
		return s.SendReviewCloseNotify
	}
	return s.SendReviewNotify
}

func (d *Dispatcher) suppress(kind domain.Kind, reason string) {
	d.logger.Debug("notification suppressed",
		zap.String("event", string(kind)), zap.String("reason", reason))
	if d.hooks.OnSuppressed != nil {
		d.hooks.OnSuppressed(kind, reason)
	}
}

// contain is the last line of defence: nothing thrown during a dispatch may
// reach the host's caller.
func (d *Dispatcher) contain(kind domain.Kind) {
	if r := recover(); r != nil {
		d.logger.Error("notification dispatch panicked",
			zap.String("event", string(kind)), zap.Any("panic", r))
	}
}
