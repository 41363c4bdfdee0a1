package domain

import "errors"

// Sentinel errors used throughout the application.
// Config errors surface at configuration-load time and never reach a
// session; the API layer translates them via a single mapError function.
var (
	ErrHostEmpty      = errors.New("xmpp host must not be empty")
	ErrPortOutOfRange = errors.New("xmpp port must be between 1 and 65535")
	ErrTimeoutInvalid = errors.New("xmpp timeout must not be negative")
	ErrSenderInvalid  = errors.New("sender is not a valid jid")
	ErrRoomInvalid    = errors.New("group chat room is not a valid jid")

	// ErrAddressInvalid marks a recipient username that does not form a
	// syntactically valid address. The recipient is skipped, never the
	// whole session.
	ErrAddressInvalid = errors.New("recipient address is not a valid jid")

	// ErrBadPayload marks an undecodable inbound event payload.
	ErrBadPayload = errors.New("malformed event payload")
)
