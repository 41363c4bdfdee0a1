package xmpp

import "mellium.im/xmpp/jid"

// Stanza is one addressed, self-contained message unit. Stanzas are built
// before a session connects and delivered in the order built.
type Stanza struct {
	To   jid.JID
	Body string
}
