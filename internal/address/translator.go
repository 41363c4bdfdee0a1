// Package address turns recipient identities into fully qualified XMPP
// addresses.
package address

import (
	"fmt"

	"mellium.im/xmpp/jid"

	"github.com/reviewhub/xmpp-relay/internal/domain"
)

// ForUser builds the bare address <username>@<sender domain> for a resolved
// recipient. Usernames come from untrusted host data, so the result is
// validated against the JID grammar even though the sender side was already
// validated at configuration time.
func ForUser(u domain.User, sender jid.JID) (jid.JID, error) {
	if u.Username == "" {
		// jid.New would happily build a bare domain address here.
		return jid.JID{}, fmt.Errorf("%w: empty username", domain.ErrAddressInvalid)
	}
	j, err := jid.New(u.Username, sender.Domainpart(), "")
	if err != nil {
		return jid.JID{}, fmt.Errorf("%w: %q@%q: %v",
			domain.ErrAddressInvalid, u.Username, sender.Domainpart(), err)
	}
	return j, nil
}
