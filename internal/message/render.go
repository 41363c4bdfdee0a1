// Package message renders notification bodies. Rendering is pure: the same
// event kind, actor, and subject always produce the identical string.
package message

import (
	"fmt"

	"github.com/reviewhub/xmpp-relay/internal/domain"
)

// Welcome is the fixed body sent to newly registered users.
const Welcome = "Welcome to ReviewBoard"

var verbs = map[domain.Kind]string{
	domain.KindReviewRequestPublished: "published",
	domain.KindReviewRequestReopened:  "reopened",
	domain.KindReviewRequestClosed:    "closed",
	domain.KindReviewPublished:        "reviewed",
	domain.KindReplyPublished:         "replied",
}

// Render builds the notification body for a review-related event:
//
//	<first> <last> <verb> review request #<id>: "<summary>"
//	<url>
//
// No wrapping, no truncation, no escaping.
func Render(kind domain.Kind, actor domain.User, req *domain.ReviewRequest) string {
	return fmt.Sprintf("%s %s %s review request #%d: \"%s\"\n%s",
		actor.FirstName, actor.LastName,
		verbs[kind],
		req.ID, req.Summary, req.URL)
}
