package domain

// Kind identifies a notification event variant.
type Kind string

const (
	KindReviewRequestPublished Kind = "review_request_published"
	KindReviewRequestReopened  Kind = "review_request_reopened"
	KindReviewRequestClosed    Kind = "review_request_closed"
	KindReviewPublished        Kind = "review_published"
	KindReplyPublished         Kind = "reply_published"
	KindUserRegistered         Kind = "user_registered"
)

// Event is the sealed union of host-application events the relay consumes.
// Each variant carries the acting user and its subject; variants are
// immutable and consumed exactly once per dispatch.
type Event interface {
	// isEvent seals the interface to prevent external implementations.
	isEvent()

	Kind() Kind
}

func (ReviewRequestPublished) isEvent() {}
func (ReviewRequestReopened) isEvent()  {}
func (ReviewRequestClosed) isEvent()    {}
func (ReviewPublished) isEvent()        {}
func (ReplyPublished) isEvent()         {}
func (UserRegistered) isEvent()         {}

// ReviewRequestPublished fires when a review request first goes public or a
// new revision is published. ChangeDesc is carried for contract parity with
// the host signal; rendering does not use it.
type ReviewRequestPublished struct {
	User          User           `json:"user"`
	ReviewRequest *ReviewRequest `json:"review_request"`
	ChangeDesc    string         `json:"change_description,omitempty"`
}

// ReviewRequestReopened fires when a closed review request is reopened.
type ReviewRequestReopened struct {
	User          User           `json:"user"`
	ReviewRequest *ReviewRequest `json:"review_request"`
}

// ReviewRequestClosed fires when a review request is closed, including
// closes that discard the request.
type ReviewRequestClosed struct {
	User          User           `json:"user"`
	ReviewRequest *ReviewRequest `json:"review_request"`
}

// ReviewPublished fires when a review of a review request is published.
type ReviewPublished struct {
	User   User    `json:"user"`
	Review *Review `json:"review"`
}

// ReplyPublished fires when a reply to a review is published.
type ReplyPublished struct {
	User  User   `json:"user"`
	Reply *Reply `json:"reply"`
}

// UserRegistered fires when a new account registers with the host.
type UserRegistered struct {
	User User `json:"user"`
}

func (ReviewRequestPublished) Kind() Kind { return KindReviewRequestPublished }
func (ReviewRequestReopened) Kind() Kind  { return KindReviewRequestReopened }
func (ReviewRequestClosed) Kind() Kind    { return KindReviewRequestClosed }
func (ReviewPublished) Kind() Kind        { return KindReviewPublished }
func (ReplyPublished) Kind() Kind         { return KindReplyPublished }
func (UserRegistered) Kind() Kind         { return KindUserRegistered }
