package domain

// Status is the lifecycle state of a review request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusDiscarded Status = "discarded"
)

// User is a host-application account. Username doubles as the local part of
// the user's notification address; display identity is FirstName/LastName.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
}

// Group is a named reviewer group a review request can target.
type Group struct {
	Name    string `json:"name"`
	Members []User `json:"members"`
}

// Profile is the indirection through which the host exposes users who
// starred a review request.
type Profile struct {
	User User `json:"user"`
}

// ReviewRequest is the subject entity every review-related event resolves
// to. The relationship fields drive recipient resolution; ID is the
// human-facing display id used as the correlation id in session logs.
type ReviewRequest struct {
	ID           int64     `json:"id"`
	Summary      string    `json:"summary"`
	URL          string    `json:"url"`
	Public       bool      `json:"public"`
	Status       Status    `json:"status"`
	Submitter    User      `json:"submitter"`
	Participants []User    `json:"participants"`
	TargetPeople []User    `json:"target_people"`
	TargetGroups []Group   `json:"target_groups"`
	StarredBy    []Profile `json:"starred_by"`
}

// Review is a published review on a review request.
type Review struct {
	Request *ReviewRequest `json:"review_request"`
}

// Reply is a published reply to a review. The chain always resolves back to
// the originating review request.
type Reply struct {
	BaseReplyTo *Review `json:"base_reply_to"`
}

// Request walks the reply chain back to the review request. Returns nil if
// the chain is broken.
func (r *Reply) Request() *ReviewRequest {
	if r == nil || r.BaseReplyTo == nil {
		return nil
	}
	return r.BaseReplyTo.Request
}
