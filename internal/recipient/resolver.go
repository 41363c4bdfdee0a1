// Package recipient resolves the set of users interested in a review
// request.
package recipient

import "github.com/reviewhub/xmpp-relay/internal/domain"

// Set is a collection of unique users, keyed by user ID so display-name
// collisions cannot merge distinct accounts.
type Set map[int64]domain.User

// Add inserts the user; duplicates collapse silently.
func (s Set) Add(u domain.User) { s[u.ID] = u }

// Discard removes the user if present.
func (s Set) Discard(u domain.User) { delete(s, u.ID) }

// Contains reports whether the user is in the set.
func (s Set) Contains(u domain.User) bool {
	_, ok := s[u.ID]
	return ok
}

// Users returns the members in unspecified order.
func (s Set) Users() []domain.User {
	out := make([]domain.User, 0, len(s))
	for _, u := range s {
		out = append(out, u)
	}
	return out
}

// Resolve returns the active users interested in the review request:
// every participant unconditionally, plus the submitter, the targeted
// people, the members of targeted groups, and the users who starred it,
// each only while active.
//
// The acting user is intentionally NOT excluded here; callers that deliver
// drop the actor at the send boundary, so the unfiltered set stays
// observable.
func Resolve(req *domain.ReviewRequest) Set {
	users := make(Set)

	for _, u := range req.Participants {
		users.Add(u)
	}

	if req.Submitter.Active {
		users.Add(req.Submitter)
	}

	for _, u := range req.TargetPeople {
		if u.Active {
			users.Add(u)
		}
	}

	for _, g := range req.TargetGroups {
		for _, u := range g.Members {
			if u.Active {
				users.Add(u)
			}
		}
	}

	for _, p := range req.StarredBy {
		if p.User.Active {
			users.Add(p.User)
		}
	}

	return users
}
