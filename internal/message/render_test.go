package message_test

import (
	"testing"

	"github.com/reviewhub/xmpp-relay/internal/domain"
	"github.com/reviewhub/xmpp-relay/internal/message"
)

func TestRender(t *testing.T) {
	actor := domain.User{FirstName: "Alice", LastName: "Anderson"}
	req := &domain.ReviewRequest{
		ID:      42,
		Summary: "Fix bug",
		URL:     "https://reviews.example.com/r/42/",
	}

	t.Run("published", func(t *testing.T) {
		got := message.Render(domain.KindReviewRequestPublished, actor, req)
		want := "Alice Anderson published review request #42: \"Fix bug\"\nhttps://reviews.example.com/r/42/"
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})

	t.Run("verb per kind", func(t *testing.T) {
		verbs := map[domain.Kind]string{
			domain.KindReviewRequestPublished: "published",
			domain.KindReviewRequestReopened:  "reopened",
			domain.KindReviewRequestClosed:    "closed",
			domain.KindReviewPublished:        "reviewed",
			domain.KindReplyPublished:         "replied",
		}
		for kind, verb := range verbs {
			got := message.Render(kind, actor, req)
			want := "Alice Anderson " + verb + " review request #42: \"Fix bug\"\nhttps://reviews.example.com/r/42/"
			if got != want {
				t.Fatalf("kind %s: got %q, want %q", kind, got, want)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		first := message.Render(domain.KindReviewPublished, actor, req)
		for i := 0; i < 10; i++ {
			if got := message.Render(domain.KindReviewPublished, actor, req); got != first {
				t.Fatalf("render not deterministic: %q vs %q", got, first)
			}
		}
	})

	t.Run("summary is not escaped", func(t *testing.T) {
		quoted := &domain.ReviewRequest{ID: 7, Summary: `say "hi"`, URL: "u"}
		got := message.Render(domain.KindReviewRequestPublished, actor, quoted)
		want := "Alice Anderson published review request #7: \"say \"hi\"\"\nu"
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})
}
