// Package reddit is a thin HTTP shim over the forum message and reputation
// service. It holds no business logic; the batch orchestrator decides what
// to do with what it reads.
package reddit

import (
	"context"

	"github.com/okian/flairbot/internal/domain/flair"
	"github.com/okian/flairbot/internal/domain/karma"
	"github.com/okian/flairbot/internal/domain/request"
)

// Client is the abstract surface the batch orchestrator consumes. The HTTP
// implementation below talks to the real service; tests substitute fakes.
type Client interface {
	karma.Lister

	// ListUnread fetches all unread inbox messages. The listing is finite
	// per call and not restartable.
	ListUnread(ctx context.Context) ([]request.Message, error)

	// MarkRead marks a batch of message ids as read. Non-transactional.
	MarkRead(ctx context.Context, ids []string) error

	// Reply sends a reply to one message.
	Reply(ctx context.Context, id, text string) error

	// Flair reads a user's current flair in the target subreddit.
	Flair(ctx context.Context, user string) (flair.State, error)

	// SetFlair writes a user's flair class and text in the target subreddit.
	SetFlair(ctx context.Context, user, class, text string) error
}
