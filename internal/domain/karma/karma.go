// Package karma aggregates a user's contribution scores within one subreddit.
package karma

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/flairbot/pkg/metrics"
)

// Ordering selects one of the listing orders offered by the message service.
type Ordering string

// Supported listing orders.
const (
	OrderingTop Ordering = "top"
	OrderingNew Ordering = "new"
)

// Kind distinguishes the two contribution listings a user has.
type Kind string

// Supported contribution kinds.
const (
	KindComment    Kind = "comment"
	KindSubmission Kind = "submission"
)

// Contribution is one scored item from a user's history.
type Contribution struct {
	Subreddit string
	Score     int
}

// Iter walks a contribution listing lazily. The listing is paginated by the
// implementation; Next returns false once exhausted.
type Iter interface {
	Next(ctx context.Context) (Contribution, bool, error)
}

// Lister provides a user's contribution listings under a given ordering.
// Implemented by the reddit adapter.
type Lister interface {
	Contributions(ctx context.Context, user string, kind Kind, ordering Ordering) (Iter, error)
}

// Best is the winning aggregate across the two orderings.
type Best struct {
	Total    int
	Ordering Ordering
}

// Aggregator sums a user's contribution scores restricted to one subreddit.
// It performs no writes and sends no replies.
type Aggregator struct {
	lister    Lister
	subreddit string

	useComments    bool
	useSubmissions bool
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithCommentKarma includes or excludes comment scores from the sum.
func WithCommentKarma(enabled bool) Option {
	return func(a *Aggregator) {
		a.useComments = enabled
	}
}

// WithSubmissionKarma includes or excludes submission scores from the sum.
func WithSubmissionKarma(enabled bool) Option {
	return func(a *Aggregator) {
		a.useSubmissions = enabled
	}
}

// NewAggregator creates an aggregator for one target subreddit. Both
// contribution kinds count by default.
func NewAggregator(lister Lister, subreddit string, opts ...Option) *Aggregator {
	a := &Aggregator{
		lister:         lister,
		subreddit:      subreddit,
		useComments:    true,
		useSubmissions: true,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate sums the scores of the user's contributions that originate in
// the target subreddit (case-sensitive match), walking both contribution
// kinds under the given ordering. Scores may be negative, so the total can
// be negative or zero.
func (a *Aggregator) Aggregate(ctx context.Context, user string, ordering Ordering) (int, error) {
	switch ordering {
	case OrderingTop, OrderingNew:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrdering, ordering)
	}

	kinds := make([]Kind, 0, 2)
	if a.useComments {
		kinds = append(kinds, KindComment)
	}
	if a.useSubmissions {
		kinds = append(kinds, KindSubmission)
	}

	total := 0
	for _, kind := range kinds {
		it, err := a.lister.Contributions(ctx, user, kind, ordering)
		if err != nil {
			return 0, fmt.Errorf("list %s/%s for %s: %w", kind, ordering, user, err)
		}
		for {
			c, ok, err := it.Next(ctx)
			if err != nil {
				return 0, fmt.Errorf("walk %s/%s for %s: %w", kind, ordering, user, err)
			}
			if !ok {
				break
			}
			if c.Subreddit == a.subreddit {
				total += c.Score
			}
		}
	}
	return total, nil
}

// Best computes the aggregate under both orderings and returns the larger.
// Top wins only when strictly greater; ties go to new. The two listings are
// sampled separately because the service caps each paginated window, so
// either ordering alone can miss qualifying items.
func (a *Aggregator) Best(ctx context.Context, user string) (Best, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAggregateLatency(float64(time.Since(start).Milliseconds()))
	}()

	topTotal, err := a.Aggregate(ctx, user, OrderingTop)
	if err != nil {
		return Best{}, err
	}
	newTotal, err := a.Aggregate(ctx, user, OrderingNew)
	if err != nil {
		return Best{}, err
	}

	if topTotal > newTotal {
		return Best{Total: topTotal, Ordering: OrderingTop}, nil
	}
	return Best{Total: newTotal, Ordering: OrderingNew}, nil
}
