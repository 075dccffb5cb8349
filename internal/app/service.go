// Package service runs one batch of flair requests end to end: fetch unread
// messages, classify them, compute karma, decide transitions, and deliver
// replies through the external message service.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/flairbot/internal/adapters/reddit"
	"github.com/okian/flairbot/internal/domain/flair"
	"github.com/okian/flairbot/internal/domain/karma"
	"github.com/okian/flairbot/internal/domain/request"
	"github.com/okian/flairbot/internal/domain/tier"
	"github.com/okian/flairbot/pkg/logger"
	"github.com/okian/flairbot/pkg/metrics"
)

// Service orchestrates a single batch run. It holds no state between runs;
// the only mutation that survives a batch is the flair written to the
// external service.
type Service struct {
	client reddit.Client
	table  *tier.Table
	agg    *karma.Aggregator

	subreddit         string
	sendConfirmations bool
	useComments       bool
	useSubmissions    bool

	logger logger.Logger
}

// Summary reports what one batch did.
type Summary struct {
	Fetched    int
	Discarded  int
	TextOnly   int
	ScoreBased int
	Applied    int
	Failed     int
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTierTable replaces the default tier table.
func WithTierTable(t *tier.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithSubreddit sets the target community.
func WithSubreddit(sub string) Option {
	return func(s *Service) {
		if sub != "" {
			s.subreddit = sub
		}
	}
}

// WithSendConfirmations controls outcome replies. Accepted messages are
// still marked read when replies are suppressed.
func WithSendConfirmations(enabled bool) Option {
	return func(s *Service) {
		s.sendConfirmations = enabled
	}
}

// WithCommentKarma includes or excludes comment scores from aggregation.
func WithCommentKarma(enabled bool) Option {
	return func(s *Service) {
		s.useComments = enabled
	}
}

// WithSubmissionKarma includes or excludes submission scores from aggregation.
func WithSubmissionKarma(enabled bool) Option {
	return func(s *Service) {
		s.useSubmissions = enabled
	}
}

// New constructs a Service around the given client.
func New(client reddit.Client, opts ...Option) *Service {
	s := &Service{
		client:            client,
		table:             tier.NewTable(),
		subreddit:         "cscareerquestions",
		sendConfirmations: true,
		useComments:       true,
		useSubmissions:    true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.agg = karma.NewAggregator(client, s.subreddit,
		karma.WithCommentKarma(s.useComments),
		karma.WithSubmissionKarma(s.useSubmissions),
	)

	return s
}

// RunBatch processes all currently unread messages once and returns. Text
// changes run before score-based requests. Discarded messages are marked
// read in one batch call up front; accepted messages are marked read one by
// one only after their reply went out, so a crash mid-batch leaves them
// unread for the next run.
func (s *Service) RunBatch(ctx context.Context) (Summary, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBatchDuration(float64(time.Since(start).Milliseconds()))
		metrics.UpdateLastRun(time.Now())
	}()

	log := s.logger.With(logger.String("run_id", uuid.NewString()))

	msgs, err := s.client.ListUnread(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list unread: %w", err)
	}
	metrics.RecordMessagesFetched(len(msgs))

	batch := request.Classify(msgs)
	sum := Summary{
		Fetched:    len(msgs),
		Discarded:  len(batch.Discarded),
		TextOnly:   len(batch.TextOnly),
		ScoreBased: len(batch.ScoreBased),
	}
	metrics.RecordMessagesDiscarded(len(batch.Discarded))
	metrics.UpdateBatchSize(len(batch.TextOnly) + len(batch.ScoreBased))

	log.Info(ctx, "batch classified",
		logger.Int("fetched", sum.Fetched),
		logger.Int("discarded", sum.Discarded),
		logger.Int("text_only", sum.TextOnly),
		logger.Int("score_based", sum.ScoreBased),
	)

	// Discards carry no reply, so a failed mark-read only means they are
	// seen again next run.
	if err := s.client.MarkRead(ctx, batch.Discarded); err != nil {
		log.Warn(ctx, "mark discarded read failed", logger.Error(err))
	}

	for _, r := range batch.TextOnly {
		metrics.RecordRequest(string(r.Kind))
		s.processTextOnly(ctx, log, r, &sum)
	}
	for _, r := range batch.ScoreBased {
		metrics.RecordRequest(string(r.Kind))
		if err := s.processScoreBased(ctx, log, r, &sum); err != nil {
			return sum, err
		}
	}

	log.Info(ctx, "batch done",
		logger.Int("applied", sum.Applied),
		logger.Int("failed", sum.Failed),
	)
	return sum, nil
}

// processTextOnly changes the display text of a user's flair, never the
// class. Failures are reported to the user and do not abort the batch.
func (s *Service) processTextOnly(ctx context.Context, log logger.Logger, r request.Request, sum *Summary) {
	author := r.Message.Author
	text := request.FirstLine(r.Message.Body)

	current, err := s.client.Flair(ctx, author)
	if err == nil {
		err = s.client.SetFlair(ctx, author, current.Class, text)
	}
	if err != nil {
		metrics.RecordFlairWriteFailure()
		sum.Failed++
		log.Error(ctx, "flair text change failed",
			logger.String("user", author),
			logger.String("text", text),
			logger.Error(err),
		)
		s.deliver(ctx, log, r.Message.ID, writeFailureReply)
		return
	}

	sum.Applied++
	log.Info(ctx, "flair text changed",
		logger.String("user", author),
		logger.String("text", text),
	)
	s.deliver(ctx, log, r.Message.ID, renderTextChanged(text))
}

// processScoreBased computes the winning karma aggregate, resolves the tier,
// and applies the transition policy. Aggregation and flair-read errors abort
// the batch (the message stays unread and is retried next run); flair-write
// errors are per-user recoverable.
func (s *Service) processScoreBased(ctx context.Context, log logger.Logger, r request.Request, sum *Summary) error {
	author := r.Message.Author

	best, err := s.agg.Best(ctx, author)
	if err != nil {
		return fmt.Errorf("aggregate karma for %s: %w", author, err)
	}

	var out flair.Outcome
	resolved, ok := s.table.Resolve(best.Total)
	if !ok {
		out = flair.Decide(flair.State{}, nil)
	} else {
		current, err := s.client.Flair(ctx, author)
		if err != nil {
			return fmt.Errorf("read flair for %s: %w", author, err)
		}
		out = flair.Decide(current, &resolved)
		if out.Applied {
			if err := s.client.SetFlair(ctx, author, resolved.Class, current.Text); err != nil {
				metrics.RecordFlairWriteFailure()
				sum.Failed++
				log.Error(ctx, "flair write failed",
					logger.String("user", author),
					logger.String("class", resolved.Class),
					logger.Error(err),
				)
				s.deliver(ctx, log, r.Message.ID, writeFailureReply)
				return nil
			}
		}
	}

	metrics.RecordOutcome(string(out.Reason))
	if out.Applied {
		sum.Applied++
	}
	log.Info(ctx, "score request decided",
		logger.String("user", author),
		logger.Int("karma", best.Total),
		logger.String("karma_type", string(best.Ordering)),
		logger.String("reason", string(out.Reason)),
	)
	s.deliver(ctx, log, r.Message.ID, renderOutcome(best, out))
	return nil
}

// deliver replies to an accepted message and marks it read. The message is
// marked read only after a successful reply; a failed reply leaves it unread
// so the next run retries it.
func (s *Service) deliver(ctx context.Context, log logger.Logger, id, text string) {
	if s.sendConfirmations {
		if err := s.client.Reply(ctx, id, text); err != nil {
			metrics.RecordReplyFailure()
			log.Error(ctx, "reply failed", logger.String("message_id", id), logger.Error(err))
			return
		}
	}
	if err := s.client.MarkRead(ctx, []string{id}); err != nil {
		log.Warn(ctx, "mark read failed", logger.String("message_id", id), logger.Error(err))
	}
}
