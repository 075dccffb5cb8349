package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/flairbot/internal/adapters/reddit"
	app "github.com/okian/flairbot/internal/app"
	"github.com/okian/flairbot/internal/config"
	"github.com/okian/flairbot/pkg/logger"
	"github.com/okian/flairbot/pkg/metrics"
)

// HTTP server timeout constants for the optional metrics listener.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	os.Exit(run())
}

// run executes exactly one batch and returns the process exit code.
func run() int {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM. A killed run leaves
	// unreplied messages unread; the next scheduled run picks them up.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return 1
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
		_ = logger.SetLevelString("info")
	}

	// Optional metrics listener for the duration of the run.
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn(ctx, "metrics listener failed", logger.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	client := reddit.NewHTTPClient(
		reddit.Credentials{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Username:     cfg.Username,
			Password:     cfg.Password,
		},
		cfg.Subreddit,
		cfg.UserAgent,
	)

	svc := app.New(client,
		app.WithLogger(log),
		app.WithSubreddit(cfg.Subreddit),
		app.WithSendConfirmations(cfg.SendConfirmations),
		app.WithCommentKarma(cfg.UseCommentKarma),
		app.WithSubmissionKarma(cfg.UseSubmissionKarma),
	)

	sum, err := svc.RunBatch(ctx)
	if err != nil {
		log.Error(ctx, "batch aborted", logger.Error(err))
		return 1
	}

	log.Info(ctx, "batch complete",
		logger.Int("fetched", sum.Fetched),
		logger.Int("discarded", sum.Discarded),
		logger.Int("text_only", sum.TextOnly),
		logger.Int("score_based", sum.ScoreBased),
		logger.Int("applied", sum.Applied),
		logger.Int("failed", sum.Failed),
	)
	return 0
}
