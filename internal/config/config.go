// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// DefaultUserAgent identifies the bot to the message service.
const DefaultUserAgent = "r/cscareerquestions cscqflairbot v1.0 by u/SofaAssassin"

// DefaultSubreddit is the community whose karma drives flair.
const DefaultSubreddit = "cscareerquestions"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// UserAgent is sent with every request to the message service.
	UserAgent string `koanf:"user_agent"`

	// ClientID and ClientSecret identify the API application. Required.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`

	// Username and Password are the bot account credentials. Required.
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Subreddit is the target community for karma aggregation and flair.
	Subreddit string `koanf:"subreddit"`

	// MetricsAddr, when set, serves Prometheus metrics on this address for
	// the duration of the run, e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// UseCommentKarma and UseSubmissionKarma select which contribution
	// kinds count toward the aggregate.
	UseCommentKarma    bool `koanf:"use_comment_karma"`
	UseSubmissionKarma bool `koanf:"use_submission_karma"`

	// SendConfirmations controls whether outcome replies are sent.
	// Messages are still marked read when replies are suppressed.
	SendConfirmations bool `koanf:"send_confirmations"`
}

// New creates a Config with defaults. Credentials have no defaults and must
// come from the environment or a config file.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		UserAgent:          DefaultUserAgent,
		Subreddit:          DefaultSubreddit,
		UseCommentKarma:    true,
		UseSubmissionKarma: true,
		SendConfirmations:  true,
	}
}
