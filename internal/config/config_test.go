package config_test

import (
	"testing"

	"github.com/okian/flairbot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	convey.Convey("Given a fresh config", t, func() {
		cfg := config.New()

		convey.Convey("Then defaults are set and credentials are not", func() {
			convey.So(cfg.UserAgent, convey.ShouldEqual, config.DefaultUserAgent)
			convey.So(cfg.Subreddit, convey.ShouldEqual, config.DefaultSubreddit)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.UseCommentKarma, convey.ShouldBeTrue)
			convey.So(cfg.UseSubmissionKarma, convey.ShouldBeTrue)
			convey.So(cfg.SendConfirmations, convey.ShouldBeTrue)
			convey.So(cfg.ClientID, convey.ShouldBeEmpty)
			convey.So(cfg.Password, convey.ShouldBeEmpty)
		})
	})
}
