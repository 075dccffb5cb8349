package service

import (
	"testing"

	"github.com/okian/flairbot/internal/domain/flair"
	"github.com/okian/flairbot/internal/domain/karma"
	"github.com/okian/flairbot/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderOutcome(t *testing.T) {
	Convey("Given transition outcomes", t, func() {
		best := karma.Best{Total: 1234, Ordering: karma.OrderingTop}

		Convey("When the karma is too low", func() {
			msg := renderOutcome(karma.Best{Total: -3, Ordering: karma.OrderingNew}, flair.Outcome{Reason: flair.ReasonTooLow})
			So(msg, ShouldEqual, "Calculated Karma: **-3** (new karma). Too low for flair.")
		})

		Convey("When nothing changes", func() {
			msg := renderOutcome(best, flair.Outcome{Reason: flair.ReasonUnchanged})
			So(msg, ShouldContainSubstring, "**1234** (top karma)")
			So(msg, ShouldContainSubstring, "same as what you have now")
		})

		Convey("When a downgrade is blocked", func() {
			msg := renderOutcome(best, flair.Outcome{Reason: flair.ReasonWouldDowngrade})
			So(msg, ShouldContainSubstring, "worse than your current")
		})

		Convey("When a tier is applied", func() {
			th := tier.Threshold{MinKarma: 1000, Class: "over-1000-karma"}
			msg := renderOutcome(best, flair.Outcome{Applied: true, Resolved: &th, Reason: flair.ReasonApplied})
			So(msg, ShouldEqual, "Calculated Karma: **1234** (top karma). New flair set for karma level 1000+")
		})
	})
}

func TestRenderTextChanged(t *testing.T) {
	Convey("Given a text change", t, func() {
		msg := renderTextChanged("Senior Engineer")
		So(msg, ShouldContainSubstring, `"Senior Engineer"`)
		So(msg, ShouldContainSubstring, "class was left as is")
	})
}
