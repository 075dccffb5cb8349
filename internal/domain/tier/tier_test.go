package tier_test

import (
	"testing"

	"github.com/okian/flairbot/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTableResolve(t *testing.T) {
	Convey("Given the default tier table", t, func() {
		table := tier.NewTable()

		Convey("When resolving a score above the highest cutoff", func() {
			th, ok := table.Resolve(25000)

			Convey("Then it should return the highest tier", func() {
				So(ok, ShouldBeTrue)
				So(th.MinKarma, ShouldEqual, 20000)
				So(th.Class, ShouldEqual, "over-20000-karma")
			})
		})

		Convey("When resolving a score exactly on a cutoff", func() {
			th, ok := table.Resolve(5000)

			Convey("Then the cutoff itself should qualify", func() {
				So(ok, ShouldBeTrue)
				So(th.MinKarma, ShouldEqual, 5000)
			})
		})

		Convey("When resolving a score between cutoffs", func() {
			th, ok := table.Resolve(4999)

			Convey("Then it should return the next lower tier", func() {
				So(ok, ShouldBeTrue)
				So(th.MinKarma, ShouldEqual, 3000)
			})
		})

		Convey("When resolving a score below every cutoff", func() {
			_, ok := table.Resolve(499)

			Convey("Then no tier should match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When resolving a negative score", func() {
			_, ok := table.Resolve(-1200)

			Convey("Then no tier should match", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When resolving increasing scores", func() {
			Convey("Then the resolved cutoff should never decrease", func() {
				prev := -1
				for _, score := range []int{-50, 0, 499, 500, 999, 1000, 2999, 3000, 5000, 10000, 19999, 20000, 100000} {
					cutoff := 0
					if th, ok := table.Resolve(score); ok {
						cutoff = th.MinKarma
					}
					So(cutoff, ShouldBeGreaterThanOrEqualTo, prev)
					prev = cutoff
				}
			})
		})
	})
}

func TestTableCutoffs(t *testing.T) {
	Convey("Given a table with custom cutoffs in arbitrary order", t, func() {
		table := tier.NewTable(tier.WithCutoffs([]int{100, 1000, 10}))

		Convey("Then thresholds are sorted descending", func() {
			ths := table.Thresholds()
			So(len(ths), ShouldEqual, 3)
			So(ths[0].MinKarma, ShouldEqual, 1000)
			So(ths[1].MinKarma, ShouldEqual, 100)
			So(ths[2].MinKarma, ShouldEqual, 10)
		})

		Convey("And resolution scans highest first", func() {
			th, ok := table.Resolve(150)
			So(ok, ShouldBeTrue)
			So(th.MinKarma, ShouldEqual, 100)
		})

		Convey("And non-positive cutoffs are dropped", func() {
			filtered := tier.NewTable(tier.WithCutoffs([]int{500, 0, -3}))
			So(len(filtered.Thresholds()), ShouldEqual, 1)
		})
	})
}

func TestParseClassKarma(t *testing.T) {
	Convey("Given flair class strings", t, func() {
		Convey("When parsing a generated class", func() {
			n, err := tier.ParseClassKarma(tier.ClassFor(1000))

			Convey("Then the embedded cutoff comes back", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1000)
			})
		})

		Convey("When parsing a hand-set class with no cutoff", func() {
			_, err := tier.ParseClassKarma("moderator")

			Convey("Then it should report an unparseable class", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unparseable")
			})
		})

		Convey("When parsing a class with a non-numeric segment", func() {
			_, err := tier.ParseClassKarma("over-gold-karma")

			Convey("Then it should report an unparseable class", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
