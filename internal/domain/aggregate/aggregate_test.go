package aggregate_test

import (
	"testing"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/aggregate"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func withPident(values ...float64) []model.MergedRecord {
	out := make([]model.MergedRecord, len(values))
	for i, v := range values {
		out[i] = model.MergedRecord{AvgPctIdentity: v}
	}
	return out
}

func TestGroupPairSimilarity(t *testing.T) {
	Convey("Given group-pair aggregation", t, func() {
		Convey("When observed equals minMatches", func() {
			sim, err := aggregate.GroupPairSimilarity(withPident(80, 60), 3, 2)
			So(err, ShouldBeNil)

			Convey("Then padding has no effect", func() {
				So(sim, ShouldEqual, 70) // (80+60)/2
			})
		})

		Convey("When observed falls short of minMatches", func() {
			// nA=3, nB=2 -> minMatches=2; one pair with avgPident 80,
			// shortfall 1 padded with the minimum (80).
			sim, err := aggregate.GroupPairSimilarity(withPident(80), 3, 2)
			So(err, ShouldBeNil)
			So(sim, ShouldEqual, 80) // (80 + 1*80) / 2
		})

		Convey("When the shortfall pads with the worst pair, not zero", func() {
			sim, err := aggregate.GroupPairSimilarity(withPident(90, 50), 4, 3)
			So(err, ShouldBeNil)
			So(sim, ShouldAlmostEqual, (90+50+50)/3.0, 1e-12)
		})

		Convey("When no records were chosen", func() {
			_, err := aggregate.GroupPairSimilarity(nil, 3, 2)
			So(err, ShouldEqual, aggregate.ErrNoObservations)
		})

		Convey("When every record's pident is undefined", func() {
			_, err := aggregate.GroupPairSimilarity(withPident(model.Undefined()), 3, 2)
			So(err, ShouldEqual, aggregate.ErrNoObservations)
		})

		Convey("When undefined pidents mix with defined ones", func() {
			sim, err := aggregate.GroupPairSimilarity(withPident(model.Undefined(), 80, 60), 2, 2)
			So(err, ShouldBeNil)
			So(sim, ShouldEqual, 70)
		})

		Convey("When the entity counts are missing", func() {
			_, err := aggregate.GroupPairSimilarity(withPident(80), 0, 2)
			So(err, ShouldEqual, aggregate.ErrMissingCounts)
		})
	})
}

func TestBuilder(t *testing.T) {
	Convey("Given a group-matrix builder", t, func() {
		b := aggregate.NewBuilder()

		Convey("When one direction of a pair is recorded", func() {
			b.Add("alpha", "beta", 42)
			gm := b.Finalize()

			Convey("Then the mirror cell is filled at finalize", func() {
				So(gm.Names, ShouldResemble, []string{"alpha", "beta"})
				So(gm.M.At(0, 1), ShouldEqual, 42)
				So(gm.M.At(1, 0), ShouldEqual, 42)
			})

			Convey("Then the diagonal is forced to 100", func() {
				So(gm.M.At(0, 0), ShouldEqual, 100)
				So(gm.M.At(1, 1), ShouldEqual, 100)
			})
		})

		Convey("When a self pair is recorded with a bogus value", func() {
			b.Add("alpha", "alpha", 7)
			gm := b.Finalize()
			So(gm.M.At(0, 0), ShouldEqual, 100)
		})

		Convey("When a group pair was skipped entirely", func() {
			b.AddGroup("alpha")
			b.AddGroup("beta")
			b.Add("alpha", "gamma", 30)
			gm := b.Finalize()

			Convey("Then unmirrorable cells stay undefined", func() {
				i := map[string]int{}
				for k, n := range gm.Names {
					i[n] = k
				}
				So(gm.M.Defined(i["alpha"], i["beta"]), ShouldBeFalse)
				So(gm.M.Defined(i["beta"], i["gamma"]), ShouldBeFalse)
				So(gm.M.At(i["alpha"], i["gamma"]), ShouldEqual, 30)
				So(gm.M.At(i["gamma"], i["alpha"]), ShouldEqual, 30)
			})
		})
	})
}
