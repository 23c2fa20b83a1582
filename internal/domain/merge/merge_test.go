package merge_test

import (
	"testing"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/merge"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func hit(q, t string, pident, length, evalue, bitscore float64) model.HitRecord {
	return model.HitRecord{
		Query: q, Target: t,
		PctIdentity: pident, AlignLength: length, EValue: evalue, BitScore: bitscore,
	}
}

func TestParseMode(t *testing.T) {
	Convey("Given merge mode parsing", t, func() {
		for _, s := range []string{"avg", "max", "min"} {
			mode, err := merge.ParseMode(s)
			So(err, ShouldBeNil)
			So(string(mode), ShouldEqual, s)
		}
		_, err := merge.ParseMode("median")
		So(err, ShouldWrap, merge.ErrUnknownMode)
	})
}

func TestCollapse(t *testing.T) {
	Convey("Given duplicate hits for one pair", t, func() {
		records := []model.HitRecord{
			hit("a", "b", 90, 100, 1e-10, 50),
			hit("a", "b", 95, 120, 1e-12, 80),
			hit("a", "b", 80, 110, 1e-11, 80), // equal bitscore, later occurrence
			hit("a", "c", 70, 90, 1e-9, 40),
		}

		Convey("When collapsed", func() {
			best := merge.Collapse(records)

			Convey("Then the max-bitscore record survives per pair", func() {
				So(len(best), ShouldEqual, 2)
				So(best[model.PairKey{Query: "a", Target: "b"}].BitScore, ShouldEqual, 80)
				So(best[model.PairKey{Query: "a", Target: "c"}].BitScore, ShouldEqual, 40)
			})

			Convey("Then ties keep the first occurrence", func() {
				So(best[model.PairKey{Query: "a", Target: "b"}].PctIdentity, ShouldEqual, 95)
			})
		})
	})
}

func TestFilter(t *testing.T) {
	Convey("Given hits around the thresholds", t, func() {
		records := []model.HitRecord{
			hit("a", "b", 90, 100, 1e-10, 50), // passes
			hit("a", "c", 90, 20, 1e-10, 50),  // too short
			hit("a", "d", 90, 100, 1.0, 50),   // evalue too large
		}

		Convey("When filtered with emax=1e-3 and lmin=30", func() {
			kept := merge.Filter(records, 1e-3, 30)
			So(len(kept), ShouldEqual, 1)
			So(kept[0].Target, ShouldEqual, "b")
		})

		Convey("When thresholds are undefined", func() {
			kept := merge.Filter(records, model.Undefined(), model.Undefined())
			So(len(kept), ShouldEqual, 3)
		})
	})
}

func TestOrient(t *testing.T) {
	Convey("Given a reverse-table keyed record set", t, func() {
		rev := merge.Collapse([]model.HitRecord{hit("b1", "a1", 90, 100, 1e-10, 50)})

		Convey("When oriented", func() {
			oriented := merge.Orient(rev)

			Convey("Then keys and record ids are relabeled to (A,B)", func() {
				rec, ok := oriented[model.PairKey{Query: "a1", Target: "b1"}]
				So(ok, ShouldBeTrue)
				So(rec.Query, ShouldEqual, "a1")
				So(rec.Target, ShouldEqual, "b1")
			})
		})
	})
}

func TestMerge(t *testing.T) {
	Convey("Given forward and reverse keyed tables", t, func() {
		fwd := merge.Directional([]model.HitRecord{
			hit("a1", "b1", 90, 100, 1e-10, 60),
			hit("a2", "b2", 70, 100, 1e-10, 40),
		}, false, 1e-3, 30)
		rev := merge.Directional([]model.HitRecord{
			hit("b1", "a1", 80, 100, 1e-10, 100),
		}, true, 1e-3, 30)

		Convey("When merged with avg", func() {
			merged := merge.Merge(fwd, rev, merge.ModeAvg)

			Convey("Then a both-sided pair averages bitscores and carries the winner", func() {
				rec := merged[model.PairKey{Query: "a1", Target: "b1"}]
				So(rec.Score, ShouldEqual, 80) // (60+100)/2
				So(rec.BitScore, ShouldEqual, 100)
				So(rec.PctIdentityFwd, ShouldEqual, 90)
				So(rec.PctIdentityRev, ShouldEqual, 80)
				So(rec.AvgPctIdentity, ShouldEqual, 85)
			})

			Convey("Then a one-sided pair keeps its own bitscore and undefined reverse pident", func() {
				rec := merged[model.PairKey{Query: "a2", Target: "b2"}]
				So(rec.Score, ShouldEqual, 40)
				So(model.IsDefined(rec.PctIdentityRev), ShouldBeFalse)
				So(rec.AvgPctIdentity, ShouldEqual, 70) // defined side only, never zero-filled
			})
		})

		Convey("When merged with max", func() {
			merged := merge.Merge(fwd, rev, merge.ModeMax)
			rec := merged[model.PairKey{Query: "a1", Target: "b1"}]
			So(rec.Score, ShouldEqual, 100)
			So(rec.BitScore, ShouldEqual, 100)
		})

		Convey("When merged with min", func() {
			merged := merge.Merge(fwd, rev, merge.ModeMin)
			rec := merged[model.PairKey{Query: "a1", Target: "b1"}]
			So(rec.Score, ShouldEqual, 60)

			Convey("Then the auxiliary record follows the min side", func() {
				So(rec.BitScore, ShouldEqual, 60)
			})
		})
	})
}

func TestMergeDirectionSymmetry(t *testing.T) {
	Convey("Given the same hits fed in either direction", t, func() {
		aToB := []model.HitRecord{
			hit("a1", "b1", 90, 100, 1e-10, 60),
			hit("a2", "b1", 75, 90, 1e-8, 55),
		}
		bToA := []model.HitRecord{
			hit("b1", "a1", 80, 100, 1e-10, 100),
			hit("b2", "a2", 65, 80, 1e-7, 45),
		}

		for _, mode := range []merge.Mode{merge.ModeAvg, merge.ModeMax, merge.ModeMin} {
			Convey("When merged under "+string(mode)+" with inputs swapped", func() {
				forward := merge.Merge(
					merge.Directional(aToB, false, 1e-3, 30),
					merge.Directional(bToA, true, 1e-3, 30),
					mode,
				)
				swapped := merge.Merge(
					merge.Directional(bToA, false, 1e-3, 30),
					merge.Directional(aToB, true, 1e-3, 30),
					mode,
				)

				Convey("Then combined scores are identical under key swap", func() {
					So(len(swapped), ShouldEqual, len(forward))
					for key, rec := range forward {
						mirror, ok := swapped[key.Swap()]
						So(ok, ShouldBeTrue)
						So(mirror.Score, ShouldEqual, rec.Score)
						So(mirror.BitScore, ShouldEqual, rec.BitScore)
					}
				})
			})
		}
	})
}
