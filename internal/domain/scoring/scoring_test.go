package scoring_test

import (
	"context"
	"testing"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func entity(id string, words ...uint64) model.Entity {
	return model.Entity{ID: id, Fingerprint: &model.Fingerprint{Words: words}}
}

func TestTanimotoScorer(t *testing.T) {
	Convey("Given a Tanimoto scorer", t, func() {
		scorer := scoring.NewTanimotoScorer()
		ctx := context.Background()

		Convey("When both fingerprints are identical", func() {
			a := entity("a", 0b1011)
			score, err := scorer.Score(ctx, a, a)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 1.0)
		})

		Convey("When fingerprints partially overlap", func() {
			a := entity("a", 0b1100)
			b := entity("b", 0b0110)
			score, err := scorer.Score(ctx, a, b)
			So(err, ShouldBeNil)
			// intersection 1 bit, union 3 bits
			So(score, ShouldAlmostEqual, 1.0/3.0, 1e-12)
		})

		Convey("When fingerprints are disjoint", func() {
			a := entity("a", 0b0011)
			b := entity("b", 0b1100)
			score, err := scorer.Score(ctx, a, b)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0.0)
		})

		Convey("When fingerprints differ in width", func() {
			a := entity("a", 0b1)
			b := entity("b", 0b1, 0b1)
			score, err := scorer.Score(ctx, a, b)
			So(err, ShouldBeNil)
			So(score, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("When either side failed to resolve", func() {
			a := entity("a", 0b1)
			bad := model.Entity{ID: "bad"}
			_, err := scorer.Score(ctx, a, bad)
			So(err, ShouldEqual, scoring.ErrUndefined)
			_, err = scorer.Score(ctx, bad, a)
			So(err, ShouldEqual, scoring.ErrUndefined)
		})

		Convey("When both fingerprints are empty", func() {
			a := entity("a", 0)
			b := entity("b", 0)
			score, err := scorer.Score(ctx, a, b)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0.0)
		})

		Convey("Then the scale maximum is 1", func() {
			So(scorer.MaxScore(), ShouldEqual, 1.0)
		})
	})
}

func TestParseFingerprint(t *testing.T) {
	Convey("Given fingerprint parsing", t, func() {
		Convey("When the hex payload is valid", func() {
			fp, err := scoring.ParseFingerprint("ff00")
			So(err, ShouldBeNil)
			So(fp, ShouldNotBeNil)
			So(len(fp.Words), ShouldEqual, 1)
			So(fp.Words[0], ShouldEqual, uint64(0x00ff))
		})

		Convey("When the payload has odd length", func() {
			fp, err := scoring.ParseFingerprint("f")
			So(err, ShouldBeNil)
			So(fp.Words[0], ShouldEqual, uint64(0x0f))
		})

		Convey("When the payload is not hex", func() {
			fp, err := scoring.ParseFingerprint("zz")
			So(fp, ShouldBeNil)
			So(err, ShouldWrap, scoring.ErrUndefined)
		})

		Convey("When the payload is empty", func() {
			fp, err := scoring.ParseFingerprint("")
			So(fp, ShouldBeNil)
			So(err, ShouldWrap, scoring.ErrUndefined)
		})
	})
}
