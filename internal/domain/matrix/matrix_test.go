package matrix_test

import (
	"testing"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/matrix"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDense(t *testing.T) {
	Convey("Given a fresh dense matrix", t, func() {
		m := matrix.NewDense(2, 3)

		Convey("Then every cell starts undefined", func() {
			for i := 0; i < 2; i++ {
				for j := 0; j < 3; j++ {
					So(m.Defined(i, j), ShouldBeFalse)
				}
			}
		})

		Convey("When a cell is set", func() {
			m.Set(1, 2, 0.5)
			So(m.Defined(1, 2), ShouldBeTrue)
			So(m.At(1, 2), ShouldEqual, 0.5)
			So(m.Defined(1, 1), ShouldBeFalse)
		})
	})
}

func TestAssembler(t *testing.T) {
	Convey("Given an assembler for a 4x4 matrix", t, func() {
		asm := matrix.NewAssembler(4)

		block := func(rows int, base float64) *matrix.Dense {
			b := matrix.NewDense(rows, 4)
			for i := 0; i < rows; i++ {
				for j := 0; j < 4; j++ {
					b.Set(i, j, base+float64(i*4+j))
				}
			}
			return b
		}

		Convey("When two disjoint row blocks are placed", func() {
			So(asm.Place(0, block(2, 0)), ShouldBeNil)
			So(asm.Place(2, block(2, 100)), ShouldBeNil)

			Convey("Then cells land at their row offsets", func() {
				m := asm.Matrix()
				So(m.At(0, 0), ShouldEqual, 0)
				So(m.At(1, 3), ShouldEqual, 7)
				So(m.At(2, 0), ShouldEqual, 100)
				So(m.At(3, 3), ShouldEqual, 107)
			})
		})

		Convey("When row ranges overlap", func() {
			So(asm.Place(0, block(2, 0)), ShouldBeNil)
			err := asm.Place(1, block(2, 0))
			So(err, ShouldWrap, matrix.ErrOverlappingRows)
		})

		Convey("When a block has the wrong width", func() {
			narrow := matrix.NewDense(1, 3)
			So(asm.Place(0, narrow), ShouldWrap, matrix.ErrBlockShape)
		})

		Convey("When a block runs past the last row", func() {
			So(asm.Place(3, block(2, 0)), ShouldWrap, matrix.ErrBlockShape)
		})
	})
}

func TestSymmetrize(t *testing.T) {
	Convey("Given a 3x3 matrix with mixed definedness", t, func() {
		m := matrix.NewDense(3, 3)
		valid := []bool{true, true, false}

		// (0,1)/(1,0): both defined. (0,2): only upper. (1,2)/(2,1): neither.
		m.Set(0, 1, 10)
		m.Set(1, 0, 20)
		m.Set(0, 2, 7)

		Convey("When symmetrized", func() {
			So(matrix.Symmetrize(m, valid, 1.0), ShouldBeNil)

			Convey("Then both-defined pairs are averaged", func() {
				So(m.At(0, 1), ShouldEqual, 15)
				So(m.At(1, 0), ShouldEqual, 15)
			})

			Convey("Then single-defined pairs are mirrored", func() {
				So(m.At(2, 0), ShouldEqual, 7)
				So(m.At(0, 2), ShouldEqual, 7)
			})

			Convey("Then undefined pairs stay undefined", func() {
				So(m.Defined(1, 2), ShouldBeFalse)
				So(m.Defined(2, 1), ShouldBeFalse)
			})

			Convey("Then the diagonal follows entity validity", func() {
				So(m.At(0, 0), ShouldEqual, 1.0)
				So(m.At(1, 1), ShouldEqual, 1.0)
				So(m.Defined(2, 2), ShouldBeFalse)
			})
		})

		Convey("When symmetrized twice", func() {
			So(matrix.Symmetrize(m, valid, 1.0), ShouldBeNil)
			snapshot := matrix.NewDense(3, 3)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					snapshot.Set(i, j, m.At(i, j))
				}
			}

			So(matrix.Symmetrize(m, valid, 1.0), ShouldBeNil)

			Convey("Then the second application changes nothing", func() {
				for i := 0; i < 3; i++ {
					for j := 0; j < 3; j++ {
						if snapshot.Defined(i, j) {
							So(m.At(i, j), ShouldEqual, snapshot.At(i, j))
						} else {
							So(m.Defined(i, j), ShouldBeFalse)
						}
					}
				}
			})
		})

		Convey("When the matrix is not square", func() {
			r := matrix.NewDense(2, 3)
			So(matrix.Symmetrize(r, []bool{true, true}, 1.0), ShouldWrap, matrix.ErrNotSquare)
		})
	})

	Convey("Given an undefined marker", t, func() {
		So(model.IsDefined(model.Undefined()), ShouldBeFalse)
	})
}
