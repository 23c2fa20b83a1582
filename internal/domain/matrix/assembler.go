package matrix

import (
	"fmt"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
)

// Assembler gathers per-worker row blocks into one global n x n matrix.
// Row ranges must not overlap; the partition invariant guarantees this,
// and Place enforces it.
type Assembler struct {
	n      int
	m      *Dense
	placed []bool // per-row occupancy
}

// NewAssembler creates an assembler for an n x n matrix.
func NewAssembler(n int) *Assembler {
	return &Assembler{
		n:      n,
		m:      NewDense(n, n),
		placed: make([]bool, n),
	}
}

// Place copies a full-width row block at the given row offset.
func (a *Assembler) Place(rowStart int, block *Dense) error {
	if block.Cols() != a.n {
		return fmt.Errorf("%w: block is %d columns, want %d", ErrBlockShape, block.Cols(), a.n)
	}
	if rowStart < 0 || rowStart+block.Rows() > a.n {
		return fmt.Errorf("%w: rows [%d, %d) outside matrix of size %d",
			ErrBlockShape, rowStart, rowStart+block.Rows(), a.n)
	}
	for i := 0; i < block.Rows(); i++ {
		if a.placed[rowStart+i] {
			return fmt.Errorf("%w: row %d", ErrOverlappingRows, rowStart+i)
		}
	}
	for i := 0; i < block.Rows(); i++ {
		a.placed[rowStart+i] = true
		for j := 0; j < a.n; j++ {
			a.m.Set(rowStart+i, j, block.At(i, j))
		}
	}
	return nil
}

// Matrix returns the assembled matrix. Unplaced rows stay undefined.
func (a *Assembler) Matrix() *Dense {
	return a.m
}

// Symmetrize reconciles the two directionally-computed values of every
// off-diagonal pair in place:
//   - both defined: replace both with their arithmetic mean
//   - exactly one defined: copy it to the undefined side
//   - neither defined: leave both undefined
//
// The diagonal is forced to maxScore for valid entities and left undefined
// otherwise. Applying Symmetrize twice yields the same matrix as once.
func Symmetrize(m *Dense, valid []bool, maxScore float64) error {
	if m.Rows() != m.Cols() {
		return fmt.Errorf("%w: %d x %d", ErrNotSquare, m.Rows(), m.Cols())
	}
	if len(valid) != m.Rows() {
		return fmt.Errorf("%w: %d validity flags for %d rows", ErrBlockShape, len(valid), m.Rows())
	}
	n := m.Rows()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			upperOK, lowerOK := m.Defined(i, j), m.Defined(j, i)
			switch {
			case upperOK && lowerOK:
				mean := (m.At(i, j) + m.At(j, i)) / 2
				m.Set(i, j, mean)
				m.Set(j, i, mean)
			case upperOK:
				m.Set(j, i, m.At(i, j))
			case lowerOK:
				m.Set(i, j, m.At(j, i))
			}
		}
	}
	for i := 0; i < n; i++ {
		if valid[i] {
			m.Set(i, i, maxScore)
		} else {
			m.Set(i, i, model.Undefined())
		}
	}
	return nil
}
