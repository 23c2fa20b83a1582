// Package matrix provides dense score matrices with explicit undefined
// cells, block assembly, and the symmetrization policy.
package matrix

import (
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
)

// Dense is a row-major float64 matrix. Cells start undefined.
type Dense struct {
	rows  int
	cols  int
	cells []float64
}

// NewDense creates a rows x cols matrix with every cell undefined.
func NewDense(rows, cols int) *Dense {
	cells := make([]float64, rows*cols)
	undef := model.Undefined()
	for i := range cells {
		cells[i] = undef
	}
	return &Dense{rows: rows, cols: cols, cells: cells}
}

// Rows returns the row count.
func (d *Dense) Rows() int { return d.rows }

// Cols returns the column count.
func (d *Dense) Cols() int { return d.cols }

// At returns the cell value; undefined cells return the NaN sentinel.
func (d *Dense) At(i, j int) float64 {
	return d.cells[i*d.cols+j]
}

// Set stores a cell value.
func (d *Dense) Set(i, j int, v float64) {
	d.cells[i*d.cols+j] = v
}

// Defined reports whether the cell carries a real value.
func (d *Dense) Defined(i, j int) bool {
	return model.IsDefined(d.At(i, j))
}
