package aggregate

import (
	"sort"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/matrix"
)

// GroupMatrix is the final group x group similarity matrix with its
// sorted row/column labels.
type GroupMatrix struct {
	Names []string
	M     *matrix.Dense
}

// Builder accumulates per-group-pair similarity values and assembles the
// final matrix. Pairs never added stay undefined until symmetrization
// can mirror-fill them.
type Builder struct {
	groups map[string]struct{}
	vals   map[[2]string]float64
}

// NewBuilder creates an empty group-matrix builder.
func NewBuilder() *Builder {
	return &Builder{
		groups: make(map[string]struct{}),
		vals:   make(map[[2]string]float64),
	}
}

// AddGroup registers a group without a value, reserving its row/column.
func (b *Builder) AddGroup(name string) {
	b.groups[name] = struct{}{}
}

// Add records the similarity for the ordered pair (a, b). Identical
// groups are pinned to SelfSimilarity regardless of the given value.
func (b *Builder) Add(a, bName string, similarity float64) {
	b.groups[a] = struct{}{}
	b.groups[bName] = struct{}{}
	if a == bName {
		similarity = SelfSimilarity
	}
	b.vals[[2]string{a, bName}] = similarity
}

// Finalize assembles the matrix: fill recorded cells, mirror-fill any
// undefined (A,B) from a defined (B,A), then force every diagonal cell
// to SelfSimilarity regardless of prior computation.
func (b *Builder) Finalize() *GroupMatrix {
	names := make([]string, 0, len(b.groups))
	for g := range b.groups {
		names = append(names, g)
	}
	sort.Strings(names)

	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}

	m := matrix.NewDense(len(names), len(names))
	for pair, v := range b.vals {
		m.Set(idx[pair[0]], idx[pair[1]], v)
	}

	for i := range names {
		for j := i + 1; j < len(names); j++ {
			switch {
			case m.Defined(i, j) && !m.Defined(j, i):
				m.Set(j, i, m.At(i, j))
			case !m.Defined(i, j) && m.Defined(j, i):
				m.Set(i, j, m.At(j, i))
			}
		}
	}
	for i := range names {
		m.Set(i, i, SelfSimilarity)
	}
	return &GroupMatrix{Names: names, M: m}
}
