package assign

import (
	"context"
	"sort"
	"time"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/pkg/logger"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// Result carries the chosen assignment and the facts the run summary
// reports about how it was obtained.
type Result struct {
	Records    []model.MergedRecord // chosen pairs backed by observed data
	Queries    []string             // sorted unique query ids
	Targets    []string             // sorted unique target ids
	MaxScore   float64              // maximum observed combined score
	Transposed bool                 // whether the cost matrix was transposed
}

// AdapterOption applies a configuration option to the Adapter.
type AdapterOption func(*Adapter)

// WithAdapterLogger sets a custom logger for the adapter.
func WithAdapterLogger(l logger.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// Adapter builds the solver's input from merged records and maps its
// output back to entity identifiers.
type Adapter struct {
	solver Solver
	logger logger.Logger
}

// NewAdapter creates an adapter over the given solver.
func NewAdapter(solver Solver, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		solver: solver,
		logger: logger.Get().Named("assign"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assign builds the cost matrix, solves it, and reports only pairs backed
// by an observed record.
//
// Cost is maxObservedScore - score; cells with no record cost
// maxObservedScore, making them least preferred. When there are more
// queries than targets the matrix is transposed before solving and the
// returned indices are swapped back, because the solver guarantees an
// assignment of every row only when rows <= columns.
func (a *Adapter) Assign(ctx context.Context, merged map[model.PairKey]model.MergedRecord) (*Result, error) {
	if len(merged) == 0 {
		return nil, ErrNoRecords
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	querySet := make(map[string]struct{})
	targetSet := make(map[string]struct{})
	for k := range merged {
		querySet[k.Query] = struct{}{}
		targetSet[k.Target] = struct{}{}
	}
	queries := sortedKeys(querySet)
	targets := sortedKeys(targetSet)

	qi := make(map[string]int, len(queries))
	for i, q := range queries {
		qi[q] = i
	}
	ti := make(map[string]int, len(targets))
	for i, t := range targets {
		ti[t] = i
	}

	// Observed cells and the maximum score across this group pair.
	type cellKey struct{ i, j int }
	cells := make(map[cellKey]model.MergedRecord, len(merged))
	maxScore := 0.0
	for k, rec := range merged {
		cells[cellKey{qi[k.Query], ti[k.Target]}] = rec
		if rec.Score > maxScore {
			maxScore = rec.Score
		}
	}

	nq, nt := len(queries), len(targets)
	cost := make([][]float64, nq)
	for i := range cost {
		cost[i] = make([]float64, nt)
		for j := range cost[i] {
			cost[i][j] = maxScore // unobserved: least preferred
		}
	}
	for ck, rec := range cells {
		cost[ck.i][ck.j] = maxScore - rec.Score
	}

	transposed := false
	if nq > nt {
		cost = transpose(cost)
		transposed = true
		metrics.RecordMatrixTransposed()
	}

	start := time.Now()
	rows, cols, err := a.solver.Solve(cost)
	metrics.RecordSolveLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Queries:    queries,
		Targets:    targets,
		MaxScore:   maxScore,
		Transposed: transposed,
	}
	dropped := 0
	for idx := range rows {
		i, j := rows[idx], cols[idx]
		if transposed {
			i, j = j, i
		}
		rec, ok := cells[cellKey{i, j}]
		if !ok {
			// Forced pairing against a synthetic max-cost cell.
			dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	metrics.RecordAssignmentsChosen(len(res.Records))
	metrics.RecordAssignmentsDropped(dropped)

	a.logger.Debug(ctx, "assignment solved",
		logger.Int("queries", nq),
		logger.Int("targets", nt),
		logger.Int("chosen", len(res.Records)),
		logger.Bool("transposed", transposed),
	)
	return res, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func transpose(cost [][]float64) [][]float64 {
	if len(cost) == 0 {
		return nil
	}
	out := make([][]float64, len(cost[0]))
	for j := range out {
		out[j] = make([]float64, len(cost))
		for i := range cost {
			out[j][i] = cost[i][j]
		}
	}
	return out
}
