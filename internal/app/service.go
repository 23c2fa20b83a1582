// Package service orchestrates the similarity pipelines: the all-vs-all
// entity matrix and the group merge/assignment/aggregation run.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/gnsrivastava/ProjectScripts/internal/adapters/tabular"
	"github.com/gnsrivastava/ProjectScripts/internal/coordinator"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/aggregate"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/assign"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/block"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/matrix"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/merge"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/partition"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/scoring"
	"github.com/gnsrivastava/ProjectScripts/pkg/logger"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// Service runs the scoring pipelines over an in-process worker group.
type Service struct {
	// Configuration
	workers        int
	rowBatch       int
	colBatch       int
	mergeMode      merge.Mode
	eMax           float64
	lengthMin      float64
	pairsThreshold float64
	alignBinary    string

	// External capabilities
	scorer scoring.Scorer
	solver assign.Solver

	adapter *assign.Adapter
	runID   string
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker ranks.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workers = count
		}
	}
}

// WithBatchSizes bounds the dense score-block dimensions.
func WithBatchSizes(rows, cols int) Option {
	return func(s *Service) {
		if rows > 0 {
			s.rowBatch = rows
		}
		if cols > 0 {
			s.colBatch = cols
		}
	}
}

// WithMergeMode selects how directional bitscores combine.
func WithMergeMode(mode merge.Mode) Option {
	return func(s *Service) {
		s.mergeMode = mode
	}
}

// WithFilters sets the evalue and alignment-length thresholds. An
// undefined value disables that filter.
func WithFilters(eMax, lengthMin float64) Option {
	return func(s *Service) {
		s.eMax = eMax
		s.lengthMin = lengthMin
	}
}

// WithPairsThreshold sets the minimum similarity for the pairs report.
func WithPairsThreshold(threshold float64) Option {
	return func(s *Service) {
		s.pairsThreshold = threshold
	}
}

// WithAlignerBinary sets the external aligner executable.
func WithAlignerBinary(bin string) Option {
	return func(s *Service) {
		s.alignBinary = bin
	}
}

// WithScorer sets the pairwise similarity capability.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithSolver sets the assignment solver capability.
func WithSolver(solver assign.Solver) Option {
	return func(s *Service) {
		if solver != nil {
			s.solver = solver
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workers:        runtime.NumCPU(),
		rowBatch:       2000,
		colBatch:       2000,
		mergeMode:      merge.ModeAvg,
		eMax:           model.Undefined(),
		lengthMin:      model.Undefined(),
		pairsThreshold: 0.85,
		scorer:         scoring.NewTanimotoScorer(),
		solver:         assign.NewHungarian(),
		runID:          uuid.NewString(),
		logger:         logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.adapter = assign.NewAdapter(s.solver, assign.WithAdapterLogger(s.logger.Named("assign")))
	metrics.UpdateWorkerCount(s.workers)
	return s
}

// maxScore is the scorer's self-similarity scale, used for the matrix
// diagonal.
func (s *Service) maxScore() float64 {
	if m, ok := s.scorer.(interface{ MaxScore() float64 }); ok {
		return m.MaxScore()
	}
	return 1.0
}

// rowBlock is one rank's contribution to the global matrix: a full-width
// block starting at rowStart.
type rowBlock struct {
	rowStart int
	block    *matrix.Dense
}

// RunSimilarityMatrix computes the symmetric all-vs-all score matrix.
// Row batches spread across ranks round-robin; each rank scores its rows
// against every column batch, the root gathers and assembles the blocks,
// symmetrizes, and writes the outputs. Empty output paths skip that file.
func (s *Service) RunSimilarityMatrix(ctx context.Context, entities []model.Entity, outMatrix, outPairs string) (*matrix.Dense, error) {
	if len(entities) == 0 {
		return nil, ErrNoEntities
	}

	var result *matrix.Dense
	err := coordinator.Run(ctx, s.workers, func(ctx context.Context, c coordinator.Coordinator) error {
		var payload any
		if c.Rank() == coordinator.Root {
			payload = entities
		}
		bcast, err := c.Broadcast(ctx, payload)
		if err != nil {
			return err
		}
		ents := bcast.([]model.Entity)
		n := len(ents)

		rowSpans, err := partition.Batches(n, s.rowBatch)
		if err != nil {
			return err
		}
		colSpans, err := partition.Batches(n, s.colBatch)
		if err != nil {
			return err
		}
		assigned, err := partition.RoundRobin(len(rowSpans), c.Size())
		if err != nil {
			return err
		}
		if c.Rank() == coordinator.Root {
			metrics.UpdateTaskCount(len(rowSpans))
		}

		computer := block.NewComputer(s.scorer, block.WithLogger(s.logger.Named("block")))
		var mine []rowBlock
		for _, b := range assigned[c.Rank()] {
			span := rowSpans[b]
			rows := ents[span.Start:span.End]
			full := matrix.NewDense(span.Len(), n)
			for _, cs := range colSpans {
				blk, err := computer.Block(ctx, rows, ents[cs.Start:cs.End])
				if err != nil {
					return err
				}
				for i := 0; i < blk.Rows(); i++ {
					for j := 0; j < blk.Cols(); j++ {
						full.Set(i, cs.Start+j, blk.At(i, j))
					}
				}
			}
			mine = append(mine, rowBlock{rowStart: span.Start, block: full})
		}

		gathered, err := c.Gather(ctx, mine)
		if err != nil {
			return err
		}
		if err := c.Barrier(ctx); err != nil {
			return err
		}
		if c.Rank() != coordinator.Root {
			return nil
		}

		asm := matrix.NewAssembler(n)
		for _, g := range gathered {
			for _, rb := range g.([]rowBlock) {
				if err := asm.Place(rb.rowStart, rb.block); err != nil {
					return err
				}
			}
		}
		m := asm.Matrix()

		valid := make([]bool, n)
		for i, e := range ents {
			valid[i] = e.Valid()
		}
		if err := matrix.Symmetrize(m, valid, s.maxScore()); err != nil {
			return err
		}

		if outMatrix != "" {
			names := make([]string, n)
			for i, e := range ents {
				names[i] = e.ID
			}
			if err := tabular.WriteMatrix(outMatrix, names, m); err != nil {
				return err
			}
		}
		if outPairs != "" {
			if err := tabular.WritePairs(outPairs, thresholdedPairs(ents, m, s.pairsThreshold)); err != nil {
				return err
			}
		}
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "similarity matrix computed",
		logger.String("runID", s.runID),
		logger.Int("entities", len(entities)),
		logger.Int("workers", s.workers),
	)
	return result, nil
}

// thresholdedPairs lists upper-triangle cells at or above the threshold.
func thresholdedPairs(ents []model.Entity, m *matrix.Dense, threshold float64) []model.PairScore {
	var pairs []model.PairScore
	for i := 0; i < m.Rows(); i++ {
		for j := i + 1; j < m.Cols(); j++ {
			v := m.At(i, j)
			if model.IsDefined(v) && v >= threshold {
				pairs = append(pairs, model.PairScore{
					I: i, J: j,
					NameI: ents[i].ID, NameJ: ents[j].ID,
					Score: v,
				})
			}
		}
	}
	return pairs
}

// RunAlignments spreads the pairwise alignment work units across ranks.
// Per-unit failures are logged and skipped; the missing hit table is
// handled downstream as an empty direction.
func (s *Service) RunAlignments(ctx context.Context, queryDir, dbDir, hitsDir string) error {
	units, err := BuildAlignUnits(queryDir)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return nil
	}
	spans, err := partition.Contiguous(len(units), s.workers)
	if err != nil {
		return err
	}
	metrics.UpdateTaskCount(len(units))

	aligner := scoring.NewAligner(queryDir, dbDir, hitsDir,
		scoring.WithAlignerBinary(s.alignBinary),
		scoring.WithAlignerLogger(s.logger.Named("aligner")),
	)
	return coordinator.Run(ctx, s.workers, func(ctx context.Context, c coordinator.Coordinator) error {
		var slices []any
		if c.Rank() == coordinator.Root {
			slices = make([]any, c.Size())
			for r, span := range spans {
				slices[r] = units[span.Start:span.End]
			}
		}
		payload, err := c.Scatter(ctx, slices)
		if err != nil {
			return err
		}
		for _, u := range payload.([]scoring.AlignUnit) {
			if _, err := aligner.Align(ctx, u); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn(ctx, "alignment failed; hit table skipped",
					logger.String("query", u.QueryID),
					logger.String("target", u.TargetID),
					logger.Error(err),
				)
			}
		}
		return c.Barrier(ctx)
	})
}

// pairOutcome is one rank's verdict on a group pair: a similarity value
// or a skip. Skipped pairs still register their groups so the final
// matrix reserves their rows.
type pairOutcome struct {
	a, b string
	sim  float64
	ok   bool
}

// RunGroupAggregation runs the full group pipeline: discover directional
// hit-table pairs under hitsDir, scatter them across ranks, merge and
// assign each pair, aggregate the chosen records into one value per pair,
// and assemble the group similarity matrix on the root. Pairs that fail
// are skipped with a warning and left to mirror-fill or stay undefined.
func (s *Service) RunGroupAggregation(ctx context.Context, hitsDir, countsPath, outGroupMatrix, outDir string) (*aggregate.GroupMatrix, error) {
	counts, err := tabular.ReadGroupCounts(countsPath)
	if err != nil {
		return nil, err
	}
	pairs, err := DiscoverGroupPairs(hitsDir)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, ErrNoGroupPairs
	}
	spans, err := partition.Contiguous(len(pairs), s.workers)
	if err != nil {
		return nil, err
	}
	metrics.UpdateTaskCount(len(pairs))

	var gm *aggregate.GroupMatrix
	err = coordinator.Run(ctx, s.workers, func(ctx context.Context, c coordinator.Coordinator) error {
		var payload any
		if c.Rank() == coordinator.Root {
			payload = counts
		}
		bcast, err := c.Broadcast(ctx, payload)
		if err != nil {
			return err
		}
		groupCounts := bcast.(map[string]int)

		var slices []any
		if c.Rank() == coordinator.Root {
			slices = make([]any, c.Size())
			for r, span := range spans {
				slices[r] = pairs[span.Start:span.End]
			}
		}
		minePayload, err := c.Scatter(ctx, slices)
		if err != nil {
			return err
		}

		mine := minePayload.([]GroupPair)
		outcomes := make([]pairOutcome, 0, len(mine))
		for _, p := range mine {
			sim, err := s.processGroupPair(ctx, p, groupCounts, outDir)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn(ctx, "group pair skipped",
					logger.String("a", p.A),
					logger.String("b", p.B),
					logger.Error(err),
				)
				metrics.RecordGroupPairSkipped()
				outcomes = append(outcomes, pairOutcome{a: p.A, b: p.B})
				continue
			}
			outcomes = append(outcomes, pairOutcome{a: p.A, b: p.B, sim: sim, ok: true})
		}

		gathered, err := c.Gather(ctx, outcomes)
		if err != nil {
			return err
		}
		if c.Rank() != coordinator.Root {
			return nil
		}

		builder := aggregate.NewBuilder()
		for g := range groupCounts {
			builder.AddGroup(g)
		}
		for _, raw := range gathered {
			for _, o := range raw.([]pairOutcome) {
				if !o.ok {
					builder.AddGroup(o.a)
					builder.AddGroup(o.b)
					continue
				}
				builder.Add(o.a, o.b, o.sim)
			}
		}
		gm = builder.Finalize()
		if outGroupMatrix != "" {
			return tabular.WriteMatrix(outGroupMatrix, gm.Names, gm.M)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "group matrix assembled",
		logger.String("runID", s.runID),
		logger.Int("groups", len(gm.Names)),
		logger.Int("pairs", len(pairs)),
	)
	return gm, nil
}

// processGroupPair merges one pair's directional tables, solves the
// assignment, writes the per-pair artifacts, and reduces the chosen
// records to a single similarity value.
func (s *Service) processGroupPair(ctx context.Context, p GroupPair, counts map[string]int, outDir string) (float64, error) {
	nA, okA := counts[p.A]
	nB, okB := counts[p.B]
	if !okA || !okB {
		return 0, fmt.Errorf("%w: %s vs %s", aggregate.ErrMissingCounts, p.A, p.B)
	}

	fwdRecs, err := readDirection(p.Forward)
	if err != nil {
		return 0, err
	}
	revRecs, err := readDirection(p.Reverse)
	if err != nil {
		return 0, err
	}

	fwd := merge.Directional(fwdRecs, false, s.eMax, s.lengthMin)
	rev := merge.Directional(revRecs, true, s.eMax, s.lengthMin)
	merged := merge.Merge(fwd, rev, s.mergeMode)

	res, err := s.adapter.Assign(ctx, merged)
	if err != nil {
		return 0, err
	}

	if outDir != "" {
		base := p.A + "_vs_" + p.B
		if err := tabular.WriteAssignments(filepath.Join(outDir, base+"_assignments.tsv"), res.Records); err != nil {
			return 0, err
		}
		summary := tabular.Summary{
			RunID:       s.runID,
			Queries:     len(res.Queries),
			Targets:     len(res.Targets),
			Assignments: len(res.Records),
			MaxScore:    res.MaxScore,
			Mode:        string(s.mergeMode),
			EMax:        s.eMax,
			LengthMin:   s.lengthMin,
			Transposed:  res.Transposed,
		}
		if err := tabular.WriteSummary(filepath.Join(outDir, base+"_summary.txt"), summary); err != nil {
			return 0, err
		}
	}

	return aggregate.GroupPairSimilarity(res.Records, nA, nB)
}

// readDirection loads one hit table; an absent direction is an empty
// table, not an error.
func readDirection(path string) ([]model.HitRecord, error) {
	if path == "" {
		return nil, nil
	}
	records, err := tabular.ReadHitTable(path)
	if err != nil {
		return nil, err
	}
	return records, nil
}
