// Package block computes dense sub-matrices of pairwise scores.
package block

import (
	"context"
	"errors"
	"time"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/matrix"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/scoring"
	"github.com/gnsrivastava/ProjectScripts/pkg/logger"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// Option applies a configuration option to the Computer.
type Option func(*Computer)

// WithLogger sets a custom logger for the computer.
func WithLogger(l logger.Logger) Option {
	return func(c *Computer) {
		if l != nil {
			c.logger = l
		}
	}
}

// Computer scores a batch of row entities against a batch of column
// entities, producing a dense block with explicit undefined cells.
type Computer struct {
	scorer scoring.Scorer
	logger logger.Logger
}

// NewComputer creates a block computer backed by the given scorer.
func NewComputer(scorer scoring.Scorer, opts ...Option) *Computer {
	c := &Computer{
		scorer: scorer,
		logger: logger.Get().Named("block"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Block computes the |rows| x |cols| score block. Rows or columns whose
// entities are invalid stay undefined without invoking the scorer; that
// short-circuit is an optimization, not a behavior change. Per-cell
// scorer failures leave the cell undefined and do not abort the block.
// Empty batches yield an empty block.
func (c *Computer) Block(ctx context.Context, rows, cols []model.Entity) (*matrix.Dense, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBlockComputed()
		metrics.RecordBlockLatency(float64(time.Since(start).Milliseconds()))
	}()

	out := matrix.NewDense(len(rows), len(cols))

	// Pre-collect valid column indices so invalid columns are skipped once
	// per block instead of once per row.
	validCols := make([]int, 0, len(cols))
	for j, col := range cols {
		if col.Valid() {
			validCols = append(validCols, j)
		}
	}

	scored := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !row.Valid() {
			continue
		}
		for _, j := range validCols {
			score, err := c.scorer.Score(ctx, row, cols[j])
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				if !errors.Is(err, scoring.ErrUndefined) {
					metrics.RecordScorerFailure()
					c.logger.Warn(ctx, "scorer failed; cell left undefined",
						logger.String("query", row.ID),
						logger.String("target", cols[j].ID),
						logger.Error(err),
					)
				}
				continue
			}
			out.Set(i, j, score)
			scored++
		}
	}
	metrics.RecordCellsScored(scored)
	return out, nil
}
