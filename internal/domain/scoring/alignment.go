package scoring

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gnsrivastava/ProjectScripts/pkg/logger"
)

// Default aligner configuration constants.
const (
	defaultAlignerBinary = "diamond"
	defaultEValueCap     = "1e6"
	defaultMaxTargets    = "1"
)

// AlignUnit is one (query, target) work unit for the external aligner.
// Group names the query's group and determines the output subdirectory.
type AlignUnit struct {
	QueryID  string
	TargetID string
	Group    string
}

// AlignerOption applies a configuration option to the Aligner.
type AlignerOption func(*Aligner)

// WithAlignerBinary sets the aligner executable path.
func WithAlignerBinary(bin string) AlignerOption {
	return func(a *Aligner) {
		if bin != "" {
			a.binary = bin
		}
	}
}

// WithAlignerLogger sets a custom logger for the aligner.
func WithAlignerLogger(l logger.Logger) AlignerOption {
	return func(a *Aligner) {
		if l != nil {
			a.logger = l
		}
	}
}

// Aligner shells out to an external sequence aligner, one invocation per
// (query, target) work unit, producing a tabular hit file per unit.
// Invocations carry no shared mutable state beyond filesystem output
// paths; output directory creation is idempotent because multiple workers
// may create the same group directory concurrently.
type Aligner struct {
	binary   string
	queryDir string
	dbDir    string
	outDir   string
	logger   logger.Logger
}

// NewAligner creates an aligner rooted at the given query, database and
// output directories.
func NewAligner(queryDir, dbDir, outDir string, opts ...AlignerOption) *Aligner {
	a := &Aligner{
		binary:   defaultAlignerBinary,
		queryDir: queryDir,
		dbDir:    dbDir,
		outDir:   outDir,
		logger:   logger.Get().Named("aligner"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Align runs the aligner for one work unit and returns the hit file path.
// A non-zero exit or missing output is a per-unit failure: the caller logs
// it and continues the run.
func (a *Aligner) Align(ctx context.Context, unit AlignUnit) (string, error) {
	groupDir := filepath.Join(a.outDir, unit.Group)
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %w", ErrAlignerFailed, err)
	}
	outPath := filepath.Join(groupDir, unit.QueryID+"_vs_"+unit.TargetID+".tsv")

	cmd := exec.CommandContext(ctx, a.binary, "blastp",
		"-q", filepath.Join(a.queryDir, unit.QueryID+".faa"),
		"-d", filepath.Join(a.dbDir, unit.TargetID),
		"-o", outPath,
		"-f", "6",
		"-k", defaultMaxTargets,
		"--evalue", defaultEValueCap,
	)

	a.logger.Debug(ctx, "submitting alignment",
		logger.String("query", unit.QueryID),
		logger.String("target", unit.TargetID),
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%w: %s vs %s: %w: %s",
			ErrAlignerFailed, unit.QueryID, unit.TargetID, err, string(out))
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("%w: %s vs %s: missing output: %w",
			ErrAlignerFailed, unit.QueryID, unit.TargetID, err)
	}
	return outPath, nil
}
