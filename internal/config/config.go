// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Run modes.
const (
	ModeMatrix = "matrix" // all-vs-all similarity matrix
	ModeGroups = "groups" // merge + assignment + group aggregation
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Mode selects the pipeline: "matrix" or "groups".
	Mode string `koanf:"mode"`

	// MetricsAddr configures the Prometheus listen address, e.g. ":9090".
	// Empty disables the metrics listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// Workers sets the number of scoring workers (SPMD ranks).
	Workers int `koanf:"workers"`

	// RowBatch and ColBatch bound the dense score-block sizes.
	RowBatch int `koanf:"row_batch"`
	ColBatch int `koanf:"col_batch"`

	// MergeMode combines the two directional bitscores: avg, max or min.
	MergeMode string `koanf:"merge_mode"`

	// EMax keeps hits with evalue <= EMax.
	EMax float64 `koanf:"emax"`

	// LengthMin keeps hits with alignment length >= LengthMin.
	LengthMin float64 `koanf:"length_min"`

	// PairsThreshold is the minimum similarity written to the pairs report.
	PairsThreshold float64 `koanf:"pairs_threshold"`

	// CompoundsPath points at the name+fingerprint table (matrix mode).
	CompoundsPath string `koanf:"compounds_path"`

	// HitsDir holds directional hit tables named A_vs_B.tsv (groups mode).
	HitsDir string `koanf:"hits_dir"`

	// AlignBinary is the external aligner executable. Empty skips the
	// alignment stage and expects HitsDir to be pre-populated.
	AlignBinary string `koanf:"align_binary"`

	// QueryDir and DBDir hold per-group .faa proteomes and aligner
	// databases for the alignment stage.
	QueryDir string `koanf:"query_dir"`
	DBDir    string `koanf:"db_dir"`

	// GroupCountsPath points at the per-group entity-count table.
	GroupCountsPath string `koanf:"group_counts_path"`

	// OutDir receives all written artifacts.
	OutDir string `koanf:"out_dir"`

	// OutMatrix, OutPairs and OutGroupMatrix name output files inside
	// OutDir. A .gz suffix enables transparent compression. Empty
	// OutPairs disables the pairs report.
	OutMatrix      string `koanf:"out_matrix"`
	OutPairs       string `koanf:"out_pairs"`
	OutGroupMatrix string `koanf:"out_group_matrix"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:        "info",
		Mode:            ModeMatrix,
		MetricsAddr:     "",
		Workers:         runtime.NumCPU(),
		RowBatch:        2000,
		ColBatch:        2000,
		MergeMode:       "avg",
		EMax:            1e-3,
		LengthMin:       30,
		PairsThreshold:  0.85,
		CompoundsPath:   "compounds.tsv",
		HitsDir:         "hits",
		AlignBinary:     "",
		QueryDir:        "queries",
		DBDir:           "dbs",
		GroupCountsPath: "numberofseqs.txt",
		OutDir:          "out",
		OutMatrix:       "similarity_matrix.csv",
		OutPairs:        "",
		OutGroupMatrix:  "group_similarity_matrix.csv",
	}
	return c
}
