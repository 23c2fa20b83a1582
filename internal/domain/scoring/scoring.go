// Package scoring defines the contract for computing pairwise similarity
// between entities.
package scoring

import (
	"context"
	"math/bits"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
)

// Scorer computes a scalar similarity between two entities. Implementations
// return ErrUndefined when either side's feature payload cannot be resolved;
// callers must propagate the undefined marker, never substitute zero.
type Scorer interface {
	// Score computes a similarity, honoring ctx for cancellation.
	Score(ctx context.Context, query, target model.Entity) (float64, error)
}

// Option applies a configuration option to the TanimotoScorer.
type Option func(*TanimotoScorer)

// TanimotoScorer implements Scorer over bitset fingerprints. Scores fall
// in [0, 1]; two empty fingerprints score zero.
type TanimotoScorer struct{}

// NewTanimotoScorer creates a fingerprint similarity scorer.
func NewTanimotoScorer(opts ...Option) *TanimotoScorer {
	s := &TanimotoScorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the Tanimoto coefficient |A∩B| / |A∪B| of the two
// entities' fingerprints.
func (s *TanimotoScorer) Score(ctx context.Context, query, target model.Entity) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if !query.Valid() || !target.Valid() {
		return 0, ErrUndefined
	}

	a, b := query.Fingerprint.Words, target.Fingerprint.Words
	var inter, union int
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var wa, wb uint64
		if i < len(a) {
			wa = a[i]
		}
		if i < len(b) {
			wb = b[i]
		}
		inter += bits.OnesCount64(wa & wb)
		union += bits.OnesCount64(wa | wb)
	}
	if union == 0 {
		return 0, nil
	}
	return float64(inter) / float64(union), nil
}

// MaxScore is the self-similarity of a valid entity on the Tanimoto scale.
func (s *TanimotoScorer) MaxScore() float64 {
	return 1.0
}
