// Package aggregate reduces assigned entity-pair scores into group-level
// similarity values.
package aggregate

import (
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// SelfSimilarity is the fixed similarity of a group with itself, and the
// forced diagonal of the final matrix (percent-identity scale).
const SelfSimilarity = 100.0

// GroupPairSimilarity reduces the chosen records for one group pair into
// a single similarity value. nA and nB are the group entity counts;
// minMatches = min(nA, nB).
//
// When fewer records were chosen than minMatches, the shortfall is padded
// with the minimum chosen AvgPctIdentity: truly-unmatched entities are
// assumed at least as dissimilar as the worst matched pair, not maximally
// dissimilar. Records with an undefined AvgPctIdentity are ignored; if
// nothing defined remains the pair is unaggregatable and an error is
// returned rather than a NaN.
func GroupPairSimilarity(records []model.MergedRecord, nA, nB int) (float64, error) {
	if nA < 1 || nB < 1 {
		return 0, ErrMissingCounts
	}

	sum := 0.0
	minPident := 0.0
	observed := 0
	for _, r := range records {
		if !model.IsDefined(r.AvgPctIdentity) {
			continue
		}
		if observed == 0 || r.AvgPctIdentity < minPident {
			minPident = r.AvgPctIdentity
		}
		sum += r.AvgPctIdentity
		observed++
	}
	if observed == 0 {
		return 0, ErrNoObservations
	}

	minMatches := nA
	if nB < minMatches {
		minMatches = nB
	}
	if observed < minMatches {
		shortfall := minMatches - observed
		sum += float64(shortfall) * minPident
	}
	metrics.RecordGroupPairAggregated()
	return sum / float64(minMatches), nil
}
