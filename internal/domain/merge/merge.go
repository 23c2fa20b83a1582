// Package merge combines two one-directional hit tables into symmetric
// per-pair records.
package merge

import (
	"fmt"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// Mode selects how the two directional bitscores combine.
type Mode string

// Merge modes.
const (
	ModeAvg Mode = "avg"
	ModeMax Mode = "max"
	ModeMin Mode = "min"
)

// ParseMode validates a merge-mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAvg, ModeMax, ModeMin:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Filter drops records failing the thresholds: evalue > eMax or alignment
// length < lengthMin. An undefined threshold disables that filter.
// Filtering happens before merging, never after.
func Filter(records []model.HitRecord, eMax, lengthMin float64) []model.HitRecord {
	kept := make([]model.HitRecord, 0, len(records))
	for _, r := range records {
		if model.IsDefined(eMax) && r.EValue > eMax {
			continue
		}
		if model.IsDefined(lengthMin) && r.AlignLength < lengthMin {
			continue
		}
		kept = append(kept, r)
	}
	metrics.RecordRecordsFiltered(len(records) - len(kept))
	return kept
}

// Collapse keeps, for every (query, target) pair, only the record with the
// greatest bitscore. Ties break deterministically: first occurrence wins.
func Collapse(records []model.HitRecord) map[model.PairKey]model.HitRecord {
	best := make(map[model.PairKey]model.HitRecord, len(records))
	for _, r := range records {
		key := model.PairKey{Query: r.Query, Target: r.Target}
		prev, ok := best[key]
		if !ok || r.BitScore > prev.BitScore {
			best[key] = r
		}
	}
	metrics.RecordRecordsCollapsed(len(records) - len(best))
	return best
}

// Orient relabels a reverse-table record set into the canonical forward
// key space by swapping query and target, so both tables key on the same
// unordered pair.
func Orient(records map[model.PairKey]model.HitRecord) map[model.PairKey]model.HitRecord {
	out := make(map[model.PairKey]model.HitRecord, len(records))
	for key, r := range records {
		r.Query, r.Target = key.Target, key.Query
		out[key.Swap()] = r
	}
	return out
}

// Directional collapses, filters, and optionally orients one hit table
// into its keyed form, ready for Merge. Collapse runs before the filter,
// so a pair whose best record fails the thresholds is dropped outright.
// flip is true for the reverse (B->A) table.
func Directional(records []model.HitRecord, flip bool, eMax, lengthMin float64) map[model.PairKey]model.HitRecord {
	collapsed := Collapse(records)
	dropped := 0
	for key, r := range collapsed {
		if model.IsDefined(eMax) && r.EValue > eMax {
			delete(collapsed, key)
			dropped++
			continue
		}
		if model.IsDefined(lengthMin) && r.AlignLength < lengthMin {
			delete(collapsed, key)
			dropped++
		}
	}
	metrics.RecordRecordsFiltered(dropped)
	if flip {
		return Orient(collapsed)
	}
	return collapsed
}

// Merge combines the forward and reverse keyed tables into one symmetric
// record per pair. When both sides are present the combined score follows
// the mode and the winning side's length/evalue are carried; when only one
// side exists its bitscore is the combined score and the missing side's
// percent identity is explicitly undefined.
func Merge(fwd, rev map[model.PairKey]model.HitRecord, mode Mode) map[model.PairKey]model.MergedRecord {
	keys := make(map[model.PairKey]struct{}, len(fwd)+len(rev))
	for k := range fwd {
		keys[k] = struct{}{}
	}
	for k := range rev {
		keys[k] = struct{}{}
	}

	merged := make(map[model.PairKey]model.MergedRecord, len(keys))
	for k := range keys {
		f, fOK := fwd[k]
		r, rOK := rev[k]

		var rec model.MergedRecord
		switch {
		case fOK && rOK:
			chosen := f
			if mode == ModeMin {
				if r.BitScore < f.BitScore {
					chosen = r
				}
			} else if r.BitScore > f.BitScore {
				chosen = r
			}
			rec = fromHit(k, chosen)
			switch mode {
			case ModeMax:
				rec.Score = maxOf(f.BitScore, r.BitScore)
			case ModeMin:
				rec.Score = minOf(f.BitScore, r.BitScore)
			default:
				rec.Score = (f.BitScore + r.BitScore) / 2
			}
			rec.PctIdentityFwd = f.PctIdentity
			rec.PctIdentityRev = r.PctIdentity
		case fOK:
			rec = fromHit(k, f)
			rec.Score = f.BitScore
			rec.PctIdentityFwd = f.PctIdentity
			rec.PctIdentityRev = model.Undefined()
		default:
			rec = fromHit(k, r)
			rec.Score = r.BitScore
			rec.PctIdentityFwd = model.Undefined()
			rec.PctIdentityRev = r.PctIdentity
		}
		rec.AvgPctIdentity = avgTwo(rec.PctIdentityFwd, rec.PctIdentityRev)
		merged[k] = rec
	}
	metrics.RecordRecordsMerged(len(merged))
	return merged
}

// fromHit seeds a merged record with the winning side's auxiliary fields.
func fromHit(k model.PairKey, h model.HitRecord) model.MergedRecord {
	return model.MergedRecord{
		Query:       k.Query,
		Target:      k.Target,
		BitScore:    h.BitScore,
		AlignLength: h.AlignLength,
		EValue:      h.EValue,
	}
}

// avgTwo averages two values when both are defined; otherwise returns the
// defined one, else undefined. Never zero-fills.
func avgTwo(a, b float64) float64 {
	aOK, bOK := model.IsDefined(a), model.IsDefined(b)
	switch {
	case aOK && bOK:
		return (a + b) / 2
	case aOK:
		return a
	case bOK:
		return b
	default:
		return model.Undefined()
	}
}

func maxOf(a, b float64) float64 {
	if a >= b {
		return a
	}
	return b
}

func minOf(a, b float64) float64 {
	if a <= b {
		return a
	}
	return b
}
