// Package model contains domain models passed between pipeline stages.
package model

import "math"

// Undefined returns the sentinel for a missing or unscorable value.
// Every stage propagates it explicitly; nothing may coerce it to zero.
func Undefined() float64 {
	return math.NaN()
}

// IsDefined reports whether v carries a real value.
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}

// Fingerprint is a fixed-width bitset feature payload for an entity.
type Fingerprint struct {
	Words []uint64
}

// Entity represents a single scorable item (protein, molecule).
// A nil Fingerprint marks an entity whose feature payload failed to
// resolve; such entities produce undefined scores everywhere.
type Entity struct {
	ID          string
	Group       string
	Fingerprint *Fingerprint
}

// Valid reports whether the entity's feature payload resolved.
func (e Entity) Valid() bool {
	return e.Fingerprint != nil
}

// HitRecord is one directional alignment result row (outfmt-6 subset).
type HitRecord struct {
	Query       string
	Target      string
	PctIdentity float64 // may be undefined; coercion failures keep the row
	AlignLength float64
	EValue      float64
	BitScore    float64
}

// PairKey is the explicit ordered-pair key used by collapse and merge.
type PairKey struct {
	Query  string
	Target string
}

// Swap returns the key with query and target exchanged, relabeling a
// reverse-table pair into the canonical forward key space.
func (k PairKey) Swap() PairKey {
	return PairKey{Query: k.Target, Target: k.Query}
}

// MergedRecord is the symmetric combination of a forward and/or reverse
// HitRecord for one unordered entity pair. Missing directional values are
// undefined, never zero-filled.
type MergedRecord struct {
	Query          string
	Target         string
	BitScore       float64 // winning side's raw bitscore
	Score          float64 // combined score per merge mode
	PctIdentityFwd float64
	PctIdentityRev float64
	AvgPctIdentity float64
	AlignLength    float64 // winning side's alignment length
	EValue         float64 // winning side's evalue
}

// PairScore is one off-diagonal similarity cell reported by the pairs
// report (thresholded upper-triangle listing).
type PairScore struct {
	I     int
	J     int
	NameI string
	NameJ string
	Score float64
}
