package scoring

import (
	"encoding/hex"
	"fmt"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
)

// ParseFingerprint decodes a hex-encoded bitset into a Fingerprint.
// The input is the externally generated feature payload (e.g. a Morgan
// fingerprint exported as hex); parse failures mark the entity invalid.
func ParseFingerprint(s string) (*model.Fingerprint, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty fingerprint", ErrUndefined)
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndefined, err)
	}

	words := make([]uint64, (len(raw)+7)/8)
	for i, b := range raw {
		words[i/8] |= uint64(b) << (8 * (i % 8))
	}
	return &model.Fingerprint{Words: words}, nil
}
