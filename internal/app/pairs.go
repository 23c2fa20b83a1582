package service

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/scoring"
)

// GroupPair is one unordered group pair with its directional hit tables.
// A and B are in canonical (lexicographic) order; a missing direction is
// an empty path and merges as an empty table.
type GroupPair struct {
	A       string
	B       string
	Forward string // A -> B hit table
	Reverse string // B -> A hit table
}

// hitTableNames parses "Q_vs_T.tsv" (optionally .gz) into its query and
// target group names.
func hitTableNames(name string) (query, target string, ok bool) {
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".tsv")
	return strings.Cut(name, "_vs_")
}

// DiscoverGroupPairs walks hitsDir collecting directional hit tables named
// Q_vs_T.tsv into unordered pairs. Self tables are ignored; self similarity
// is fixed, never computed.
func DiscoverGroupPairs(hitsDir string) ([]GroupPair, error) {
	found := make(map[[2]string]*GroupPair)
	err := filepath.WalkDir(hitsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		q, t, ok := hitTableNames(d.Name())
		if !ok || q == "" || t == "" || q == t {
			return nil
		}
		a, b := q, t
		if a > b {
			a, b = b, a
		}
		key := [2]string{a, b}
		p, seen := found[key]
		if !seen {
			p = &GroupPair{A: a, B: b}
			found[key] = p
		}
		if q == a {
			p.Forward = path
		} else {
			p.Reverse = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]GroupPair, 0, len(found))
	for _, p := range found {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs, nil
}

// BuildAlignUnits enumerates ordered (query, target) alignment work units
// from the .faa files in queryDir. Each query group aligns against every
// other group's database.
func BuildAlignUnits(queryDir string) ([]scoring.AlignUnit, error) {
	entries, err := filepath.Glob(filepath.Join(queryDir, "*.faa"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(filepath.Base(e), ".faa"))
	}
	sort.Strings(names)

	var units []scoring.AlignUnit
	for _, q := range names {
		for _, t := range names {
			if q == t {
				continue
			}
			units = append(units, scoring.AlignUnit{QueryID: q, TargetID: t, Group: q})
		}
	}
	return units, nil
}
