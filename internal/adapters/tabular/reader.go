// Package tabular reads and writes the flat tabular formats the pipeline
// exchanges with the outside world: alignment hit tables, compound lists,
// group count files, score matrices and assignment reports. Paths ending
// in .gz are compressed transparently in both directions.
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/scoring"
)

// outfmt-6 column positions for the subset of fields the pipeline uses.
const (
	colQuery    = 0
	colTarget   = 1
	colPident   = 2
	colLength   = 3
	colEValue   = 10
	colBitScore = 11

	hitTableColumns = 12
)

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}

func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzipReadCloser{Reader: gz, f: f}, nil
}

// ReadHitTable loads a tab-separated outfmt-6 alignment table. Comment
// lines and rows whose length, evalue or bitscore fail numeric coercion
// are dropped silently; a row whose percent identity fails coercion is
// kept with the identity undefined.
func ReadHitTable(path string) ([]model.HitRecord, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []model.HitRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < hitTableColumns {
			continue
		}
		length, err := strconv.ParseFloat(fields[colLength], 64)
		if err != nil {
			continue
		}
		evalue, err := strconv.ParseFloat(fields[colEValue], 64)
		if err != nil {
			continue
		}
		bitscore, err := strconv.ParseFloat(fields[colBitScore], 64)
		if err != nil {
			continue
		}
		pident, err := strconv.ParseFloat(fields[colPident], 64)
		if err != nil {
			pident = model.Undefined()
		}
		records = append(records, model.HitRecord{
			Query:       fields[colQuery],
			Target:      fields[colTarget],
			PctIdentity: pident,
			AlignLength: length,
			EValue:      evalue,
			BitScore:    bitscore,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return records, nil
}

var (
	nameHeaders        = []string{"name", "compound", "id", "entity"}
	fingerprintHeaders = []string{"fingerprint", "fp", "morgan_fp"}
)

func findColumn(header []string, candidates []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if h == c {
				return i
			}
		}
	}
	return -1
}

func splitRow(line string, comma rune) []string {
	fields := strings.Split(line, string(comma))
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// ReadCompounds loads a delimited compound list carrying a name column
// and a hex-encoded fingerprint column, located by header. The delimiter
// is detected from the header line (tab wins over comma). Entities whose
// fingerprint fails to decode are kept with a nil fingerprint so their
// rows and columns stay undefined in the output matrix.
func ReadCompounds(path string) ([]model.Entity, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	headerLine := sc.Text()
	comma := ','
	if strings.ContainsRune(headerLine, '\t') {
		comma = '\t'
	}
	header := splitRow(headerLine, comma)
	nameIdx := findColumn(header, nameHeaders)
	fpIdx := findColumn(header, fingerprintHeaders)
	if nameIdx < 0 || fpIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, path)
	}

	var entities []model.Entity
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitRow(line, comma)
		if len(fields) <= nameIdx || len(fields) <= fpIdx || fields[nameIdx] == "" {
			continue
		}
		fp, _ := scoring.ParseFingerprint(fields[fpIdx])
		entities = append(entities, model.Entity{ID: fields[nameIdx], Fingerprint: fp})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return entities, nil
}

// ReadGroupCounts loads a group size file of "Name:Count" lines. Rows
// whose count fails coercion are dropped silently.
func ReadGroupCounts(path string) (map[string]int, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	counts := make(map[string]int)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		counts[strings.TrimSpace(name)] = n
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return counts, nil
}
