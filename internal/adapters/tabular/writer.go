package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/gnsrivastava/ProjectScripts/internal/domain/matrix"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/model"
)

type gzipWriteCloser struct {
	*gzip.Writer
	f *os.File
}

func (g *gzipWriteCloser) Close() error {
	gzErr := g.Writer.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}

func createWriter(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipWriteCloser{Writer: gzip.NewWriter(f), f: f}, nil
}

// formatCell renders a score cell; undefined values become empty cells,
// never zeros.
func formatCell(v float64) string {
	if !model.IsDefined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteMatrix writes a labeled score matrix as CSV: a header row of
// names, then one row per entity with its name in the first column.
func WriteMatrix(path string, names []string, m *matrix.Dense) error {
	out, err := createWriter(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := append([]string{""}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, m.Cols()+1)
	for i := 0; i < m.Rows(); i++ {
		row[0] = names[i]
		for j := 0; j < m.Cols(); j++ {
			row[j+1] = formatCell(m.At(i, j))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAssignments writes the chosen one-to-one pairs as a tab-separated
// table, sorted by query for stable output.
func WriteAssignments(path string, records []model.MergedRecord) error {
	out, err := createWriter(path)
	if err != nil {
		return err
	}
	defer out.Close()

	sorted := make([]model.MergedRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Query < sorted[j].Query
	})

	w := csv.NewWriter(out)
	w.Comma = '\t'
	if err := w.Write([]string{
		"qseqid", "sseqid", "bitscore", "score",
		"pident_a2b", "pident_b2a", "avg_pident", "length", "evalue",
	}); err != nil {
		return err
	}
	for _, rec := range sorted {
		if err := w.Write([]string{
			rec.Query,
			rec.Target,
			formatCell(rec.BitScore),
			formatCell(rec.Score),
			formatCell(rec.PctIdentityFwd),
			formatCell(rec.PctIdentityRev),
			formatCell(rec.AvgPctIdentity),
			formatCell(rec.AlignLength),
			formatCell(rec.EValue),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Summary describes one group-pair assignment run for the report file.
type Summary struct {
	RunID       string
	Queries     int
	Targets     int
	Assignments int
	MaxScore    float64
	Mode        string
	EMax        float64
	LengthMin   float64
	Transposed  bool
}

// WriteSummary writes the run report as key: value text lines.
func WriteSummary(path string, s Summary) error {
	out, err := createWriter(path)
	if err != nil {
		return err
	}
	defer out.Close()

	lines := []string{
		fmt.Sprintf("run_id: %s", s.RunID),
		fmt.Sprintf("unique_queries: %d", s.Queries),
		fmt.Sprintf("unique_targets: %d", s.Targets),
		fmt.Sprintf("assignments: %d", s.Assignments),
		fmt.Sprintf("max_observed_score: %s", formatCell(s.MaxScore)),
		fmt.Sprintf("merge_mode: %s", s.Mode),
		fmt.Sprintf("evalue_max: %g", s.EMax),
		fmt.Sprintf("length_min: %g", s.LengthMin),
		fmt.Sprintf("transposed: %t", s.Transposed),
	}
	_, err = io.WriteString(out, strings.Join(lines, "\n")+"\n")
	return err
}

// WritePairs writes the thresholded upper-triangle pair listing as CSV.
func WritePairs(path string, pairs []model.PairScore) error {
	out, err := createWriter(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"i", "j", "name_i", "name_j", "score"}); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := w.Write([]string{
			strconv.Itoa(p.I),
			strconv.Itoa(p.J),
			p.NameI,
			p.NameJ,
			strconv.FormatFloat(p.Score, 'f', 6, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
