package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/edgesim/internal/dynamo"
)

const (
	seriesPrefix = "traj_"
	seriesExt    = ".dat"
)

// Store writes run artifacts below one explicit directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

// Init ensures the base directory exists. Calling it again is a no-op.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// SeriesPath returns where the series with the given label is stored.
func (s *Store) SeriesPath(label string) string {
	return filepath.Join(s.baseDir, seriesPrefix+label+seriesExt)
}

// WriteSeries stores one sample per line as "t x y" in scientific notation,
// t with three and x, y with five decimals in the mantissa. Non-finite
// values are written as NaN, +Inf or -Inf.
func (s *Store) WriteSeries(label string, tr *dynamo.Trajectory) (err error) {
	f, err := os.Create(s.SeriesPath(label))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	for _, smp := range tr.Samples {
		if _, err := fmt.Fprintf(w, "%.3e %.5e %.5e\n", smp.T, smp.X, smp.Y); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadSeries parses a file written by WriteSeries. Blank lines and lines
// starting with '#' are ignored.
func LoadSeries(path string) (*dynamo.Trajectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr := &dynamo.Trajectory{}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected 3 fields, got %d", path, line, len(fields))
		}

		var vals [3]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			vals[i] = v
		}
		tr.Samples = append(tr.Samples, dynamo.Sample{T: vals[0], X: vals[1], Y: vals[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return tr, nil
}

// ListSeries returns the series files present in the store.
func (s *Store) ListSeries() ([]string, error) {
	return filepath.Glob(filepath.Join(s.baseDir, seriesPrefix+"*"+seriesExt))
}
