package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ltilab/internal/secondorder"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrNotFound = errors.New("storage: analysis not found")

type Store struct {
	baseDir string
	logger  *log.Logger
}

// New returns a store rooted at baseDir. A nil logger uses log.Default().
func New(baseDir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{baseDir: baseDir, logger: logger}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Metadata describes one saved analysis. Metrics holds only finite
// values; JSON cannot carry ±Inf, so those names go to Unbounded.
type Metadata struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Timestamp   time.Time          `json:"timestamp"`
	Numerator   []float64          `json:"numerator"`
	Denominator []float64          `json:"denominator"`
	Loop        string             `json:"loop,omitempty"`
	Input       string             `json:"input,omitempty"`
	Regime      string             `json:"regime,omitempty"`
	Wn          float64            `json:"wn,omitempty"`
	Zeta        float64            `json:"zeta,omitempty"`
	Gain        float64            `json:"gain,omitempty"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
	Unbounded   []string           `json:"unbounded,omitempty"`
	Samples     int                `json:"samples"`
}

// SetMetric records v under name, routing infinities to Unbounded.
// NaN is dropped.
func (m *Metadata) SetMetric(name string, v float64) {
	switch {
	case math.IsNaN(v):
	case math.IsInf(v, 0):
		m.Unbounded = append(m.Unbounded, name)
	default:
		if m.Metrics == nil {
			m.Metrics = make(map[string]float64)
		}
		m.Metrics[name] = v
	}
}

// FromCharacteristics builds the metadata of a second-order analysis.
func FromCharacteristics(num, den []float64, c secondorder.Characteristics) Metadata {
	m := Metadata{
		Kind:        "analysis",
		Numerator:   num,
		Denominator: den,
		Loop:        c.Loop.String(),
		Input:       c.Input.String(),
		Regime:      c.Regime.String(),
		Wn:          c.Params.Wn,
		Zeta:        c.Params.Zeta,
		Gain:        c.Params.Gain,
	}
	for _, q := range []struct {
		name string
		q    secondorder.Quantity
	}{
		{"wd", c.Wd},
		{"rise_time", c.RiseTime},
		{"peak_time", c.PeakTime},
		{"overshoot", c.Overshoot},
		{"settling_time_2", c.SettlingTime2},
		{"settling_time_5", c.SettlingTime5},
		{"steady_state_error", c.SteadyStateError},
		{"final_value", c.FinalValue},
		{"time_constant", c.TimeConstant},
		{"period", c.Period},
		{"decay_rate", c.DecayRate},
	} {
		if q.q.Defined {
			m.SetMetric(q.name, q.q.Value)
		}
	}
	return m
}

// Save writes meta and the samples (t, y) under a new ID and returns it.
func (s *Store) Save(meta Metadata, times, values []float64) (string, error) {
	if len(times) != len(values) {
		return "", fmt.Errorf("storage: %d times but %d values", len(times), len(values))
	}
	kind := meta.Kind
	if kind == "" {
		kind = "analysis"
	}
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", kind, now.UnixNano())
	meta.Kind = kind
	meta.Timestamp = now
	meta.Samples = len(times)

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(dir, samplesFile), times, values); err != nil {
		return "", err
	}

	s.logger.Debug("saved analysis", "id", meta.ID, "samples", meta.Samples, "dir", dir)
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeSamples(path string, times, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, times, values); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes a "time,y" header followed by one row per sample.
func WriteCSV(w io.Writer, times, values []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "y"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(values[i], 'g', 10, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns saved analyses, newest first. Unreadable entries are
// skipped and logged.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	runs := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Warn("skipping unreadable analysis", "id", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return &meta, nil
}

// LoadSamples reads the stored (t, y) samples of an analysis.
func (s *Store) LoadSamples(id string) (times, values []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, samplesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("storage: read samples of %s: %w", id, err)
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times = make([]float64, 0, len(records)-1)
	values = make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %s row %d: %w", id, i+1, err)
		}
		y, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %s row %d: %w", id, i+1, err)
		}
		times = append(times, t)
		values = append(values, y)
	}
	return times, values, nil
}

// ExportCSV copies the stored samples of id to w.
func (s *Store) ExportCSV(id string, w io.Writer) error {
	times, values, err := s.LoadSamples(id)
	if err != nil {
		return err
	}
	return WriteCSV(w, times, values)
}

func (s *Store) Delete(id string) error {
	dir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	s.logger.Info("deleting analysis", "id", id)
	return os.RemoveAll(dir)
}

// Export is the JSON document written by ExportJSON.
type Export struct {
	Metadata
	Times  []float64 `json:"times"`
	Values []float64 `json:"values"`
}

// ExportJSON writes the metadata and samples of id as one JSON document.
func (s *Store) ExportJSON(id string, w io.Writer) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	times, values, err := s.LoadSamples(id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Export{Metadata: *meta, Times: times, Values: values})
}
