package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "energy.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Steps        int                `json:"steps"`
	Dt           float64            `json:"dt"`
	SampleEvery  int                `json:"sample_every"`
	Reference    string             `json:"reference"`
	EnergyBefore float64            `json:"energy_before"`
	EnergyAfter  float64            `json:"energy_after"`
	Drift        float64            `json:"drift"`
	ElapsedSec   float64            `json:"elapsed_sec"`
	Metrics      map[string]float64 `json:"metrics"`
}

func newRunID(now time.Time) string {
	return fmt.Sprintf("nbody_%d_%s", now.Unix(), uuid.NewString()[:8])
}

// Save writes the run metadata and its energy trace under a new run
// directory and returns the run id.
func (s *Store) Save(cfg dynamo.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := newRunID(now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:           runID,
		Timestamp:    now,
		Steps:        result.StepsTaken,
		Dt:           cfg.Dt,
		SampleEvery:  cfg.SampleEvery,
		Reference:    physics.Names[cfg.Reference],
		EnergyBefore: result.EnergyBefore,
		EnergyAfter:  result.EnergyAfter,
		Drift:        result.Drift(),
		ElapsedSec:   result.Elapsed.Seconds(),
		Metrics:      result.Metrics,
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, traceFile), func(w io.Writer) error {
			return writeTrace(w, result.Trace)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	return runID, nil
}

// writeFile creates path, fills it with write and reports the first error,
// including the one from Close.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func traceHeader() []string {
	header := []string{"step", "time", "energy"}
	for _, name := range physics.Names {
		header = append(header, name+"_x", name+"_y", name+"_z")
	}
	return header
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeTrace(w io.Writer, trace []dynamo.Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(traceHeader()); err != nil {
		return err
	}

	for _, s := range trace {
		row := []string{strconv.Itoa(s.Step), formatFloat(s.Time), formatFloat(s.Energy)}
		for _, p := range s.Positions {
			row = append(row, formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads back the samples written by Save. Rows that fail to
// parse are skipped.
func (s *Store) LoadTrace(runID string) ([]dynamo.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s: %w", runID, dynamo.ErrNoData)
	}

	trace := make([]dynamo.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sample, err := parseSample(record)
		if err != nil {
			continue
		}
		trace = append(trace, sample)
	}

	if len(trace) == 0 {
		return nil, fmt.Errorf("%s: %w", runID, dynamo.ErrNoData)
	}
	return trace, nil
}

func parseSample(record []string) (dynamo.Sample, error) {
	var s dynamo.Sample
	if len(record) < 3 {
		return s, fmt.Errorf("short record: %d fields", len(record))
	}

	step, err := strconv.Atoi(record[0])
	if err != nil {
		return s, err
	}
	t, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return s, err
	}
	e, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return s, err
	}
	s.Step, s.Time, s.Energy = step, t, e

	coords := record[3:]
	for i := 0; i+2 < len(coords); i += 3 {
		var p dynamo.Vec3
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(coords[i+k], 64)
			if err != nil {
				return s, err
			}
			p[k] = v
		}
		s.Positions = append(s.Positions, p)
	}
	return s, nil
}

type ExportData struct {
	Run   RunMetadata    `json:"run"`
	Trace []exportSample `json:"trace"`
}

type exportSample struct {
	Step      int           `json:"step"`
	Time      float64       `json:"time"`
	Energy    float64       `json:"energy"`
	Positions []dynamo.Vec3 `json:"positions,omitempty"`
}

// ExportJSON writes a run and its trace as one indented JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	trace, err := s.LoadTrace(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Trace: make([]exportSample, len(trace))}
	for i, smp := range trace {
		data.Trace[i] = exportSample{Step: smp.Step, Time: smp.Time, Energy: smp.Energy, Positions: smp.Positions}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
