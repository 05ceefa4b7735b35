package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/san-kum/dynseq/internal/script"
)

const (
	metadataFile = "metadata.json"
	stepsFile    = "steps.csv"
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
	ID            string    `json:"id"`
	Scenario      string    `json:"scenario"`
	Timestamp     time.Time `json:"timestamp"`
	Steps         int       `json:"steps"`
	Failures      int       `json:"failures"`
	FinalSize     int       `json:"final_size"`
	FinalCapacity int       `json:"final_capacity"`
	Reallocations int       `json:"reallocations"`
	Transferred   int       `json:"transferred"`
	PeakCapacity  int       `json:"peak_capacity"`
}

func (s *Store) Save(trace *script.Trace) (string, error) {
	name := trace.Scenario
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsRune(name, '\\') {
		return "", fmt.Errorf("storage: invalid scenario name %q", name)
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", trace.Scenario, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	final := trace.Final()
	meta := RunMetadata{
		ID:            runID,
		Scenario:      trace.Scenario,
		Timestamp:     now,
		Steps:         len(trace.Snapshots),
		FinalSize:     final.Size,
		FinalCapacity: final.Capacity,
		Reallocations: trace.Stats.Reallocations,
		Transferred:   trace.Stats.Transferred,
		PeakCapacity:  trace.Stats.PeakCapacity,
	}
	for _, snap := range trace.Snapshots {
		if snap.Err != "" {
			meta.Failures++
		}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, stepsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"step", "op", "size", "capacity", "error", "values"}); err != nil {
		return "", err
	}
	for _, snap := range trace.Snapshots {
		row := []string{
			strconv.Itoa(snap.Step),
			snap.Op,
			strconv.Itoa(snap.Size),
			strconv.Itoa(snap.Capacity),
			snap.Err,
			joinInts(snap.Values),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns all readable runs, oldest first.
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

// LoadSteps reads the per-step snapshots of a run.
func (s *Store) LoadSteps(runID string) ([]script.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, stepsFile))
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
		return []script.Snapshot{}, nil
	}

	snaps := make([]script.Snapshot, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 6 {
			return nil, fmt.Errorf("%s line %d: expected 6 fields, got %d", stepsFile, i+2, len(record))
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", stepsFile, i+2, err)
		}
		size, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", stepsFile, i+2, err)
		}
		capacity, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", stepsFile, i+2, err)
		}
		values, err := splitInts(record[5])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", stepsFile, i+2, err)
		}
		snaps = append(snaps, script.Snapshot{
			Step:     step,
			Op:       record[1],
			Size:     size,
			Capacity: capacity,
			Err:      record[4],
			Values:   values,
		})
	}

	return snaps, nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

func splitInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		x, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}
