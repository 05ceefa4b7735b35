package storage

import (
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/san-kum/dynseq/internal/script"
)

type ExportData struct {
	ID        string            `json:"id"`
	Scenario  string            `json:"scenario"`
	Metadata  *RunMetadata      `json:"metadata"`
	Snapshots []script.Snapshot `json:"snapshots"`
}

// ExportJSON writes a run's metadata and snapshots to path.
func (s *Store) ExportJSON(runID, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.WriteJSON(runID, file)
}

func (s *Store) WriteJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	snaps, err := s.LoadSteps(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:        meta.ID,
		Scenario:  meta.Scenario,
		Metadata:  meta,
		Snapshots: snaps,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
