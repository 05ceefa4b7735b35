package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/san-kum/dynseq/internal/script"
)

func runBuiltin(t *testing.T, name string) *script.Trace {
	t.Helper()
	trace, err := script.Run(context.Background(), script.GetBuiltin(name), zerolog.Nop())
	if err != nil {
		t.Fatalf("run %s: %v", name, err)
	}
	return trace
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	trace := runBuiltin(t, "walkthrough")
	runID, err := st.Save(trace)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "walkthrough" {
		t.Errorf("expected scenario walkthrough, got %s", meta.Scenario)
	}
	if meta.Steps != 6 || meta.FinalCapacity != 4 || meta.FinalSize != 0 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Reallocations != 3 {
		t.Errorf("expected 3 reallocations, got %d", meta.Reallocations)
	}

	snaps, err := st.LoadSteps(runID)
	if err != nil {
		t.Fatalf("load steps failed: %v", err)
	}
	if len(snaps) != len(trace.Snapshots) {
		t.Fatalf("expected %d snapshots, got %d", len(trace.Snapshots), len(snaps))
	}
	if !slices.Equal(snaps[3].Values, []int{1, 9, 2, 3}) {
		t.Errorf("snapshot 4 values: %v", snaps[3].Values)
	}
	if len(snaps[5].Values) != 0 {
		t.Errorf("cleared snapshot should be empty: %v", snaps[5].Values)
	}
}

func TestStoreSave_RecordsFailures(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runBuiltin(t, "bounds"))
	if err != nil {
		t.Fatal(err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Failures != 3 {
		t.Errorf("expected 3 failures, got %d", meta.Failures)
	}
	snaps, err := st.LoadSteps(runID)
	if err != nil {
		t.Fatal(err)
	}
	if snaps[1].Err == "" {
		t.Error("expected error text on step 2")
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"doubling", "churn"} {
		if _, err := st.Save(runBuiltin(t, name)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Scenario != "doubling" {
		t.Errorf("expected oldest run first, got %s", runs[0].Scenario)
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(runBuiltin(t, "doubling"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, stepsFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runBuiltin(t, "churn"))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.WriteJSON(runID, &buf); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.ID != runID || out.Metadata == nil || len(out.Snapshots) != 9 {
		t.Errorf("unexpected export: id=%s snapshots=%d", out.ID, len(out.Snapshots))
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := st.ExportJSON(runID, path); err != nil {
		t.Fatalf("export json: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("export file missing or empty: %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, err := st.LoadSteps("nope"); err == nil {
		t.Error("expected error for missing steps")
	}
}

func TestStoreSave_RejectsUnsafeName(t *testing.T) {
	base := t.TempDir()
	st := New(filepath.Join(base, "data"))
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"", "..", "../x", "a/b"} {
		trace := &script.Trace{Scenario: name, Snapshots: []script.Snapshot{{Step: 1, Op: "pop"}}}
		if id, err := st.Save(trace); err == nil {
			t.Errorf("name %q: expected error, saved as %s", name, id)
		}
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "data" {
		t.Errorf("unexpected entries outside the data dir: %v", entries)
	}
}
