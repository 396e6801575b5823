package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tidy-go/internal/learn"
	"tidy-go/internal/model"
)

type stubStore struct {
	stats  *model.StoreStats
	groups []*model.DuplicateGroup
	ops    []*model.OperationSummary
}

func (s *stubStore) Stats() (*model.StoreStats, error) {
	return s.stats, nil
}

func (s *stubStore) DuplicateGroups() ([]*model.DuplicateGroup, error) {
	return s.groups, nil
}

func (s *stubStore) Operations(limit int) ([]*model.OperationSummary, error) {
	if limit > 0 && len(s.ops) > limit {
		return s.ops[:limit], nil
	}
	return s.ops, nil
}

func testStore() *stubStore {
	started := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	return &stubStore{
		stats: &model.StoreStats{
			TotalFiles:      3,
			TotalSizeBytes:  600,
			FilesByType:     map[string]int64{"documents": 2, "images": 1},
			TotalOperations: 1,
		},
		groups: []*model.DuplicateGroup{
			{
				Digest: "d1",
				Records: []*model.FileRecord{
					{FileName: "a.txt", FileSize: 100},
					{FileName: "a_copy.txt", FileSize: 100},
				},
			},
		},
		ops: []*model.OperationSummary{
			{OperationID: "run_1", FileCount: 3, TotalSize: 600, StartedAt: started},
		},
	}
}

func trainedModel(t *testing.T) *learn.Model {
	t.Helper()
	m := learn.NewModel()
	for i := 0; i < learn.MinSamples; i++ {
		m.Observe(&model.FileRecord{
			FileName:  "a.pdf",
			FileType:  "documents",
			NewPath:   "/out/organized/documents/a.pdf",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	m.LastTrained = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return m
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("assembles all sections", func(t *testing.T) {
		rep, err := Build(testStore(), trainedModel(t), now)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}

		if !rep.GeneratedAt.Equal(now) {
			t.Errorf("GeneratedAt = %v, want %v", rep.GeneratedAt, now)
		}
		if rep.Stats.TotalFiles != 3 {
			t.Errorf("Stats.TotalFiles = %d, want 3", rep.Stats.TotalFiles)
		}
		if len(rep.Duplicates) != 1 {
			t.Fatalf("len(Duplicates) = %d, want 1", len(rep.Duplicates))
		}
		if rep.Duplicates[0].Copies != 2 {
			t.Errorf("Duplicates[0].Copies = %d, want 2", rep.Duplicates[0].Copies)
		}
		if rep.Duplicates[0].WastedBytes != 100 {
			t.Errorf("Duplicates[0].WastedBytes = %d, want 100", rep.Duplicates[0].WastedBytes)
		}
		if len(rep.Operations) != 1 {
			t.Fatalf("len(Operations) = %d, want 1", len(rep.Operations))
		}
		if rep.Learning == nil {
			t.Fatal("Learning = nil, want summary for trained model")
		}
		if !rep.Learning.ReadyToPredict {
			t.Error("Learning.ReadyToPredict = false, want true")
		}
	})

	t.Run("untrained model omits learning section", func(t *testing.T) {
		rep, err := Build(testStore(), nil, now)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if rep.Learning != nil {
			t.Errorf("Learning = %+v, want nil", rep.Learning)
		}
	})
}

func TestReport_WriteJSON(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	rep, err := Build(testStore(), trainedModel(t), now)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if err := rep.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Stats.TotalFiles != 3 {
		t.Errorf("decoded TotalFiles = %d, want 3", decoded.Stats.TotalFiles)
	}
	if decoded.Learning == nil || decoded.Learning.TotalSamples != learn.MinSamples {
		t.Errorf("decoded Learning = %+v, want %d samples", decoded.Learning, learn.MinSamples)
	}
}

func TestReport_WriteCSV(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	rep, err := Build(testStore(), trainedModel(t), now)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if rows[0][0] != "section" {
		t.Errorf("header = %v, want section/metric/value", rows[0])
	}

	sections := make(map[string]int)
	for _, row := range rows[1:] {
		sections[row[0]]++
	}
	for _, want := range []string{"summary", "distribution", "duplicates", "operations", "learning"} {
		if sections[want] == 0 {
			t.Errorf("CSV missing %q section", want)
		}
	}
	if sections["distribution"] != 2 {
		t.Errorf("distribution rows = %d, want 2", sections["distribution"])
	}

	// Distribution rows come out sorted by type.
	var dist []string
	for _, row := range rows {
		if row[0] == "distribution" {
			dist = append(dist, row[1])
		}
	}
	if strings.Join(dist, ",") != "documents,images" {
		t.Errorf("distribution order = %v, want documents,images", dist)
	}
}
