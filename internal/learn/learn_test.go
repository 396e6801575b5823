package learn

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy-go/internal/model"
)

func record(name, fileType, newPath string, created time.Time) *model.FileRecord {
	return &model.FileRecord{
		FileName:  name,
		FileType:  fileType,
		NewPath:   newPath,
		CreatedAt: created,
	}
}

type stubHistory struct {
	records []*model.FileRecord
}

func (s *stubHistory) ListAll() ([]*model.FileRecord, error) {
	return s.records, nil
}

func TestNamePrefix(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"report_2024_Q1.pdf", "report"},
		{"IMG_1234.jpg", "img"},
		{"document.docx", "document"},
		{"my-vacation photo.png", "my"},
		{"___.txt", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			if got := NamePrefix(tt.fileName); got != tt.want {
				t.Errorf("NamePrefix(%q) = %q, want %q", tt.fileName, got, tt.want)
			}
		})
	}
}

func TestDestinationLabel(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"segment after marker", "/home/u/organized/documents/2024/10/file.pdf", "documents"},
		{"relative path with marker", "organized/images/photo.jpg", "images"},
		{"marker at end falls back to parent", "/data/organized", "data"},
		{"no marker uses parent folder", "/backups/projects/readme.md", "projects"},
		{"bare filename", "file.pdf", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DestinationLabel(tt.path); got != tt.want {
				t.Errorf("DestinationLabel(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestTrain(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	src := &stubHistory{records: []*model.FileRecord{
		record("a.pdf", "documents", "/out/organized/documents/a.pdf", created),
		record("b.pdf", "documents", "/out/organized/documents/b.pdf", created),
		record("c.jpg", "images", "/out/organized/images/c.jpg", created),
	}}

	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	m, err := Train(src, now)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if m.TotalSamples != 3 {
		t.Errorf("TotalSamples = %d, want 3", m.TotalSamples)
	}
	if !m.LastTrained.Equal(now) {
		t.Errorf("LastTrained = %v, want %v", m.LastTrained, now)
	}
	if m.TypeToDest["documents"]["documents"] != 2 {
		t.Errorf("TypeToDest[documents][documents] = %d, want 2", m.TypeToDest["documents"]["documents"])
	}
	if m.ExtToDest[".jpg"]["images"] != 1 {
		t.Errorf("ExtToDest[.jpg][images] = %d, want 1", m.ExtToDest[".jpg"]["images"])
	}
	if m.Temporal[2024]["documents"]["documents"] != 2 {
		t.Errorf("Temporal[2024][documents][documents] = %d, want 2", m.Temporal[2024]["documents"]["documents"])
	}
}

func TestTrain_IsIdempotent(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	src := &stubHistory{records: []*model.FileRecord{
		record("a.pdf", "documents", "/out/organized/documents/a.pdf", created),
	}}
	now := time.Now()

	first, err := Train(src, now)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	second, err := Train(src, now)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if first.TotalSamples != second.TotalSamples {
		t.Errorf("TotalSamples differ: %d vs %d", first.TotalSamples, second.TotalSamples)
	}
	if first.TypeToDest["documents"]["documents"] != second.TypeToDest["documents"]["documents"] {
		t.Error("retraining on the same history changed the counts")
	}
}

func TestModel_Predict(t *testing.T) {
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("undertrained model predicts nothing", func(t *testing.T) {
		m := NewModel()
		m.Observe(record("a.pdf", "documents", "/out/organized/documents/a.pdf", created))
		m.Observe(record("b.pdf", "documents", "/out/organized/documents/b.pdf", created))

		if p := m.Predict(FileMeta{FileName: "c.pdf", FileType: "documents", FileExt: ".pdf"}); p != nil {
			t.Errorf("Predict() = %+v, want nil below %d samples", p, MinSamples)
		}
	})

	t.Run("dominant history yields matching confidence", func(t *testing.T) {
		m := NewModel()
		// 8 of 10 documents went to "work", 2 to "personal". Every signal
		// agrees, so the weighted average equals the per-signal ratio.
		for i := 0; i < 8; i++ {
			m.Observe(record(fmt.Sprintf("report_%d.pdf", i), "documents",
				"/out/organized/work/r.pdf", created))
		}
		for i := 0; i < 2; i++ {
			m.Observe(record(fmt.Sprintf("report_x%d.pdf", i), "documents",
				"/out/organized/personal/r.pdf", created))
		}

		p := m.Predict(FileMeta{FileName: "report_new.pdf", FileType: "documents", FileExt: ".pdf"})
		if p == nil {
			t.Fatal("Predict() = nil, want prediction")
		}
		if p.Destination != "work" {
			t.Errorf("Destination = %q, want work", p.Destination)
		}
		if p.Confidence < 0.79 || p.Confidence > 0.81 {
			t.Errorf("Confidence = %v, want 0.8", p.Confidence)
		}
		if p.Level() != "high" {
			t.Errorf("Level() = %q, want high", p.Level())
		}
		if p.Reason == "" {
			t.Error("Reason empty, want explanation")
		}
	})

	t.Run("no signal for unseen features", func(t *testing.T) {
		m := NewModel()
		for i := 0; i < 3; i++ {
			m.Observe(record(fmt.Sprintf("a%d.pdf", i), "documents",
				"/out/organized/documents/a.pdf", created))
		}

		if p := m.Predict(FileMeta{FileName: "zzz.mp3", FileType: "audio", FileExt: ".mp3"}); p != nil {
			t.Errorf("Predict() = %+v, want nil for unseen features", p)
		}
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		m := NewModel()
		for i := 0; i < 5; i++ {
			m.Observe(record(fmt.Sprintf("img_%d.jpg", i), "images",
				"/out/organized/photos/i.jpg", created))
		}

		p := m.Predict(FileMeta{FileName: "img_new.jpg", FileType: "images", FileExt: ".jpg"})
		if p == nil {
			t.Fatal("Predict() = nil, want prediction")
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			t.Errorf("Confidence = %v, want within [0, 1]", p.Confidence)
		}
	})
}

func TestConfidenceLevel(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.95, "high"},
		{0.8, "high"},
		{0.79, "medium"},
		{0.5, "medium"},
		{0.49, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := ConfidenceLevel(tt.confidence); got != tt.want {
			t.Errorf("ConfidenceLevel(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestBias(t *testing.T) {
	tests := []struct {
		confidence, bias, want float64
	}{
		{0.6, 1.0, 0.6},
		{0.6, 1.5, 0.9},
		{0.8, 1.5, 1.0}, // clamped
		{0.6, 0.5, 0.3},
	}
	for _, tt := range tests {
		if got := Bias(tt.confidence, tt.bias); got != tt.want {
			t.Errorf("Bias(%v, %v) = %v, want %v", tt.confidence, tt.bias, got, tt.want)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

		m := NewModel()
		for i := 0; i < 4; i++ {
			m.Observe(record(fmt.Sprintf("a%d.pdf", i), "documents",
				"/out/organized/documents/a.pdf", created))
		}
		m.LastTrained = created

		if err := Save(m, dir); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		loaded, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded == nil {
			t.Fatal("Load() = nil, want model")
		}
		if loaded.TotalSamples != 4 {
			t.Errorf("TotalSamples = %d, want 4", loaded.TotalSamples)
		}
		if loaded.TypeToDest["documents"]["documents"] != 4 {
			t.Errorf("TypeToDest counts lost on round trip")
		}
		if !loaded.LastTrained.Equal(created) {
			t.Errorf("LastTrained = %v, want %v", loaded.LastTrained, created)
		}
	})

	t.Run("missing model loads as nil", func(t *testing.T) {
		m, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m != nil {
			t.Errorf("Load() = %+v, want nil", m)
		}
	})

	t.Run("corrupt model loads as nil", func(t *testing.T) {
		dir := t.TempDir()
		if err := Save(NewModel(), dir); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		// Overwrite with junk.
		if err := os.WriteFile(filepath.Join(dir, ModelFile), []byte("{not json"), 0644); err != nil {
			t.Fatalf("writing junk: %v", err)
		}

		m, err := Load(dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if m != nil {
			t.Errorf("Load() = %+v, want nil for corrupt file", m)
		}
	})
}
