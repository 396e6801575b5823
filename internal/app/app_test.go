package app

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tidy-go/internal/config"
	"tidy-go/internal/learn"
	"tidy-go/internal/model"
)

// newTestApp builds an App over an in-memory store rooted in a temp
// directory, with the default preferences unless mutate adjusts them.
func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()

	cfg := config.NewConfig(t.TempDir())
	cfg.Database.Type = "memory"
	if mutate != nil {
		mutate(cfg)
	}

	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func writeSourceFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("content of "+name), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// datedSubdir returns the year/month segment the organize engine derives
// for path on this platform.
func datedSubdir(t *testing.T, path string) string {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	mod := info.ModTime()
	return filepath.Join(fmt.Sprintf("%d", mod.Year()), fmt.Sprintf("%02d", int(mod.Month())))
}

func TestApp_Organize_DatePreference(t *testing.T) {
	t.Run("organize_by_date preference applies by default", func(t *testing.T) {
		a := newTestApp(t, nil) // default preferences: organize_by_date = true
		src := t.TempDir()
		path := writeSourceFile(t, src, "photo.jpg")
		dated := datedSubdir(t, path)

		res, err := a.Organize(src, "", OrganizeOptions{Live: true})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}
		if res.FilesMoved != 1 {
			t.Fatalf("FilesMoved = %d, want 1", res.FilesMoved)
		}

		want := filepath.Join(src, OutputDirName, "images", dated, "photo.jpg")
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected file at %s: %v", want, err)
		}
	})

	t.Run("NoDate overrides the preference", func(t *testing.T) {
		a := newTestApp(t, nil)
		src := t.TempDir()
		writeSourceFile(t, src, "photo.jpg")

		if _, err := a.Organize(src, "", OrganizeOptions{Live: true, NoDate: true}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		want := filepath.Join(src, OutputDirName, "images", "photo.jpg")
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected file at %s: %v", want, err)
		}
	})

	t.Run("disabled preference skips the date layout", func(t *testing.T) {
		a := newTestApp(t, func(cfg *config.Config) {
			cfg.Preferences.OrganizeByDate = false
		})
		src := t.TempDir()
		writeSourceFile(t, src, "photo.jpg")

		if _, err := a.Organize(src, "", OrganizeOptions{Live: true}); err != nil {
			t.Fatalf("Organize() error = %v", err)
		}

		want := filepath.Join(src, OutputDirName, "images", "photo.jpg")
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected file at %s: %v", want, err)
		}
	})
}

func TestApp_Undo_Feedback(t *testing.T) {
	organizeTracked := func(t *testing.T, a *App) string {
		t.Helper()
		src := t.TempDir()
		writeSourceFile(t, src, "report.pdf")

		res, err := a.Organize(src, "", OrganizeOptions{Live: true, Track: true})
		if err != nil {
			t.Fatalf("Organize() error = %v", err)
		}
		if res.OperationID == "" {
			t.Fatal("tracked organize returned no operation ID")
		}
		return res.OperationID
	}

	t.Run("live undo penalizes the undone patterns", func(t *testing.T) {
		a := newTestApp(t, nil)
		opID := organizeTracked(t, a)

		res, err := a.Undo(opID, false)
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if res.FilesRestored != 1 {
			t.Fatalf("FilesRestored = %d, want 1", res.FilesRestored)
		}

		fb := learn.LoadFeedback(a.cfg.Learning.Dir)
		if adj := fb.Adjustment("type", "documents"); adj >= 1.0 {
			t.Errorf("type_documents adjustment = %v, want below 1.0 after undo", adj)
		}
		if adj := fb.Adjustment("ext", ".pdf"); adj >= 1.0 {
			t.Errorf("ext_.pdf adjustment = %v, want below 1.0 after undo", adj)
		}
	})

	t.Run("dry-run undo records no feedback", func(t *testing.T) {
		a := newTestApp(t, nil)
		opID := organizeTracked(t, a)

		if _, err := a.Undo(opID, true); err != nil {
			t.Fatalf("Undo() error = %v", err)
		}

		fb := learn.LoadFeedback(a.cfg.Learning.Dir)
		if fb.TotalEvents != 0 {
			t.Errorf("TotalEvents = %d, want 0 after dry-run undo", fb.TotalEvents)
		}
	})

	t.Run("undo last resolves the most recent run", func(t *testing.T) {
		a := newTestApp(t, nil)
		organizeTracked(t, a)

		res, err := a.UndoLast(false)
		if err != nil {
			t.Fatalf("UndoLast() error = %v", err)
		}
		if res.FilesRestored != 1 {
			t.Errorf("FilesRestored = %d, want 1", res.FilesRestored)
		}
	})

	t.Run("accumulated feedback lowers prediction confidence", func(t *testing.T) {
		a := newTestApp(t, nil)

		m := learn.NewModel()
		for i := 0; i < 4; i++ {
			m.Observe(&model.FileRecord{
				FileName: fmt.Sprintf("report_%d.pdf", i),
				FileType: "documents",
				NewPath:  fmt.Sprintf("/home/u/organized/documents/report_%d.pdf", i),
			})
		}
		if err := learn.Save(m, a.cfg.Learning.Dir); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		before, err := a.Predict("statement.pdf")
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if before == nil {
			t.Fatal("Predict() = nil, want a prediction from the trained model")
		}

		fb := learn.NewFeedback()
		fb.RecordUndo([]*model.FileRecord{{
			NewPath:  "/home/u/organized/documents/statement.pdf",
			FileName: "statement.pdf",
			FileType: "documents",
		}}, time.Now())
		if err := learn.SaveFeedback(fb, a.cfg.Learning.Dir); err != nil {
			t.Fatalf("SaveFeedback() error = %v", err)
		}

		after, err := a.Predict("statement.pdf")
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if after == nil {
			t.Fatal("Predict() = nil after feedback, want a prediction")
		}
		if after.Confidence >= before.Confidence {
			t.Errorf("Confidence after feedback = %v, want below %v", after.Confidence, before.Confidence)
		}
	})

	t.Run("undo last on an empty store is a no-op", func(t *testing.T) {
		a := newTestApp(t, nil)

		res, err := a.UndoLast(false)
		if err != nil {
			t.Fatalf("UndoLast() error = %v", err)
		}
		if res.OperationID != "" || res.FilesRestored != 0 {
			t.Errorf("UndoLast() = %+v, want zero result", res)
		}
	})
}
