package organizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (c stubClock) Now() time.Time { return c.now }

type stubIDGenerator struct {
	id string
}

func (g stubIDGenerator) New() string { return g.id }

func TestNewOperationID(t *testing.T) {
	clock := stubClock{now: time.Date(2024, 3, 15, 10, 30, 45, 0, time.UTC)}

	t.Run("combines timestamp and random prefix", func(t *testing.T) {
		idgen := stubIDGenerator{id: "abcdef01-2345-6789-abcd-ef0123456789"}
		got := newOperationID(clock, idgen)
		want := "run_20240315_103045_abcdef01"
		if got != want {
			t.Errorf("newOperationID() = %q, want %q", got, want)
		}
	})

	t.Run("keeps short ids whole", func(t *testing.T) {
		idgen := stubIDGenerator{id: "id-1"}
		got := newOperationID(clock, idgen)
		want := "run_20240315_103045_id-1"
		if got != want {
			t.Errorf("newOperationID() = %q, want %q", got, want)
		}
	})
}

func TestBuildTargetDir(t *testing.T) {
	created := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	t.Run("category only", func(t *testing.T) {
		got := buildTargetDir("/out", "images", created, false)
		want := filepath.Join("/out", "images")
		if got != want {
			t.Errorf("buildTargetDir() = %q, want %q", got, want)
		}
	})

	t.Run("category with zero-padded date", func(t *testing.T) {
		got := buildTargetDir("/out", "images", created, true)
		want := filepath.Join("/out", "images", "2024", "03")
		if got != want {
			t.Errorf("buildTargetDir() = %q, want %q", got, want)
		}
	})
}

func TestResolveCollision(t *testing.T) {
	t.Run("free name is unchanged", func(t *testing.T) {
		dir := t.TempDir()
		got := resolveCollision(dir, "a.txt", map[string]bool{})
		want := filepath.Join(dir, "a.txt")
		if got != want {
			t.Errorf("resolveCollision() = %q, want %q", got, want)
		}
	})

	t.Run("existing file on disk forces suffix", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		got := resolveCollision(dir, "a.txt", map[string]bool{})
		want := filepath.Join(dir, "a_1.txt")
		if got != want {
			t.Errorf("resolveCollision() = %q, want %q", got, want)
		}
	})

	t.Run("claimed paths count as taken", func(t *testing.T) {
		dir := t.TempDir()
		claimed := map[string]bool{
			filepath.Join(dir, "a.txt"):   true,
			filepath.Join(dir, "a_1.txt"): true,
		}

		got := resolveCollision(dir, "a.txt", claimed)
		want := filepath.Join(dir, "a_2.txt")
		if got != want {
			t.Errorf("resolveCollision() = %q, want %q", got, want)
		}
	})

	t.Run("suffix goes before the extension", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "report.tar.gz"), []byte("x"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		got := resolveCollision(dir, "report.tar.gz", map[string]bool{})
		want := filepath.Join(dir, "report.tar_1.gz")
		if got != want {
			t.Errorf("resolveCollision() = %q, want %q", got, want)
		}
	})
}

func TestWithinDir(t *testing.T) {
	tests := []struct {
		name string
		path string
		dir  string
		want bool
	}{
		{"file inside", "/out/images/a.jpg", "/out", true},
		{"dir itself", "/out", "/out", true},
		{"sibling", "/other/a.jpg", "/out", false},
		{"prefix but not child", "/output/a.jpg", "/out", false},
		{"parent", "/", "/out", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinDir(tt.path, tt.dir); got != tt.want {
				t.Errorf("withinDir(%q, %q) = %v, want %v", tt.path, tt.dir, got, tt.want)
			}
		})
	}
}

func TestMoveFile(t *testing.T) {
	t.Run("moves content and removes source", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src.txt")
		dst := filepath.Join(dir, "dst.txt")
		if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := moveFile(src, dst); err != nil {
			t.Fatalf("moveFile() error = %v", err)
		}

		data, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("reading target: %v", err)
		}
		if string(data) != "payload" {
			t.Errorf("target content = %q, want payload", data)
		}
		if _, err := os.Lstat(src); !os.IsNotExist(err) {
			t.Errorf("source still exists after move")
		}
	})

	t.Run("missing source fails", func(t *testing.T) {
		dir := t.TempDir()
		err := moveFile(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "dst.txt"))
		if err == nil {
			t.Error("moveFile() expected error for missing source, got nil")
		}
	})
}
