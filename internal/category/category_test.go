package category

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".jpg", "images"},
		{".JPG", "images"},
		{".pdf", "documents"},
		{".mp4", "videos"},
		{".flac", "audio"},
		{".tar", "archives"},
		{".go", "code"},
		{".deb", "executables"},
		{".xyz", "others"},
		{"", "others"},
	}

	for _, tt := range tests {
		if got := ForExtension(tt.ext); got != tt.want {
			t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestForPath(t *testing.T) {
	t.Run("uses the extension of the base name", func(t *testing.T) {
		if got := ForPath("/home/user/Downloads/photo.JPEG"); got != "images" {
			t.Errorf("ForPath() = %q, want %q", got, "images")
		}
	})

	t.Run("file without extension falls into default", func(t *testing.T) {
		if got := ForPath("/home/user/Downloads/README"); got != Default {
			t.Errorf("ForPath() = %q, want %q", got, Default)
		}
	})
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 8 {
		t.Fatalf("got %d categories, want 8", len(names))
	}
	found := false
	for _, n := range names {
		if n == Default {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() does not include %q", Default)
	}
}
