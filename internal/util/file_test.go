package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetFileStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/videos/clip.mp4", "clip"},
		{"clip.tar.mkv", "clip.tar"},
		{"noext", "noext"},
		{"/a/b/.hidden", ""},
	}
	for _, tt := range tests {
		if got := GetFileStem(tt.path); got != tt.want {
			t.Errorf("GetFileStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(dir) {
		t.Error("FileExists() = true for directory")
	}
	if !DirectoryExists(dir) {
		t.Error("DirectoryExists() = false for directory")
	}

	size, err := GetFileSize(path)
	if err != nil {
		t.Fatalf("GetFileSize() error = %v", err)
	}
	if size != 2048 {
		t.Errorf("GetFileSize() = %d, want 2048", size)
	}

	nested := filepath.Join(dir, "a", "b")
	if err := EnsureDirectory(nested); err != nil {
		t.Fatalf("EnsureDirectory() error = %v", err)
	}
	if !DirectoryExists(nested) {
		t.Error("EnsureDirectory() did not create directory")
	}
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette-tiny.png")
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists() error = %v", err)
	}
	if FileExists(path) {
		t.Error("file still exists after RemoveIfExists()")
	}
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("RemoveIfExists() on missing file error = %v", err)
	}
}
