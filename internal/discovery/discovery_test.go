package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/video2gif/internal/config"
	apperrors "github.com/five82/video2gif/internal/errors"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindVideoFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.MP4")
	touch(t, dir, "A.mov")
	touch(t, dir, "c.webm")
	touch(t, dir, "clip-tiny.gif")
	touch(t, dir, "palette-tiny.png")
	touch(t, dir, ".hidden.mp4")
	touch(t, dir, "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "nested.mp4"), 0755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, sub, "deep.mp4")

	result, err := FindVideoFiles(dir, config.Defaults(), nil)
	if err != nil {
		t.Fatalf("FindVideoFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "A.mov"),
		filepath.Join(dir, "b.MP4"),
		filepath.Join(dir, "c.webm"),
	}
	if len(result.Files) != len(want) {
		t.Fatalf("Files = %v, want %v", result.Files, want)
	}
	for i := range want {
		if result.Files[i] != want[i] {
			t.Errorf("Files[%d] = %q, want %q", i, result.Files[i], want[i])
		}
	}
	if result.SkippedCount != 3 {
		t.Errorf("SkippedCount = %d, want 3", result.SkippedCount)
	}
}

func TestFindVideoFilesCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.mp4")
	touch(t, dir, "b.ts")

	f, err := config.Parse([]byte(`{"supported_video_extensions": [".ts"]}`))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Resolve(f)
	if err != nil {
		t.Fatal(err)
	}

	result, err := FindVideoFiles(dir, cfg, nil)
	if err != nil {
		t.Fatalf("FindVideoFiles() error = %v", err)
	}
	if len(result.Files) != 1 || filepath.Base(result.Files[0]) != "b.ts" {
		t.Errorf("Files = %v, want only b.ts", result.Files)
	}
}

func TestFindVideoFilesNoneFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")

	_, err := FindVideoFiles(dir, config.Defaults(), nil)
	if !apperrors.IsNoFilesFound(err) {
		t.Errorf("FindVideoFiles() error = %v, want no files found", err)
	}
}

func TestFindVideoFilesBadDirectory(t *testing.T) {
	_, err := FindVideoFiles(filepath.Join(t.TempDir(), "missing"), config.Defaults(), nil)
	if err == nil || apperrors.IsNoFilesFound(err) {
		t.Errorf("FindVideoFiles() error = %v, want I/O error", err)
	}

	file := touch(t, t.TempDir(), "a.mp4")
	if _, err := FindVideoFiles(file, config.Defaults(), nil); !apperrors.IsKind(err, apperrors.KindIO) {
		t.Errorf("FindVideoFiles(file) error = %v, want I/O error", err)
	}
}

type countingLogger struct{ info, debug int }

func (l *countingLogger) Info(string, ...any)  { l.info++ }
func (l *countingLogger) Debug(string, ...any) { l.debug++ }

func TestFindVideoFilesLogging(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.mp4", "2.mp4", "3.mp4", "4.mp4", "5.mp4", "6.mp4", "7.mp4"} {
		touch(t, dir, name)
	}

	logger := &countingLogger{}
	if _, err := FindVideoFiles(dir, config.Defaults(), logger); err != nil {
		t.Fatal(err)
	}
	if logger.info != 1 || logger.debug != 6 {
		t.Errorf("info=%d debug=%d, want 1 and 6", logger.info, logger.debug)
	}
}
