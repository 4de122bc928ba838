package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	apperrors "github.com/five82/video2gif/internal/errors"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

type capturedLine struct {
	stream Stream
	line   string
}

func TestRunStreamsLines(t *testing.T) {
	bin := writeScript(t, `echo "hello"
printf 'frame=   10\rframe=   20\n' >&2
echo "done"
exit 0
`)

	var got []capturedLine
	err := NewExecutor(bin).Run(context.Background(), nil, func(s Stream, line string) {
		got = append(got, capturedLine{s, line})
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var stdout, stderr []string
	for _, c := range got {
		if c.stream == Stdout {
			stdout = append(stdout, c.line)
		} else {
			stderr = append(stderr, c.line)
		}
	}
	if strings.Join(stdout, "|") != "hello|done" {
		t.Errorf("stdout lines = %v", stdout)
	}
	if strings.Join(stderr, "|") != "frame=   10|frame=   20" {
		t.Errorf("stderr lines = %v", stderr)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	bin := writeScript(t, `echo "palette-tiny.png: No such file or directory" >&2
exit 3
`)

	err := NewExecutor(bin).Run(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("Run() error = nil, want failure")
	}
	if !apperrors.IsKind(err, apperrors.KindCommand) {
		t.Errorf("error kind = %v, want Command", err)
	}
	if apperrors.IsCommandStart(err) {
		t.Error("non-zero exit reported as start failure")
	}
	if !strings.Contains(err.Error(), "exit code 3") || !strings.Contains(err.Error(), "No such file") {
		t.Errorf("error = %q, want exit code and stderr tail", err)
	}
}

func TestRunMissingBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "does-not-exist")
	err := NewExecutor(bin).Run(context.Background(), []string{"-version"}, nil)
	if !apperrors.IsCommandStart(err) {
		t.Errorf("Run() error = %v, want start failure", err)
	}
}

func TestRunCancel(t *testing.T) {
	bin := writeScript(t, `echo "started"
sleep 30
echo "finished"
`)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var once bool

	done := make(chan error, 1)
	go func() {
		done <- NewExecutor(bin).Run(ctx, nil, func(s Stream, line string) {
			if line == "started" && !once {
				once = true
				close(started)
			}
		})
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("script did not start")
	}
	cancel()

	select {
	case err := <-done:
		if !apperrors.IsCancelled(err) {
			t.Errorf("Run() error = %v, want cancelled", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNewExecutorDefault(t *testing.T) {
	if got := NewExecutor("").Binary; got != DefaultBinary {
		t.Errorf("Binary = %q, want %q", got, DefaultBinary)
	}
}

func TestTail(t *testing.T) {
	tl := newTail(2)
	tl.add("a")
	tl.add("b")
	tl.add("c")
	if got := tl.String(); got != "b\nc" {
		t.Errorf("tail = %q, want %q", got, "b\nc")
	}
}
