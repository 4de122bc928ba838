package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-ins require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", "echo 'ffmpeg version 7.1 Copyright (c) 2000-2024'\necho 'built with gcc'\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Version != "ffmpeg version 7.1 Copyright (c) 2000-2024" {
		t.Fatalf("unexpected version: %q", results[0].Version)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for empty command: %q", results[2].Detail)
	}
}

func TestCheckBinariesVersionFailure(t *testing.T) {
	bin := writeStub(t, t.TempDir(), "broken", "exit 1\n")
	results := CheckBinaries(context.Background(), []Requirement{{Name: "Broken", Command: bin}})
	if !results[0].Available || results[0].Version != "" {
		t.Fatalf("expected available binary with no version, got %#v", results[0])
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "FFmpeg", Available: false},
		{Name: "FFprobe", Available: false, Optional: true},
		{Name: "Other", Available: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0].Name != "FFmpeg" {
		t.Fatalf("MissingRequired() = %#v", missing)
	}
}

func TestRequirementsDefaults(t *testing.T) {
	reqs := Requirements("", "/opt/ffprobe")
	if reqs[0].Command != "ffmpeg" || reqs[0].Optional {
		t.Fatalf("ffmpeg requirement = %#v", reqs[0])
	}
	if reqs[1].Command != "/opt/ffprobe" || !reqs[1].Optional {
		t.Fatalf("ffprobe requirement = %#v", reqs[1])
	}
}

func TestInstallHint(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "brew install ffmpeg"},
		{"linux", "sudo apt install ffmpeg"},
		{"windows", "winget install ffmpeg"},
		{"plan9", "plan9: install ffmpeg"},
	}
	for _, tt := range tests {
		got := installHintFor(tt.goos)
		if !strings.Contains(got, tt.want) {
			t.Errorf("installHintFor(%q) = %q, want it to contain %q", tt.goos, got, tt.want)
		}
		if !strings.HasPrefix(got, "Please install FFmpeg") {
			t.Errorf("installHintFor(%q) missing header", tt.goos)
		}
	}
	if InstallHint() == "" {
		t.Error("InstallHint() is empty")
	}
}
