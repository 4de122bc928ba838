package dimensions

import (
	"path/filepath"
	"testing"

	"github.com/five82/video2gif/internal/config"
)

func TestPlanNoUpscale(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxWidth      int
		wantW, wantH  int
	}{
		{"smaller", 320, 240, 640, 320, 240},
		{"equal", 640, 361, 640, 640, 361},
		{"unknown", 0, 0, 640, 0, 0},
		{"unknown width", 0, 480, 640, 0, 480},
		{"odd kept when not scaled", 301, 201, 640, 301, 201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Plan(tt.width, tt.height, tt.maxWidth)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Plan(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tt.maxWidth, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPlanDownscale(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxWidth      int
		wantW, wantH  int
	}{
		{"1080p to tiny", 1920, 1080, 640, 640, 360},
		{"1080p to small", 1920, 1080, 1280, 1280, 720},
		{"4k to medium", 3840, 2160, 1980, 1980, 1114},
		{"odd height bumped", 1000, 333, 500, 500, 166},
		{"odd width bumped", 2000, 1000, 999, 1000, 500},
		{"truncated then even", 1921, 1081, 640, 640, 360},
		{"portrait", 1080, 1920, 640, 640, 1138},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Plan(tt.width, tt.height, tt.maxWidth)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Plan(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, tt.maxWidth, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPlanProperties(t *testing.T) {
	for width := 2; width <= 4000; width += 37 {
		for _, height := range []int{1, 99, 480, 1081, 2160} {
			for _, maxWidth := range []int{640, 1280, 1980} {
				w, h := Plan(width, height, maxWidth)
				if width <= maxWidth {
					if w != width || h != height {
						t.Fatalf("Plan(%d, %d, %d) changed a fitting source", width, height, maxWidth)
					}
					continue
				}
				if maxWidth%2 == 0 && w > maxWidth {
					t.Fatalf("Plan(%d, %d, %d) width %d exceeds cap", width, height, maxWidth, w)
				}
				if w%2 != 0 || h%2 != 0 {
					t.Fatalf("Plan(%d, %d, %d) = (%d, %d), want even", width, height, maxWidth, w, h)
				}
				exact := float64(height) * float64(maxWidth) / float64(width)
				if diff := float64(h) - exact; diff < -1 || diff > 2 {
					t.Fatalf("Plan(%d, %d, %d) height %d too far from %.2f", width, height, maxWidth, h, exact)
				}
			}
		}
	}
}

func TestMediumMaxWidth(t *testing.T) {
	tests := []struct {
		source int
		want   int
	}{
		{2500, 1980},
		{1981, 1980},
		{1980, 1980},
		{1500, 1500},
		{1280, 1280},
		{800, 1280},
		{0, 1280},
	}

	for _, tt := range tests {
		if got := MediumMaxWidth(tt.source); got != tt.want {
			t.Errorf("MediumMaxWidth(%d) = %d, want %d", tt.source, got, tt.want)
		}
	}
}

func TestTierMaxWidth(t *testing.T) {
	tiny := config.DefaultTier(config.TierTiny)
	if got := TierMaxWidth(tiny, 3000); got != 640 {
		t.Errorf("tiny TierMaxWidth = %d, want 640", got)
	}

	medium := config.TierConfig{Name: config.TierMedium, MaxWidth: 1200}
	if got := TierMaxWidth(medium, 1500); got != 1500 {
		t.Errorf("medium TierMaxWidth = %d, want 1500", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		tier  config.Tier
		want  string
	}{
		{filepath.Join("videos", "clip.mp4"), config.TierTiny, filepath.Join("videos", "clip-tiny.gif")},
		{filepath.Join("videos", "my.clip.MOV"), config.TierMedium, filepath.Join("videos", "my.clip-medium.gif")},
		{"noext", config.TierSmall, "noext-small.gif"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.tier); got != tt.want {
			t.Errorf("OutputPath(%q, %s) = %q, want %q", tt.input, tt.tier, got, tt.want)
		}
	}
}

func TestPalettePath(t *testing.T) {
	got := PalettePath(filepath.Join("videos", "clip.mp4"), config.TierSmall)
	want := filepath.Join("videos", "palette-small.png")
	if got != want {
		t.Errorf("PalettePath() = %q, want %q", got, want)
	}
}
