package deps

import (
	"fmt"
	"runtime"
	"strings"
)

// Requirements lists the binaries a conversion needs. ffprobe is optional:
// without it source dimensions are unknown and tiers keep the source size.
func Requirements(ffmpegBin, ffprobeBin string) []Requirement {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegBin, Description: "Generates palettes and encodes GIFs"},
		{Name: "FFprobe", Command: ffprobeBin, Description: "Reads source video dimensions", Optional: true},
	}
}

// InstallHint returns per-platform instructions for installing FFmpeg.
func InstallHint() string {
	return installHintFor(runtime.GOOS)
}

func installHintFor(goos string) string {
	var b strings.Builder
	b.WriteString("Please install FFmpeg and try again:\n")
	switch goos {
	case "darwin":
		b.WriteString("  • macOS: brew install ffmpeg")
	case "windows":
		b.WriteString("  • Windows: winget install ffmpeg (or download from https://ffmpeg.org/download.html)")
	case "linux":
		b.WriteString("  • Ubuntu/Debian: sudo apt install ffmpeg\n")
		b.WriteString("  • Fedora: sudo dnf install ffmpeg")
	default:
		fmt.Fprintf(&b, "  • %s: install ffmpeg with your package manager", goos)
	}
	return b.String()
}
