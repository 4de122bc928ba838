// Package dimensions computes per-tier output sizes and artifact paths.
package dimensions

import (
	"path/filepath"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/util"
)

// Medium tier width bounds.
const (
	MediumCeiling = 1980
	MediumFloor   = 1280
)

// Plan scales width x height down to fit maxWidth, preserving aspect ratio.
// Sources that already fit, or whose width is unknown (0), are returned
// unchanged. Scaled dimensions are rounded up to the next even number.
func Plan(width, height, maxWidth int) (int, int) {
	if width <= 0 || width <= maxWidth {
		return width, height
	}

	outW := maxWidth
	outH := height * maxWidth / width

	if outW%2 != 0 {
		outW++
	}
	if outH%2 != 0 {
		outH++
	}
	return outW, outH
}

// MediumMaxWidth derives the medium tier's width cap from the source width.
// Sources wider than 1980 are capped, sources between 1280 and 1980 keep
// their width, and narrower sources are allowed up to 1280.
func MediumMaxWidth(sourceWidth int) int {
	switch {
	case sourceWidth > MediumCeiling:
		return MediumCeiling
	case sourceWidth >= MediumFloor:
		return sourceWidth
	default:
		return MediumFloor
	}
}

// TierMaxWidth returns the width cap used for a tier. The medium tier ignores
// its configured value in favor of MediumMaxWidth.
func TierMaxWidth(tc config.TierConfig, sourceWidth int) int {
	if tc.Name == config.TierMedium {
		return MediumMaxWidth(sourceWidth)
	}
	return tc.MaxWidth
}

// OutputPath replaces the input's extension with -<tier>.gif in the same directory.
func OutputPath(inputPath string, tier config.Tier) string {
	return filepath.Join(filepath.Dir(inputPath), util.GetFileStem(inputPath)+"-"+string(tier)+".gif")
}

// PalettePath returns the transient palette image for a tier, next to the input.
func PalettePath(inputPath string, tier config.Tier) string {
	return filepath.Join(filepath.Dir(inputPath), "palette-"+string(tier)+".png")
}
