// Package config provides configuration types and defaults for video2gif.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	apperrors "github.com/five82/video2gif/internal/errors"
)

// DefaultConfigFile is the configuration file looked up in the working directory.
const DefaultConfigFile = "config.json"

// Palette size limits accepted by ffmpeg's palettegen.
const (
	MinColorDepth = 2
	MaxColorDepth = 256
)

// Medium values used when a legacy flat config omits a field.
const (
	LegacyDefaultMaxWidth     = 1200
	LegacyDefaultFPS          = 3
	LegacyDefaultColorDepth   = 256
	LegacyDefaultDitherMethod = "sierra2_4a"
)

// Tier names one of the three output renditions.
type Tier string

const (
	TierTiny   Tier = "tiny"
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
)

// Tiers lists every tier in processing order.
var Tiers = []Tier{TierTiny, TierSmall, TierMedium}

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// ParseTier converts a tier name to a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierTiny:
		return TierTiny, nil
	case TierSmall:
		return TierSmall, nil
	case TierMedium:
		return TierMedium, nil
	default:
		return "", fmt.Errorf("unknown tier %q, valid options: tiny, small, medium", s)
	}
}

// DitherMethods is the set of paletteuse dithering algorithms.
var DitherMethods = []string{
	"bayer",
	"heckbert",
	"floyd_steinberg",
	"sierra2",
	"sierra2_4a",
	"sierra3",
	"burkes",
	"atkinson",
	"none",
}

// DefaultVideoExtensions is the accepted input set when the config does not override it.
var DefaultVideoExtensions = []string{
	".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".3gp", ".mpg", ".mpeg",
}

// TierConfig holds the encode parameters for one tier.
type TierConfig struct {
	Name         Tier   `json:"name"`
	MaxWidth     int    `json:"max_width"`
	FPS          int    `json:"fps"`
	ColorDepth   int    `json:"color_depth"`
	DitherMethod string `json:"dither_method"`
}

// DefaultTier returns the built-in settings for a tier.
func DefaultTier(t Tier) TierConfig {
	switch t {
	case TierTiny:
		return TierConfig{Name: TierTiny, MaxWidth: 640, FPS: 2, ColorDepth: 128, DitherMethod: "bayer"}
	case TierSmall:
		return TierConfig{Name: TierSmall, MaxWidth: 1280, FPS: 2, ColorDepth: 160, DitherMethod: "sierra2_4a"}
	default:
		return TierConfig{Name: TierMedium, MaxWidth: 1980, FPS: 3, ColorDepth: 256, DitherMethod: "sierra2_4a"}
	}
}

// Validate checks a tier's values.
func (tc TierConfig) Validate() error {
	if tc.MaxWidth <= 0 {
		return fmt.Errorf("%w: %s tier got %d", ErrInvalidMaxWidth, tc.Name, tc.MaxWidth)
	}
	if tc.FPS <= 0 {
		return fmt.Errorf("%w: %s tier got %d", ErrInvalidFPS, tc.Name, tc.FPS)
	}
	if tc.ColorDepth < MinColorDepth || tc.ColorDepth > MaxColorDepth {
		return fmt.Errorf("%w: %s tier must be %d-%d, got %d", ErrInvalidColorDepth, tc.Name, MinColorDepth, MaxColorDepth, tc.ColorDepth)
	}
	if !slices.Contains(DitherMethods, tc.DitherMethod) {
		return fmt.Errorf("%w: %s tier got %q, valid options: %s", ErrInvalidDither, tc.Name, tc.DitherMethod, strings.Join(DitherMethods, ", "))
	}
	return nil
}

// EffectiveConfig is the resolved, read-only configuration for a run.
type EffectiveConfig struct {
	Tiers           []TierConfig `json:"tiers"`
	VideoExtensions []string     `json:"supported_video_extensions"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() *EffectiveConfig {
	tiers := make([]TierConfig, 0, len(Tiers))
	for _, t := range Tiers {
		tiers = append(tiers, DefaultTier(t))
	}
	return &EffectiveConfig{
		Tiers:           tiers,
		VideoExtensions: slices.Clone(DefaultVideoExtensions),
	}
}

// Tier returns the settings for the named tier.
func (c *EffectiveConfig) Tier(t Tier) TierConfig {
	for _, tc := range c.Tiers {
		if tc.Name == t {
			return tc
		}
	}
	return DefaultTier(t)
}

// IsVideoExtension reports whether ext (with or without leading dot) is accepted.
func (c *EffectiveConfig) IsVideoExtension(ext string) bool {
	return slices.Contains(c.VideoExtensions, normalizeExtension(ext))
}

// Validate checks every tier and the extension set.
func (c *EffectiveConfig) Validate() error {
	for _, tc := range c.Tiers {
		if err := tc.Validate(); err != nil {
			return err
		}
	}
	for _, ext := range c.VideoExtensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("%w: empty entry in supported_video_extensions", ErrInvalidExtension)
		}
	}
	return nil
}

// TierFile is one tier entry as written in the JSON file. Nil fields are absent.
type TierFile struct {
	MaxWidth     *int    `json:"max_width,omitempty"`
	FPS          *int    `json:"fps,omitempty"`
	ColorDepth   *int    `json:"color_depth,omitempty"`
	DitherMethod *string `json:"dither_method,omitempty"`
}

// File is the on-disk configuration. The embedded TierFile carries the legacy
// flat keys; Versions carries the per-tier format.
type File struct {
	TierFile
	Versions                 map[string]TierFile `json:"versions,omitempty"`
	SupportedVideoExtensions []string            `json:"supported_video_extensions,omitempty"`
}

// Parse decodes a JSON configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and resolves the configuration at path. A missing file yields the
// defaults and found=false; unreadable or malformed files are configuration errors.
func Load(path string) (cfg *EffectiveConfig, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), false, nil
		}
		return nil, false, apperrors.NewConfigError(fmt.Sprintf("failed to read %s", path), err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, true, apperrors.NewConfigError(fmt.Sprintf("failed to parse %s", path), err)
	}

	cfg, err = Resolve(f)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Resolve turns a parsed configuration source into an EffectiveConfig.
// A nil source produces the defaults.
func Resolve(f *File) (*EffectiveConfig, error) {
	if f == nil {
		return Defaults(), nil
	}

	cfg := &EffectiveConfig{Tiers: make([]TierConfig, 0, len(Tiers))}

	if f.Versions != nil {
		for _, t := range Tiers {
			cfg.Tiers = append(cfg.Tiers, mergeTier(DefaultTier(t), f.Versions[string(t)]))
		}
	} else {
		legacyMedium := TierConfig{
			Name:         TierMedium,
			MaxWidth:     LegacyDefaultMaxWidth,
			FPS:          LegacyDefaultFPS,
			ColorDepth:   LegacyDefaultColorDepth,
			DitherMethod: LegacyDefaultDitherMethod,
		}
		cfg.Tiers = append(cfg.Tiers,
			DefaultTier(TierTiny),
			DefaultTier(TierSmall),
			mergeTier(legacyMedium, f.TierFile),
		)
	}

	if f.SupportedVideoExtensions != nil {
		cfg.VideoExtensions = make([]string, 0, len(f.SupportedVideoExtensions))
		for _, ext := range f.SupportedVideoExtensions {
			cfg.VideoExtensions = append(cfg.VideoExtensions, normalizeExtension(ext))
		}
	} else {
		cfg.VideoExtensions = slices.Clone(DefaultVideoExtensions)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// mergeTier overlays the fields present in tf onto base.
func mergeTier(base TierConfig, tf TierFile) TierConfig {
	if tf.MaxWidth != nil {
		base.MaxWidth = *tf.MaxWidth
	}
	if tf.FPS != nil {
		base.FPS = *tf.FPS
	}
	if tf.ColorDepth != nil {
		base.ColorDepth = *tf.ColorDepth
	}
	if tf.DitherMethod != nil {
		base.DitherMethod = *tf.DitherMethod
	}
	return base
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
