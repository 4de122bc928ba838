// Package config provides configuration types and defaults for video2gif.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidMaxWidth indicates a non-positive tier max width.
	ErrInvalidMaxWidth = errors.New("max_width must be positive")

	// ErrInvalidFPS indicates a non-positive tier frame rate.
	ErrInvalidFPS = errors.New("fps must be positive")

	// ErrInvalidColorDepth indicates a palette size outside 2-256.
	ErrInvalidColorDepth = errors.New("color_depth out of range")

	// ErrInvalidDither indicates an unknown dithering algorithm.
	ErrInvalidDither = errors.New("unknown dither_method")

	// ErrInvalidExtension indicates an empty entry in supported_video_extensions.
	ErrInvalidExtension = errors.New("invalid video extension")
)
