// Package ffprobe reads source video properties using ffprobe.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"

	apperrors "github.com/five82/video2gif/internal/errors"
)

// DefaultBinary is the ffprobe executable looked up on PATH.
const DefaultBinary = "ffprobe"

// VideoInfo holds the properties of the first video stream.
type VideoInfo struct {
	Width        int
	Height       int
	DurationSecs float64
}

// ffprobeOutput represents the JSON output from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
}

type ffprobeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Prober runs ffprobe.
type Prober struct {
	Binary string
}

// NewProber returns a prober for binary, or ffprobe on PATH when empty.
func NewProber(binary string) *Prober {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Prober{Binary: binary}
}

// Probe returns the first video stream's dimensions and the container duration.
func (p *Prober) Probe(ctx context.Context, inputPath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, p.Binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_type,width,height:format=duration",
		"-print_format", "json",
		inputPath,
	)

	output, err := cmd.Output()
	if err != nil {
		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = string(exitErr.Stderr)
		}
		return nil, apperrors.NewProbeError(inputPath, apperrors.WrapExecError(p.Binary, err, stderr))
	}

	probe, err := parseFFprobeOutput(output)
	if err != nil {
		return nil, apperrors.NewProbeError(inputPath, err)
	}
	return videoInfo(inputPath, probe)
}

func parseFFprobeOutput(data []byte) (*ffprobeOutput, error) {
	var result ffprobeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, apperrors.NewJSONParseError("failed to parse ffprobe output", err)
	}
	return &result, nil
}

func videoInfo(inputPath string, probe *ffprobeOutput) (*VideoInfo, error) {
	info := &VideoInfo{}
	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			info.DurationSecs = d
		}
	}

	for _, s := range probe.Streams {
		if s.CodecType != "" && s.CodecType != "video" {
			continue
		}
		if s.Width <= 0 || s.Height <= 0 {
			break
		}
		info.Width = s.Width
		info.Height = s.Height
		return info, nil
	}
	return nil, apperrors.NewProbeError(inputPath, nil)
}
