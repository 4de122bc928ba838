// Package outputparse scrapes the conversion transcript for tier changes,
// progress estimates and per-tier metadata.
//
// The patterns here are a contract with the transcript format written by the
// processing package and with ffmpeg's progress lines. Changing either side
// silently breaks extraction.
package outputparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/five82/video2gif/internal/config"
)

// FramesPerPass is the assumed frame count of one encode pass.
const FramesPerPass = 180

// MaxEstimatedPercent caps the frame heuristic; 100 is only reported on completion.
const MaxEstimatedPercent = 95

var (
	tierHeaderRe   = regexp.MustCompile(`Creating (tiny|small|medium) version:`)
	frameRe        = regexp.MustCompile(`frame=\s*(\d+)`)
	sizeRe         = regexp.MustCompile(`• Size: (\d+x\d+)`)
	fpsRe          = regexp.MustCompile(`• FPS: (\d+)`)
	colorDepthRe   = regexp.MustCompile(`• Color depth: (\d+) colors`)
	ditherRe       = regexp.MustCompile(`• Dither method: ([a-z0-9_]+)`)
	originalSizeRe = regexp.MustCompile(`• Original size: (\d+x\d+)`)
	authorRe       = regexp.MustCompile(`(?m)Developed by (.+?)$`)
)

// SignalKind identifies what a transcript line announced.
type SignalKind int

const (
	// SignalTierChanged means a new tier block started.
	SignalTierChanged SignalKind = iota
	// SignalProgress means the frame-based estimate moved.
	SignalProgress
)

// Signal is a live event derived from one line of output.
type Signal struct {
	Kind    SignalKind
	Tier    config.Tier
	Percent int
}

// EstimateProgress converts an ffmpeg frame counter into a percentage.
func EstimateProgress(frame int) int {
	if frame <= 0 {
		return 0
	}
	pct := int(math.Round(float64(frame) / FramesPerPass * 100))
	return min(pct, MaxEstimatedPercent)
}

// Tracker follows the active tier across streamed lines. It is not safe for
// concurrent use; callers feed it from a single goroutine.
type Tracker struct {
	active  config.Tier
	percent int
}

// NewTracker returns a tracker with no active tier.
func NewTracker() *Tracker {
	return &Tracker{}
}

// ActiveTier returns the tier whose block is currently streaming, or "".
func (t *Tracker) ActiveTier() config.Tier {
	return t.active
}

// Percent returns the last progress estimate for the active tier.
func (t *Tracker) Percent() int {
	return t.percent
}

// ObserveLine inspects one line and reports a signal if the line changed
// the active tier or moved the progress estimate.
func (t *Tracker) ObserveLine(line string) (Signal, bool) {
	if m := tierHeaderRe.FindStringSubmatch(line); m != nil {
		t.active = config.Tier(m[1])
		t.percent = 0
		return Signal{Kind: SignalTierChanged, Tier: t.active}, true
	}

	if m := frameRe.FindStringSubmatch(line); m != nil {
		frame, err := strconv.Atoi(m[1])
		if err != nil {
			return Signal{}, false
		}
		pct := EstimateProgress(frame)
		if pct == t.percent {
			return Signal{}, false
		}
		t.percent = pct
		return Signal{Kind: SignalProgress, Tier: t.active, Percent: pct}, true
	}

	return Signal{}, false
}

// Metadata is what the transcript revealed about a conversion. Per-tier maps
// are keyed by tier name; a missing key means the value was not reported.
type Metadata struct {
	Dimensions   map[string]string `json:"dimensions"`
	FPS          map[string]string `json:"fps"`
	ColorDepth   map[string]string `json:"colorDepth"`
	DitherMethod map[string]string `json:"ditherMethod"`
	OriginalSize string            `json:"originalSize,omitempty"`
	Author       string            `json:"author,omitempty"`
}

// NewMetadata returns empty metadata with initialized maps.
func NewMetadata() Metadata {
	return Metadata{
		Dimensions:   make(map[string]string),
		FPS:          make(map[string]string),
		ColorDepth:   make(map[string]string),
		DitherMethod: make(map[string]string),
	}
}

// Extract scans a full transcript. Each tier's fields are read only from
// that tier's block, which ends at the next tier header of any kind.
func Extract(text string) Metadata {
	md := NewMetadata()

	if m := originalSizeRe.FindStringSubmatch(text); m != nil {
		md.OriginalSize = m[1]
	}
	if m := authorRe.FindStringSubmatch(text); m != nil {
		md.Author = strings.TrimSpace(m[1])
	}

	headers := tierHeaderRe.FindAllStringSubmatchIndex(text, -1)
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		tier := text[h[2]:h[3]]
		if seen[tier] {
			continue
		}
		seen[tier] = true

		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		block := text[h[1]:end]

		setFirst(md.Dimensions, tier, sizeRe, block)
		setFirst(md.FPS, tier, fpsRe, block)
		setFirst(md.ColorDepth, tier, colorDepthRe, block)
		setFirst(md.DitherMethod, tier, ditherRe, block)
	}

	return md
}

func setFirst(dst map[string]string, tier string, re *regexp.Regexp, block string) {
	if m := re.FindStringSubmatch(block); m != nil {
		dst[tier] = m[1]
	}
}
