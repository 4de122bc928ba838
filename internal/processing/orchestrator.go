// Package processing runs the tiered video-to-GIF pipeline and exposes it as
// a conversion service with a streamed event feed.
package processing

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/dimensions"
	apperrors "github.com/five82/video2gif/internal/errors"
	"github.com/five82/video2gif/internal/ffmpeg"
	"github.com/five82/video2gif/internal/ffprobe"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/util"
)

// Banner values written at the top of every transcript.
const (
	Version = "1.0.0"
	Author  = "Florian Bidabe / Photon Security (www.photonsec.com.au)"
)

// Encoder runs the two ffmpeg passes of a tier.
type Encoder interface {
	Palette(ctx context.Context, job ffmpeg.TierJob, handler ffmpeg.LineHandler) error
	Encode(ctx context.Context, job ffmpeg.TierJob, handler ffmpeg.LineHandler) error
}

// Prober reads source video dimensions.
type Prober interface {
	Probe(ctx context.Context, inputPath string) (*ffprobe.VideoInfo, error)
}

// Orchestrator drives the tiers for one input at a time. It holds no state
// between conversions besides its read-only configuration.
type Orchestrator struct {
	cfg     *config.EffectiveConfig
	encoder Encoder
	prober  Prober
	lockDir string
	log     *logging.Logger
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLockDir sets where directory lock files are created.
func WithLockDir(dir string) OrchestratorOption {
	return func(o *Orchestrator) { o.lockDir = dir }
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l *logging.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOrchestrator creates an orchestrator. A nil prober leaves source
// dimensions unknown.
func NewOrchestrator(cfg *config.EffectiveConfig, encoder Encoder, prober Prober, opts ...OrchestratorOption) *Orchestrator {
	if cfg == nil {
		cfg = config.Defaults()
	}
	o := &Orchestrator{
		cfg:     cfg,
		encoder: encoder,
		prober:  prober,
		log:     logging.Global(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Config returns the configuration the orchestrator runs with.
func (o *Orchestrator) Config() *config.EffectiveConfig {
	return o.cfg
}

// transcript writes the human-readable progress lines to the stdout stream.
type transcript struct {
	out ffmpeg.LineHandler
}

func (t transcript) line(format string, args ...any) {
	if t.out != nil {
		t.out(ffmpeg.Stdout, fmt.Sprintf(format, args...))
	}
}

// Run converts inputPath into every tier. Transcript lines and ffmpeg output
// are delivered to out as they are produced. Tier failures are recorded in
// the result; an error is returned only when the pipeline itself could not
// run (missing source, ffmpeg not startable, lock failure) or ctx ended, in
// which case the partial result is still returned.
func (o *Orchestrator) Run(ctx context.Context, inputPath string, out ffmpeg.LineHandler) (*Result, error) {
	res := &Result{Original: VideoDescriptor{Path: inputPath}}

	size, err := util.GetFileSize(inputPath)
	if err != nil {
		return res, apperrors.NewProcessError(fmt.Sprintf("cannot read %s", inputPath), err)
	}
	res.Original.Size = size

	dir := filepath.Dir(inputPath)
	lock, err := lockDirectory(ctx, o.lockDir, dir)
	if err != nil {
		if ctx.Err() != nil {
			return res, apperrors.NewCancelledError()
		}
		return res, apperrors.NewProcessError(fmt.Sprintf("cannot lock %s", dir), err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			o.log.Warn("failed to release directory lock", "path", lock.Path(), "error", err)
		}
	}()

	tr := transcript{out: out}
	tr.line("video2gif v%s", Version)
	tr.line("Developed by %s", Author)
	tr.line("Converting %s to multiple GIF versions...", filepath.Base(inputPath))

	res.Original.Width, res.Original.Height = o.probe(ctx, inputPath)
	if res.Original.Width > 0 {
		tr.line("  • Original size: %dx%d", res.Original.Width, res.Original.Height)
	}

	for _, tier := range config.Tiers {
		if ctx.Err() != nil {
			return res, apperrors.NewCancelledError()
		}

		tierRes, err := o.runTier(ctx, tr, out, inputPath, res.Original, tier)
		res.Tiers = append(res.Tiers, tierRes)
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// probe returns the source dimensions, or (0, 0) when they cannot be read.
func (o *Orchestrator) probe(ctx context.Context, inputPath string) (int, int) {
	if o.prober == nil {
		o.log.Warn("no prober configured, source dimensions unknown", "input", inputPath)
		return 0, 0
	}
	info, err := o.prober.Probe(ctx, inputPath)
	if err != nil {
		o.log.Warn("could not determine dimensions", "input", filepath.Base(inputPath), "error", err)
		return 0, 0
	}
	return info.Width, info.Height
}

// runTier runs both passes for one tier. A returned error aborts the
// remaining tiers.
func (o *Orchestrator) runTier(
	ctx context.Context,
	tr transcript,
	out ffmpeg.LineHandler,
	inputPath string,
	src VideoDescriptor,
	tier config.Tier,
) (TierResult, error) {
	tc := o.cfg.Tier(tier)
	maxWidth := dimensions.TierMaxWidth(tc, src.Width)
	w, h := dimensions.Plan(src.Width, src.Height, maxWidth)

	job := ffmpeg.TierJob{
		Tier:         tier,
		Input:        inputPath,
		PalettePath:  dimensions.PalettePath(inputPath, tier),
		OutputPath:   dimensions.OutputPath(inputPath, tier),
		Width:        w,
		Height:       h,
		FPS:          tc.FPS,
		ColorDepth:   tc.ColorDepth,
		DitherMethod: tc.DitherMethod,
	}
	result := TierResult{
		Tier:       tier,
		OutputPath: job.OutputPath,
		Width:      w,
		Height:     h,
		Dimensions: fmt.Sprintf("%dx%d", w, h),
	}

	tr.line("")
	tr.line("  Creating %s version:", tier)
	tr.line("  • Size: %dx%d", w, h)
	tr.line("  • FPS: %d", tc.FPS)
	tr.line("  • Color depth: %d colors", tc.ColorDepth)
	tr.line("  • Dither method: %s", tc.DitherMethod)

	defer func() {
		if err := util.RemoveIfExists(job.PalettePath); err != nil {
			o.log.Warn("failed to remove palette", "path", job.PalettePath, "error", err)
		}
	}()

	// A stale GIF from an earlier run must not count as this run's output.
	if err := util.RemoveIfExists(job.OutputPath); err != nil {
		o.log.Warn("failed to remove previous output", "path", job.OutputPath, "error", err)
	}

	tr.line("  • Generating color palette...")
	passErr := o.encoder.Palette(ctx, job, out)
	if fatal := o.fatalPassError(ctx, tier, "palette", passErr); fatal != nil {
		result.Error = passErr.Error()
		return result, fatal
	}

	tr.line("  • Creating optimized GIF...")
	encodeErr := o.encoder.Encode(ctx, job, out)
	if fatal := o.fatalPassError(ctx, tier, "encode", encodeErr); fatal != nil {
		result.Error = encodeErr.Error()
		return result, fatal
	}
	if encodeErr == nil {
		encodeErr = passErr
	}

	gifSize, err := util.GetFileSize(job.OutputPath)
	if err != nil {
		tierErr := apperrors.NewTierEncodeError(string(tier), job.OutputPath)
		result.Error = tierErr.Error()
		if encodeErr != nil {
			result.Error = encodeErr.Error()
		}
		o.log.Warn("tier not created", "tier", tier, "output", job.OutputPath, "error", result.Error)
		tr.line("  ✗ Failed to create %s version", tier)
		return result, nil
	}

	result.Produced = true
	result.Size = gifSize
	result.SizeReduction = util.CalculateSizeReduction(src.Size, gifSize)

	tr.line("  ✓ %s version complete!", tier)
	tr.line("    • Size: %s (%.2f%% reduction)", util.FormatBytes(gifSize), result.SizeReduction)
	tr.line("    • Saved to: %s", job.OutputPath)
	return result, nil
}

// fatalPassError classifies a pass failure. Cancellation and an ffmpeg that
// cannot be started end the conversion; a non-zero exit only fails the tier.
func (o *Orchestrator) fatalPassError(ctx context.Context, tier config.Tier, pass string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || apperrors.IsCancelled(err) {
		return apperrors.NewCancelledError()
	}
	if apperrors.IsCommandStart(err) {
		return apperrors.NewProcessError("ffmpeg could not be started", err)
	}
	o.log.Debug("pass failed", "tier", tier, "pass", pass, "error", err)
	return nil
}
