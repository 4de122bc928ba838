// Package video2gif converts a video into three GIF renditions (tiny, small
// and medium) with ffmpeg's two-pass palette pipeline.
//
// Basic usage:
//
//	conv, err := video2gif.New(video2gif.WithConfigFile("config.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := conv.Convert(ctx, "clip.mp4", nil)
//	for _, tier := range res.Tiers {
//	    fmt.Printf("%s: %s (%.2f%% smaller)\n", tier.Tier, tier.OutputPath, tier.SizeReduction)
//	}
package video2gif

import (
	"context"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/discovery"
	"github.com/five82/video2gif/internal/ffmpeg"
	"github.com/five82/video2gif/internal/ffprobe"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/processing"
	"github.com/five82/video2gif/internal/reporter"
)

// Version is the converter version written to every transcript.
const Version = processing.Version

// Re-exported configuration types.
type (
	Config     = config.EffectiveConfig
	TierConfig = config.TierConfig
	Tier       = config.Tier
)

const (
	TierTiny   = config.TierTiny
	TierSmall  = config.TierSmall
	TierMedium = config.TierMedium
)

// Re-exported result types.
type (
	Result          = processing.Result
	TierResult      = processing.TierResult
	VideoDescriptor = processing.VideoDescriptor
)

// Reporter receives batch progress; see ConvertBatch.
type Reporter = reporter.Reporter

// LoadConfig reads a JSON configuration file. A missing file yields the
// defaults and found=false.
func LoadConfig(path string) (cfg *Config, found bool, err error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in tier settings.
func DefaultConfig() *Config {
	return config.Defaults()
}

type options struct {
	cfg        *config.EffectiveConfig
	configPath string
	ffmpeg     string
	ffprobe    string
	lockDir    string
}

// Option configures a Converter.
type Option func(*options)

// WithConfig uses an already resolved configuration.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithConfigFile loads the configuration from path. A missing file falls
// back to the defaults.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configPath = path }
}

// WithFFmpeg sets the ffmpeg binary.
func WithFFmpeg(binary string) Option {
	return func(o *options) { o.ffmpeg = binary }
}

// WithFFprobe sets the ffprobe binary used to read source dimensions.
func WithFFprobe(binary string) Option {
	return func(o *options) { o.ffprobe = binary }
}

// WithLockDir sets where per-directory lock files are created.
func WithLockDir(dir string) Option {
	return func(o *options) { o.lockDir = dir }
}

// Converter turns videos into tiered GIFs. It is safe to reuse across
// conversions; conversions in the same directory are serialized.
type Converter struct {
	cfg *config.EffectiveConfig
	svc *processing.Service
}

// New creates a Converter. Only configuration problems are reported here;
// a missing ffmpeg surfaces as a failed conversion.
func New(opts ...Option) (*Converter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil && o.configPath != "" {
		loaded, _, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Defaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	orch := processing.NewOrchestrator(
		cfg,
		ffmpeg.NewExecutor(o.ffmpeg),
		ffprobe.NewProber(o.ffprobe),
		processing.WithLockDir(o.lockDir),
		processing.WithLogger(logging.Global().WithComponent("processing")),
	)
	return &Converter{cfg: cfg, svc: processing.NewService(orch)}, nil
}

// Config returns the configuration in use.
func (c *Converter) Config() *Config {
	return c.cfg
}

// Convert converts one video into every tier. handler, if non-nil, receives
// the conversion's events in order, ending with EventComplete.
func (c *Converter) Convert(ctx context.Context, input string, handler EventHandler) *Result {
	return c.svc.Convert(ctx, input, handler)
}

// ConvertBatch converts inputs sequentially, reporting progress through rep.
func (c *Converter) ConvertBatch(ctx context.Context, inputs []string, rep Reporter) []*Result {
	return c.svc.ConvertBatch(ctx, inputs, rep)
}

// FindVideos lists the accepted videos directly inside dir.
func (c *Converter) FindVideos(dir string) ([]string, error) {
	result, err := discovery.FindVideoFiles(dir, c.cfg, logging.Global())
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
