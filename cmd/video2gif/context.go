package main

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/five82/video2gif"
	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/deps"
	apperrors "github.com/five82/video2gif/internal/errors"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/reporter"
)

// Environment overrides, read after an optional .env file is loaded.
const (
	envConfig  = "VIDEO2GIF_CONFIG"
	envFFmpeg  = "VIDEO2GIF_FFMPEG"
	envFFprobe = "VIDEO2GIF_FFPROBE"
	envAddr    = "VIDEO2GIF_ADDR"
)

type commandContext struct {
	configFlag  string
	ffmpegFlag  string
	ffprobeFlag string
	logDir      string
	jsonOutput  bool
	verbose     bool
	noLog       bool

	configOnce sync.Once
	config     *config.EffectiveConfig
	configErr  error
}

func flagOrEnv(flag, env, fallback string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return fallback
}

func (c *commandContext) configPath() string {
	return flagOrEnv(c.configFlag, envConfig, config.DefaultConfigFile)
}

func (c *commandContext) ffmpegBinary() string {
	return flagOrEnv(c.ffmpegFlag, envFFmpeg, "ffmpeg")
}

func (c *commandContext) ffprobeBinary() string {
	return flagOrEnv(c.ffprobeFlag, envFFprobe, "ffprobe")
}

func (c *commandContext) ensureConfig() (*config.EffectiveConfig, error) {
	c.configOnce.Do(func() {
		cfg, found, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if found {
			logging.Debug("loaded configuration", "path", c.configPath())
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// setupLogging installs the global logger: a run log file unless --no-log,
// otherwise warnings on stderr.
func (c *commandContext) setupLogging(errOut io.Writer) (*logging.RunLog, error) {
	logDir := c.logDir
	if logDir == "" {
		logDir = logging.DefaultLogDir()
	}
	runLog, err := logging.Setup(logDir, c.verbose, c.noLog)
	if err != nil {
		return nil, err
	}
	if runLog != nil {
		logging.SetGlobal(runLog.Logger)
		return runLog, nil
	}

	level := logging.LevelWarn
	if c.verbose {
		level = logging.LevelDebug
	}
	logging.Init(level, errOut)
	return nil, nil
}

func (c *commandContext) requireFFmpeg(ctx context.Context) error {
	statuses := deps.CheckBinaries(ctx, deps.Requirements(c.ffmpegBinary(), c.ffprobeBinary()))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return apperrors.NewDependencyMissingError(missing[0].Command)
	}
	for _, s := range statuses {
		if !s.Available {
			logging.Warn("optional dependency missing", "name", s.Name, "detail", s.Detail)
		}
	}
	return nil
}

func (c *commandContext) newConverter(cfg *config.EffectiveConfig) (*video2gif.Converter, error) {
	return video2gif.New(
		video2gif.WithConfig(cfg),
		video2gif.WithFFmpeg(c.ffmpegBinary()),
		video2gif.WithFFprobe(c.ffprobeBinary()),
	)
}

func (c *commandContext) newReporter(out, errOut io.Writer, runLog *logging.RunLog) reporter.Reporter {
	var primary reporter.Reporter
	if c.jsonOutput {
		primary = reporter.NewJSONReporterWithWriter(out)
	} else {
		primary = reporter.NewTerminalReporterWithWriters(out, errOut, c.verbose, isTerminal(errOut))
	}
	if runLog == nil {
		return primary
	}
	return reporter.NewCompositeReporter(primary, reporter.NewLogReporter(runLog.Logger))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
