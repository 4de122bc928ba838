package reporter

import (
	"github.com/five82/video2gif/internal/logging"
)

// LogReporter mirrors reporter events into a structured log. Raw encoder
// output goes to debug level.
type LogReporter struct {
	log *logging.Logger
}

// NewLogReporter returns a reporter writing to log, or nil if log is nil.
func NewLogReporter(log *logging.Logger) Reporter {
	if log == nil {
		return nil
	}
	return &LogReporter{log: log}
}

func (r *LogReporter) Output(line OutputLine) {
	r.log.Debug(line.Line, "stream", line.Stream, "input", line.Input)
}

func (r *LogReporter) TierChanged(input, tier string) {
	r.log.Info("tier started", "input", input, "tier", tier)
}

func (r *LogReporter) TierProgress(TierProgress) {}

func (r *LogReporter) ConversionComplete(summary ConversionSummary) {
	switch {
	case summary.Canceled:
		r.log.Warn("conversion canceled", "input", summary.Input)
	case !summary.Success:
		r.log.Error("conversion failed", "input", summary.Input, "error", summary.Error)
	default:
		for _, t := range summary.Tiers {
			if !t.Produced {
				r.log.Warn("tier not created", "input", summary.Input, "tier", t.Tier, "output", t.OutputPath)
				continue
			}
			r.log.Info("tier created",
				"input", summary.Input,
				"tier", t.Tier,
				"output", t.OutputPath,
				"size", t.Size,
				"dimensions", t.Dimensions,
				"reduction_percent", t.Reduction)
		}
		r.log.Info("conversion complete", "input", summary.Input, "elapsed", summary.Elapsed.String())
	}
}

func (r *LogReporter) Warning(message string) {
	r.log.Warn(message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.log.Error(err.Title, "message", err.Message, "context", err.Context)
}

func (r *LogReporter) BatchStarted(info BatchStartInfo) {
	r.log.Info("batch started", "directory", info.Directory, "files", info.TotalFiles)
}

func (r *LogReporter) FileProgress(context FileProgressContext) {
	r.log.Info("processing file", "index", context.CurrentFile, "total", context.TotalFiles, "input", context.Input)
}

func (r *LogReporter) BatchComplete(summary BatchSummary) {
	r.log.Info("batch complete",
		"succeeded", summary.SuccessfulCount,
		"canceled", summary.CanceledCount,
		"total", summary.TotalFiles,
		"elapsed", summary.TotalDuration.String())
}

func (r *LogReporter) Verbose(message string) {
	r.log.Debug(message)
}
