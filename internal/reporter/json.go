package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one object per line.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v map[string]any) {
	v["timestamp"] = r.timestamp()

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) Output(line OutputLine) {
	r.write(map[string]any{
		"type":  line.Stream,
		"input": line.Input,
		"data":  line.Line,
	})
}

func (r *JSONReporter) TierChanged(input, tier string) {
	r.write(map[string]any{
		"type":  "tier-changed",
		"input": input,
		"tier":  tier,
	})
}

func (r *JSONReporter) TierProgress(progress TierProgress) {
	r.write(map[string]any{
		"type":    "progress",
		"input":   progress.Input,
		"tier":    progress.Tier,
		"percent": progress.Percent,
	})
}

func (r *JSONReporter) ConversionComplete(summary ConversionSummary) {
	tiers := make([]map[string]any, 0, len(summary.Tiers))
	for _, t := range summary.Tiers {
		tiers = append(tiers, map[string]any{
			"tier":                   t.Tier,
			"output_path":            t.OutputPath,
			"size":                   t.Size,
			"dimensions":             t.Dimensions,
			"size_reduction_percent": t.Reduction,
			"produced":               t.Produced,
		})
	}

	event := map[string]any{
		"type":            "complete",
		"input":           summary.Input,
		"success":         summary.Success,
		"canceled":        summary.Canceled,
		"original_size":   summary.OriginalSize,
		"dimensions":      summary.Dimensions,
		"tiers":           tiers,
		"elapsed_seconds": int64(summary.Elapsed.Seconds()),
	}
	if summary.Error != "" {
		event["error"] = summary.Error
	}
	r.write(event)
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]any{
		"type":    "warning",
		"message": message,
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]any{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
	})
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]any{
		"type":        "batch_started",
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"directory":   info.Directory,
	})
}

func (r *JSONReporter) FileProgress(context FileProgressContext) {
	r.write(map[string]any{
		"type":         "file_progress",
		"current_file": context.CurrentFile,
		"total_files":  context.TotalFiles,
		"input":        context.Input,
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]any{
		"type":                   "batch_complete",
		"successful_count":       summary.SuccessfulCount,
		"canceled_count":         summary.CanceledCount,
		"total_files":            summary.TotalFiles,
		"total_duration_seconds": int64(summary.TotalDuration.Seconds()),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]any{
		"type":    "verbose",
		"message": message,
	})
}
