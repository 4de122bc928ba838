package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/video2gif/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu           sync.Mutex
	out          io.Writer
	errOut       io.Writer
	verbose      bool
	showProgress bool
	progress     *progressbar.ProgressBar
	maxPercent   int
	cyan         *color.Color
	green        *color.Color
	yellow       *color.Color
	red          *color.Color
	faint        *color.Color
	bold         *color.Color
}

// NewTerminalReporterWithWriters creates a terminal reporter with custom writers.
func NewTerminalReporterWithWriters(out, errOut io.Writer, verbose, showProgress bool) *TerminalReporter {
	return &TerminalReporter{
		out:          out,
		errOut:       errOut,
		verbose:      verbose,
		showProgress: showProgress,
		cyan:         color.New(color.FgCyan, color.Bold),
		green:        color.New(color.FgGreen),
		yellow:       color.New(color.FgYellow, color.Bold),
		red:          color.New(color.FgRed, color.Bold),
		faint:        color.New(color.Faint),
		bold:         color.New(color.Bold),
	}
}

// finishProgress must be called with r.mu held.
func (r *TerminalReporter) finishProgress() {
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) Output(line OutputLine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if line.Stream == "stderr" {
		if r.verbose {
			r.finishProgress()
			_, _ = r.faint.Fprintln(r.errOut, line.Line)
		}
		return
	}

	r.finishProgress()
	trimmed := strings.TrimSpace(line.Line)
	switch {
	case strings.HasPrefix(trimmed, "✓"):
		_, _ = r.green.Fprintln(r.out, line.Line)
	case strings.HasPrefix(trimmed, "✗"):
		_, _ = r.red.Fprintln(r.out, line.Line)
	case strings.HasPrefix(trimmed, "Creating ") && strings.HasSuffix(trimmed, "version:"):
		_, _ = r.cyan.Fprintln(r.out, line.Line)
	case strings.HasPrefix(trimmed, "video2gif v"):
		_, _ = r.bold.Fprintln(r.out, line.Line)
	default:
		_, _ = fmt.Fprintln(r.out, line.Line)
	}
}

func (r *TerminalReporter) TierChanged(_, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishProgress()
}

func (r *TerminalReporter) TierProgress(progress TierProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.showProgress {
		return
	}
	if r.progress == nil {
		r.progress = progressbar.NewOptions64(
			100,
			progressbar.OptionSetDescription(progress.Tier),
			progressbar.OptionSetWidth(40),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWriter(r.errOut),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowDescriptionAtLineEnd(),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "    [",
				BarEnd:        "]",
			}),
		)
	}

	clamped := min(max(progress.Percent, 0), 100)
	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}
	r.progress.Describe(progress.Tier)
}

func (r *TerminalReporter) ConversionComplete(summary ConversionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishProgress()

	name := filepath.Base(summary.Input)
	switch {
	case summary.Canceled:
		_, _ = r.yellow.Fprintf(r.out, "\nConversion of %s canceled\n", name)
	case !summary.Success:
		_, _ = fmt.Fprintln(r.errOut)
		_, _ = r.red.Fprintf(r.errOut, "ERROR Conversion failed: %s\n", name)
		_, _ = fmt.Fprintf(r.errOut, "  %s\n", summary.Error)
	default:
		produced := 0
		for _, t := range summary.Tiers {
			if t.Produced {
				produced++
			}
		}
		fmt.Fprintf(r.out, "\n%s %s (%d of %d versions in %s)\n",
			color.New(color.FgGreen, color.Bold).Sprint("✓"),
			r.bold.Sprintf("Finished %s", name),
			produced, len(summary.Tiers),
			util.FormatElapsed(summary.Elapsed))
	}
}

func (r *TerminalReporter) Warning(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishProgress()
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishProgress()

	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "BATCH")
	fmt.Fprintf(r.out, "  Found %d video(s) in %s\n", info.TotalFiles, r.bold.Sprint(info.Directory))
	for i, name := range info.FileList {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileProgress(context FileProgressContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "\nFile %s of %d\n", r.bold.Sprint(context.CurrentFile), context.TotalFiles)
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishProgress()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SUMMARY")
	fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d of %d converted", summary.SuccessfulCount, summary.TotalFiles))
	if summary.CanceledCount > 0 {
		fmt.Fprintf(r.out, "  %s\n", r.yellow.Sprintf("%d canceled", summary.CanceledCount))
	}
	fmt.Fprintf(r.out, "  Time: %s\n", util.FormatElapsed(summary.TotalDuration))
	if len(summary.Conversions) > 0 {
		fmt.Fprintln(r.out, SizeTable(summary.Conversions))
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.faint.Fprintln(r.errOut, message)
}
