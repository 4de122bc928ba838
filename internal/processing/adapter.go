package processing

import (
	"fmt"

	"github.com/five82/video2gif/internal/reporter"
)

// ReporterHandler forwards conversion events to a reporter.
func ReporterHandler(rep reporter.Reporter) EventHandler {
	return func(ev Event) {
		switch ev.Type {
		case EventStdout, EventStderr:
			rep.Output(reporter.OutputLine{Input: ev.Input, Stream: string(ev.Type), Line: ev.Data})
		case EventTierChanged:
			rep.TierChanged(ev.Input, string(ev.Tier))
		case EventProgress:
			rep.TierProgress(reporter.TierProgress{Input: ev.Input, Tier: string(ev.Tier), Percent: ev.Percent})
		case EventComplete:
			if ev.Result != nil {
				rep.ConversionComplete(Summarize(ev.Result))
			}
		}
	}
}

// Summarize converts a Result into the reporter's summary form.
func Summarize(res *Result) reporter.ConversionSummary {
	summary := reporter.ConversionSummary{
		Input:        res.Original.Path,
		Success:      res.Success,
		Canceled:     res.Canceled,
		Error:        res.Error,
		OriginalSize: res.Original.Size,
		Elapsed:      res.Elapsed,
	}
	if res.Original.Width > 0 {
		summary.Dimensions = fmt.Sprintf("%dx%d", res.Original.Width, res.Original.Height)
	}
	for _, tr := range res.Tiers {
		summary.Tiers = append(summary.Tiers, reporter.TierSummary{
			Tier:       string(tr.Tier),
			OutputPath: tr.OutputPath,
			Size:       tr.Size,
			Dimensions: tr.Dimensions,
			Reduction:  tr.SizeReduction,
			Produced:   tr.Produced,
		})
	}
	return summary
}
