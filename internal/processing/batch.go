package processing

import (
	"context"
	"path/filepath"
	"time"

	"github.com/five82/video2gif/internal/reporter"
)

// ConvertBatch converts files one after another, reporting through rep.
// Remaining files are skipped once ctx is cancelled.
func (s *Service) ConvertBatch(ctx context.Context, files []string, rep reporter.Reporter) []*Result {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	start := time.Now()

	rep.BatchStarted(reporter.BatchStartInfo{
		TotalFiles: len(files),
		FileList:   files,
		Directory:  commonDir(files),
	})

	results := make([]*Result, 0, len(files))
	summaries := make([]reporter.ConversionSummary, 0, len(files))
	successful, canceled := 0, 0

	for i, file := range files {
		if ctx.Err() != nil {
			rep.Warning("conversion interrupted, skipping remaining files")
			break
		}
		rep.FileProgress(reporter.FileProgressContext{
			CurrentFile: i + 1,
			TotalFiles:  len(files),
			Input:       file,
		})

		res := s.Convert(ctx, file, ReporterHandler(rep))
		results = append(results, res)
		summaries = append(summaries, Summarize(res))

		switch {
		case res.Success:
			successful++
		case res.Canceled:
			canceled++
		default:
			rep.Error(reporter.ReporterError{
				Title:      "Conversion failed",
				Message:    res.Error,
				Context:    filepath.Base(file),
				Suggestion: "Check that ffmpeg is installed and the file is a readable video",
			})
		}
	}

	rep.BatchComplete(reporter.BatchSummary{
		SuccessfulCount: successful,
		CanceledCount:   canceled,
		TotalFiles:      len(files),
		TotalDuration:   time.Since(start),
		Conversions:     summaries,
	})
	return results
}

func commonDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		if filepath.Dir(f) != dir {
			return ""
		}
	}
	return dir
}
