package processing

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/five82/video2gif/internal/errors"
	"github.com/five82/video2gif/internal/ffmpeg"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/outputparse"
)

// Service is the conversion facade: it runs the orchestrator for one input,
// turns its output into events and produces the final Result. It keeps no
// state between conversions.
type Service struct {
	orch *Orchestrator
	log  *logging.Logger
}

// NewService wraps an orchestrator.
func NewService(orch *Orchestrator) *Service {
	return &Service{orch: orch, log: orch.log}
}

// Orchestrator returns the underlying orchestrator.
func (s *Service) Orchestrator() *Orchestrator {
	return s.orch
}

// Convert runs a full conversion of inputPath. Events are delivered to
// handler in order; the last one is always EventComplete. Failures are
// reported in the returned Result, never as an error.
func (s *Service) Convert(ctx context.Context, inputPath string, handler EventHandler) *Result {
	if handler == nil {
		handler = NopHandler
	}
	start := time.Now()

	var (
		mu      sync.Mutex
		text    strings.Builder
		tracker = outputparse.NewTracker()
	)
	emit := func(ev Event) {
		ev.Input = inputPath
		ev.Time = time.Now()
		handler(ev)
	}

	lines := func(stream ffmpeg.Stream, line string) {
		mu.Lock()
		defer mu.Unlock()

		evType := EventStdout
		if stream == ffmpeg.Stderr {
			evType = EventStderr
		} else {
			text.WriteString(line)
			text.WriteByte('\n')
		}
		emit(Event{Type: evType, Data: line})

		sig, ok := tracker.ObserveLine(line)
		if !ok {
			return
		}
		switch sig.Kind {
		case outputparse.SignalTierChanged:
			emit(Event{Type: EventTierChanged, Tier: sig.Tier})
		case outputparse.SignalProgress:
			emit(Event{Type: EventProgress, Tier: sig.Tier, Percent: sig.Percent})
		}
	}

	res, err := s.orch.Run(ctx, inputPath, lines)

	mu.Lock()
	defer mu.Unlock()

	switch {
	case err == nil:
		res.Success = true
	case apperrors.IsCancelled(err) || ctx.Err() != nil:
		res.Canceled = true
		res.Error = apperrors.NewCancelledError().Error()
		s.log.Info("conversion canceled", "input", filepath.Base(inputPath))
	default:
		res.Error = err.Error()
		s.log.Error("conversion failed", "input", filepath.Base(inputPath), "error", err)
	}
	res.Metadata = outputparse.Extract(text.String())
	res.Elapsed = time.Since(start)

	emit(Event{Type: EventComplete, Result: res})
	return res
}
