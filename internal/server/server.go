// Package server exposes the conversion service over HTTP, with a WebSocket
// feed of each conversion's events.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/processing"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8088"

// DefaultQueueSize bounds how many conversions may wait for the worker.
const DefaultQueueSize = 64

const shutdownTimeout = 10 * time.Second

// Bus topics.
const (
	topicEvent  = "conversion:event"
	topicStatus = "conversion:status"
)

// Converter runs one conversion and streams its events.
type Converter interface {
	Convert(ctx context.Context, inputPath string, handler processing.EventHandler) *processing.Result
}

// Options configures a Server.
type Options struct {
	Addr      string
	QueueSize int
	Config    *config.EffectiveConfig
	Logger    *logging.Logger
}

// Server accepts conversion requests and runs them one at a time.
type Server struct {
	conv     Converter
	cfg      *config.EffectiveConfig
	log      *logging.Logger
	addr     string
	bus      evbus.Bus
	router   *gin.Engine
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	jobs  map[string]*Job
	queue chan *Job
}

// New creates a server around conv.
func New(conv Converter, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Config == nil {
		opts.Config = config.Defaults()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Global()
	}

	s := &Server{
		conv: conv,
		cfg:  opts.Config,
		log:  opts.Logger.WithComponent("server"),
		addr: opts.Addr,
		bus:  evbus.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		jobs:  make(map[string]*Job),
		queue: make(chan *Job, opts.QueueSize),
	}

	// Single subscribers: the bus only decouples the worker from job state.
	_ = s.bus.Subscribe(topicEvent, s.recordEvent)
	_ = s.bus.Subscribe(topicStatus, s.logStatus)

	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP and processes the queue until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		s.Work(ctx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}
	<-workerDone

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Work runs queued jobs one at a time until ctx is cancelled. A running
// conversion is cancelled with ctx.
func (s *Server) Work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			s.runJob(ctx, job)
		}
	}
}

func (s *Server) runJob(ctx context.Context, job *Job) {
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !job.start(cancel) {
		return
	}
	s.bus.Publish(topicStatus, job.ID, StatusRunning)

	res := s.conv.Convert(jobCtx, job.Path, func(ev processing.Event) {
		s.bus.Publish(topicEvent, job.ID, ev)
	})

	job.finish(res)
	s.bus.Publish(topicStatus, job.ID, job.Status())
}

// Enqueue registers a conversion of path and queues it.
func (s *Server) Enqueue(path string) (*Job, error) {
	job := newJob(uuid.NewString(), path)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	select {
	case s.queue <- job:
	default:
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, errQueueFull
	}

	s.bus.Publish(topicStatus, job.ID, StatusQueued)
	return job, nil
}

// Job looks up a job by ID.
func (s *Server) Job(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Cancel stops a queued or running job. It reports false when the job had
// already finished.
func (s *Server) Cancel(job *Job) bool {
	wasQueued, ok := job.requestCancel()
	if !ok {
		return false
	}
	if wasQueued {
		// The worker skips it; close out its event stream here.
		res := &processing.Result{
			Canceled: true,
			Error:    "canceled before start",
			Original: processing.VideoDescriptor{Path: job.Path},
		}
		job.finish(res)
		s.bus.Publish(topicEvent, job.ID, processing.Event{
			Type:   processing.EventComplete,
			Input:  job.Path,
			Result: res,
			Time:   time.Now(),
		})
		s.bus.Publish(topicStatus, job.ID, StatusCanceled)
	}
	return true
}

func (s *Server) recordEvent(id string, ev processing.Event) {
	if job, ok := s.Job(id); ok {
		job.record(ev)
	}
}

func (s *Server) logStatus(id string, status Status) {
	s.log.Info("job status", "id", id, "status", status)
}

var errQueueFull = errors.New("conversion queue is full")
