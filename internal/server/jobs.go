package server

import (
	"context"
	"sync"
	"time"

	"github.com/five82/video2gif/internal/processing"
)

// Status is the lifecycle state of a conversion job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// listenerBuffer is how many events a slow WebSocket client may lag behind
// before further events are dropped for it.
const listenerBuffer = 1024

// Job is one queued or finished conversion.
type Job struct {
	ID        string
	Path      string
	CreatedAt time.Time

	mu         sync.Mutex
	status     Status
	result     *processing.Result
	finishedAt time.Time
	cancel     context.CancelFunc
	events     []processing.Event
	listeners  map[int]chan processing.Event
	nextListen int
	done       bool
}

// JobView is the JSON form of a job.
type JobView struct {
	ID         string             `json:"id"`
	Path       string             `json:"path"`
	Status     Status             `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	Result     *processing.Result `json:"result,omitempty"`
}

func newJob(id, path string) *Job {
	return &Job{
		ID:        id,
		Path:      path,
		CreatedAt: time.Now(),
		status:    StatusQueued,
		listeners: make(map[int]chan processing.Event),
	}
}

// View returns a snapshot of the job.
func (j *Job) View() JobView {
	j.mu.Lock()
	defer j.mu.Unlock()

	v := JobView{
		ID:        j.ID,
		Path:      j.Path,
		Status:    j.status,
		CreatedAt: j.CreatedAt,
		Result:    j.result,
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		v.FinishedAt = &t
	}
	return v
}

// Status returns the job's current status.
func (j *Job) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Result returns the final result, or nil while the job is unfinished.
func (j *Job) Result() *processing.Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// start moves a queued job to running. It returns false when the job was
// canceled while waiting.
func (j *Job) start(cancel context.CancelFunc) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusQueued {
		return false
	}
	j.status = StatusRunning
	j.cancel = cancel
	return true
}

// finish records the terminal result.
func (j *Job) finish(res *processing.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.result = res
	j.finishedAt = time.Now()
	j.cancel = nil
	switch {
	case res.Canceled:
		j.status = StatusCanceled
	case res.Success:
		j.status = StatusSucceeded
	default:
		j.status = StatusFailed
	}
}

// requestCancel cancels a queued or running job. A queued job is marked
// canceled at once so the worker never starts it. ok is false when the job
// had already finished.
func (j *Job) requestCancel() (wasQueued, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch j.status {
	case StatusQueued:
		j.status = StatusCanceled
		return true, true
	case StatusRunning:
		if j.cancel != nil {
			j.cancel()
		}
		return false, true
	default:
		return false, false
	}
}

// record appends ev to the backlog and forwards it to live listeners.
// After the complete event every listener channel is closed.
func (j *Job) record(ev processing.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.done {
		return
	}
	j.events = append(j.events, ev)
	for _, ch := range j.listeners {
		select {
		case ch <- ev:
		default:
		}
	}

	if ev.Type == processing.EventComplete {
		j.done = true
		for id, ch := range j.listeners {
			close(ch)
			delete(j.listeners, id)
		}
	}
}

// subscribe returns the events so far and, unless the job is already
// complete, a channel carrying the ones that follow.
func (j *Job) subscribe() (backlog []processing.Event, id int, live <-chan processing.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	backlog = append([]processing.Event(nil), j.events...)
	if j.done {
		return backlog, -1, nil
	}
	ch := make(chan processing.Event, listenerBuffer)
	id = j.nextListen
	j.nextListen++
	j.listeners[id] = ch
	return backlog, id, ch
}

func (j *Job) unsubscribe(id int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ch, ok := j.listeners[id]; ok {
		close(ch)
		delete(j.listeners, id)
	}
}
