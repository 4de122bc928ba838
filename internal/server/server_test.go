package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/video2gif/internal/config"
	"github.com/five82/video2gif/internal/logging"
	"github.com/five82/video2gif/internal/processing"
)

// fakeConverter emits a short event stream. When release is set it blocks
// after the first event until release is closed or ctx ends.
type fakeConverter struct {
	release chan struct{}
	started chan struct{}
	tinyGIF string
}

func (f *fakeConverter) Convert(ctx context.Context, path string, handler processing.EventHandler) *processing.Result {
	emit := func(ev processing.Event) {
		ev.Input = path
		ev.Time = time.Now()
		handler(ev)
	}
	emit(processing.Event{Type: processing.EventStdout, Data: "video2gif v" + processing.Version})

	if f.started != nil {
		close(f.started)
	}

	res := &processing.Result{Original: processing.VideoDescriptor{Path: path, Size: 1000}}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			res.Canceled = true
			emit(processing.Event{Type: processing.EventComplete, Result: res})
			return res
		}
	}

	emit(processing.Event{Type: processing.EventTierChanged, Tier: config.TierTiny})
	res.Success = true
	res.Tiers = []processing.TierResult{
		{Tier: config.TierTiny, OutputPath: f.tinyGIF, Size: 100, Produced: f.tinyGIF != ""},
		{Tier: config.TierMedium},
	}
	emit(processing.Event{Type: processing.EventComplete, Result: res})
	return res
}

func newTestServer(t *testing.T, conv Converter) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return New(conv, Options{Logger: logging.New(logging.Config{Enabled: false})})
}

func startWorker(t *testing.T, s *Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Work(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func writeVideo(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("video"), 0o644))
	return path
}

func createJob(t *testing.T, s *Server, path string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/conversions", `{"path":"`+filepath.ToSlash(path)+`"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, string(StatusQueued), body["status"])
	return body["id"].(string)
}

func waitForStatus(t *testing.T, s *Server, id string, want Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		job, ok := s.Job(id)
		return ok && job.Status() == want
	}, 5*time.Second, 10*time.Millisecond, "job never reached %s", want)
}

func TestHealthAndConfig(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})

	w := do(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = do(t, s, http.MethodGet, "/api/config", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var cfg config.EffectiveConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Len(t, cfg.Tiers, 3)
	assert.Contains(t, cfg.VideoExtensions, ".mp4")
}

func TestListFiles(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})
	dir := t.TempDir()
	writeVideo(t, dir, "b.MOV")
	writeVideo(t, dir, "a.mp4")
	writeVideo(t, dir, "notes.txt")

	w := do(t, s, http.MethodGet, "/api/files?dir="+dir, "")
	require.Equal(t, http.StatusOK, w.Code)
	files := decode(t, w)["files"].([]any)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "a.mp4"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.MOV"), files[1])

	w = do(t, s, http.MethodGet, "/api/files?dir="+t.TempDir(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["files"])

	w = do(t, s, http.MethodGet, "/api/files?dir="+filepath.Join(dir, "missing"), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateValidation(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})
	dir := t.TempDir()
	txt := writeVideo(t, dir, "notes.txt")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty body", ``, http.StatusBadRequest},
		{"missing path", `{}`, http.StatusBadRequest},
		{"unsupported extension", `{"path":"` + filepath.ToSlash(txt) + `"}`, http.StatusBadRequest},
		{"missing file", `{"path":"` + filepath.ToSlash(filepath.Join(dir, "gone.mp4")) + `"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/conversions", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestConversionLifecycle(t *testing.T) {
	dir := t.TempDir()
	gif := writeVideo(t, dir, "clip-tiny.gif")
	s := newTestServer(t, &fakeConverter{tinyGIF: gif})
	startWorker(t, s)

	id := createJob(t, s, writeVideo(t, dir, "clip.mp4"))
	waitForStatus(t, s, id, StatusSucceeded)

	w := do(t, s, http.MethodGet, "/api/conversions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, string(StatusSucceeded), body["status"])
	assert.NotNil(t, body["finished_at"])
	result := body["result"].(map[string]any)
	assert.Equal(t, true, result["success"])

	w = do(t, s, http.MethodGet, "/api/conversions/"+id+"/tiers/tiny", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video", w.Body.String())

	w = do(t, s, http.MethodGet, "/api/conversions/"+id+"/tiers/medium", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/api/conversions/"+id+"/tiers/huge", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodDelete, "/api/conversions/"+id, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUnknownConversion(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/conversions/nope"},
		{http.MethodDelete, "/api/conversions/nope"},
		{http.MethodGet, "/api/conversions/nope/tiers/tiny"},
	} {
		w := do(t, s, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCancelQueuedJob(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})
	id := createJob(t, s, writeVideo(t, t.TempDir(), "clip.mp4"))

	w := do(t, s, http.MethodDelete, "/api/conversions/"+id, "")
	require.Equal(t, http.StatusAccepted, w.Code)

	job, ok := s.Job(id)
	require.True(t, ok)
	assert.Equal(t, StatusCanceled, job.Status())
	require.NotNil(t, job.Result())
	assert.True(t, job.Result().Canceled)

	// The worker must skip it.
	startWorker(t, s)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StatusCanceled, job.Status())

	w = do(t, s, http.MethodDelete, "/api/conversions/"+id, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelRunningJob(t *testing.T) {
	conv := &fakeConverter{release: make(chan struct{}), started: make(chan struct{})}
	s := newTestServer(t, conv)
	startWorker(t, s)

	id := createJob(t, s, writeVideo(t, t.TempDir(), "clip.mp4"))
	<-conv.started
	waitForStatus(t, s, id, StatusRunning)

	w := do(t, s, http.MethodDelete, "/api/conversions/"+id, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	waitForStatus(t, s, id, StatusCanceled)
}

func readEvents(t *testing.T, conn *websocket.Conn) []processing.Event {
	t.Helper()
	var events []processing.Event
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var ev processing.Event
		if err := conn.ReadJSON(&ev); err != nil {
			break
		}
		events = append(events, ev)
	}
	return events
}

func dialEvents(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/conversions/" + id + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func eventTypes(events []processing.Event) []processing.EventType {
	types := make([]processing.EventType, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func TestEventsStreamLive(t *testing.T) {
	conv := &fakeConverter{release: make(chan struct{}), started: make(chan struct{})}
	s := newTestServer(t, conv)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	startWorker(t, s)

	id := createJob(t, s, writeVideo(t, t.TempDir(), "clip.mp4"))
	<-conv.started

	conn := dialEvents(t, ts, id)
	close(conv.release)
	events := readEvents(t, conn)

	assert.Equal(t, []processing.EventType{
		processing.EventStdout,
		processing.EventTierChanged,
		processing.EventComplete,
	}, eventTypes(events))
	require.NotNil(t, events[len(events)-1].Result)
	assert.True(t, events[len(events)-1].Result.Success)
	assert.Equal(t, config.TierTiny, events[1].Tier)
}

func TestEventsReplayAfterCompletion(t *testing.T) {
	s := newTestServer(t, &fakeConverter{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	startWorker(t, s)

	id := createJob(t, s, writeVideo(t, t.TempDir(), "clip.mp4"))
	waitForStatus(t, s, id, StatusSucceeded)

	events := readEvents(t, dialEvents(t, ts, id))
	assert.Equal(t, []processing.EventType{
		processing.EventStdout,
		processing.EventTierChanged,
		processing.EventComplete,
	}, eventTypes(events))
}

func TestJobRecordClosesListeners(t *testing.T) {
	job := newJob("j", "/v/clip.mp4")
	_, id, live := job.subscribe()
	require.NotNil(t, live)

	job.record(processing.Event{Type: processing.EventStdout, Data: "x"})
	job.record(processing.Event{Type: processing.EventComplete})
	job.record(processing.Event{Type: processing.EventStdout, Data: "late"})

	var got []processing.EventType
	for ev := range live {
		got = append(got, ev.Type)
	}
	assert.Equal(t, []processing.EventType{processing.EventStdout, processing.EventComplete}, got)

	backlog, _, again := job.subscribe()
	assert.Nil(t, again)
	assert.Len(t, backlog, 2)

	job.unsubscribe(id)
}
