// Package ffmpeg builds and runs the two ffmpeg passes of a tier encode.
package ffmpeg

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	apperrors "github.com/five82/video2gif/internal/errors"
)

// DefaultBinary is the ffmpeg executable looked up on PATH.
const DefaultBinary = "ffmpeg"

// stderrTailLines is how much stderr is kept for failure diagnostics.
const stderrTailLines = 20

// waitDelay bounds how long Wait blocks on pipes after the process is killed.
const waitDelay = 2 * time.Second

// Stream identifies which output pipe a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// LineHandler receives each output line as it is produced. Calls are
// serialized across both pipes.
type LineHandler func(stream Stream, line string)

// Executor runs ffmpeg invocations.
type Executor struct {
	Binary string
}

// NewExecutor returns an executor for binary, or ffmpeg on PATH when empty.
func NewExecutor(binary string) *Executor {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Executor{Binary: binary}
}

// Palette runs the palette generation pass for job.
func (e *Executor) Palette(ctx context.Context, job TierJob, handler LineHandler) error {
	return e.Run(ctx, PaletteArgs(job), handler)
}

// Encode runs the paletteuse pass for job.
func (e *Executor) Encode(ctx context.Context, job TierJob, handler LineHandler) error {
	return e.Run(ctx, EncodeArgs(job), handler)
}

// Run spawns the binary with args, streams stdout and stderr to handler line
// by line and waits for exit. Cancelling ctx kills the whole process group.
func (e *Executor) Run(ctx context.Context, args []string, handler LineHandler) error {
	cmd := exec.CommandContext(ctx, e.Binary, args...)
	configureProcess(cmd)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return apperrors.NewCommandStartError(e.Binary, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return apperrors.NewCommandStartError(e.Binary, err)
	}

	if err := cmd.Start(); err != nil {
		return apperrors.NewCommandStartError(e.Binary, err)
	}

	var (
		mu   sync.Mutex
		tail = newTail(stderrTailLines)
		wg   sync.WaitGroup
	)
	emit := func(s Stream, line string) {
		mu.Lock()
		defer mu.Unlock()
		if s == Stderr {
			tail.add(line)
		}
		if handler != nil {
			handler(s, line)
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		readLines(stdout, func(line string) { emit(Stdout, line) })
	}()
	go func() {
		defer wg.Done()
		readLines(stderr, func(line string) { emit(Stderr, line) })
	}()
	wg.Wait()

	err = cmd.Wait()
	if ctx.Err() != nil {
		return apperrors.NewCancelledError()
	}
	if err != nil {
		return apperrors.WrapExecError(e.Binary, err, tail.String())
	}
	return nil
}

// readLines splits r on \r or \n, since ffmpeg redraws progress with \r.
// Empty lines are dropped.
func readLines(r io.Reader, fn func(string)) {
	reader := bufio.NewReader(r)
	var lineBuf strings.Builder

	flush := func() {
		if lineBuf.Len() > 0 {
			fn(lineBuf.String())
			lineBuf.Reset()
		}
	}

	for {
		b, err := reader.ReadByte()
		if err != nil {
			flush()
			return
		}
		if b == '\r' || b == '\n' {
			flush()
			continue
		}
		lineBuf.WriteByte(b)
	}
}

// tail keeps the last n lines written to it.
type tail struct {
	n     int
	lines []string
}

func newTail(n int) *tail {
	return &tail{n: n}
}

func (t *tail) add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
}

func (t *tail) String() string {
	return strings.Join(t.lines, "\n")
}
