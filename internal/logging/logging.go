package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/video2gif/internal/util"
)

// RunLog is a per-invocation log file.
type RunLog struct {
	*Logger
	file     *os.File
	filePath string
}

// DefaultLogDir returns <user cache dir>/video2gif/logs, falling back to the
// system temp directory.
func DefaultLogDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "video2gif", "logs")
}

// Setup creates a logger that writes to a timestamped log file.
// Returns nil if logging is disabled (noLog=true).
func Setup(logDir string, verbose, noLog bool) (*RunLog, error) {
	if noLog {
		return nil, nil
	}

	if err := util.EnsureDirectory(logDir); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("video2gif_run_%s.log", timestamp)
	filePath := filepath.Join(logDir, filename)

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	l := &RunLog{
		Logger: New(Config{
			Level:   ParseLevel(verbose),
			Output:  file,
			Enabled: true,
		}),
		file:     file,
		filePath: filePath,
	}

	sys := util.GetSystemInfo()
	l.Info("video2gif starting", "log_file", filePath)
	l.Debug("system", "hostname", sys.Hostname, "os", sys.OS, "arch", sys.Arch, "cpus", sys.NumCPU)
	if verbose {
		l.Debug("debug level logging enabled")
	}

	return l, nil
}

// Close closes the log file.
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// FilePath returns the path to the log file.
func (l *RunLog) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}
