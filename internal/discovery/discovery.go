// Package discovery finds convertible videos in a directory.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/five82/video2gif/internal/errors"
)

// ExtensionMatcher reports whether a file extension is an accepted video type.
type ExtensionMatcher interface {
	IsVideoExtension(ext string) bool
}

// DiscoveryLogger defines the interface for discovery logging.
type DiscoveryLogger interface {
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// DiscoveryResult contains the results of file discovery with metadata.
type DiscoveryResult struct {
	Files        []string
	SkippedCount int
}

// IsVideoFile reports whether path is an existing regular file with an
// accepted extension.
func IsVideoFile(path string, m ExtensionMatcher) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return m.IsVideoExtension(filepath.Ext(path))
}

// FindVideoFiles lists accepted videos directly inside inputDir (no recursion),
// sorted case-insensitively by name. Hidden files are skipped. An empty
// result is a NoFilesFound error.
func FindVideoFiles(inputDir string, m ExtensionMatcher, logger DiscoveryLogger) (*DiscoveryResult, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("directory does not exist: %s", inputDir), err)
	}
	if !info.IsDir() {
		return nil, apperrors.NewIOError(fmt.Sprintf("%s is not a directory", inputDir), nil)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, apperrors.NewIOError(fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	result := &DiscoveryResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if IsVideoFile(fullPath, m) {
			result.Files = append(result.Files, fullPath)
		} else {
			result.SkippedCount++
		}
	}

	if len(result.Files) == 0 {
		return nil, apperrors.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(result.Files[i])) < strings.ToLower(filepath.Base(result.Files[j]))
	})

	if logger != nil {
		logDiscoveredFiles(result, logger)
	}

	return result, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *DiscoveryResult, logger DiscoveryLogger) {
	logger.Info("found video files", "count", len(result.Files), "skipped", result.SkippedCount)

	maxToLog := min(5, len(result.Files))
	for i := 0; i < maxToLog; i++ {
		logger.Debug("discovered", "file", filepath.Base(result.Files[i]))
	}

	if len(result.Files) > 5 {
		logger.Debug("more files not listed", "count", len(result.Files)-5)
	}
}
