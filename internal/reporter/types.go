// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// OutputLine is one line of conversion output.
type OutputLine struct {
	Input  string
	Stream string // "stdout" or "stderr"
	Line   string
}

// TierProgress is the estimated completion of the active tier.
type TierProgress struct {
	Input   string
	Tier    string
	Percent int
}

// TierSummary describes one produced (or missing) tier artifact.
type TierSummary struct {
	Tier       string
	OutputPath string
	Size       uint64
	Dimensions string
	Reduction  float64
	Produced   bool
}

// ConversionSummary contains the final result of one conversion.
type ConversionSummary struct {
	Input        string
	Success      bool
	Canceled     bool
	Error        string
	OriginalSize uint64
	Dimensions   string
	Tiers        []TierSummary
	Elapsed      time.Duration
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	TotalFiles int
	FileList   []string
	Directory  string
}

// FileProgressContext contains current file index within a batch.
type FileProgressContext struct {
	CurrentFile int
	TotalFiles  int
	Input       string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount int
	CanceledCount   int
	TotalFiles      int
	TotalDuration   time.Duration
	Conversions     []ConversionSummary
}
