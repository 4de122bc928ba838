package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	Output(line OutputLine)
	TierChanged(input, tier string)
	TierProgress(progress TierProgress)
	ConversionComplete(summary ConversionSummary)
	Warning(message string)
	Error(err ReporterError)
	BatchStarted(info BatchStartInfo)
	FileProgress(context FileProgressContext)
	BatchComplete(summary BatchSummary)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) Output(OutputLine)                    {}
func (NullReporter) TierChanged(string, string)           {}
func (NullReporter) TierProgress(TierProgress)            {}
func (NullReporter) ConversionComplete(ConversionSummary) {}
func (NullReporter) Warning(string)                       {}
func (NullReporter) Error(ReporterError)                  {}
func (NullReporter) BatchStarted(BatchStartInfo)          {}
func (NullReporter) FileProgress(FileProgressContext)     {}
func (NullReporter) BatchComplete(BatchSummary)           {}
func (NullReporter) Verbose(string)                       {}
