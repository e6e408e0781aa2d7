package port

// Reporter receives progress events from long-running pipeline stages. The
// orchestrator owns a single instance and threads it through each stage
// boundary; implementations decide how events are surfaced.
type Reporter interface {
	StageStarted(stage, detail string)
	StageCompleted(stage, detail string)
	StageFailed(stage string, err error)

	// Progress reports completion of done out of total work items.
	Progress(done, total int)
}

// NopReporter discards all events. Useful in tests and library callers that
// do not want progress output.
type NopReporter struct{}

func (NopReporter) StageStarted(stage, detail string)   {}
func (NopReporter) StageCompleted(stage, detail string) {}
func (NopReporter) StageFailed(stage string, err error) {}
func (NopReporter) Progress(done, total int)            {}
