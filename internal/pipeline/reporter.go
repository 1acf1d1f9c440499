package pipeline

// Stage names reported during a run, in execution order.
const (
	StageBackground = "background"
	StageVoice      = "voice"
	StageTranscribe = "transcribe"
	StageSubtitles  = "subtitles"
	StageAssemble   = "assemble"
)

// Progress statuses.
const (
	StatusStarted = "started"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Reporter receives progress events as the run advances. Rendering is the
// caller's concern; the CLI prints them, tests record them.
type Reporter interface {
	Stage(stage, status, message string)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Stage(string, string, string) {}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(stage, status, message string)

func (f ReporterFunc) Stage(stage, status, message string) { f(stage, status, message) }
