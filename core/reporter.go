package core

// Level is the severity of a progress message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Reporter receives human-readable progress. Implementations must not block
// or fail the pipeline.
type Reporter interface {
	Report(level Level, msg string)
}

type NopReporter struct{}

func (NopReporter) Report(level Level, msg string) {}
