package domain

// StepStatus is the outcome of one file operation reported on a status line.
type StepStatus string

const (
	// StepOK indicates the operation succeeded.
	StepOK StepStatus = "OK"
	// StepFailed indicates the operation failed.
	StepFailed StepStatus = "FAILED"
	// StepSkipped indicates there was nothing to do, such as removing a missing file.
	StepSkipped StepStatus = "SKIPPED"
)

// Line renders a status line such as "Copying a.h -> dist/include/a.h... [OK]".
func (s StepStatus) Line(action string) string {
	return action + "... [" + string(s) + "]"
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
