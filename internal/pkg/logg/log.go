// Package logg provides a log entry as a plain value, so that pure code can
// describe what should be logged without touching a logger.
package logg

import "fmt"

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
	LevelDebug
)

type Level int

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelDebug:
		return "Debug"
	default:
		return "Unknown"
	}
}

type Entry struct {
	Message string
	Level   Level
}

func (e Entry) String() string {
	switch e.Level {
	case LevelWarning:
		return fmt.Sprintf("[WARNING] %s", e.Message)
	case LevelError:
		return fmt.Sprintf("[ERROR] %s", e.Message)
	case LevelDebug:
		return fmt.Sprintf("[DEBUG] %s", e.Message)
	default:
		return e.Message
	}
}

func Info(message string) Entry {
	return Entry{Message: message, Level: LevelInfo}
}

func Infof(format string, a ...interface{}) Entry {
	return Entry{Message: fmt.Sprintf(format, a...), Level: LevelInfo}
}

func Warning(message string) Entry {
	return Entry{Message: message, Level: LevelWarning}
}

func Warningf(format string, a ...interface{}) Entry {
	return Entry{Message: fmt.Sprintf(format, a...), Level: LevelWarning}
}

func Error(message string) Entry {
	return Entry{Message: message, Level: LevelError}
}

func Errorf(format string, a ...interface{}) Entry {
	return Entry{Message: fmt.Sprintf(format, a...), Level: LevelError}
}

func Debugf(format string, a ...interface{}) Entry {
	return Entry{Message: fmt.Sprintf(format, a...), Level: LevelDebug}
}
