// Package logger provides a minimal, subsystem-gated logger for the
// emulator core. Each hardware subsystem (CPU/PPU/APU/mapper) can be
// toggled independently so a caller tracing one piece of hardware isn't
// drowned out by the others.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogLevel is an ordered verbosity threshold; a message is emitted only
// when the active level is at least as verbose as the message's own.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

// subsystem identifies which hardware component a log line describes.
// Subsystem gating is a bitmask rather than one bool field per
// subsystem, so adding a new gated component only means adding a bit.
type subsystem uint8

const (
	subsystemCPU subsystem = 1 << iota
	subsystemPPU
	subsystemAPU
	subsystemMapper
)

func (s subsystem) tag() string {
	switch s {
	case subsystemCPU:
		return "CPU"
	case subsystemPPU:
		return "PPU"
	case subsystemAPU:
		return "APU"
	case subsystemMapper:
		return "MAPPER"
	default:
		return "?"
	}
}

type logger struct {
	level   LogLevel
	out     io.Writer
	enabled subsystem
	file    *os.File
}

var active *logger

// Initialize opens the global logger. An empty filename logs to stdout;
// otherwise a new file is created (truncating any existing one).
func Initialize(level LogLevel, filename string) error {
	l := &logger{level: level, out: os.Stdout, enabled: subsystemCPU}

	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("logger: open %q: %w", filename, err)
		}
		l.out = file
		l.file = file
	}

	active = l
	return nil
}

// Close releases any file the logger opened. Safe to call even if
// Initialize was never called or logged to stdout.
func Close() {
	if active != nil && active.file != nil {
		active.file.Close()
	}
}

func setSubsystem(s subsystem, on bool) {
	if active == nil {
		return
	}
	if on {
		active.enabled |= s
	} else {
		active.enabled &^= s
	}
}

func SetCPULogging(enabled bool)    { setSubsystem(subsystemCPU, enabled) }
func SetPPULogging(enabled bool)    { setSubsystem(subsystemPPU, enabled) }
func SetAPULogging(enabled bool)    { setSubsystem(subsystemAPU, enabled) }
func SetMapperLogging(enabled bool) { setSubsystem(subsystemMapper, enabled) }

// write is the single formatting/writing path every Log* helper funnels
// through; the six near-duplicate bodies the subsystem loggers used to
// each carry collapse to one gate check plus one Fprintf call.
func write(tag string, format string, args ...interface{}) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(active.out, "[%s] %s: %s\n", ts, tag, fmt.Sprintf(format, args...))
}

// emitSubsystem is used by the four hardware-trace helpers, which are
// gated on both overall verbosity and their own subsystem toggle.
func emitSubsystem(minLevel LogLevel, s subsystem, format string, args ...interface{}) {
	if active == nil || active.level < minLevel || active.enabled&s == 0 {
		return
	}
	write(s.tag(), format, args...)
}

// emitGeneral is used by the ungated info/error/debug helpers, which
// only check overall verbosity.
func emitGeneral(minLevel LogLevel, tag string, format string, args ...interface{}) {
	if active == nil || active.level < minLevel {
		return
	}
	write(tag, format, args...)
}

func LogCPU(format string, args ...interface{}) {
	emitSubsystem(LogLevelDebug, subsystemCPU, format, args...)
}
func LogPPU(format string, args ...interface{}) {
	emitSubsystem(LogLevelTrace, subsystemPPU, format, args...)
}
func LogAPU(format string, args ...interface{}) {
	emitSubsystem(LogLevelDebug, subsystemAPU, format, args...)
}
func LogMapper(format string, args ...interface{}) {
	emitSubsystem(LogLevelDebug, subsystemMapper, format, args...)
}

func LogInfo(format string, args ...interface{})  { emitGeneral(LogLevelInfo, "INFO", format, args...) }
func LogError(format string, args ...interface{}) { emitGeneral(LogLevelError, "ERROR", format, args...) }
func LogDebug(format string, args ...interface{}) { emitGeneral(LogLevelDebug, "DEBUG", format, args...) }

// GetLogLevelFromString maps a CLI flag value to a LogLevel, defaulting
// to info for anything unrecognized.
func GetLogLevelFromString(level string) LogLevel {
	switch level {
	case "off":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "warn":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	case "trace":
		return LogLevelTrace
	default:
		return LogLevelInfo
	}
}
