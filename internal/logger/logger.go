package logger

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"codeberg.org/mutker/hostwatch/internal/errors"
	"github.com/rs/zerolog"
)

const (
	fallbackDirName = ".hostwatch"
	logDirPerm      = 0o755
	logFilePerm     = 0o644
)

var log zerolog.Logger

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the logger with a console writer and an append-only log
// file under dir. If dir cannot be created or written, it falls back to
// ~/.hostwatch; failing both is the only unrecoverable startup condition.
func Init(dir, file string, debug, verbose, isService bool) error {
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}

	if isService {
		console.TimeFormat = ""
		console.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	sink, err := openLogFile(dir, file)
	if err != nil {
		return err
	}

	log = zerolog.New(zerolog.MultiLevelWriter(console, sink)).With().Timestamp().Logger()

	SetLogLevel(WarnLevel) // Default log level

	if debug {
		SetLogLevel(DebugLevel)
	} else if verbose {
		SetLogLevel(InfoLevel)
	}

	return nil
}

func openLogFile(dir, file string) (*os.File, error) {
	errFactory := errors.New()

	path, err := ensureDir(dir)
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, errFactory.Wrap(errors.ErrLogSinkFailed, err)
		}
		path, err = ensureDir(filepath.Join(home, fallbackDirName))
		if err != nil {
			return nil, errFactory.Wrap(errors.ErrLogSinkFailed, err)
		}
	}

	sink, err := os.OpenFile(filepath.Join(path, file), os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrLogSinkFailed, err)
	}

	return sink, nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return "", err
	}

	// MkdirAll succeeds on an existing directory we cannot write into.
	probe, err := os.CreateTemp(dir, ".probe")
	if err != nil {
		return "", err
	}
	probe.Close()
	os.Remove(probe.Name())

	return dir, nil
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// Fatal logs a fatal message and exits the program
func Fatal() *LogEvent {
	return &LogEvent{log.Fatal()}
}
