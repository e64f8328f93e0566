// Package logging owns the process-wide zerolog logger. Every templative
// package asks it for a component logger instead of building its own.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFileName is the append-only log kept under $XDG_STATE_HOME/templative
const LogFileName = "templative.log"

// levels maps -v counts to zerolog levels; anything past the end is trace
var levels = []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}

func levelFor(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity < len(levels) {
		return levels[verbosity]
	}
	return zerolog.TraceLevel
}

// SetupLogger installs the global logger for a CLI run. Records go to a
// human console on stderr and, when it can be opened, to the state log
// file. From -vv on, records also carry their caller.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	sinks := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	path := getLogFilePath()
	file, fileErr := openLogFile(path)
	if fileErr == nil {
		sinks = append(sinks, file)
	}

	ctx := zerolog.New(io.MultiWriter(sinks...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, writing to stderr only")
	}
	log.Debug().Int("verbosity", verbosity).Str("log_file", path).Msg("Logger ready")
}

// SetOutput sends every record at or above level to w
func SetOutput(w io.Writer, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// GetLogger returns the global logger tagged with component=name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func getLogFilePath() string {
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return LogFileName
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "templative", LogFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// LogCommand records an external command just before it is started
func LogCommand(logger zerolog.Logger, cmd string, args []string) {
	logger.Debug().Str("command", cmd).Strs("args", args).Msg("Executing command")
}

// LogOperationStart records the start of operation. Call the returned func
// when it ends to record how long it took.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
