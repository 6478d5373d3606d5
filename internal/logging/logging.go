// Package logging configures the global zerolog logger for callsight.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger with dual sinks: os.Stderr and a
// rotating file. The file sink is skipped when no log directory can be
// prepared, since the CLI must stay usable on read-only filesystems.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	writers := []io.Writer{consoleWriter}
	if fileWriter := rotatingFileWriter(); fileWriter != nil {
		writers = append(writers, fileWriter)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
}

// rotatingFileWriter builds the rotating log-file sink, or nil when the log
// directory cannot be created. CALLSIGHT_LOGS_FOLDER overrides the default
// location next to the binary.
func rotatingFileWriter() io.Writer {
	logDir := os.Getenv("CALLSIGHT_LOGS_FOLDER")
	if logDir == "" {
		exePath, err := os.Executable()
		if err != nil {
			return nil
		}
		logDir = filepath.Join(filepath.Dir(exePath), "logs")
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "callsight.log"),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}
}
