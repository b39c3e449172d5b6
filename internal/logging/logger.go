// Package logging builds the shell's zerolog logger: a console writer on
// stderr plus a rotating log file.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created inside the log directory.
const FileName = "idle-npu-waker.log"

// Options controls logger construction.
type Options struct {
	Debug bool
	// Dir is the log directory; empty disables the file sink.
	Dir string
	// Console receives human-readable output. Defaults to os.Stderr.
	Console io.Writer
}

// New returns the root logger and a closer for the file sink.
func New(opts Options) (zerolog.Logger, io.Closer) {
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: "15:04:05",
	}}

	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err == nil {
			file := &lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, FileName),
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     14, // days
			}
			writers = append(writers, file)
			closer = file
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
