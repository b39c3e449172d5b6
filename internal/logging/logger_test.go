package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer := New(Options{Dir: dir, Console: &console})
	componentLogger := Component(logger, "backend")
	componentLogger.Info().Msg("backend spawned")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !strings.Contains(console.String(), "backend spawned") {
		t.Errorf("console output missing message: %q", console.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"component":"backend"`) {
		t.Errorf("log file missing component field: %s", data)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var console bytes.Buffer

	logger, closer := New(Options{Console: &console})
	defer closer.Close()
	logger.Debug().Msg("hidden")
	if strings.Contains(console.String(), "hidden") {
		t.Error("debug message written at info level")
	}

	logger, closer = New(Options{Debug: true, Console: &console})
	defer closer.Close()
	logger.Debug().Msg("visible")
	if !strings.Contains(console.String(), "visible") {
		t.Error("debug message missing at debug level")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
