// Package shell coordinates the backend process with the main window and
// the tray. It knows nothing about the UI toolkit; adapters supply the
// Window, Tray backends and Terminator and feed events in.
package shell

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
	"github.com/idlenpu/waker-desktop/internal/probe"
)

const (
	// DefaultReadyTimeout bounds the wait for the backend to accept connections.
	DefaultReadyTimeout = 20 * time.Second
	// BackendPage is where the main window goes once the backend is ready.
	// It stays on the app's origin; the asset proxy forwards it.
	BackendPage = "/"
)

// Supervisor owns the backend process.
type Supervisor interface {
	DecideAndSpawn(ep config.Endpoint) (bool, error)
	Shutdown(ep config.Endpoint)
}

// Terminator ends the toolkit's run loop with an exit code.
type Terminator interface {
	Terminate(code int)
}

// Options configure a Shell. Exactly one of Menu and Popups must be set;
// it selects the tray variant.
type Options struct {
	Endpoint        config.Endpoint
	ExternalBackend bool
	ClosePolicy     string
	ReadyTimeout    time.Duration
	Version         string
	Logger          zerolog.Logger

	Menu   NativeMenu
	Popups PopupFactory
}

// Shell holds every piece of state shared between event sources.
type Shell struct {
	endpoint     config.Endpoint
	external     bool
	readyTimeout time.Duration
	version      string
	logger       zerolog.Logger

	sup    Supervisor
	term   Terminator
	intent *ExitIntent
	labels *LabelStore
	status *backendStatus
	queue  *UIQueue
	main   *WindowController
	tray   Tray

	waitReady func(host string, port uint16, overall time.Duration) bool
	settled   chan struct{}
}

// New wires a Shell around the toolkit's main window.
func New(opts Options, sup Supervisor, win Window, term Terminator) (*Shell, error) {
	if (opts.Menu == nil) == (opts.Popups == nil) {
		return nil, errors.New("exactly one tray variant must be configured")
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = DefaultReadyTimeout
	}

	s := &Shell{
		endpoint:     opts.Endpoint,
		external:     opts.ExternalBackend,
		readyTimeout: opts.ReadyTimeout,
		version:      opts.Version,
		logger:       opts.Logger.With().Str("component", "shell").Logger(),
		sup:          sup,
		term:         term,
		intent:       &ExitIntent{},
		labels:       NewLabelStore(),
		status:       newBackendStatus(),
		queue:        &UIQueue{},
		waitReady:    probe.WaitUntilReachable,
		settled:      make(chan struct{}),
	}

	s.main = newWindowController(win, s.intent, opts.ClosePolicy, opts.Logger)
	s.main.shutdown = func() { go s.sup.Shutdown(s.endpoint) }
	s.main.exit = s.Quit

	trayLogger := opts.Logger.With().Str("component", "tray").Logger()
	if opts.Menu != nil {
		s.tray = &MenuTray{menu: opts.Menu, labels: s.labels, main: s.main, logger: trayLogger}
	} else {
		s.tray = &PopupTray{
			factory: opts.Popups,
			labels:  s.labels,
			main:    s.main,
			logger:  trayLogger,
			now:     time.Now,
		}
	}
	return s, nil
}

// Queue returns the UI-thread queue. Adapters Open it once the toolkit
// runs.
func (s *Shell) Queue() *UIQueue { return s.queue }

func (s *Shell) Main() *WindowController { return s.main }

func (s *Shell) Endpoint() config.Endpoint { return s.endpoint }

// Start decides whether to spawn the backend, then waits for readiness in
// the background. A spawn failure is returned and aborts startup.
func (s *Shell) Start() error {
	s.queue.Post(func() {
		if err := s.tray.Init(s.labels.Get()); err != nil {
			s.logger.Warn().Err(err).Msg("Tray init failed")
		}
	})

	if s.external {
		s.logger.Info().Str("endpoint", s.endpoint.String()).Msg("Using external backend")
	} else if _, err := s.sup.DecideAndSpawn(s.endpoint); err != nil {
		return fmt.Errorf("start backend: %w", err)
	}

	go s.awaitBackend()
	return nil
}

func (s *Shell) awaitBackend() {
	start := time.Now()
	ready := s.waitReady(s.endpoint.Host, s.endpoint.Port, s.readyTimeout)
	if ready {
		s.logger.Info().Dur("after", time.Since(start)).Str("url", s.endpoint.URL()).Msg("Backend is ready")
	}

	s.queue.Post(func() {
		defer close(s.settled)
		if ready {
			s.status.set(StatusReady)
			s.main.NavigateMainTo(BackendPage)
		} else {
			s.status.set(StatusUnreachable)
			s.main.MarkUnreachable()
		}
		// After the hand-off so the popup gets the backend's tray page.
		if err := s.tray.Prepare(); err != nil {
			s.logger.Warn().Err(err).Msg("Tray prepare failed")
		}
		s.main.ShowMain()
	})
}

// Quit requests exit, then stops the backend off the UI thread and ends
// the run loop with code 0 once it is down.
func (s *Shell) Quit() {
	if s.intent.Request() {
		s.logger.Info().Msg("Exit requested")
	}
	go func() {
		s.sup.Shutdown(s.endpoint)
		s.queue.Post(func() { s.term.Terminate(0) })
	}()
}

// BackendStatus is one of StatusStarting, StatusReady, StatusUnreachable.
func (s *Shell) BackendStatus() string { return s.status.get() }
