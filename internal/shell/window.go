package shell

import (
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
)

// ErrHookUnavailable is returned by Window.RequestCloseConfirmation when
// the displayed page has not installed its confirmation hook.
var ErrHookUnavailable = errors.New("close confirmation hook unavailable")

// Window is the toolkit's main window. Every method runs on the UI thread.
type Window interface {
	Show() error
	Hide() error
	Focus() error
	Unminimise() error
	Navigate(url string) error
	Emit(event string, data any) error
	// RequestCloseConfirmation asks the displayed page to confirm a close.
	RequestCloseConfirmation() error
}

// CloseState is where the main window is in handling a close request.
type CloseState int32

const (
	CloseRunning CloseState = iota
	CloseResolving
	CloseTerminating
)

func (s CloseState) String() string {
	switch s {
	case CloseRunning:
		return "running"
	case CloseResolving:
		return "resolving"
	case CloseTerminating:
		return "terminating"
	}
	return "unknown"
}

// WindowController drives the main window.
type WindowController struct {
	win    Window
	intent *ExitIntent
	policy string
	logger zerolog.Logger

	// shutdown stops the backend; exit requests a full termination.
	shutdown func()
	exit     func()

	navigated atomic.Bool
	hookReady atomic.Bool
	state     atomic.Int32
}

func newWindowController(win Window, intent *ExitIntent, policy string, logger zerolog.Logger) *WindowController {
	if policy == "" {
		policy = config.ClosePolicyConfirm
	}
	return &WindowController{
		win:      win,
		intent:   intent,
		policy:   policy,
		logger:   logger.With().Str("component", "window").Logger(),
		shutdown: func() {},
		exit:     func() {},
	}
}

// ShowMain un-minimises, shows and focuses the main window. Failures are
// logged and otherwise ignored.
func (c *WindowController) ShowMain() {
	c.try("unminimise", c.win.Unminimise())
	c.try("show", c.win.Show())
	c.try("focus", c.win.Focus())
}

// HideMain hides the main window, ignoring failures.
func (c *WindowController) HideMain() {
	c.try("hide", c.HideMainStrict())
}

// HideMainStrict hides the main window and reports failure. A pending
// close confirmation resolves back to running.
func (c *WindowController) HideMainStrict() error {
	if err := c.win.Hide(); err != nil {
		return err
	}
	c.state.CompareAndSwap(int32(CloseResolving), int32(CloseRunning))
	return nil
}

// NavigateMainTo points the main window at url. Only the first call has
// any effect.
func (c *WindowController) NavigateMainTo(url string) {
	if !c.navigated.CompareAndSwap(false, true) {
		c.logger.Debug().Str("url", url).Msg("Main window already navigated")
		return
	}
	// The backend page announces its own hook once it loads.
	c.hookReady.Store(false)
	c.logger.Info().Str("url", url).Msg("Navigating main window to backend")
	c.try("navigate", c.win.Navigate(url))
}

// Navigated reports whether the hand-off to the backend page happened.
// The asset proxy serves the backend's pages from then on.
func (c *WindowController) Navigated() bool {
	return c.navigated.Load()
}

// MarkUnreachable tells the placeholder page the backend never came up.
func (c *WindowController) MarkUnreachable() {
	c.logger.Warn().Msg("Backend unreachable, main window stays on placeholder")
	c.try("emit status", c.win.Emit(BackendStatusEvent, StatusUnreachable))
}

// AnnounceHook records that the displayed page installed its close
// confirmation hook.
func (c *WindowController) AnnounceHook() {
	c.hookReady.Store(true)
}

// hookAvailable reports whether the displayed page said it can confirm a
// close. Script execution is fire-and-forget, so nothing else tells.
func (c *WindowController) hookAvailable() bool {
	return c.hookReady.Load()
}

// State returns the close handling state.
func (c *WindowController) State() CloseState {
	return CloseState(c.state.Load())
}

// HandleClose decides what a close request on the main window does and
// reports whether the close must be prevented.
func (c *WindowController) HandleClose() (prevent bool) {
	if c.intent.Requested() {
		c.state.Store(int32(CloseTerminating))
		c.shutdown()
		return false
	}

	if c.policy == config.ClosePolicyHide {
		c.HideMain()
		return true
	}

	c.state.Store(int32(CloseResolving))
	err := ErrHookUnavailable
	if c.hookAvailable() {
		err = c.win.RequestCloseConfirmation()
	}
	if err != nil {
		c.logger.Info().Err(err).Msg("No page to confirm close, exiting")
		c.state.Store(int32(CloseTerminating))
		c.exit()
		return true
	}
	c.logger.Debug().Msg("Close confirmation requested from page")
	return true
}

func (c *WindowController) try(op string, err error) {
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Msg("Window operation failed")
	}
}
