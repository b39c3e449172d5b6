package main

import (
	"context"
	"fmt"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/idlenpu/waker-desktop/internal/shell"
)

// App adapts the Wails v2 lifecycle to the shell.
type App struct {
	ctx    context.Context
	logger zerolog.Logger
	shell  *shell.Shell
	runner *shell.SerialRunner
}

// NewApp creates a new App instance.
func NewApp(logger zerolog.Logger) *App {
	return &App{
		logger: logger.With().Str("component", "app").Logger(),
		runner: shell.NewSerialRunner(),
	}
}

// startup is called when the window toolkit is running. The backend is
// started from here so a spawn failure can be shown in a dialog.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.shell.Queue().Open(a.runner.Run)

	if err := a.shell.Start(); err != nil {
		a.logger.Error().Err(err).Msg("Startup failed")
		runtime.MessageDialog(ctx, runtime.MessageDialogOptions{
			Type:    runtime.ErrorDialog,
			Title:   "Backend Error",
			Message: fmt.Sprintf("Failed to start the backend:\n\n%v", err),
		})
		a.shell.Quit()
	}
}

// beforeClose intercepts the window close button. Returning true cancels
// the close.
func (a *App) beforeClose(ctx context.Context) bool {
	return a.shell.HandleWindowEvent(shell.WindowEvent{
		Window: shell.MainWindow,
		Kind:   shell.WindowCloseRequested,
	})
}

// shutdown is called when the app is closing.
func (a *App) shutdown(ctx context.Context) {
	a.logger.Info().Msg("Shutting down")
	a.shell.HandleRunEvent(shell.RunExit)
	a.runner.Stop()
	systray.Quit()
}

// Terminate ends the run loop. The close it triggers passes through
// beforeClose, which lets it through once exit is requested.
func (a *App) Terminate(code int) {
	if code != 0 {
		a.logger.Warn().Int("code", code).Msg("Exit code ignored by the window toolkit")
	}
	if a.ctx != nil {
		runtime.Quit(a.ctx)
	}
}

// showFromSecondLaunch runs on the single-instance listener goroutine.
func (a *App) showFromSecondLaunch() {
	if a.shell == nil {
		return
	}
	a.shell.Queue().Post(a.shell.Main().ShowMain)
}
