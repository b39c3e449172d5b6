package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/idlenpu/waker-desktop/internal/shell"
)

// lifecycle ties the shell to the application's start and stop. It also
// ends the run loop on the shell's behalf.
type lifecycle struct {
	logger zerolog.Logger
	app    *application.App
	shell  *shell.Shell
	tray   *trayIcon
}

// ServiceStartup runs once the application loop is up; from here on
// closures posted to the shell's queue run on the main thread.
func (l *lifecycle) ServiceStartup(ctx context.Context, options application.ServiceOptions) error {
	l.shell.Queue().Open(application.InvokeAsync)
	return nil
}

func (l *lifecycle) ServiceShutdown() error {
	l.logger.Info().Msg("Shutting down")
	l.shell.HandleRunEvent(shell.RunExit)
	return nil
}

// Terminate quits the application. Exit codes other than 0 are not
// supported by the toolkit and are only logged.
func (l *lifecycle) Terminate(code int) {
	if code != 0 {
		l.logger.Warn().Int("code", code).Msg("Exit code ignored by the window toolkit")
	}
	l.app.Quit()
}

// showFromSecondLaunch runs on the single-instance listener goroutine.
func (l *lifecycle) showFromSecondLaunch() {
	if l.shell == nil {
		return
	}
	l.shell.Queue().Post(l.shell.Main().ShowMain)
}
