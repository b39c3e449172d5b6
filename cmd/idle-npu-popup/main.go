// Command idle-npu-popup is the shell variant whose tray opens a custom
// popup window instead of a native menu.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/idlenpu/waker-desktop/frontend"
	"github.com/idlenpu/waker-desktop/internal/backend"
	"github.com/idlenpu/waker-desktop/internal/cli"
	"github.com/idlenpu/waker-desktop/internal/config"
	"github.com/idlenpu/waker-desktop/internal/instance"
	"github.com/idlenpu/waker-desktop/internal/shell"
)

// Version is injected at build time via -ldflags "-X main.Version=v1.x.x".
var Version = cli.DevVersion

func main() {
	cmd := cli.NewRootCmd("idle-npu-popup", "Idle NPU Waker desktop shell with a tray popup", Version, run)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	config.ApplyWebViewDefaults()

	life := &lifecycle{logger: logger.With().Str("component", "app").Logger()}

	var guard *instance.Guard
	if cfg.SingleInstance {
		g, err := instance.Acquire(cfg.InstanceAddr(), logger)
		switch {
		case errors.Is(err, instance.ErrAlreadyRunning):
			return nil
		case err != nil:
			logger.Warn().Err(err).Msg("Single-instance guard unavailable")
		}
		guard = g
	}
	if guard != nil {
		logger.Debug().Stringer("addr", guard.Addr()).Msg("Single-instance guard listening")
		defer guard.Close()
	}

	assets, err := fs.Sub(frontend.Assets, "dist")
	if err != nil {
		return fmt.Errorf("frontend assets: %w", err)
	}

	ep := cfg.Endpoint()
	sup := backend.NewSupervisor(backend.NewExecLauncher(cfg, logger), logger)

	// The adapters are filled in once the application exists; the shell
	// only calls them after the run loop starts.
	mainWin := &mainWindow{}
	popups := &popupFactory{life: life}

	sh, err := shell.New(shell.Options{
		Endpoint:        ep,
		ExternalBackend: cfg.ExternalBackend,
		ClosePolicy:     cfg.ClosePolicy,
		ReadyTimeout:    cfg.ReadyTimeout,
		Version:         Version,
		Logger:          logger,
		Popups:          popups,
	}, sup, mainWin, life)
	if err != nil {
		return err
	}
	life.shell = sh

	app := application.New(application.Options{
		Name:        "Idle NPU Waker",
		Description: "Keeps the NPU awake while idle",
		Services: []application.Service{
			application.NewService(life),
			application.NewService(sh.Commands()),
		},
		Assets: application.AssetOptions{
			Handler:    application.AssetFileServerFS(assets),
			Middleware: backend.UIProxy(ep, sh.Main().Navigated, logger),
		},
		Mac: application.MacOptions{
			ApplicationShouldTerminateAfterLastWindowClosed: false,
			ActivationPolicy:                                application.ActivationPolicyAccessory,
		},
		Windows: application.WindowsOptions{
			DisableQuitOnLastWindowClosed: true,
		},
		Linux: application.LinuxOptions{
			DisableQuitOnLastWindowClosed: true,
		},
	})
	life.app = app
	popups.app = app

	mainWin.app = app
	mainWin.win = app.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:             string(shell.MainWindow),
		Title:            "Idle NPU Waker",
		Width:            1200,
		Height:           800,
		MinWidth:         800,
		MinHeight:        600,
		Hidden:           true,
		BackgroundColour: application.NewRGB(27, 38, 44),
		URL:              "/",
	})
	mainWin.win.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		if sh.HandleWindowEvent(shell.WindowEvent{Window: shell.MainWindow, Kind: shell.WindowCloseRequested}) {
			e.Cancel()
		}
	})

	life.tray = newTray(app, sh)
	if guard != nil {
		guard.Serve(life.showFromSecondLaunch)
	}

	if err := sh.Start(); err != nil {
		return err
	}

	if err := app.Run(); err != nil {
		sup.Shutdown(ep)
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
