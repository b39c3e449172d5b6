package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/idlenpu/waker-desktop/frontend"
	"github.com/idlenpu/waker-desktop/internal/backend"
	"github.com/idlenpu/waker-desktop/internal/cli"
	"github.com/idlenpu/waker-desktop/internal/config"
	"github.com/idlenpu/waker-desktop/internal/instance"
	"github.com/idlenpu/waker-desktop/internal/logging"
	"github.com/idlenpu/waker-desktop/internal/shell"
)

func main() {
	cmd := cli.NewRootCmd("idle-npu-waker", "Idle NPU Waker desktop shell", Version, run)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	config.ApplyWebViewDefaults()

	app := NewApp(logger)

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

	ep := cfg.Endpoint()
	sup := backend.NewSupervisor(backend.NewExecLauncher(cfg, logger), logger)
	tray := newSystrayMenu(logging.Component(logger, "systray"))

	sh, err := shell.New(shell.Options{
		Endpoint:        ep,
		ExternalBackend: cfg.ExternalBackend,
		ClosePolicy:     cfg.ClosePolicy,
		ReadyTimeout:    cfg.ReadyTimeout,
		Version:         Version,
		Logger:          logger,
		Menu:            tray,
	}, sup, &mainWindow{app: app}, app)
	if err != nil {
		return err
	}
	app.shell = sh
	tray.dispatch = func(ev shell.TrayEvent) {
		sh.Queue().Post(func() { sh.HandleTrayEvent(ev) })
	}
	tray.start()
	if guard != nil {
		guard.Serve(app.showFromSecondLaunch)
	}

	assets, err := fs.Sub(frontend.Assets, "dist")
	if err != nil {
		return fmt.Errorf("frontend assets: %w", err)
	}

	err = wails.Run(&options.App{
		Title:            "Idle NPU Waker",
		Width:            1200,
		Height:           800,
		MinWidth:         800,
		MinHeight:        600,
		StartHidden:      true,
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 44, A: 1},
		AssetServer: &assetserver.Options{
			Assets:     assets,
			Middleware: backend.UIProxy(ep, sh.Main().Navigated, logger),
		},
		OnStartup:     app.startup,
		OnBeforeClose: app.beforeClose,
		OnShutdown:    app.shutdown,
		Bind: []interface{}{
			sh.Commands(),
		},
	})
	if err != nil {
		sup.Shutdown(ep)
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
