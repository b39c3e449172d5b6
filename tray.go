package main

import (
	goruntime "runtime"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/frontend"
	"github.com/idlenpu/waker-desktop/internal/shell"
)

const trayTooltip = "Idle NPU Waker"

// systrayMenu is the native Show / separator / Quit tray menu. Labels set
// before the tray is ready are applied once it is.
type systrayMenu struct {
	logger   zerolog.Logger
	dispatch func(shell.TrayEvent)

	mu     sync.Mutex
	ready  bool
	labels shell.Labels
	mShow  *systray.MenuItem
	mQuit  *systray.MenuItem
}

func newSystrayMenu(logger zerolog.Logger) *systrayMenu {
	return &systrayMenu{logger: logger, labels: shell.DefaultLabels}
}

// start runs the tray loop on a dedicated OS thread so its hidden window
// and message loop stay together.
func (m *systrayMenu) start() {
	go func() {
		goruntime.LockOSThread()
		systray.Run(m.setup, m.teardown)
	}()
}

// setup is called by systray once it is ready (onReady callback).
// Must not block.
func (m *systrayMenu) setup() {
	systray.SetIcon(frontend.TrayIcon())
	systray.SetTooltip(trayTooltip)

	m.mu.Lock()
	m.mShow = systray.AddMenuItem(m.labels.Show, trayTooltip)
	systray.AddSeparator()
	m.mQuit = systray.AddMenuItem(m.labels.Quit, trayTooltip)
	m.ready = true
	mShow, mQuit := m.mShow, m.mQuit
	m.mu.Unlock()

	go func() {
		for {
			select {
			case <-mShow.ClickedCh:
				m.dispatch(shell.TrayEvent{Kind: shell.TrayMenuShow})
			case <-mQuit.ClickedCh:
				m.dispatch(shell.TrayEvent{Kind: shell.TrayMenuQuit})
				return
			}
		}
	}()
}

// teardown is called by systray just before it exits (onExit callback).
func (m *systrayMenu) teardown() {
	m.logger.Debug().Msg("Tray stopped")
}

// SetItems retitles the two menu items.
func (m *systrayMenu) SetItems(labels shell.Labels) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = labels
	if !m.ready {
		return nil
	}
	m.mShow.SetTitle(labels.Show)
	m.mQuit.SetTitle(labels.Quit)
	return nil
}
