package main

import (
	"encoding/json"
	"errors"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/idlenpu/waker-desktop/internal/shell"
)

// closeHookScript calls the page's confirmation hook when it has one.
const closeHookScript = "if (typeof window.__idleNpuCloseRequested === 'function') { window.__idleNpuCloseRequested(); }"

var errNoWindow = errors.New("window not created")

// mainWindow adapts the main webview window. Methods run on the main thread.
type mainWindow struct {
	app *application.App
	win *application.WebviewWindow
}

func (w *mainWindow) Show() error {
	if w.win == nil {
		return errNoWindow
	}
	w.win.Show()
	return nil
}

func (w *mainWindow) Hide() error {
	if w.win == nil {
		return errNoWindow
	}
	w.win.Hide()
	return nil
}

func (w *mainWindow) Focus() error {
	if w.win == nil {
		return errNoWindow
	}
	w.win.Focus()
	return nil
}

func (w *mainWindow) Unminimise() error {
	if w.win == nil {
		return errNoWindow
	}
	w.win.UnMinimise()
	return nil
}

func (w *mainWindow) Navigate(url string) error {
	if w.win == nil {
		return errNoWindow
	}
	target, err := json.Marshal(url)
	if err != nil {
		return err
	}
	// A relative URL stays on the asset server's origin.
	w.win.ExecJS("window.location.replace(" + string(target) + ");")
	return nil
}

func (w *mainWindow) Emit(event string, data any) error {
	w.app.Event.Emit(event, data)
	return nil
}

func (w *mainWindow) RequestCloseConfirmation() error {
	if w.win == nil {
		return errNoWindow
	}
	w.win.ExecJS(closeHookScript)
	return nil
}

// popupFactory builds the tray popup window on first use.
type popupFactory struct {
	app  *application.App
	life *lifecycle
}

func (f *popupFactory) CreatePopup(opts shell.PopupOptions) (shell.PopupWindow, error) {
	if f.app == nil {
		return nil, errNoWindow
	}
	win := f.app.Window.NewWithOptions(application.WebviewWindowOptions{
		Name:             string(shell.PopupWindowLabel),
		Width:            opts.Width,
		Height:           opts.Height,
		Frameless:        true,
		AlwaysOnTop:      true,
		Hidden:           true,
		DisableResize:    true,
		BackgroundColour: application.NewRGB(32, 42, 48),
		URL:              opts.URL,
		Windows: application.WindowsWindow{
			HiddenOnTaskbar: true,
		},
	})

	sh := f.life.shell
	win.OnWindowEvent(events.Common.WindowLostFocus, func(*application.WindowEvent) {
		sh.Queue().Post(func() {
			sh.HandleWindowEvent(shell.WindowEvent{Window: shell.PopupWindowLabel, Kind: shell.WindowFocusLost})
		})
	})
	win.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		if sh.HandleWindowEvent(shell.WindowEvent{Window: shell.PopupWindowLabel, Kind: shell.WindowCloseRequested}) {
			e.Cancel()
		}
	})
	return &popupWindow{app: f.app, win: win, tray: f.life.tray}, nil
}

// popupWindow adapts the popup webview window.
type popupWindow struct {
	app  *application.App
	win  *application.WebviewWindow
	tray *trayIcon
}

func (p *popupWindow) Show() error {
	p.win.Show()
	return nil
}

func (p *popupWindow) Hide() error {
	p.win.Hide()
	return nil
}

func (p *popupWindow) Focus() error {
	p.win.Focus()
	return nil
}

func (p *popupWindow) SetPosition(x, y int) error {
	p.win.SetPosition(x, y)
	return nil
}

func (p *popupWindow) AnchorToTray() error {
	if p.tray == nil {
		return errors.New("tray icon not created")
	}
	return p.tray.icon.PositionWindow(p.win, popupTrayOffset)
}

func (p *popupWindow) Emit(event string, data any) error {
	p.app.Event.Emit(event, data)
	return nil
}
