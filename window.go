package main

import (
	"encoding/json"
	"errors"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// closeHookScript calls the page's confirmation hook when it has one.
const closeHookScript = "if (typeof window.__idleNpuCloseRequested === 'function') { window.__idleNpuCloseRequested(); }"

var errNotRunning = errors.New("window not running")

// mainWindow is the single Wails v2 window. Wails v2 runtime calls are
// safe from any goroutine once the startup context exists.
type mainWindow struct {
	app *App
}

func (w *mainWindow) running() bool {
	return w.app.ctx != nil
}

func (w *mainWindow) Show() error {
	if !w.running() {
		return errNotRunning
	}
	runtime.WindowShow(w.app.ctx)
	return nil
}

func (w *mainWindow) Hide() error {
	if !w.running() {
		return errNotRunning
	}
	runtime.WindowHide(w.app.ctx)
	return nil
}

// Focus raises the window above others. Wails v2 has no focus call, so
// the window is pinned on top for a moment.
func (w *mainWindow) Focus() error {
	if !w.running() {
		return errNotRunning
	}
	runtime.WindowSetAlwaysOnTop(w.app.ctx, true)
	runtime.WindowSetAlwaysOnTop(w.app.ctx, false)
	return nil
}

func (w *mainWindow) Unminimise() error {
	if !w.running() {
		return errNotRunning
	}
	runtime.WindowUnminimise(w.app.ctx)
	return nil
}

func (w *mainWindow) Navigate(url string) error {
	if !w.running() {
		return errNotRunning
	}
	target, err := json.Marshal(url)
	if err != nil {
		return err
	}
	runtime.WindowExecJS(w.app.ctx, "window.location.replace("+string(target)+");")
	return nil
}

func (w *mainWindow) Emit(event string, data any) error {
	if !w.running() {
		return errNotRunning
	}
	runtime.EventsEmit(w.app.ctx, event, data)
	return nil
}

func (w *mainWindow) RequestCloseConfirmation() error {
	if !w.running() {
		return errNotRunning
	}
	runtime.WindowExecJS(w.app.ctx, closeHookScript)
	return nil
}
