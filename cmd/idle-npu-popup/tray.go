package main

import (
	"github.com/wailsapp/wails/v3/pkg/application"

	"github.com/idlenpu/waker-desktop/frontend"
	"github.com/idlenpu/waker-desktop/internal/shell"
)

const (
	trayTooltip = "Idle NPU Waker"
	// popupTrayOffset is the gap between the tray icon and an anchored popup.
	popupTrayOffset = 8
)

// trayIcon forwards tray clicks to the shell. The toolkit does not report
// the click position, so the popup is anchored to the icon instead.
type trayIcon struct {
	icon *application.SystemTray
}

func newTray(app *application.App, sh *shell.Shell) *trayIcon {
	icon := app.SystemTray.New()
	icon.SetIcon(frontend.TrayIcon())
	icon.SetTooltip(trayTooltip)

	dispatch := func(ev shell.TrayEvent) func() {
		return func() {
			sh.Queue().Post(func() { sh.HandleTrayEvent(ev) })
		}
	}
	icon.OnClick(dispatch(shell.TrayEvent{Kind: shell.TrayClick, Button: shell.ButtonPrimary}))
	icon.OnDoubleClick(dispatch(shell.TrayEvent{Kind: shell.TrayDoubleClick, Button: shell.ButtonPrimary}))
	icon.OnRightClick(dispatch(shell.TrayEvent{Kind: shell.TrayClick, Button: shell.ButtonSecondary}))
	return &trayIcon{icon: icon}
}
