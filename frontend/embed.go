// Package frontend embeds the pages the shell serves before the backend's
// own UI takes over: the startup placeholder and the fallback tray popup.
package frontend

import (
	"embed"
	"runtime"
)

//go:embed all:dist
var Assets embed.FS

var (
	//go:embed icons/icon.png
	iconPNG []byte
	//go:embed icons/icon.ico
	iconICO []byte
)

// TrayIcon returns the tray image in the format the host OS expects.
func TrayIcon() []byte {
	if runtime.GOOS == "windows" {
		return iconICO
	}
	return iconPNG
}
