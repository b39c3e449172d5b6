package backend

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// hideWindow prevents Windows from showing a console window for the subprocess.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
