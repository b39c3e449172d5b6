package shell

import (
	"fmt"
	"time"

	"github.com/idlenpu/waker-desktop/internal/attachment"
)

// uiCallTimeout bounds commands that must report a UI failure.
const uiCallTimeout = 2 * time.Second

// Commands is bound to the frontend. Methods are called off the UI thread.
type Commands struct {
	s *Shell
}

// Commands returns the frontend-facing command set.
func (s *Shell) Commands() *Commands {
	return &Commands{s: s}
}

// UpdateTrayLabels relabels the tray, typically after a language switch.
func (c *Commands) UpdateTrayLabels(show, quit string) error {
	labels := Labels{Show: show, Quit: quit}
	c.s.queue.Post(func() { c.s.tray.UpdateLabels(labels) })
	return nil
}

func (c *Commands) ShowMainWindow() error {
	c.s.queue.Post(c.s.main.ShowMain)
	return nil
}

func (c *Commands) HideMainWindow() error {
	if err := c.s.queue.Call(c.s.main.HideMainStrict, uiCallTimeout); err != nil {
		return fmt.Errorf("hide main window: %w", err)
	}
	return nil
}

func (c *Commands) HideTrayMenu() error {
	c.s.queue.Post(c.s.tray.HideMenu)
	return nil
}

// ExitApp is the page's answer to a close confirmation, or a direct quit.
func (c *Commands) ExitApp() error {
	c.s.Quit()
	return nil
}

// SaveAttachmentToDownloads decodes data and writes it under targetDir, or
// the user's download directory when targetDir is blank.
func (c *Commands) SaveAttachmentToDownloads(name, data, targetDir string) (string, error) {
	path, err := attachment.Save(name, data, targetDir)
	if err != nil {
		c.s.logger.Warn().Err(err).Str("name", name).Msg("Save attachment failed")
		return "", err
	}
	c.s.logger.Info().Str("path", path).Msg("Attachment saved")
	return path, nil
}

// CloseHandlerReady is called by a page once it has installed
// window.__idleNpuCloseRequested.
func (c *Commands) CloseHandlerReady() {
	c.s.main.AnnounceHook()
}

func (c *Commands) BackendStatus() string {
	return c.s.BackendStatus()
}

func (c *Commands) Version() string {
	return c.s.version
}
