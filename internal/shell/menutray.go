package shell

import (
	"github.com/rs/zerolog"
)

// NativeMenu is the OS tray menu with a Show item, a separator and a Quit
// item. SetItems builds it on first use and retitles it afterwards.
type NativeMenu interface {
	SetItems(labels Labels) error
}

// MenuTray is the native menu variant.
type MenuTray struct {
	menu   NativeMenu
	labels *LabelStore
	main   *WindowController
	logger zerolog.Logger
}

func (t *MenuTray) Init(labels Labels) error {
	t.labels.Set(labels)
	return t.menu.SetItems(labels)
}

func (t *MenuTray) Prepare() error { return nil }

func (t *MenuTray) UpdateLabels(labels Labels) {
	t.labels.Set(labels)
	if err := t.menu.SetItems(labels); err != nil {
		t.logger.Debug().Err(err).Msg("Rebuild tray menu failed")
	}
}

func (t *MenuTray) HandlePrimaryClick() {
	t.main.ShowMain()
}

// HandleSecondaryClick is a no-op; the OS opens the menu itself.
func (t *MenuTray) HandleSecondaryClick(Point, bool) {}

func (t *MenuTray) HandleFocusLost() {}

func (t *MenuTray) HideMenu() {}
