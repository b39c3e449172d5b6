package shell

// Point is a screen position in physical pixels.
type Point struct {
	X, Y int
}

// Tray is the tray entry point. MenuTray backs it with a native menu and
// PopupTray with a frameless window. Methods run on the UI thread.
type Tray interface {
	// Init applies the initial labels.
	Init(labels Labels) error
	// Prepare runs once the backend is reachable (or given up on).
	Prepare() error
	UpdateLabels(labels Labels)
	HandlePrimaryClick()
	// HandleSecondaryClick receives the click position when known.
	HandleSecondaryClick(at Point, known bool)
	HandleFocusLost()
	HideMenu()
}
