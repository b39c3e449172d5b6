package shell

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	PopupWidth  = 210
	PopupHeight = 100
	// popupGap is the space between the popup's bottom edge and the click.
	popupGap = 8
	// FocusGrace is how long after showing the popup a focus loss is ignored.
	FocusGrace = 200 * time.Millisecond

	// TrayPage is the popup page. The asset proxy serves the backend's copy
	// once the backend is up and the bundled one otherwise.
	TrayPage = "/tray.html"
)

// PopupOptions describe the popup window to create.
type PopupOptions struct {
	URL    string
	Width  int
	Height int
}

// PopupWindow is the frameless popup. Every method runs on the UI thread.
type PopupWindow interface {
	Show() error
	Hide() error
	Focus() error
	SetPosition(x, y int) error
	// AnchorToTray places the popup next to the tray icon when the click
	// position is unknown.
	AnchorToTray() error
	Emit(event string, data any) error
}

// PopupFactory creates the popup window: frameless, always on top,
// hidden, fixed size and absent from the taskbar.
type PopupFactory interface {
	CreatePopup(opts PopupOptions) (PopupWindow, error)
}

// PopupTray is the custom popup variant.
type PopupTray struct {
	factory PopupFactory
	labels  *LabelStore
	main    *WindowController
	logger  zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	popup   PopupWindow
	shownAt time.Time
}

func (t *PopupTray) Init(labels Labels) error {
	t.labels.Set(labels)
	return nil
}

// Prepare creates the popup ahead of the first right click.
func (t *PopupTray) Prepare() error {
	_, err := t.ensurePopup()
	return err
}

func (t *PopupTray) ensurePopup() (PopupWindow, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.popup != nil {
		return t.popup, nil
	}

	p, err := t.factory.CreatePopup(PopupOptions{URL: TrayPage, Width: PopupWidth, Height: PopupHeight})
	if err != nil {
		return nil, fmt.Errorf("create tray popup: %w", err)
	}
	t.logger.Debug().Msg("Tray popup created")
	t.popup = p
	return p, nil
}

func (t *PopupTray) current() PopupWindow {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.popup
}

func (t *PopupTray) UpdateLabels(labels Labels) {
	t.labels.Set(labels)
	if p := t.current(); p != nil {
		t.try("emit labels", p.Emit(TrayLabelsEvent, labels))
	}
}

// HandlePrimaryClick hides the popup and brings the main window forward.
func (t *PopupTray) HandlePrimaryClick() {
	t.HideMenu()
	t.main.ShowMain()
}

// HandleSecondaryClick opens the popup just above the click.
func (t *PopupTray) HandleSecondaryClick(at Point, known bool) {
	p, err := t.ensurePopup()
	if err != nil {
		t.logger.Warn().Err(err).Msg("Tray popup unavailable")
		return
	}

	t.mu.Lock()
	t.shownAt = t.now()
	t.mu.Unlock()

	t.try("emit labels", p.Emit(TrayLabelsEvent, t.labels.Get()))
	if known {
		x, y := PopupPosition(at)
		t.try("position", p.SetPosition(x, y))
	} else {
		t.try("anchor", p.AnchorToTray())
	}
	if err := p.Show(); err != nil {
		t.try("show", err)
		t.clearShown()
		return
	}
	t.try("focus", p.Focus())
}

// HandleFocusLost hides the popup unless it was shown within FocusGrace,
// in which case the focus change came from the opening click itself.
func (t *PopupTray) HandleFocusLost() {
	t.mu.Lock()
	recent := !t.shownAt.IsZero() && t.now().Sub(t.shownAt) < FocusGrace
	t.mu.Unlock()
	if recent {
		return
	}
	t.HideMenu()
}

// HideMenu hides the popup if it exists and clears the shown stamp.
func (t *PopupTray) HideMenu() {
	if p := t.current(); p != nil {
		t.try("hide", p.Hide())
	}
	t.clearShown()
}

func (t *PopupTray) clearShown() {
	t.mu.Lock()
	t.shownAt = time.Time{}
	t.mu.Unlock()
}

func (t *PopupTray) try(op string, err error) {
	if err != nil {
		t.logger.Debug().Err(err).Str("op", op).Msg("Tray popup operation failed")
	}
}

// PopupPosition centers the popup horizontally on the click and puts its
// bottom edge popupGap pixels above it, never at negative coordinates.
func PopupPosition(click Point) (x, y int) {
	x = max(click.X-PopupWidth/2, 0)
	y = max(click.Y-PopupHeight-popupGap, 0)
	return x, y
}
