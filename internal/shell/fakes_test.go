package shell

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
)

type emitted struct {
	event string
	data  any
}

type fakeWindow struct {
	mu        sync.Mutex
	calls     []string
	navigated []string
	emits     []emitted
	confirms  int

	hideErr    error
	confirmErr error
}

func (w *fakeWindow) record(op string) {
	w.mu.Lock()
	w.calls = append(w.calls, op)
	w.mu.Unlock()
}

func (w *fakeWindow) Show() error { w.record("show"); return nil }
func (w *fakeWindow) Focus() error { w.record("focus"); return nil }
func (w *fakeWindow) Unminimise() error { w.record("unminimise"); return nil }

func (w *fakeWindow) Hide() error {
	w.record("hide")
	return w.hideErr
}

func (w *fakeWindow) Navigate(url string) error {
	w.mu.Lock()
	w.navigated = append(w.navigated, url)
	w.mu.Unlock()
	return nil
}

func (w *fakeWindow) Emit(event string, data any) error {
	w.mu.Lock()
	w.emits = append(w.emits, emitted{event, data})
	w.mu.Unlock()
	return nil
}

func (w *fakeWindow) RequestCloseConfirmation() error {
	w.mu.Lock()
	w.confirms++
	w.mu.Unlock()
	return w.confirmErr
}

func (w *fakeWindow) has(op string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, c := range w.calls {
		if c == op {
			return true
		}
	}
	return false
}

type fakeSupervisor struct {
	mu        sync.Mutex
	spawns    int
	shutdowns int
	spawnErr  error
	// block, when set, holds Shutdown until it is closed.
	block chan struct{}
}

func (s *fakeSupervisor) DecideAndSpawn(config.Endpoint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spawnErr != nil {
		return false, s.spawnErr
	}
	s.spawns++
	return true, nil
}

func (s *fakeSupervisor) Shutdown(config.Endpoint) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.shutdowns++
	s.mu.Unlock()
}

func (s *fakeSupervisor) shutdownCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdowns
}

type fakeTerminator struct {
	mu    sync.Mutex
	codes []int
}

func (t *fakeTerminator) Terminate(code int) {
	t.mu.Lock()
	t.codes = append(t.codes, code)
	t.mu.Unlock()
}

func (t *fakeTerminator) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.codes)
}

func (t *fakeTerminator) exitCodes() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]int(nil), t.codes...)
}

type fakeMenu struct {
	sets []Labels
}

func (m *fakeMenu) SetItems(l Labels) error {
	m.sets = append(m.sets, l)
	return nil
}

type fakePopup struct {
	fakeWindow
	positions [][2]int
	anchored  int
	showErr   error
}

func (p *fakePopup) Show() error {
	p.record("show")
	return p.showErr
}

func (p *fakePopup) SetPosition(x, y int) error {
	p.positions = append(p.positions, [2]int{x, y})
	return nil
}

func (p *fakePopup) AnchorToTray() error {
	p.anchored++
	return nil
}

type fakeFactory struct {
	created []PopupOptions
	popup   *fakePopup
	err     error
}

func (f *fakeFactory) CreatePopup(opts PopupOptions) (PopupWindow, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, opts)
	if f.popup == nil {
		f.popup = &fakePopup{}
	}
	return f.popup, nil
}

// fakeClock is advanced by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")

type harness struct {
	shell   *Shell
	win     *fakeWindow
	sup     *fakeSupervisor
	term    *fakeTerminator
	menu    *fakeMenu
	factory *fakeFactory
	clock   *fakeClock
}

func syncRun(fn func()) { fn() }

// newHarness builds an opened Shell. With popup set it uses the popup
// tray, otherwise the native menu.
func newHarness(t *testing.T, popup bool, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{
		win:   &fakeWindow{},
		sup:   &fakeSupervisor{},
		term:  &fakeTerminator{},
		clock: &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts := Options{
		Endpoint: config.NewEndpoint("127.0.0.1", 8000),
		Logger:   zerolog.Nop(),
		Version:  "test",
	}
	if popup {
		h.factory = &fakeFactory{}
		opts.Popups = h.factory
	} else {
		h.menu = &fakeMenu{}
		opts.Menu = h.menu
	}
	if mutate != nil {
		mutate(&opts)
	}

	s, err := New(opts, h.sup, h.win, h.term)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if pt, ok := s.tray.(*PopupTray); ok {
		pt.now = h.clock.now
	}
	s.Queue().Open(syncRun)
	h.shell = s
	return h
}

func (h *harness) popupTray() *PopupTray {
	return h.shell.tray.(*PopupTray)
}

func (h *harness) popupShown() bool {
	t := h.popupTray()
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.shownAt.IsZero()
}

// eventually polls cond until it holds or a second passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// waitQuit waits for the quit path to stop the backend and terminate.
func (h *harness) waitQuit(t *testing.T) {
	t.Helper()
	eventually(t, "backend shutdown", func() bool { return h.sup.shutdownCount() >= 1 })
	eventually(t, "termination", func() bool { return h.term.count() >= 1 })
}
