package shell

import (
	"testing"

	"github.com/idlenpu/waker-desktop/internal/config"
)

func closeMain(h *harness) bool {
	return h.shell.HandleWindowEvent(WindowEvent{Window: MainWindow, Kind: WindowCloseRequested})
}

func TestHandleClose_ExitRequestedAllowsClose(t *testing.T) {
	h := newHarness(t, false, nil)
	h.shell.intent.Request()

	if closeMain(h) {
		t.Error("close prevented after exit was requested")
	}
	eventually(t, "backend shutdown", func() bool { return h.sup.shutdownCount() == 1 })
	if h.win.confirms != 0 {
		t.Error("confirmation asked after exit was requested")
	}
	if got := h.shell.Main().State(); got != CloseTerminating {
		t.Errorf("state = %v", got)
	}
}

func TestHandleClose_NoHookExits(t *testing.T) {
	h := newHarness(t, false, nil)

	if !closeMain(h) {
		t.Error("close not prevented")
	}
	if h.win.confirms != 0 {
		t.Error("asked a page that never installed the hook")
	}
	if !h.shell.intent.Requested() {
		t.Error("exit not requested")
	}
	h.waitQuit(t)
	if got := h.shell.Main().State(); got != CloseTerminating {
		t.Errorf("state = %v", got)
	}

	// The terminator's own close must go through.
	if closeMain(h) {
		t.Error("second close prevented")
	}
}

func TestHandleClose_HookAsksPage(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*harness)
	}{
		{"placeholder announced", func(h *harness) { h.shell.Commands().CloseHandlerReady() }},
		{"backend page announced", func(h *harness) {
			h.shell.Main().NavigateMainTo(BackendPage)
			h.shell.Commands().CloseHandlerReady()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false, nil)
			tt.setup(h)

			if !closeMain(h) {
				t.Error("close not prevented")
			}
			if h.win.confirms != 1 {
				t.Errorf("confirms = %d", h.win.confirms)
			}
			if h.shell.intent.Requested() || h.sup.shutdownCount() != 0 {
				t.Error("exited while the page is resolving")
			}
			if got := h.shell.Main().State(); got != CloseResolving {
				t.Errorf("state = %v", got)
			}
		})
	}
}

func TestHandleClose_HookFailureExits(t *testing.T) {
	h := newHarness(t, false, nil)
	h.win.confirmErr = errBoom
	h.shell.Commands().CloseHandlerReady()

	if !closeMain(h) {
		t.Error("close not prevented")
	}
	if !h.shell.intent.Requested() {
		t.Error("hook failure did not fall back to exit")
	}
	h.waitQuit(t)
}

// After the hand-off the close only waits on a page that announced its
// hook; otherwise it exits instead of staying stuck.
func TestHandleClose_AfterHandOff(t *testing.T) {
	t.Run("silent backend page exits", func(t *testing.T) {
		h := newHarness(t, false, nil)
		h.shell.Main().NavigateMainTo(BackendPage)

		if !closeMain(h) {
			t.Error("close not prevented")
		}
		if h.win.confirms != 0 {
			t.Error("asked a page that never announced its hook")
		}
		if got := h.shell.Main().State(); got != CloseTerminating {
			t.Errorf("state = %v, want terminating", got)
		}
		h.waitQuit(t)
		if closeMain(h) {
			t.Error("terminator's close prevented")
		}
	})

	t.Run("placeholder announcement does not carry over", func(t *testing.T) {
		h := newHarness(t, false, nil)
		h.shell.Commands().CloseHandlerReady()
		h.shell.Main().NavigateMainTo(BackendPage)

		closeMain(h)
		if h.win.confirms != 0 {
			t.Error("asked the backend page on the placeholder's announcement")
		}
		h.waitQuit(t)
	})

	t.Run("announced backend page resolves by exit", func(t *testing.T) {
		h := newHarness(t, false, nil)
		h.shell.Main().NavigateMainTo(BackendPage)
		h.shell.Commands().CloseHandlerReady()

		if !closeMain(h) || h.win.confirms != 1 {
			t.Fatalf("confirms = %d", h.win.confirms)
		}
		if err := h.shell.Commands().ExitApp(); err != nil {
			t.Fatal(err)
		}
		h.waitQuit(t)
		if closeMain(h) {
			t.Error("close prevented after ExitApp")
		}
	})
}

func TestHandleClose_ResolvedByPage(t *testing.T) {
	t.Run("hide", func(t *testing.T) {
		h := newHarness(t, false, nil)
		h.shell.Commands().CloseHandlerReady()
		closeMain(h)

		if err := h.shell.Commands().HideMainWindow(); err != nil {
			t.Fatalf("HideMainWindow: %v", err)
		}
		if got := h.shell.Main().State(); got != CloseRunning {
			t.Errorf("state = %v", got)
		}
		if h.shell.intent.Requested() {
			t.Error("hide must not request exit")
		}
	})

	t.Run("exit", func(t *testing.T) {
		h := newHarness(t, false, nil)
		h.shell.Commands().CloseHandlerReady()
		closeMain(h)

		if err := h.shell.Commands().ExitApp(); err != nil {
			t.Fatal(err)
		}
		h.waitQuit(t)
		// Exit requested: later closes are not intercepted again.
		if closeMain(h) {
			t.Error("close prevented after ExitApp")
		}
		if h.win.confirms != 1 {
			t.Errorf("confirms = %d, want 1", h.win.confirms)
		}
	})
}

func TestHandleClose_HidePolicy(t *testing.T) {
	h := newHarness(t, false, func(o *Options) { o.ClosePolicy = config.ClosePolicyHide })

	if !closeMain(h) {
		t.Error("close not prevented")
	}
	if !h.win.has("hide") {
		t.Error("window not hidden")
	}
	if h.shell.intent.Requested() || h.sup.shutdownCount() != 0 {
		t.Error("hide policy must not exit")
	}
}

func TestHideMainWindow_ReportsFailure(t *testing.T) {
	h := newHarness(t, false, nil)
	h.win.hideErr = errBoom
	if err := h.shell.Commands().HideMainWindow(); err == nil {
		t.Error("expected hide failure to be reported")
	}
}

func TestNavigateMainTo_Once(t *testing.T) {
	h := newHarness(t, false, nil)
	h.shell.Main().NavigateMainTo("http://127.0.0.1:8000")
	h.shell.Main().NavigateMainTo("http://127.0.0.1:9000")
	if len(h.win.navigated) != 1 || h.win.navigated[0] != "http://127.0.0.1:8000" {
		t.Errorf("navigated = %v", h.win.navigated)
	}
}

func TestShowMain_Order(t *testing.T) {
	h := newHarness(t, false, nil)
	h.shell.Main().ShowMain()
	want := []string{"unminimise", "show", "focus"}
	if len(h.win.calls) != len(want) {
		t.Fatalf("calls = %v", h.win.calls)
	}
	for i := range want {
		if h.win.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", h.win.calls, want)
		}
	}
}
