package shell

// WindowLabel identifies which window an event came from.
type WindowLabel string

const (
	MainWindow       WindowLabel = "main"
	PopupWindowLabel WindowLabel = "tray-popup"
)

type WindowEventKind int

const (
	WindowCloseRequested WindowEventKind = iota + 1
	WindowFocusLost
)

type WindowEvent struct {
	Window WindowLabel
	Kind   WindowEventKind
}

type TrayEventKind int

const (
	TrayClick TrayEventKind = iota + 1
	TrayDoubleClick
	TrayMenuShow
	TrayMenuQuit
)

type MouseButton int

const (
	ButtonPrimary MouseButton = iota + 1
	ButtonSecondary
)

// TrayEvent is a click on the tray icon or a native menu item.
// Position is only meaningful when HasPosition is set.
type TrayEvent struct {
	Kind        TrayEventKind
	Button      MouseButton
	Position    Point
	HasPosition bool
}

type RunEvent int

const (
	// RunExitRequested fires when the toolkit is asked to quit.
	RunExitRequested RunEvent = iota + 1
	// RunExit fires as the run loop ends.
	RunExit
)

// HandleWindowEvent reports whether the event's default action (closing
// the window) must be prevented. Call it on the UI thread.
func (s *Shell) HandleWindowEvent(ev WindowEvent) (prevent bool) {
	switch ev.Kind {
	case WindowCloseRequested:
		switch ev.Window {
		case MainWindow:
			return s.main.HandleClose()
		case PopupWindowLabel:
			if s.intent.Requested() {
				return false
			}
			// The popup is reused; closing it just hides it.
			s.tray.HideMenu()
			return true
		}
	case WindowFocusLost:
		if ev.Window == PopupWindowLabel {
			s.tray.HandleFocusLost()
		}
	default:
		s.logger.Debug().Int("kind", int(ev.Kind)).Msg("Unhandled window event")
	}
	return false
}

// HandleTrayEvent dispatches tray icon clicks and menu selections. Call it
// on the UI thread.
func (s *Shell) HandleTrayEvent(ev TrayEvent) {
	switch ev.Kind {
	case TrayClick, TrayDoubleClick:
		switch ev.Button {
		case ButtonPrimary:
			s.tray.HandlePrimaryClick()
		case ButtonSecondary:
			s.tray.HandleSecondaryClick(ev.Position, ev.HasPosition)
		}
	case TrayMenuShow:
		s.tray.HideMenu()
		s.main.ShowMain()
	case TrayMenuQuit:
		s.tray.HideMenu()
		s.Quit()
	default:
		s.logger.Debug().Int("kind", int(ev.Kind)).Msg("Unhandled tray event")
	}
}

// HandleRunEvent stops the backend whenever the run loop is leaving. It
// blocks until the backend is down so the process cannot outlive the shell.
func (s *Shell) HandleRunEvent(ev RunEvent) {
	switch ev {
	case RunExitRequested, RunExit:
		s.sup.Shutdown(s.endpoint)
	default:
		s.logger.Debug().Int("event", int(ev)).Msg("Unhandled run event")
	}
}
