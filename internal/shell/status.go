package shell

import "sync/atomic"

// Backend readiness as reported to the placeholder page.
const (
	StatusStarting    = "starting"
	StatusReady       = "ready"
	StatusUnreachable = "unreachable"
)

// BackendStatusEvent carries a status value to the placeholder page.
const BackendStatusEvent = "backend:status"

type backendStatus struct {
	v atomic.Value
}

func newBackendStatus() *backendStatus {
	s := &backendStatus{}
	s.v.Store(StatusStarting)
	return s
}

func (s *backendStatus) get() string { return s.v.Load().(string) }

func (s *backendStatus) set(status string) { s.v.Store(status) }
