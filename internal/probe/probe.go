// Package probe checks whether a TCP listener accepts connections.
package probe

import (
	"net"
	"strconv"
	"time"
)

const (
	// AttemptTimeout bounds a single connection attempt.
	AttemptTimeout = 300 * time.Millisecond
	// PollInterval is the pause between attempts while waiting.
	PollInterval = 200 * time.Millisecond
)

// Prober holds the probe timings. The zero value uses AttemptTimeout and
// PollInterval.
type Prober struct {
	Attempt  time.Duration
	Interval time.Duration
}

// Default is the prober used by the package-level functions.
var Default = Prober{Attempt: AttemptTimeout, Interval: PollInterval}

// IsReachable makes one connection attempt. Refused connections, timeouts
// and unresolvable hosts all report false.
func IsReachable(host string, port uint16, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitUntilReachable polls with the default timings until the listener
// accepts a connection or overall elapses.
func WaitUntilReachable(host string, port uint16, overall time.Duration) bool {
	return Default.WaitUntilReachable(host, port, overall)
}

// Reachable makes one connection attempt using p's attempt timeout.
func (p Prober) Reachable(host string, port uint16) bool {
	return IsReachable(host, port, p.attempt())
}

// WaitUntilReachable blocks the calling goroutine; never call it from the
// UI thread.
func (p Prober) WaitUntilReachable(host string, port uint16, overall time.Duration) bool {
	deadline := time.Now().Add(overall)
	for time.Now().Before(deadline) {
		if p.Reachable(host, port) {
			return true
		}
		time.Sleep(p.interval())
	}
	return false
}

func (p Prober) attempt() time.Duration {
	if p.Attempt <= 0 {
		return AttemptTimeout
	}
	return p.Attempt
}

func (p Prober) interval() time.Duration {
	if p.Interval <= 0 {
		return PollInterval
	}
	return p.Interval
}
