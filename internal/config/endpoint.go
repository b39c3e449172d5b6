package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultHost is used when no backend host is configured.
	DefaultHost = "127.0.0.1"
	// DefaultPort is used when no backend port is configured or it does not parse.
	DefaultPort uint16 = 8000
)

// Endpoint is where the backend listens. BindHost is what the backend is
// told to bind; Host is what the UI connects to and is always a
// client-usable address.
type Endpoint struct {
	BindHost string
	Host     string
	Port     uint16
}

// NewEndpoint applies the host defaulting rules: an empty host becomes
// loopback, and a wildcard host is kept for binding but rewritten to the
// matching loopback address for client-side use.
func NewEndpoint(host string, port uint16) Endpoint {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return Endpoint{
		BindHost: host,
		Host:     clientHost(host),
		Port:     port,
	}
}

// clientHost maps "all interfaces" addresses to loopback.
func clientHost(host string) string {
	switch strings.Trim(host, "[]") {
	case "0.0.0.0":
		return "127.0.0.1"
	case "::", "0:0:0:0:0:0:0:0":
		return "::1"
	}
	return host
}

// ParsePort parses a port string, falling back to DefaultPort when the
// value is empty or not a valid non-zero port.
func ParsePort(s string) uint16 {
	return parsePortOr(s, DefaultPort)
}

func parsePortOr(s string, def uint16) uint16 {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return def
	}
	return uint16(n)
}

// Address returns host:port for dialing.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// URL returns the backend's base URL.
func (e Endpoint) URL() string {
	return "http://" + e.Address()
}

// Env returns the environment entries handed to a spawned backend.
func (e Endpoint) Env() []string {
	return []string{
		fmt.Sprintf("%s=%s", EnvHost, e.BindHost),
		fmt.Sprintf("%s=%d", EnvPort, e.Port),
	}
}

func (e Endpoint) String() string {
	if e.BindHost != e.Host {
		return fmt.Sprintf("%s (bind %s)", e.Address(), e.BindHost)
	}
	return e.Address()
}
