// Package instance keeps a single shell running per user session. The
// first instance holds a loopback port; later launches connect to it, ask
// it to show its window, and exit.
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	magic = "idle-npu-waker:show"
	ack   = "idle-npu-waker:ack"

	handshakeTimeout = 2 * time.Second
	retries          = 3
	retryDelay       = 500 * time.Millisecond
)

// ErrAlreadyRunning means another instance took over and this one must exit.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Guard is held by the first instance.
type Guard struct {
	ln     net.Listener
	logger zerolog.Logger
	once   sync.Once
}

// Acquire tries to become the first instance on addr. It returns
// ErrAlreadyRunning after signalling an existing instance. If the port is
// held by something that does not answer the handshake, it returns a nil
// Guard and nil error so the caller starts unguarded.
func Acquire(addr string, logger zerolog.Logger) (*Guard, error) {
	logger = logger.With().Str("component", "instance").Logger()

	ln, err := net.Listen("tcp", addr)
	if err == nil {
		return &Guard{ln: ln, logger: logger}, nil
	}

	logger.Info().Str("addr", addr).Msg("Single-instance port busy, contacting existing instance")
	for attempt := 1; attempt <= retries; attempt++ {
		err := signal(addr)
		if err == nil {
			logger.Info().Msg("Existing instance notified, exiting")
			return nil, ErrAlreadyRunning
		}
		logger.Debug().Err(err).Int("attempt", attempt).Msg("Handshake failed")

		time.Sleep(retryDelay)
		// The holder may have just exited.
		if ln, err := net.Listen("tcp", addr); err == nil {
			return &Guard{ln: ln, logger: logger}, nil
		}
	}

	logger.Warn().Str("addr", addr).Msg("Port occupied by unknown process, starting without single-instance guard")
	return nil, nil
}

// signal asks the instance on addr to show itself.
func signal(addr string) error {
	conn, err := net.DialTimeout("tcp", addr, handshakeTimeout)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(handshakeTimeout))

	if _, err := fmt.Fprintf(conn, "%s\n", magic); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read ack: %w", err)
	}
	if strings.TrimSpace(line) != ack {
		return fmt.Errorf("invalid ack %q", line)
	}
	return nil
}

// Addr is the address the guard listens on.
func (g *Guard) Addr() net.Addr {
	return g.ln.Addr()
}

// Serve accepts handshakes until Close, calling onShow for each valid one.
// It returns immediately; the loop runs on its own goroutine.
func (g *Guard) Serve(onShow func()) {
	go func() {
		for {
			conn, err := g.ln.Accept()
			if err != nil {
				return
			}
			go g.handle(conn, onShow)
		}
	}()
}

func (g *Guard) handle(conn net.Conn, onShow func()) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(handshakeTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || strings.TrimSpace(line) != magic {
		return
	}
	fmt.Fprintf(conn, "%s\n", ack)

	g.logger.Info().Msg("Second launch detected, showing main window")
	onShow()
}

func (g *Guard) Close() error {
	var err error
	g.once.Do(func() { err = g.ln.Close() })
	return err
}
