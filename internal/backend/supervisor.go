// Package backend owns the lifetime of the companion backend process.
package backend

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
	"github.com/idlenpu/waker-desktop/internal/probe"
)

// Process is a running backend.
type Process interface {
	Pid() int
	// Kill forcefully terminates the process.
	Kill() error
	// Wait blocks until the process exits. Only the supervisor's watcher
	// calls it.
	Wait() error
}

// Launcher starts a backend bound to an endpoint.
type Launcher interface {
	Launch(ep config.Endpoint) (Process, error)
}

// Supervisor holds at most one backend process. The slot is read and
// written from the startup goroutine and from UI callbacks, so it is
// guarded by mu; mu is never held across a network call or a wait.
type Supervisor struct {
	logger   zerolog.Logger
	launcher Launcher

	reachable   func(config.Endpoint) bool
	requestExit func(config.Endpoint) error

	// spawnMu serializes DecideAndSpawn so two callers cannot both launch.
	spawnMu sync.Mutex

	mu   sync.Mutex
	proc Process
}

// NewSupervisor creates a Supervisor that launches through l.
func NewSupervisor(l Launcher, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		logger:   logger.With().Str("component", "backend").Logger(),
		launcher: l,
		reachable: func(ep config.Endpoint) bool {
			return probe.IsReachable(ep.Host, ep.Port, probe.AttemptTimeout)
		},
		requestExit: func(ep config.Endpoint) error {
			return RequestExit(ep, ExitRequestTimeout)
		},
	}
}

// DecideAndSpawn launches a backend unless one is already listening on ep
// or already owned. It reports whether a new process was started. An
// instance found listening is treated as external and is never killed.
func (s *Supervisor) DecideAndSpawn(ep config.Endpoint) (bool, error) {
	s.spawnMu.Lock()
	defer s.spawnMu.Unlock()

	if s.Owned() {
		s.logger.Debug().Msg("Backend already owned, not spawning")
		return false, nil
	}
	if s.reachable(ep) {
		s.logger.Info().Str("endpoint", ep.String()).Msg("Backend already listening, using existing instance")
		return false, nil
	}

	proc, err := s.launcher.Launch(ep)
	if err != nil {
		return false, fmt.Errorf("spawn backend: %w", err)
	}

	s.mu.Lock()
	s.proc = proc
	s.mu.Unlock()

	s.logger.Info().Int("pid", proc.Pid()).Str("endpoint", ep.String()).Msg("Backend spawned")
	go s.watch(proc)
	return true, nil
}

// watch clears the slot when the process exits on its own.
func (s *Supervisor) watch(proc Process) {
	err := proc.Wait()

	s.mu.Lock()
	stillOwned := s.proc == proc
	if stillOwned {
		s.proc = nil
	}
	s.mu.Unlock()

	if stillOwned {
		s.logger.Warn().Err(err).Int("pid", proc.Pid()).Msg("Backend process exited unexpectedly")
		return
	}
	s.logger.Debug().Int("pid", proc.Pid()).Msg("Backend process exited")
}

// Owned reports whether a backend process is currently held.
func (s *Supervisor) Owned() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil
}

// take empties the slot and returns what it held.
func (s *Supervisor) take() Process {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc := s.proc
	s.proc = nil
	return proc
}

// Shutdown asks the backend on ep to exit, then kills the owned process
// if there is one. Safe to call any number of times.
func (s *Supervisor) Shutdown(ep config.Endpoint) {
	if err := s.requestExit(ep); err != nil {
		s.logger.Debug().Err(err).Msg("Cooperative exit request not delivered")
	}

	proc := s.take()
	if proc == nil {
		return
	}
	if err := proc.Kill(); err != nil {
		s.logger.Debug().Err(err).Int("pid", proc.Pid()).Msg("Kill backend failed")
		return
	}
	s.logger.Info().Int("pid", proc.Pid()).Msg("Backend terminated")
}
