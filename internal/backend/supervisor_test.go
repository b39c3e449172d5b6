package backend

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
)

type fakeProcess struct {
	pid    int
	exited chan struct{}
	once   sync.Once

	mu    sync.Mutex
	kills int
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, exited: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.kills++
	p.mu.Unlock()
	p.exit()
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.exited
	return nil
}

func (p *fakeProcess) exit() { p.once.Do(func() { close(p.exited) }) }

func (p *fakeProcess) killCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kills
}

type fakeLauncher struct {
	mu       sync.Mutex
	launches int
	procs    []*fakeProcess
	err      error
}

func (l *fakeLauncher) Launch(ep config.Endpoint) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.launches++
	p := newFakeProcess(1000 + l.launches)
	l.procs = append(l.procs, p)
	return p, nil
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launches
}

type exitRecorder struct {
	mu    sync.Mutex
	calls int
}

func (r *exitRecorder) request(config.Endpoint) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return errors.New("connection refused")
}

func (r *exitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newTestSupervisor(l Launcher, listening bool) (*Supervisor, *exitRecorder) {
	s := NewSupervisor(l, zerolog.Nop())
	s.reachable = func(config.Endpoint) bool { return listening }
	rec := &exitRecorder{}
	s.requestExit = rec.request
	return s, rec
}

var testEndpoint = config.NewEndpoint("127.0.0.1", 8000)

func TestDecideAndSpawn_SpawnsOnce(t *testing.T) {
	l := &fakeLauncher{}
	s, _ := newTestSupervisor(l, false)

	spawned, err := s.DecideAndSpawn(testEndpoint)
	if err != nil || !spawned {
		t.Fatalf("first DecideAndSpawn = %v, %v; want true, nil", spawned, err)
	}
	spawned, err = s.DecideAndSpawn(testEndpoint)
	if err != nil || spawned {
		t.Fatalf("second DecideAndSpawn = %v, %v; want false, nil", spawned, err)
	}
	if got := l.count(); got != 1 {
		t.Errorf("launches = %d, want 1", got)
	}
	if !s.Owned() {
		t.Error("supervisor should own the spawned process")
	}
}

func TestDecideAndSpawn_Concurrent(t *testing.T) {
	l := &fakeLauncher{}
	s, _ := newTestSupervisor(l, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.DecideAndSpawn(testEndpoint)
		}()
	}
	wg.Wait()
	if got := l.count(); got != 1 {
		t.Errorf("launches = %d, want 1", got)
	}
}

func TestDecideAndSpawn_AlreadyListening(t *testing.T) {
	l := &fakeLauncher{}
	s, rec := newTestSupervisor(l, true)

	spawned, err := s.DecideAndSpawn(testEndpoint)
	if err != nil || spawned {
		t.Fatalf("DecideAndSpawn = %v, %v; want false, nil", spawned, err)
	}
	if l.count() != 0 {
		t.Fatal("must not launch when a listener already exists")
	}

	s.Shutdown(testEndpoint)
	if rec.count() != 1 {
		t.Errorf("exit requests = %d, want 1", rec.count())
	}
	if s.Owned() {
		t.Error("nothing should be owned")
	}
}

func TestDecideAndSpawn_LaunchError(t *testing.T) {
	l := &fakeLauncher{err: errors.New("no such file")}
	s, _ := newTestSupervisor(l, false)

	spawned, err := s.DecideAndSpawn(testEndpoint)
	if err == nil || spawned {
		t.Fatalf("DecideAndSpawn = %v, %v; want false, error", spawned, err)
	}
	if s.Owned() {
		t.Error("slot must stay empty after a failed launch")
	}
}

func TestShutdown_KillsOwnedProcessOnce(t *testing.T) {
	l := &fakeLauncher{}
	s, rec := newTestSupervisor(l, false)

	if _, err := s.DecideAndSpawn(testEndpoint); err != nil {
		t.Fatal(err)
	}
	proc := l.procs[0]

	s.Shutdown(testEndpoint)
	s.Shutdown(testEndpoint)

	if got := proc.killCount(); got != 1 {
		t.Errorf("kills = %d, want 1", got)
	}
	if got := rec.count(); got != 2 {
		t.Errorf("exit requests = %d, want 2", got)
	}
	if s.Owned() {
		t.Error("slot should be empty after shutdown")
	}
}

func TestWatch_ClearsSlotOnSelfExit(t *testing.T) {
	l := &fakeLauncher{}
	s, _ := newTestSupervisor(l, false)

	if _, err := s.DecideAndSpawn(testEndpoint); err != nil {
		t.Fatal(err)
	}
	l.procs[0].exit()

	deadline := time.Now().Add(time.Second)
	for s.Owned() {
		if time.Now().After(deadline) {
			t.Fatal("slot not cleared after the process exited")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// A fresh spawn is allowed once the old process is gone.
	spawned, err := s.DecideAndSpawn(testEndpoint)
	if err != nil || !spawned {
		t.Fatalf("respawn = %v, %v; want true, nil", spawned, err)
	}
	s.Shutdown(testEndpoint)
	if l.procs[0].killCount() != 0 {
		t.Error("exited process must not be killed")
	}
}
