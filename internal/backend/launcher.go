package backend

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
)

// ExecLauncher starts the backend as a child process. In dev mode it runs
// the entry script through a Python interpreter from the project root;
// otherwise it runs the companion executable shipped next to the shell.
type ExecLauncher struct {
	Dev         bool
	Python      string
	EntryScript string
	ProjectRoot string
	Sidecar     string

	logger zerolog.Logger
}

// NewExecLauncher builds a launcher from the loaded config.
func NewExecLauncher(cfg *config.Config, logger zerolog.Logger) *ExecLauncher {
	return &ExecLauncher{
		Dev:         cfg.Dev,
		Python:      cfg.Python,
		EntryScript: cfg.EntryScript,
		ProjectRoot: cfg.ProjectRoot,
		Sidecar:     cfg.Sidecar,
		logger:      logger.With().Str("component", "launcher").Logger(),
	}
}

// Command builds the process for ep without starting it.
func (l *ExecLauncher) Command(ep config.Endpoint) (*exec.Cmd, error) {
	var cmd *exec.Cmd
	if l.Dev {
		py := l.Python
		if py == "" {
			py = findPython()
		}
		if py == "" {
			py = "python"
		}
		script := l.EntryScript
		if script == "" {
			return nil, errors.New("no entry script configured")
		}
		cmd = exec.Command(py, script)
		cmd.Dir = l.ProjectRoot
	} else {
		path, err := l.sidecarPath()
		if err != nil {
			return nil, err
		}
		cmd = exec.Command(path)
		cmd.Dir = filepath.Dir(path)
	}

	cmd.Env = backendEnv(os.Environ(), ep)

	// Without a console the inherited handles may be invalid; leaving them
	// nil sends output to the null device instead.
	if consoleAttached() {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	hideWindow(cmd)
	return cmd, nil
}

// Launch starts the backend and returns its handle.
func (l *ExecLauncher) Launch(ep config.Endpoint) (Process, error) {
	cmd, err := l.Command(ep)
	if err != nil {
		return nil, err
	}
	l.logger.Info().
		Str("path", cmd.Path).
		Strs("args", cmd.Args[1:]).
		Str("dir", cmd.Dir).
		Bool("dev", l.Dev).
		Msg("Starting backend")
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start backend: %w", err)
	}
	return &execProcess{cmd: cmd}, nil
}

func (l *ExecLauncher) sidecarPath() (string, error) {
	name := l.Sidecar
	if name == "" {
		return "", errors.New("no backend executable configured")
	}
	if runtime.GOOS == "windows" && !strings.EqualFold(filepath.Ext(name), ".exe") {
		name += ".exe"
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate shell executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), name), nil
}

// backendEnv copies base, dropping any inherited host/port entries so the
// endpoint's values are the only ones the backend sees.
func backendEnv(base []string, ep config.Endpoint) []string {
	env := make([]string, 0, len(base)+2)
	for _, e := range base {
		key := strings.SplitN(e, "=", 2)[0]
		if strings.EqualFold(key, config.EnvHost) || strings.EqualFold(key, config.EnvPort) {
			continue
		}
		env = append(env, e)
	}
	return append(env, ep.Env()...)
}

func consoleAttached() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// execProcess adapts *exec.Cmd to Process.
type execProcess struct {
	cmd *exec.Cmd

	// mu orders Kill after a finished Wait: once the child is reaped its
	// pid may belong to another process.
	mu     sync.Mutex
	exited bool
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Kill terminates the process and everything it started. It does nothing
// once Wait has returned.
func (p *execProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exited {
		return nil
	}

	treeErr := killTreeFunc(p.cmd.Process.Pid)
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		if treeErr != nil {
			return treeErr
		}
		return err
	}
	return nil
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	p.mu.Lock()
	p.exited = true
	p.mu.Unlock()
	return err
}
