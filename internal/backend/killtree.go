package backend

import (
	"github.com/shirou/gopsutil/v3/process"
)

// killTreeFunc is replaced in tests.
var killTreeFunc = killTree

// killTree kills pid's descendants depth-first, then pid itself. The
// interpreter launch in particular leaves a server child behind when only
// the parent is killed.
func killTree(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return killProc(p)
}

func killProc(p *process.Process) error {
	children, _ := p.Children()
	for _, child := range children {
		_ = killProc(child)
	}
	return p.Kill()
}
