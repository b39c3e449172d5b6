package backend

import (
	"os/exec"
	"strconv"
	"strings"
)

// findPython returns the path to a Python 3.10+ interpreter, or empty string.
func findPython() string {
	for _, name := range []string{"python3", "python"} {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		cmd := exec.Command(path, "--version")
		hideWindow(cmd)
		out, err := cmd.Output()
		if err != nil {
			continue
		}
		if supportedPython(string(out)) {
			return path
		}
	}
	return ""
}

// supportedPython parses `python --version` output such as "Python 3.11.4".
func supportedPython(versionOutput string) bool {
	parts := strings.Fields(strings.TrimSpace(versionOutput))
	if len(parts) < 2 {
		return false
	}
	ver := strings.Split(parts[1], ".")
	if len(ver) < 2 {
		return false
	}
	major, _ := strconv.Atoi(ver[0])
	minor, _ := strconv.Atoi(ver[1])
	return major == 3 && minor >= 10
}
