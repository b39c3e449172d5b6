package attachment

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DownloadDir returns the user's download directory. On Linux the
// XDG_DOWNLOAD_DIR setting (environment, then user-dirs.dirs) wins over
// ~/Downloads.
func DownloadDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoDownloadDir
	}
	if runtime.GOOS == "linux" {
		if dir := xdgDownloadDir(home); dir != "" {
			return dir, nil
		}
	}
	return filepath.Join(home, "Downloads"), nil
}

func xdgDownloadDir(home string) string {
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return expandHome(dir, home)
	}

	cfg := os.Getenv("XDG_CONFIG_HOME")
	if cfg == "" {
		cfg = filepath.Join(home, ".config")
	}
	f, err := os.Open(filepath.Join(cfg, "user-dirs.dirs"))
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		val, ok := strings.CutPrefix(line, "XDG_DOWNLOAD_DIR=")
		if !ok {
			continue
		}
		return expandHome(strings.Trim(val, `"`), home)
	}
	return ""
}

func expandHome(dir, home string) string {
	if rest, ok := strings.CutPrefix(dir, "$HOME"); ok {
		return filepath.Join(home, rest)
	}
	if rest, ok := strings.CutPrefix(dir, "~"); ok {
		return filepath.Join(home, rest)
	}
	return dir
}
