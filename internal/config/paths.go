package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "IdleNPUWaker"

func installDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", AppName), nil
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(base, AppName), nil
	default: // linux
		if base := os.Getenv("XDG_DATA_HOME"); base != "" {
			return filepath.Join(base, AppName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", AppName), nil
	}
}

// ConfigDir returns the directory searched for config.toml.
func ConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, AppName), nil
	}
	return installDir()
}

// LogDir returns the log directory, creating it if needed.
func LogDir() (string, error) {
	dir, err := installDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return dir, nil
}
