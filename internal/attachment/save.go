// Package attachment writes base64 payloads from the page to disk.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultName replaces a name that is blank after sanitizing.
	DefaultName = "attachment"
	// maxSuffix is the highest collision number tried.
	maxSuffix = 999
)

var (
	// ErrNoDownloadDir means no target was given and no download
	// directory could be determined.
	ErrNoDownloadDir = errors.New("download directory not found")
	// ErrTooManyCollisions means every candidate name is taken.
	ErrTooManyCollisions = errors.New("no free file name")
)

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Sanitize replaces characters that are invalid in file names on any
// supported OS with "_".
func Sanitize(name string) string {
	name = unsafeChars.Replace(strings.TrimSpace(name))
	if strings.TrimSpace(name) == "" {
		return DefaultName
	}
	return name
}

// Save decodes data and writes it into targetDir, or the download
// directory when targetDir is blank, without overwriting anything. It
// returns the absolute path written.
func Save(name, data, targetDir string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return "", fmt.Errorf("decode attachment: %w", err)
	}

	dir := strings.TrimSpace(targetDir)
	if dir == "" {
		if dir, err = DownloadDir(); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}

	f, path, err := createUnique(dir, Sanitize(name))
	if err != nil {
		return "", err
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// createUnique creates name in dir, or stem-N.ext for the first free N.
// O_EXCL guarantees an existing file is never truncated.
func createUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		// ".bashrc" style names have no extension.
		stem, ext = name, ""
	}

	for i := 0; i <= maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = stem + "-" + strconv.Itoa(i) + ext
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("%s in %s: %w", name, dir, ErrTooManyCollisions)
}
