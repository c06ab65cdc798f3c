package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the locations the application reads from and writes logs to.
type Paths struct {
	ExecutableDir string
	SourceFile    string
	LogFile       string
}

// ResolvePaths turns the configured relative paths into absolute ones.
// A relative path is tried against the working directory first and then
// against the directory holding the executable, so the binary works both
// from a checkout and from a distribution folder.
func (c *Config) ResolvePaths() (*Paths, error) {
	exeDir, err := executableDir()
	if err != nil {
		return nil, err
	}

	return &Paths{
		ExecutableDir: exeDir,
		SourceFile:    resolveAgainst(c.Source.Path, exeDir),
		LogFile:       resolveAgainst(c.Logging.FilePath, exeDir),
	}, nil
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// resolveAgainst returns p unchanged when absolute or empty. Otherwise it
// prefers an existing file under the working directory, then one under base,
// and falls back to the working-directory location.
func resolveAgainst(p, base string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	if abs, err := filepath.Abs(p); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			return abs
		}
		candidate := filepath.Join(base, p)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate
		}
		return abs
	}

	return filepath.Join(base, p)
}
