package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver locates config and data files relative to the running
// binary and the user's config directory.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver determines the executable location and the platform
// config directory.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	return &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     configDirFor(homeDir),
	}, nil
}

func configDirFor(homeDir string) string {
	if runtime.GOOS == "darwin" {
		macPath := filepath.Join(homeDir, "Library", "Application Support", "rankserve")
		if FileExists(macPath) {
			return macPath
		}
	}
	return filepath.Join(homeDir, ".config", "rankserve")
}

// GetConfigPath returns the path for the named config file, creating the
// config directory when missing. Falls back to the executable directory
// when the config dir cannot be created.
func (pr *PathResolver) GetConfigPath(name string) (string, error) {
	if err := EnsureDir(pr.configDir); err != nil {
		log.Warnf("Config dir %s not writable: %v", pr.configDir, err)
		return filepath.Join(pr.executableDir, name), nil
	}
	return filepath.Join(pr.configDir, name), nil
}

// GetDataDir resolves a data directory argument: absolute paths win,
// relative ones are tried against the working dir first and the executable
// dir second.
func (pr *PathResolver) GetDataDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	if wd, err := os.Getwd(); err == nil {
		local := filepath.Join(wd, dir)
		if FileExists(local) {
			return local, nil
		}
	}
	return filepath.Join(pr.executableDir, dir), nil
}
