// Package paths resolves where tierboard keeps its configuration file, its
// board data, and its log.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "tierboard"

// File and directory names.
const (
	DefaultDataDirName = ".tierboard"
	ConfigFileName     = "config.yaml"
	LogFileName        = "tierboard.log"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "TIERBOARD_CONFIG_DIR"
	EnvDataDir   = "TIERBOARD_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tierboard (fallback ~/.config/tierboard)
// macOS:   ~/Library/Application Support/tierboard
// Windows: %APPDATA%/tierboard
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/tierboard (fallback ~/.local/share/tierboard)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", ".local", "share")
}

func platformRoot(xdgVar string, homeRel ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeRel...), AppName)...), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// TIERBOARD_CONFIG_DIR, then DefaultConfigDir. Explicit values are made
// absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then the config file's
// data_dir, then TIERBOARD_DATA_DIR, then $(CWD)/.tierboard.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config file path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// LogFile returns the log file path inside dataDir.
func LogFile(dataDir string) string {
	return filepath.Join(dataDir, LogFileName)
}
