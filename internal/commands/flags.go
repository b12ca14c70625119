package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/noticeq/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	// HistoryFile persists notice history across runs. Empty disables it.
	HistoryFile string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "noticeq", "config.yaml")
}

// DefaultHistoryFile returns the default history file path using XDG_STATE_HOME.
func DefaultHistoryFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, _ := os.UserHomeDir()
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "noticeq", "history.json")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/noticeq/noticeq.log
// On Linux: $XDG_STATE_HOME/noticeq/noticeq.log (defaults to ~/.local/state/noticeq/noticeq.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "noticeq", "noticeq.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "noticeq", "noticeq.log")
	}

	return filepath.Join(home, ".local", "state", "noticeq", "noticeq.log")
}
