package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Variables read before the .env file is loaded.
const (
	RuntimePathEnv = "GRADEBOT_RUNTIME_PATH"
	DebugEnv       = "GRADEBOT_DEBUG"

	defaultRuntimeDir = ".gradebot"
)

// GetRuntimePath is the directory holding .env, memory and transcripts.
// Relative values (and "~/...") are taken from the home directory.
func GetRuntimePath() string {
	dir := strings.TrimSpace(os.Getenv(RuntimePathEnv))
	if dir == "" {
		dir = defaultRuntimeDir
	}
	dir = strings.TrimPrefix(dir, "~"+string(filepath.Separator))
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, dir)
}

// IsDebug reports whether GRADEBOT_DEBUG holds a true value ("1", "true", ...).
func IsDebug() bool {
	on, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && on
}
