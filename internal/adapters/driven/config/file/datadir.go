package file

import (
	"os"
	"path/filepath"
)

// DataDirEnv overrides the data directory.
const DataDirEnv = "AUTOJOIN_DATA_DIR"

// DefaultDataDir returns $AUTOJOIN_DATA_DIR, or ~/.autojoin.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".autojoin"), nil
}
