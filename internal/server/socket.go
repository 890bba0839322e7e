package server

import (
	"os"
	"path/filepath"

	"github.com/plantd/plantd/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "plantd.sock")
}

// cleanupSocket removes the Unix socket file. A missing file is not an
// error.
func cleanupSocket() error {
	if err := os.Remove(socketPath()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
