//go:build linux

package system

import (
	"os"

	"golang.org/x/sys/unix"
)

// RedirectStdIO points stdout and stderr at path so panics and output from
// every goroutine end up in the file.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	// Dup2 is missing on some linux ports (arm64); Dup3 with no flags is equivalent.
	if err := unix.Dup3(int(f.Fd()), int(os.Stdout.Fd()), 0); err != nil {
		return err
	}
	return unix.Dup3(int(f.Fd()), int(os.Stderr.Fd()), 0)
}
