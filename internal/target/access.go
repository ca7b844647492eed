package target

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckWritable verifies that dir exists, is a directory, and can be listed
// and written by the current user.
func CheckWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: does not exist", dir)
		}
		return fmt.Errorf("%s: stat: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: is not a directory", dir)
	}
	if err := unix.Access(dir, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%s: insufficient permissions: %w", dir, err)
	}
	return nil
}
