//go:build unix

package shellstate

import (
	"os"

	"golang.org/x/sys/unix"
)

// captureTermios snapshots the controlling terminal's attributes for
// stdin, returned as an opaque value stored on Shell and handed back to
// RestoreTermios after a foreground job returns.
func captureTermios() any {
	attrs, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), ioctlGetTermios)
	if err != nil {
		return nil
	}
	return attrs
}

// RestoreTermios restores the shell's own saved terminal attributes,
// implementing the post-condition in spec.md §8's testable property 3.
func (s *Shell) RestoreTermios() {
	attrs, ok := s.savedTermios.(*unix.Termios)
	if !ok || attrs == nil {
		return
	}
	_ = unix.IoctlSetTermios(int(os.Stdin.Fd()), ioctlSetTermios, attrs)
}
