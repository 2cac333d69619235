//go:build darwin || freebsd || netbsd || openbsd

package shellstate

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
