package interp

import (
	"fmt"
	"os"
	"strings"
)

// lookPath resolves name the way spec.md's C2 path table plus the
// executor's own convention requires: a name containing a `/` is used
// as-is (relative to the shell's cwd), otherwise it is resolved through
// the path table.
func (r *Runner) lookPath(name string) (string, error) {
	if strings.Contains(name, "/") {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
		return "", fmt.Errorf("%s: no such file or directory", name)
	}
	path, ok := r.Shell.PathTable().Lookup(name)
	if !ok {
		return "", fmt.Errorf("%s: not found", name)
	}
	return path, nil
}
