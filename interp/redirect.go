package interp

import (
	"fmt"
	"os"

	"gosh/ast"
	"gosh/expand"
)

// openRedirections opens every redirection of a simple command and
// returns a map from fd number to the opened file, plus a cleanup
// closing all of them. Only fds 0, 1 and 2 are consulted by runCommand;
// other fd numbers are opened (so side effects like file creation still
// happen) but otherwise unused by the minimum core.
func (r *Runner) openRedirections(reds []ast.Redirection, cfg expand.Config) (map[int]*os.File, func(), error) {
	files := make(map[int]*os.File, len(reds))
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, red := range reds {
		words, err := expand.Word(cfg, red.Target)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if len(words) != 1 {
			cleanup()
			return nil, func() {}, fmt.Errorf("gosh: redirection target must expand to one word")
		}

		var flags int
		switch red.Direction {
		case ast.Input:
			flags = os.O_RDONLY
		case ast.Output:
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		case ast.Append:
			flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		}

		f, err := os.OpenFile(words[0], flags, 0o644)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("gosh: %s: %v", words[0], err)
		}
		files[red.Fd] = f
	}
	return files, cleanup, nil
}
