package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestAppendPolicy(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "hist")
	h := Open(path, nil)
	now := time.Unix(1000, 0)

	h.Append("", "/tmp", now)
	c.Assert(h.Len(), qt.Equals, 0)

	h.Append("short", "/tmp", now) // 5 chars < 8
	c.Assert(h.Len(), qt.Equals, 0)

	h.Append("a long command", "/tmp", now)
	c.Assert(h.Len(), qt.Equals, 1)

	h.Append("a long command", "/tmp", now) // duplicate of previous
	c.Assert(h.Len(), qt.Equals, 1)

	h.Append("a second command", "/tmp", now)
	c.Assert(h.Len(), qt.Equals, 2)

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "1000\t/tmp\ta long command\n1000\t/tmp\ta second command\n")
}

func TestOpenSkipsMalformedLines(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "hist")
	c.Assert(os.WriteFile(path, []byte("garbage\n1000\t/tmp\tgood command\n"), 0o600), qt.IsNil)

	var warnedLine int
	h := Open(path, func(n int) { warnedLine = n })
	c.Assert(h.Len(), qt.Equals, 1)
	c.Assert(warnedLine, qt.Equals, 1)
	c.Assert(h.Commands(), qt.DeepEquals, []string{"good command"})
}

func TestSearchByCwdPrefersSameDir(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "hist")
	h := Open(path, nil)
	now := time.Unix(1, 0)
	h.Append("build the project", "/a", now)
	h.Append("build the docs", "/b", now)

	c.Assert(h.SearchByCwd("build", "/b"), qt.DeepEquals, []string{"build the docs"})
}
