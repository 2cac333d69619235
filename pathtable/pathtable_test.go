package pathtable

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func touch(c *qt.C, dir, name string) {
	c.Assert(os.WriteFile(filepath.Join(dir, name), nil, 0o755), qt.IsNil)
}

func TestLeftmostDirectoryWins(t *testing.T) {
	c := qt.New(t)
	a, b := c.TempDir(), c.TempDir()
	touch(c, a, "cmd")
	touch(c, b, "cmd")

	tbl := New()
	tbl.Scan(a + ":" + b)
	got, ok := tbl.Lookup("cmd")
	c.Assert(ok, qt.IsTrue)
	c.Assert(got, qt.Equals, filepath.Join(a, "cmd"))
}

func TestRehashOnPathChange(t *testing.T) {
	c := qt.New(t)
	a := c.TempDir()
	touch(c, a, "only-in-a")

	tbl := New()
	tbl.Scan(a)
	_, ok := tbl.Lookup("only-in-a")
	c.Assert(ok, qt.IsTrue)

	b := c.TempDir()
	tbl.Scan(b)
	_, ok = tbl.Lookup("only-in-a")
	c.Assert(ok, qt.IsFalse)
}

func TestUnreadableDirectoryIgnored(t *testing.T) {
	c := qt.New(t)
	tbl := New()
	tbl.Scan("/no/such/directory")
	c.Assert(tbl.Names(), qt.HasLen, 0)
}
