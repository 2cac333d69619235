package vars

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNullVsEmptyString(t *testing.T) {
	c := qt.New(t)
	s := NewStore()
	_, ok := s.Get("FOO")
	c.Assert(ok, qt.IsFalse)

	s.Set("FOO", Variable{Value: String("")}, false)
	v, ok := s.Get("FOO")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v.IsSet(), qt.IsTrue)
	c.Assert(v.AsStr(), qt.Equals, "")
}

func TestArrayAsStr(t *testing.T) {
	c := qt.New(t)
	c.Assert(ArrayValue([]string{"a", "b"}).AsStr(), qt.Equals, "a")
	c.Assert(ArrayValue(nil).AsStr(), qt.Equals, "")
}

func TestFrameFallthrough(t *testing.T) {
	c := qt.New(t)
	s := NewStore()
	s.Set("G", Variable{Value: String("global")}, false)
	s.PushFrame()
	v, ok := s.Get("G")
	c.Assert(ok, qt.IsTrue)
	c.Assert(v.AsStr(), qt.Equals, "global")

	s.Set("G", Variable{Value: String("local")}, true)
	v, _ = s.Get("G")
	c.Assert(v.AsStr(), qt.Equals, "local")

	s.PopFrame()
	v, _ = s.Get("G")
	c.Assert(v.AsStr(), qt.Equals, "global")
}

func TestExportedNames(t *testing.T) {
	c := qt.New(t)
	s := NewStore()
	s.Set("A", Variable{Value: String("1")}, false)
	s.Export("A")
	s.Export("B") // never assigned: must not appear
	c.Assert(s.ExportedNames(), qt.DeepEquals, []string{"A"})
}

func TestAlias(t *testing.T) {
	c := qt.New(t)
	s := NewStore()
	s.AddAlias("ll", "ls -l")
	body, ok := s.LookupAlias("ll")
	c.Assert(ok, qt.IsTrue)
	c.Assert(body, qt.Equals, "ls -l")
}
