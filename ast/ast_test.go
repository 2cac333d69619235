package ast

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewWordPanicsOnEmpty(t *testing.T) {
	c := qt.New(t)
	c.Assert(func() { NewWord() }, qt.PanicMatches, "ast: NewWord requires at least one span")
}

func TestDefaultFd(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultFd(Input), qt.Equals, 0)
	c.Assert(DefaultFd(Output), qt.Equals, 1)
	c.Assert(DefaultFd(Append), qt.Equals, 1)
}

func TestExitStatusSuccess(t *testing.T) {
	c := qt.New(t)
	c.Assert(ExitedWith(0).Success(), qt.IsTrue)
	c.Assert(ExitedWith(1).Success(), qt.IsFalse)
	c.Assert(Running(123).Success(), qt.IsFalse)
}
