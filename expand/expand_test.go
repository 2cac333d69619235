package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"gosh/ast"
	"gosh/vars"
)

type fakeEnv struct {
	store      *vars.Store
	ifs        string
	lastStatus int
	home       string
}

func (f *fakeEnv) Get(name string) (vars.Variable, bool) { return f.store.Get(name) }
func (f *fakeEnv) IFS() string {
	if f.ifs == "" {
		return DefaultIFS
	}
	return f.ifs
}
func (f *fakeEnv) LastStatus() int { return f.lastStatus }
func (f *fakeEnv) Home() string    { return f.home }
func (f *fakeEnv) HomeOf(user string) (string, bool) {
	if user == "bob" {
		return "/home/bob", true
	}
	return "", false
}

type fakeRunner struct {
	output []byte
	err    error
}

func (r *fakeRunner) RunCommandSub(body []ast.Term) ([]byte, error) { return r.output, r.err }

func newFakeCfg() (Config, *fakeEnv) {
	env := &fakeEnv{store: vars.NewStore(), home: "/home/alice"}
	return Config{Env: env, Runner: &fakeRunner{}}, env
}

func litWord(s string) ast.Word {
	return ast.Word{Spans: []ast.Span{ast.Literal{Value: s}}}
}

func TestQuotedParameterNeverSplits(t *testing.T) {
	c := qt.New(t)
	cfg, env := newFakeCfg()
	env.store.Set("x", vars.Variable{Value: vars.String("a b c")}, false)

	w := ast.Word{Spans: []ast.Span{ast.Parameter{Name: "x", Quoted: true}}}
	out, err := Word(cfg, w)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"a b c"})
}

func TestUnquotedParameterSplitsOnIFS(t *testing.T) {
	c := qt.New(t)
	cfg, env := newFakeCfg()
	env.store.Set("x", vars.Variable{Value: vars.String("a b c")}, false)

	w := ast.Word{Spans: []ast.Span{ast.Parameter{Name: "x", Quoted: false}}}
	out, err := Word(cfg, w)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestUndefinedVariableIsFatal(t *testing.T) {
	c := qt.New(t)
	cfg, _ := newFakeCfg()
	w := ast.Word{Spans: []ast.Span{ast.Parameter{Name: "MISSING"}}}
	_, err := Word(cfg, w)
	c.Assert(err, qt.ErrorAs, new(*UndefinedVariableError))
}

func TestEmptyArgumentStaysOneEmptyString(t *testing.T) {
	c := qt.New(t)
	cfg, _ := newFakeCfg()
	out, err := Word(cfg, litWord(""))
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{""})
}

func TestQuotedLiteralFixedRegardlessOfIFS(t *testing.T) {
	c := qt.New(t)
	cfg, env := newFakeCfg()
	env.ifs = "ab"
	out, err := Word(cfg, ast.Word{Spans: []ast.Span{ast.LiteralChars{Chars: []ast.EscapedRune{{Ch: 'a'}, {Ch: ' '}, {Ch: 'b'}}}}})
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"a b"})
}

func TestBareTildeExpandsToHome(t *testing.T) {
	c := qt.New(t)
	cfg, _ := newFakeCfg()
	out, err := Word(cfg, ast.Word{Spans: []ast.Span{ast.Tilde{}}})
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"/home/alice"})
}

func TestCommandSubstitutionTrimsExactlyOneNewline(t *testing.T) {
	c := qt.New(t)
	cfg, _ := newFakeCfg()
	cfg.Runner = &fakeRunner{output: []byte("hi\n\n")}
	out, err := Word(cfg, ast.Word{Spans: []ast.Span{ast.Command{}}})
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"hi\n"})
}

func TestLastStatusParam(t *testing.T) {
	c := qt.New(t)
	cfg, env := newFakeCfg()
	env.lastStatus = 7
	out, err := Word(cfg, ast.Word{Spans: []ast.Span{ast.Parameter{Name: "?"}}})
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.DeepEquals, []string{"7"})
}
