// Package history implements spec.md's C3 component: an append-only
// persistent command history with substring/prefix search and a
// per-command cwd map, grounded on original_source's history.rs.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Entry is one parsed history line.
type Entry struct {
	When time.Time
	Cwd  string
	Cmd  string
}

// History is the in-memory command list plus a cmd→cwd map, backed by
// an append-only file of tab-separated `unix_time\tcwd\tcmd` lines.
type History struct {
	path    string
	entries []Entry
	cwdOf   map[string]string

	// warn is called once if a line in the history file fails to parse;
	// nil discards the warning.
	warn func(lineNo int)
}

// Open loads path (if it exists) and returns a ready History. Lines that
// fail to parse are skipped with at most one warning, per spec.md §6.
func Open(path string, warn func(lineNo int)) *History {
	h := &History{path: path, cwdOf: make(map[string]string), warn: warn}
	f, err := os.Open(path)
	if err != nil {
		return h
	}
	defer f.Close()

	warned := false
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			if !warned && h.warn != nil {
				h.warn(lineNo)
				warned = true
			}
			continue
		}
		sec, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			if !warned && h.warn != nil {
				h.warn(lineNo)
				warned = true
			}
			continue
		}
		h.entries = append(h.entries, Entry{When: time.Unix(sec, 0), Cwd: fields[1], Cmd: fields[2]})
		h.cwdOf[fields[2]] = fields[1]
	}
	return h
}

// Len reports the number of in-memory entries.
func (h *History) Len() int { return len(h.entries) }

// Commands returns every recorded command line, oldest first.
func (h *History) Commands() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Cmd
	}
	return out
}

// shouldAppend implements spec.md's testable property 5 and §6 policy:
// a no-op iff cmd is empty, a duplicate of the immediately preceding
// entry, or shorter than the minimum length.
func (h *History) shouldAppend(cmd string, minLen int) bool {
	if cmd == "" {
		return false
	}
	if len(cmd) < minLen {
		return false
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1].Cmd == cmd {
		return false
	}
	return true
}

// DefaultMinLength is the minimum command length, in bytes, that Append
// records; AppendWithPolicy takes a different minimum.
const DefaultMinLength = 8

// Append records cmd run from cwd at "now", subject to shouldAppend's
// filter, appending exactly one line to the history file. File-open
// failures are silent (best-effort), per spec.md §6.
func (h *History) Append(cmd, cwd string, now time.Time) {
	h.AppendWithPolicy(cmd, cwd, now, DefaultMinLength)
}

// AppendWithPolicy is Append with an explicit minimum-length policy, for
// callers (and tests) that want the configurable variant spec.md §9
// flags as an open question.
func (h *History) AppendWithPolicy(cmd, cwd string, now time.Time, minLen int) {
	if !h.shouldAppend(cmd, minLen) {
		return
	}
	h.entries = append(h.entries, Entry{When: now, Cwd: cwd, Cmd: cmd})
	h.cwdOf[cmd] = cwd

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%d\t%s\t%s\n", now.Unix(), cwd, cmd)
}

// SearchSubstring returns every command containing needle, most recent
// first.
func (h *History) SearchSubstring(needle string) []string {
	var out []string
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.Contains(h.entries[i].Cmd, needle) {
			out = append(out, h.entries[i].Cmd)
		}
	}
	return out
}

// SearchPrefix returns every command starting with prefix, most recent
// first; used to seed Up-arrow history search by the current input.
func (h *History) SearchPrefix(prefix string) []string {
	var out []string
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(h.entries[i].Cmd, prefix) {
			out = append(out, h.entries[i].Cmd)
		}
	}
	return out
}

// SearchByCwd returns commands with the given prefix that were run from
// cwd, most recent first, preferred by the editor over the global
// search before falling back to it (supplemental feature recovered from
// original_source's history.rs per SPEC_FULL.md §3).
func (h *History) SearchByCwd(prefix, cwd string) []string {
	var out []string
	for i := len(h.entries) - 1; i >= 0; i-- {
		e := h.entries[i]
		if e.Cwd == cwd && strings.HasPrefix(e.Cmd, prefix) {
			out = append(out, e.Cmd)
		}
	}
	return out
}

// CwdOf returns the directory cmd was last run from, if known.
func (h *History) CwdOf(cmd string) (string, bool) {
	cwd, ok := h.cwdOf[cmd]
	return cwd, ok
}
