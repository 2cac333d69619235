// Package pathtable implements spec.md's C2 component: a colon-separated
// search-directory scan that maps the basename of every directory entry
// to its path, grounded on original_source's path.rs. Entries are not
// checked for the executable bit.
package pathtable

import (
	"os"
	"path/filepath"
	"strings"
)

// Table maps command basenames to absolute paths, rebuilt from a PATH
// string by Scan/Rehash.
type Table struct {
	path  string
	table map[string]string
}

// New returns an empty Table; call Scan to populate it.
func New() *Table {
	return &Table{table: make(map[string]string)}
}

// Scan records path and immediately rehashes.
func (t *Table) Scan(path string) {
	t.path = path
	t.Rehash()
}

// Rehash clears the table and rescans t's current PATH. Directories are
// walked in reverse order and each entry inserted, so that a later
// insert (from an earlier directory) overwrites an earlier one: the
// leftmost directory in PATH wins, exactly as spec.md's invariant for
// PathTable requires.
func (t *Table) Rehash() {
	t.table = make(map[string]string)
	dirs := strings.Split(t.path, ":")
	for i := len(dirs) - 1; i >= 0; i-- {
		dir := dirs[i]
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue // unreadable directories are ignored
		}
		for _, entry := range entries {
			t.table[entry.Name()] = filepath.Join(dir, entry.Name())
		}
	}
}

// Lookup resolves name to an absolute path, an O(1) map read.
func (t *Table) Lookup(name string) (string, bool) {
	p, ok := t.table[name]
	return p, ok
}

// Names returns every basename currently in the table; the editor's
// argv0 completion candidate set is exactly this (spec.md §4.7).
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.table))
	for name := range t.table {
		names = append(names, name)
	}
	return names
}
