package alias

import (
	"slices"
	"strings"
	"sync"
)

// Prefix marks a token as a path alias.
const Prefix = "@"

// ── Table ─────────────────────────────────────────────────────────────────────

// entry is the value stored under a root alias: either a scalar path or,
// once more specific aliases share the same root, a nested collection.
type entry struct {
	path   string
	nested []pair // sorted descending by alias
}

type pair struct {
	alias string
	path  string
}

func (e *entry) isNested() bool { return e.nested != nil }

// Table stores root alias → path mappings.
//
// Root keys are unique. Within a root's nested collection the pairs are kept
// sorted in descending key order, so "@foo/bar" is tried before "@foo".
type Table struct {
	mu    sync.RWMutex
	roots map[string]*entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{roots: make(map[string]*entry)}
}

// insert stores path under alias, converting a scalar root to a nested
// collection when a more specific alias is added (must hold mu.Lock).
func (t *Table) insert(root, alias, path string) {
	hasSub := alias != root
	e, ok := t.roots[root]

	switch {
	case !ok:
		if hasSub {
			t.roots[root] = &entry{nested: []pair{{alias: alias, path: path}}}
		} else {
			t.roots[root] = &entry{path: path}
		}

	case !e.isNested():
		if !hasSub {
			e.path = path
			return
		}
		e.nested = []pair{{alias: alias, path: path}, {alias: root, path: e.path}}
		e.path = ""
		sortPairs(e.nested)

	default:
		if i := slices.IndexFunc(e.nested, func(p pair) bool { return p.alias == alias }); i >= 0 {
			e.nested[i].path = path
			return
		}
		e.nested = append(e.nested, pair{alias: alias, path: path})
		sortPairs(e.nested)
	}
}

// remove drops alias from the table (must hold mu.Lock).
func (t *Table) remove(root, alias string) {
	e, ok := t.roots[root]
	if !ok {
		return
	}
	if e.isNested() {
		e.nested = slices.DeleteFunc(e.nested, func(p pair) bool { return p.alias == alias })
		if len(e.nested) == 0 {
			delete(t.roots, root)
		}
		return
	}
	if alias == root {
		delete(t.roots, root)
	}
}

// match finds the key and path that serve alias (must hold mu.RLock).
func (t *Table) match(root, alias string) (key, path string, ok bool) {
	e, found := t.roots[root]
	if !found {
		return "", "", false
	}
	if !e.isNested() {
		return root, e.path, true
	}
	probe := alias + "/"
	for _, p := range e.nested {
		if strings.HasPrefix(probe, p.alias+"/") {
			return p.alias, p.path, true
		}
	}
	return "", "", false
}

// snapshot flattens the table into alias → path (must hold mu.RLock).
func (t *Table) snapshot() map[string]string {
	out := make(map[string]string, len(t.roots))
	for root, e := range t.roots {
		if !e.isNested() {
			out[root] = e.path
			continue
		}
		for _, p := range e.nested {
			out[p.alias] = p.path
		}
	}
	return out
}

func sortPairs(ps []pair) {
	slices.SortFunc(ps, func(a, b pair) int { return strings.Compare(b.alias, a.alias) })
}

// splitRoot returns everything before the first "/" of alias.
func splitRoot(alias string) string {
	if pos := strings.IndexByte(alias, '/'); pos >= 0 {
		return alias[:pos]
	}
	return alias
}
