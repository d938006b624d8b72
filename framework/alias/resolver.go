package alias

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAlias is matched by every *InvalidAliasError.
var ErrInvalidAlias = errors.New("invalid path alias")

// InvalidAliasError is returned when an alias cannot be resolved.
type InvalidAliasError struct {
	Alias string
}

func (e *InvalidAliasError) Error() string {
	return fmt.Sprintf("invalid path alias: %s", e.Alias)
}

// Is reports whether target is ErrInvalidAlias.
func (e *InvalidAliasError) Is(target error) bool { return target == ErrInvalidAlias }

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver maps alias tokens such as "@app/views" to real paths using
// longest-prefix matching over a Table.
//
//	r := alias.NewResolver()
//	_ = r.Set("@app", "/srv/app")
//	_ = r.Set("@app/plugins", "/opt/plugins")
//	r.Get("@app/plugins/blog") // "/opt/plugins/blog"
//	r.Get("@app/views")        // "/srv/app/views"
type Resolver struct {
	table *Table
}

// NewResolver creates a resolver over an empty table.
func NewResolver() *Resolver {
	return &Resolver{table: NewTable()}
}

// NewResolverWithTable creates a resolver sharing an existing table.
func NewResolverWithTable(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Set registers path under alias. The "@" prefix is added to alias when
// missing. A path that is itself an alias is resolved before it is stored;
// otherwise trailing path separators are stripped.
func (r *Resolver) Set(alias, path string) error {
	alias = normalize(alias)

	if strings.HasPrefix(path, Prefix) {
		resolved, err := r.Get(path)
		if err != nil {
			return err
		}
		path = resolved
	} else {
		path = strings.TrimRight(path, `\/`)
	}

	root := splitRoot(alias)

	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	r.table.insert(root, alias, path)
	return nil
}

// Remove unregisters alias. Removing a root that only holds more specific
// aliases is a no-op; those have to be removed one by one.
func (r *Resolver) Remove(alias string) {
	alias = normalize(alias)
	root := splitRoot(alias)

	r.table.mu.Lock()
	defer r.table.mu.Unlock()
	r.table.remove(root, alias)
}

// Get translates alias into a real path. Tokens without the "@" prefix are
// returned unchanged.
func (r *Resolver) Get(alias string) (string, error) {
	path, ok := r.Lookup(alias)
	if !ok {
		return "", &InvalidAliasError{Alias: alias}
	}
	return path, nil
}

// Lookup is the non-failing form of Get: it reports false instead of
// returning an error when no registered alias matches.
func (r *Resolver) Lookup(alias string) (string, bool) {
	if !strings.HasPrefix(alias, Prefix) {
		return alias, true
	}
	root := splitRoot(alias)

	r.table.mu.RLock()
	key, path, ok := r.table.match(root, alias)
	r.table.mu.RUnlock()
	if !ok {
		return "", false
	}
	return path + alias[len(key):], true
}

// Root returns the registered alias key that serves alias: the root itself
// for a scalar mapping, or the most specific nested alias.
func (r *Resolver) Root(alias string) (string, bool) {
	root := splitRoot(alias)

	r.table.mu.RLock()
	defer r.table.mu.RUnlock()
	key, _, ok := r.table.match(root, alias)
	return key, ok
}

// Aliases returns a flattened copy of every registered alias.
func (r *Resolver) Aliases() map[string]string {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()
	return r.table.snapshot()
}

func normalize(alias string) string {
	if strings.HasPrefix(alias, Prefix) {
		return alias
	}
	return Prefix + alias
}
