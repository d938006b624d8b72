package di

import (
	"slices"
	"sync"
)

// Parameter describes one constructor parameter.
type Parameter struct {
	Name       string
	Type       string // dependency id, empty when the parameter is untyped
	Default    any
	HasDefault bool
}

// record is the cached reflection result for one class.
type record struct {
	class        *Class
	params       []Parameter
	dependencies []any
	configurable bool
}

// reflectionCache memoizes constructor introspection per class name.
// Entries are never invalidated.
type reflectionCache struct {
	mu      sync.RWMutex
	types   *Types
	records map[string]*record
}

func newReflectionCache(types *Types) *reflectionCache {
	return &reflectionCache{
		types:   types,
		records: make(map[string]*record),
	}
}

// dependencies returns the cached record for class along with a fresh copy of
// its default dependency list, safe for the caller to overwrite.
func (rc *reflectionCache) dependencies(class string) (*record, []any, error) {
	rc.mu.RLock()
	rec, ok := rc.records[class]
	rc.mu.RUnlock()

	if !ok {
		var err error
		if rec, err = rc.introspect(class); err != nil {
			return nil, nil, err
		}
	}
	return rec, slices.Clone(rec.dependencies), nil
}

func (rc *reflectionCache) introspect(class string) (*record, error) {
	c, ok := rc.types.Lookup(class)
	if !ok {
		return nil, &UnknownTypeError{Name: class}
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Double-check after acquiring write lock
	if rec, ok := rc.records[class]; ok {
		return rec, nil
	}

	n := c.fnType.NumIn()
	rec := &record{
		class:        c,
		params:       make([]Parameter, n),
		dependencies: make([]any, n),
		configurable: n > 0 && c.fnType.In(n-1) == configType,
	}

	for i := 0; i < n; i++ {
		in := c.fnType.In(i)
		p := Parameter{Name: c.paramNames[i]}

		if def, ok := c.defaults[p.Name]; ok {
			p.Default, p.HasDefault = def, true
		} else if in == configType {
			p.HasDefault = true
		} else {
			p.Type = typeKey(in)
		}

		rec.params[i] = p
		if p.HasDefault {
			rec.dependencies[i] = p.Default
		} else {
			rec.dependencies[i] = Instance{ID: p.Type}
		}
	}

	rc.records[class] = rec
	return rec, nil
}

// Parameters returns the constructor parameter descriptors of a registered
// class.
func (c *Container) Parameters(class string) ([]Parameter, error) {
	rec, _, err := c.reflections.dependencies(class)
	if err != nil {
		return nil, err
	}
	return slices.Clone(rec.params), nil
}
