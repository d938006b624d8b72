package di

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ContainerID is the id under which every container holds itself.
const ContainerID = "container"

// DefaultMaxDepth bounds the length of a single resolution chain.
const DefaultMaxDepth = 64

// ErrMaxDepth is returned when a resolution chain grows beyond the
// container's maximum depth.
var ErrMaxDepth = errors.New("maximum resolution depth exceeded")

// ── Container ─────────────────────────────────────────────────────────────────

// Container builds object graphs from definitions and registered
// constructors.
//
// Resolution order for Get(id):
//  1. a built singleton cached under id is returned as is
//  2. without a definition, id is built from its registered constructor
//  3. otherwise the definition is interpreted (class, factory or instance)
//  4. the result is cached when id was registered with SetSingleton
//
// Constructor parameters without a value are resolved recursively by type.
type Container struct {
	mu sync.RWMutex

	types       *Types
	reflections *reflectionCache

	// id → how to build it
	definitions map[string]Definition

	// id → bound constructor params
	params map[string][]any

	// id → singleton instance; a nil value marks a singleton not yet built
	singletons map[string]any

	// contextual: when[concrete][id] = factory
	contextual map[string]map[string]Factory

	maxDepth int
}

// Option configures a Container.
type Option func(*Container)

// WithMaxDepth bounds the resolution chain length. Values below 1 keep the
// default.
func WithMaxDepth(n int) Option {
	return func(c *Container) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// New creates a container resolving classes from types. A nil types gets a
// fresh, empty namespace.
func New(types *Types, opts ...Option) *Container {
	if types == nil {
		types = NewTypes()
	}
	c := &Container{
		types:       types,
		reflections: newReflectionCache(types),
		definitions: make(map[string]Definition),
		params:      make(map[string][]any),
		singletons:  make(map[string]any),
		contextual:  make(map[string]map[string]Factory),
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.definitions[ContainerID] = InstanceDefinition{Value: c}
	return c
}

// Types returns the type namespace the container builds classes from.
func (c *Container) Types() *Types { return c.types }

// ── Registration ──────────────────────────────────────────────────────────────

// Set registers a transient definition: every Get builds a new value.
// Any singleton previously cached for id is dropped.
//
//	c.Set("mailer", "example.com/app.SMTPMailer")
//	c.Set("db", di.Config{"class": "example.com/app.DB", "DSN": dsn})
//	c.Set("clock", func(r di.Resolver, _ []any, _ di.Config) (any, error) {
//	    return realClock{}, nil
//	})
func (c *Container) Set(id string, definition any, params ...any) error {
	def, err := normalizeDefinition(id, definition)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[id] = def
	c.params[id] = params
	delete(c.singletons, id)
	return nil
}

// SetSingleton registers a definition whose result is cached after the first
// Get.
func (c *Container) SetSingleton(id string, definition any, params ...any) error {
	def, err := normalizeDefinition(id, definition)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[id] = def
	c.params[id] = params
	c.singletons[id] = nil
	return nil
}

// Has reports whether id has a definition.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.definitions[id]
	return ok
}

// HasSingleton reports whether id is registered as a singleton. With
// checkInstance the singleton must also have been built already.
func (c *Container) HasSingleton(id string, checkInstance bool) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.singletons[id]
	if checkInstance {
		return inst != nil
	}
	return ok
}

// Clear removes the definition, bound params and singleton of id.
func (c *Container) Clear(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.definitions, id)
	delete(c.params, id)
	delete(c.singletons, id)
}

// Flush resets the container to its initial state. The reflection cache is
// kept.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions = map[string]Definition{ContainerID: InstanceDefinition{Value: c}}
	c.params = make(map[string][]any)
	c.singletons = make(map[string]any)
	c.contextual = make(map[string]map[string]Factory)
}

// definition returns the definition currently registered for id.
func (c *Container) definition(id string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[id]
	return def, ok
}

// Definitions returns a copy of every registered definition.
func (c *Container) Definitions() map[string]Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.definitions)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves id. params are overlaid positionally on the constructor
// arguments; config is applied to the built object.
//
//	mailer, err := c.Get("mailer", nil, di.Config{"From": "ops@example.com"})
func (c *Container) Get(id string, params []any, config Config) (any, error) {
	return c.get(&resolution{c: c}, id, params, config)
}

// Make is Get without params or config.
func (c *Container) Make(id string) (any, error) {
	return c.Get(id, nil, nil)
}

func (c *Container) get(res *resolution, id string, params []any, config Config) (any, error) {
	c.mu.RLock()
	if inst := c.singletons[id]; inst != nil {
		c.mu.RUnlock()
		return inst, nil
	}
	def, ok := c.definitions[id]
	c.mu.RUnlock()

	if err := res.enter(id); err != nil {
		return nil, err
	}
	defer res.leave()

	if !ok {
		return c.build(res, id, params, config)
	}

	var (
		object any
		err    error
	)
	switch d := def.(type) {
	case FactoryDefinition:
		var args []any
		if args, err = res.resolve(id, c.mergeParams(id, params), nil); err != nil {
			return nil, err
		}
		if object, err = d.Fn(res, args, config); err != nil {
			return nil, &BuildError{ID: id, Cause: err}
		}

	case ClassDefinition:
		config = mergeConfig(d.Properties, config)
		params = c.mergeParams(id, params)
		if d.Class == id {
			object, err = c.build(res, id, params, config)
		} else {
			object, err = c.get(res, d.Class, params, config)
		}
		if err != nil {
			return nil, err
		}

	case InstanceDefinition:
		c.mu.Lock()
		c.singletons[id] = d.Value
		c.mu.Unlock()
		return d.Value, nil

	default:
		return nil, &InvalidConfigError{ID: id, Reason: fmt.Sprintf("unexpected definition type %T", def)}
	}

	return c.remember(id, object), nil
}

// build constructs id from its registered constructor.
func (c *Container) build(res *resolution, id string, params []any, config Config) (any, error) {
	rec, deps, err := c.reflections.dependencies(id)
	if err != nil {
		return nil, err
	}

	args, err := res.resolve(id, overlay(deps, params), rec)
	if err != nil {
		return nil, err
	}

	if len(config) == 0 {
		return rec.class.newInstance(args)
	}

	if rec.configurable && len(args) > 0 {
		// config replaces the trailing argument
		args[len(args)-1] = config
		return rec.class.newInstance(args)
	}

	object, err := rec.class.newInstance(args)
	if err != nil {
		return nil, err
	}
	if err := Configure(object, config); err != nil {
		return nil, err
	}
	return object, nil
}

// remember stores object as the singleton of id when id holds a singleton
// slot. If another caller populated the slot first, that instance wins.
func (c *Container) remember(id string, object any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	existing, singleton := c.singletons[id]
	if !singleton {
		return object
	}
	if existing != nil {
		return existing
	}
	c.singletons[id] = object
	return object
}

// mergeParams overlays call params on the params bound to id. The result
// never aliases the caller's slice; resolve writes into it.
func (c *Container) mergeParams(id string, params []any) []any {
	c.mu.RLock()
	bound := c.params[id]
	c.mu.RUnlock()

	if len(bound) == 0 {
		return slices.Clone(params)
	}
	return overlay(slices.Clone(bound), params)
}

// ── Resolution chain ──────────────────────────────────────────────────────────

// resolution tracks the ids being resolved by one top-level Get.
type resolution struct {
	c    *Container
	path []string
}

// Get resolves id as part of this resolution chain.
func (r *resolution) Get(id string, params []any, config Config) (any, error) {
	return r.c.get(r, id, params, config)
}

func (r *resolution) enter(id string) error {
	if slices.Contains(r.path, id) {
		return &CircularDependencyError{Path: append(slices.Clone(r.path), id)}
	}
	if len(r.path) >= r.c.maxDepth {
		return fmt.Errorf("%w (%d) resolving [%s]", ErrMaxDepth, r.c.maxDepth, id)
	}
	r.path = append(r.path, id)
	return nil
}

func (r *resolution) leave() {
	r.path = r.path[:len(r.path)-1]
}

// resolve replaces every Instance placeholder in deps. With a record, an
// anonymous placeholder or an unknown dependency type fails the build;
// without one (factory params) anonymous placeholders are left in place.
func (r *resolution) resolve(class string, deps []any, rec *record) ([]any, error) {
	for i, dep := range deps {
		inst, ok := dep.(Instance)
		if !ok {
			continue
		}

		if inst.ID == "" {
			if rec == nil {
				continue
			}
			return nil, &UnresolvableDependencyError{Class: class, Param: paramName(rec, i), Index: i}
		}

		value, err := r.dependency(class, inst.ID)
		if err != nil {
			var unknown *UnknownTypeError
			if rec != nil && errors.As(err, &unknown) && unknown.Name == inst.ID {
				return nil, &UnresolvableDependencyError{Class: class, Param: paramName(rec, i), Index: i, Cause: err}
			}
			return nil, err
		}
		deps[i] = value
	}
	return deps, nil
}

// dependency resolves id for class, honouring contextual bindings.
func (r *resolution) dependency(class, id string) (any, error) {
	if f := r.c.getContextual(class, id); f != nil {
		v, err := f(r, nil, nil)
		if err != nil {
			return nil, &BuildError{ID: id, Cause: err}
		}
		return v, nil
	}
	return r.Get(id, nil, nil)
}

func paramName(rec *record, i int) string {
	if i < len(rec.params) {
		return rec.params[i].Name
	}
	return fmt.Sprintf("arg%d", i)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: v, err := c.Make("mailer"); m := v.(*Mailer)
//	// Write:      m, err := di.Resolve[*Mailer](c, "mailer")
func Resolve[T any](c *Container, id string) (T, error) {
	var zero T
	instance, err := c.Make(id)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &InvalidConfigError{ID: id, Reason: fmt.Sprintf("resolved to %T, want %T", instance, zero)}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, id string) T {
	typed, err := Resolve[T](c, id)
	if err != nil {
		panic(fmt.Sprintf("di: MustResolve[%T](%s): %v", typed, id, err))
	}
	return typed
}
