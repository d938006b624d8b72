package di

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Config holds named property values applied to an object after (or, for
// configurable classes, during) construction.
type Config map[string]any

var (
	configType = reflect.TypeOf(Config(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// ── Class ─────────────────────────────────────────────────────────────────────

// Class is a constructor registered in the type namespace.
type Class struct {
	name         string
	fn           reflect.Value
	fnType       reflect.Type
	returnsError bool
	paramNames   []string
	defaults     map[string]any
}

// Name returns the identifier the class is registered under.
func (c *Class) Name() string { return c.name }

// Type returns the type produced by the constructor.
func (c *Class) Type() reflect.Type { return c.fnType.Out(0) }

// newInstance calls the constructor with args converted to its parameter types.
func (c *Class) newInstance(args []any) (any, error) {
	if len(args) != c.fnType.NumIn() {
		return nil, &InvalidConfigError{
			ID:     c.name,
			Reason: fmt.Sprintf("constructor takes %d arguments, got %d", c.fnType.NumIn(), len(args)),
		}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := assign(arg, c.fnType.In(i))
		if err != nil {
			return nil, &InvalidConfigError{
				ID:     c.name,
				Reason: fmt.Sprintf("argument %q: %v", c.paramNames[i], err),
			}
		}
		in[i] = v
	}

	out := c.fn.Call(in)
	if c.returnsError && !out[1].IsNil() {
		return nil, &BuildError{ID: c.name, Cause: out[1].Interface().(error)}
	}
	return out[0].Interface(), nil
}

// ── Registration options ──────────────────────────────────────────────────────

// ClassOption customises a class registration.
type ClassOption func(*Class)

// Named registers the class under name instead of its TypeKey.
func Named(name string) ClassOption {
	return func(c *Class) { c.name = name }
}

// Params names the constructor parameters in order. Unnamed parameters are
// called "arg0", "arg1", ...
func Params(names ...string) ClassOption {
	return func(c *Class) {
		for i, n := range names {
			if i < len(c.paramNames) {
				c.paramNames[i] = n
			}
		}
	}
}

// Default records a default value for the named parameter. The value may be
// an Instance placeholder to pin the dependency to a specific id.
//
//	types.MustRegister(NewMailer, di.Params("transport", "from"),
//	    di.Default("from", "noreply@example.com"))
func Default(param string, value any) ClassOption {
	return func(c *Class) { c.defaults[param] = value }
}

// ── Types ─────────────────────────────────────────────────────────────────────

// Types is the type namespace consulted by the container when an id has no
// definition: a registry of constructors keyed by class name.
//
// Go cannot load a class by name at run time, so constructors are registered
// up front and introspected once through reflection.
type Types struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewTypes creates an empty type namespace.
func NewTypes() *Types {
	return &Types{classes: make(map[string]*Class)}
}

// Register adds a constructor and returns the class name it is known by.
//
// ctor is either a function returning T or (T, error), or a value / nil
// pointer of a struct type, which registers a parameterless constructor
// returning a new *T.
//
//	types.Register(NewMailer)            // "example.com/app.Mailer"
//	types.Register((*Plain)(nil))        // "example.com/app.Plain"
//	types.Register(NewMailer, di.Named("mailer"))
func (t *Types) Register(ctor any, opts ...ClassOption) (string, error) {
	c, err := parseClass(ctor)
	if err != nil {
		return "", err
	}
	for _, opt := range opts {
		opt(c)
	}
	for name := range c.defaults {
		if !slices.Contains(c.paramNames, name) {
			return "", &InvalidConfigError{ID: c.name, Reason: fmt.Sprintf("default for unknown parameter %q", name)}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.classes[c.name] = c
	return c.name, nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level registration tables.
func (t *Types) MustRegister(ctor any, opts ...ClassOption) string {
	name, err := t.Register(ctor, opts...)
	if err != nil {
		panic(err)
	}
	return name
}

// Lookup returns the class registered under name.
func (t *Types) Lookup(name string) (*Class, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.classes[name]
	return c, ok
}

// Names returns every registered class name, sorted.
func (t *Types) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.classes))
	for name := range t.classes {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// parseClass validates ctor and builds the class record.
func parseClass(ctor any) (*Class, error) {
	if ctor == nil {
		return nil, &InvalidConfigError{Reason: "constructor cannot be nil"}
	}

	fn := reflect.ValueOf(ctor)
	if fn.Kind() != reflect.Func {
		fn = structConstructor(reflect.TypeOf(ctor))
		if !fn.IsValid() {
			return nil, &InvalidConfigError{Reason: fmt.Sprintf("cannot register %T: want a constructor func or struct type", ctor)}
		}
	}
	fnType := fn.Type()

	if fnType.IsVariadic() {
		return nil, &InvalidConfigError{Reason: fmt.Sprintf("constructor %v must not be variadic", fnType)}
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).Implements(errorType) {
			return nil, &InvalidConfigError{Reason: fmt.Sprintf("constructor %v: second result must be error", fnType)}
		}
	default:
		return nil, &InvalidConfigError{Reason: fmt.Sprintf("constructor %v must return T or (T, error)", fnType)}
	}

	name := typeKey(fnType.Out(0))
	if name == "" {
		name = fnType.Out(0).String()
	}

	names := make([]string, fnType.NumIn())
	for i := range names {
		names[i] = fmt.Sprintf("arg%d", i)
	}

	return &Class{
		name:         name,
		fn:           fn,
		fnType:       fnType,
		returnsError: fnType.NumOut() == 2,
		paramNames:   names,
		defaults:     make(map[string]any),
	}, nil
}

// structConstructor returns func() *T for a struct type T or *T.
func structConstructor(t reflect.Type) reflect.Value {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	fnType := reflect.FuncOf(nil, []reflect.Type{reflect.PointerTo(t)}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(t)}
	})
}

// ── Type keys ─────────────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, the id under which a
// class is registered by default and the id a typed constructor parameter
// resolves to.
//
//	key := di.TypeKey((*UserRepository)(nil))  // "example.com/app.UserRepository"
//	c.SetSingleton(key, di.TypeKey((*SQLUserRepository)(nil)))
func TypeKey(v any) string {
	return typeKey(reflect.TypeOf(v))
}

func typeKey(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Argument conversion ───────────────────────────────────────────────────────

// assign converts v to a value of type t: nil becomes the zero value,
// assignable values pass through, pointers are dereferenced when only the
// element fits, and numeric or string values convert within their family.
func assign(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if rv.Kind() == reflect.Ptr && !rv.IsNil() && rv.Elem().Type().AssignableTo(t) {
		return rv.Elem(), nil
	}
	if sameFamily(rv.Kind(), t.Kind()) && rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%T is not assignable to %v", v, t)
}

func sameFamily(a, b reflect.Kind) bool {
	return (isNumeric(a) && isNumeric(b)) || (a == reflect.String && b == reflect.String)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
