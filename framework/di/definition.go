package di

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

// Resolver fetches ids from a container. Factories receive one bound to the
// resolution in progress so nested lookups take part in cycle detection.
type Resolver interface {
	Get(id string, params []any, config Config) (any, error)
}

// Factory builds a value from resolved constructor params and the call-site
// configuration.
type Factory func(r Resolver, params []any, config Config) (any, error)

// ── Definition ────────────────────────────────────────────────────────────────

// Definition describes how the container builds an id. It is one of
// ClassDefinition, FactoryDefinition or InstanceDefinition.
type Definition interface {
	definition()
}

// ClassDefinition builds Class and applies Properties to the result.
// Call-site configuration takes precedence over Properties.
type ClassDefinition struct {
	Class      string
	Properties Config
}

// FactoryDefinition builds the value by calling Fn.
type FactoryDefinition struct {
	Fn Factory

	// set on the placeholders installed for deferred providers
	deferred bool
}

// InstanceDefinition is an already-built value. It becomes the permanent
// singleton of its id on first Get.
type InstanceDefinition struct {
	Value any
}

func (ClassDefinition) definition()    {}
func (FactoryDefinition) definition()  {}
func (InstanceDefinition) definition() {}

// normalizeDefinition turns the loosely-typed definition accepted by Set into
// one of the Definition variants.
//
//	nil, "" or empty Config   → ClassDefinition{Class: id}
//	"pkg.Impl"                → ClassDefinition{Class: "pkg.Impl"}
//	Config{"class": "pkg.Impl", "Timeout": 3}
//	                          → ClassDefinition with Properties{"Timeout": 3}
//	Factory / factory func    → FactoryDefinition
//	pointer, struct, map, ... → InstanceDefinition
func normalizeDefinition(id string, def any) (Definition, error) {
	switch d := def.(type) {
	case nil:
		return ClassDefinition{Class: id}, nil
	case string:
		if d == "" {
			return ClassDefinition{Class: id}, nil
		}
		return ClassDefinition{Class: d}, nil
	case ClassDefinition:
		if d.Class == "" {
			d.Class = id
		}
		return d, nil
	case FactoryDefinition:
		if d.Fn == nil {
			return nil, &InvalidConfigError{ID: id, Reason: "factory cannot be nil"}
		}
		return d, nil
	case InstanceDefinition:
		return d, nil
	case Factory:
		return FactoryDefinition{Fn: d}, nil
	case func(Resolver, []any, Config) (any, error):
		return FactoryDefinition{Fn: d}, nil
	case Config:
		return classFromConfig(id, d)
	case map[string]any:
		return classFromConfig(id, d)
	}

	switch reflect.ValueOf(def).Kind() {
	case reflect.Ptr, reflect.Struct, reflect.Interface, reflect.Map,
		reflect.Slice, reflect.Chan, reflect.Func:
		return InstanceDefinition{Value: def}, nil
	}
	return nil, &InvalidConfigError{ID: id, Reason: fmt.Sprintf("unsupported definition type %T", def)}
}

func classFromConfig(id string, cfg Config) (Definition, error) {
	if len(cfg) == 0 {
		return ClassDefinition{Class: id}, nil
	}

	props := maps.Clone(cfg)
	raw, ok := props["class"]
	delete(props, "class")
	if !ok {
		if !qualified(id) {
			return nil, &InvalidConfigError{ID: id, Reason: `a class definition requires a "class" member`}
		}
		raw = id
	}

	class, ok := raw.(string)
	if !ok || class == "" {
		return nil, &InvalidConfigError{ID: id, Reason: fmt.Sprintf(`"class" must be a non-empty string, got %T`, raw)}
	}
	if len(props) == 0 {
		props = nil
	}
	return ClassDefinition{Class: class, Properties: props}, nil
}

// qualified reports whether id looks like a fully-qualified type name.
func qualified(id string) bool {
	return strings.ContainsAny(id, `./\`)
}

// mergeConfig layers over on top of base; keys in over win.
func mergeConfig(base, over Config) Config {
	if len(base) == 0 {
		return over
	}
	if len(over) == 0 {
		return maps.Clone(base)
	}
	out := maps.Clone(base)
	maps.Copy(out, over)
	return out
}

// overlay writes params positionally over defaults, growing the slice when
// params is longer.
func overlay(defaults, params []any) []any {
	for i, p := range params {
		if i < len(defaults) {
			defaults[i] = p
		} else {
			defaults = append(defaults, p)
		}
	}
	return defaults
}
