package di

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"
)

// PropertySetter is implemented by objects that apply configuration
// themselves instead of having exported fields assigned.
type PropertySetter interface {
	SetProperty(name string, value any) error
}

// Configure applies props to object. Objects implementing PropertySetter
// receive every key; any other object must be a pointer to a struct, and each
// key must name an exported field by its `prop` tag, its name, or its name
// with a lower-case first letter.
//
//	type Mailer struct {
//	    Host string
//	    From string `prop:"sender"`
//	}
//	di.Configure(m, di.Config{"host": "smtp.local", "sender": "ops@example.com"})
func Configure(object any, props Config) error {
	if len(props) == 0 {
		return nil
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	if setter, ok := object.(PropertySetter); ok {
		for _, k := range keys {
			if err := setter.SetProperty(k, props[k]); err != nil {
				return &InvalidConfigError{ID: fmt.Sprintf("%T", object), Reason: fmt.Sprintf("property %q: %v", k, err)}
			}
		}
		return nil
	}

	v := reflect.ValueOf(object)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{ID: fmt.Sprintf("%T", object), Reason: "configuration requires a pointer to struct or a PropertySetter"}
	}
	elem := v.Elem()
	fields := properties.fields(elem.Type())

	for _, k := range keys {
		idx, ok := fields[k]
		if !ok {
			return &InvalidConfigError{ID: fmt.Sprintf("%T", object), Reason: fmt.Sprintf("setting unknown property %q", k)}
		}
		field := elem.Field(idx)
		value, err := assign(props[k], field.Type())
		if err != nil {
			return &InvalidConfigError{ID: fmt.Sprintf("%T", object), Reason: fmt.Sprintf("property %q: %v", k, err)}
		}
		field.Set(value)
	}
	return nil
}

// ObjectVars returns the exported fields of a struct or pointer to struct,
// keyed the way Configure accepts them (tag name, else field name).
func ObjectVars(object any) map[string]any {
	v := reflect.ValueOf(object)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("prop") == "-" {
			continue
		}
		out[propertyName(f)] = v.Field(i).Interface()
	}
	return out
}

// ── Property cache ────────────────────────────────────────────────────────────

// propertyCache memoizes the property name → field index table per struct
// type.
type propertyCache struct {
	mu     sync.RWMutex
	tables map[reflect.Type]map[string]int
}

var properties = &propertyCache{tables: make(map[reflect.Type]map[string]int)}

func (pc *propertyCache) fields(t reflect.Type) map[string]int {
	pc.mu.RLock()
	table, ok := pc.tables[t]
	pc.mu.RUnlock()
	if ok {
		return table
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	if table, ok = pc.tables[t]; ok {
		return table
	}

	table = make(map[string]int, t.NumField()*2)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("prop"); tag != "" {
			if tag == "-" {
				continue
			}
			table[tag] = i
			continue
		}
		table[f.Name] = i
		if lower := lowerFirst(f.Name); lower != f.Name {
			if _, taken := table[lower]; !taken {
				table[lower] = i
			}
		}
	}
	pc.tables[t] = table
	return table
}

func propertyName(f reflect.StructField) string {
	if tag := f.Tag.Get("prop"); tag != "" {
		return tag
	}
	return f.Name
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToLower(string(r)) + s[size:]
}
