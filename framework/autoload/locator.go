// Package autoload maps fully qualified class names to source files, using
// an explicit class map first and alias-based path derivation second.
package autoload

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/km-arc/go-framework/framework/alias"
	"github.com/km-arc/go-framework/framework/di"
)

// DefaultExtension is appended to names derived from a namespace.
const DefaultExtension = ".go"

// UnknownClassError is returned when no file can be located for Class.
// It matches di.ErrUnknownType.
type UnknownClassError struct {
	Class  string
	File   string
	Reason string
}

func (e *UnknownClassError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("unable to find %q: %s", e.Class, e.Reason)
	}
	return fmt.Sprintf("unable to find %q in file %s: %s", e.Class, e.File, e.Reason)
}

func (e *UnknownClassError) Is(target error) bool { return target == di.ErrUnknownType }

// Locator resolves class names to files.
//
//	l := autoload.New(aliases, map[string]string{`app\User`: "@app/models/user.go"})
//	l.Locate(`app\User`)           // class map entry, alias resolved
//	l.Locate(`app\views\Renderer`) // "@app/views/Renderer.go" through the resolver
type Locator struct {
	aliases   *alias.Resolver
	extension string

	mu       sync.RWMutex
	classMap map[string]string
}

// Option configures a Locator.
type Option func(*Locator)

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(l *Locator) { l.extension = ext }
}

// New creates a locator over aliases seeded with classMap.
func New(aliases *alias.Resolver, classMap map[string]string, opts ...Option) *Locator {
	l := &Locator{
		aliases:   aliases,
		extension: DefaultExtension,
		classMap:  make(map[string]string, len(classMap)),
	}
	for class, file := range classMap {
		l.classMap[class] = file
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Map adds or replaces a class map entry. file may be an alias.
func (l *Locator) Map(class, file string) {
	l.mu.Lock()
	l.classMap[class] = file
	l.mu.Unlock()
}

// ClassMap returns a copy of the class map.
func (l *Locator) ClassMap() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]string, len(l.classMap))
	for class, file := range l.classMap {
		out[class] = file
	}
	return out
}

// Classes lists mapped class names, sorted.
func (l *Locator) Classes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.classMap))
	for class := range l.classMap {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// Locate returns the file that declares class.
func (l *Locator) Locate(class string) (string, error) {
	l.mu.RLock()
	file, mapped := l.classMap[class]
	l.mu.RUnlock()

	if mapped {
		if strings.HasPrefix(file, alias.Prefix) {
			resolved, err := l.aliases.Get(file)
			if err != nil {
				return "", fmt.Errorf("autoload %s: %w", class, err)
			}
			file = resolved
		}
		if !isFile(file) {
			return "", &UnknownClassError{Class: class, File: file, Reason: "mapped file does not exist"}
		}
		return file, nil
	}

	if !strings.Contains(class, `\`) {
		return "", &UnknownClassError{Class: class, Reason: "not in class map and has no namespace"}
	}

	token := alias.Prefix + strings.ReplaceAll(class, `\`, "/") + l.extension
	file, ok := l.aliases.Lookup(token)
	if !ok {
		return "", &UnknownClassError{Class: class, Reason: "no alias registered for namespace"}
	}
	if !isFile(file) {
		return "", &UnknownClassError{Class: class, File: file, Reason: "file does not exist"}
	}
	return file, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
