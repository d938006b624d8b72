package di

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrUnresolvableDependency = errors.New("unresolvable dependency")
	ErrUnknownType            = errors.New("unknown type")
	ErrCircularDependency     = errors.New("circular dependency")
)

// InvalidConfigError is returned for a definition or object configuration of
// an unsupported shape.
type InvalidConfigError struct {
	ID     string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid configuration for [%s]: %s", e.ID, e.Reason)
}

func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// UnresolvableDependencyError is returned when a constructor parameter has no
// default, no bound value and no resolvable type.
type UnresolvableDependencyError struct {
	Class string
	Param string
	Index int
	Cause error
}

func (e *UnresolvableDependencyError) Error() string {
	msg := fmt.Sprintf("missing required parameter %q (#%d) when instantiating [%s]", e.Param, e.Index, e.Class)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnresolvableDependencyError) Is(target error) bool {
	return target == ErrUnresolvableDependency
}

func (e *UnresolvableDependencyError) Unwrap() error { return e.Cause }

// UnknownTypeError is returned when no class is registered under Name.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type [%s]: no constructor registered", e.Name)
}

func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// CircularDependencyError reports the resolution path that closed a cycle.
type CircularDependencyError struct {
	Path []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency detected"
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// BuildError wraps an error returned by a constructor or factory.
type BuildError struct {
	ID    string
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build [%s]: %v", e.ID, e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }
