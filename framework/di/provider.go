package di

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register is called as soon as the provider is added (or, for deferred
// providers, on the first Get of one of its ids). Boot is called after every
// eager provider has been registered, so it may resolve other ids.
//
//	type MailServiceProvider struct{ di.BaseProvider }
//
//	func (p *MailServiceProvider) Register(c *di.Container) error {
//	    return c.SetSingleton("mailer", di.TypeKey((*SMTPMailer)(nil)))
//	}
type ServiceProvider interface {
	// Register sets definitions. Do not resolve other ids here.
	Register(c *Container) error

	// Boot runs after all eager providers are registered.
	Boot(c *Container) error

	// Provides lists the ids a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether registration waits for the first Get of one
	// of Provides().
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op implementation of Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred ones.
type ProviderRegistry struct {
	mu         sync.Mutex
	c          *Container
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	loads      map[ServiceProvider]*deferredLoad
	booted     bool
}

// deferredLoad is the registration of one deferred provider. done is closed
// once Register (and Boot, when the registry is booted) has returned.
type deferredLoad struct {
	done chan struct{}
	err  error
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[ServiceProvider]bool),
		loads:      make(map[ServiceProvider]*deferredLoad),
	}
}

// Register adds a provider and calls its Register method unless it is
// deferred. A provider added after Boot is booted immediately. Adding the
// same provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	booted := r.booted
	r.mu.Unlock()

	if provider.IsDeferred() {
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.c); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	r.mu.Unlock()

	if booted {
		if err := provider.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred installs a placeholder factory for each deferred id. The
// first Get registers the provider for real and then resolves the id again.
// Concurrent first Gets wait for that registration.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	for _, id := range provider.Provides() {
		id := id
		intercept := func(_ Resolver, params []any, config Config) (any, error) {
			if err := r.load(provider); err != nil {
				return nil, err
			}
			if def, ok := r.c.definition(id); ok {
				if fd, ok := def.(FactoryDefinition); ok && fd.deferred {
					return nil, &InvalidConfigError{ID: id, Reason: fmt.Sprintf("deferred provider %T does not register it", provider)}
				}
			}
			return r.c.Get(id, params, config)
		}
		if err := r.c.Set(id, FactoryDefinition{Fn: intercept, deferred: true}); err != nil {
			return err
		}
	}
	return nil
}

// load registers a deferred provider once. Callers arriving while the
// registration runs block until it finishes and share its result.
func (r *ProviderRegistry) load(provider ServiceProvider) error {
	r.mu.Lock()
	if l, ok := r.loads[provider]; ok {
		r.mu.Unlock()
		<-l.done
		return l.err
	}
	l := &deferredLoad{done: make(chan struct{})}
	r.loads[provider] = l
	booted := r.booted
	r.mu.Unlock()

	defer close(l.done)
	if err := provider.Register(r.c); err != nil {
		l.err = fmt.Errorf("register %T: %w", provider, err)
		return l.err
	}
	if booted {
		if err := provider.Boot(r.c); err != nil {
			l.err = fmt.Errorf("boot %T: %w", provider, err)
			return l.err
		}
	}
	return nil
}

// Boot calls Boot on every eager provider. Only the first call has effect.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.c); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
