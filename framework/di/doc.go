// Package di provides the dependency-injection container of the framework.
//
// # Overview
//
// The container maps string ids to definitions and builds object graphs from
// constructors registered in a type namespace. A constructor's parameters are
// introspected once; parameters without a value are resolved recursively by
// their declared type.
//
// # Type namespace
//
//	types := di.NewTypes()
//	types.MustRegister(NewTransport)                       // func() *Transport
//	types.MustRegister(NewMailer, di.Params("transport", "from"),
//	    di.Default("from", "noreply@example.com"))        // func(*Transport, string) *Mailer
//
//	c := di.New(types)
//	m, err := di.Resolve[*Mailer](c, di.TypeKey((*Mailer)(nil)))
//
// # Definitions
//
//	// Transient — new instance every Get
//	c.Set("mailer", di.TypeKey((*Mailer)(nil)))
//
//	// Singleton — built once, reused
//	c.SetSingleton("cache", di.Config{"class": "app.RedisCache", "TTL": 60})
//
//	// Factory
//	c.Set("clock", func(r di.Resolver, params []any, cfg di.Config) (any, error) {
//	    return systemClock{}, nil
//	})
//
//	// Pre-built value
//	c.Set("config", cfg)
//
// # Configuration
//
// Get(id, params, config) overlays params on the constructor arguments and
// applies config to the result through Configure. Classes whose constructor
// takes a trailing di.Config receive config there instead.
//
// # Contextual binding
//
//	c.When("app.PhotoController").Needs("app.Filesystem").GiveID("fs.s3")
//
// # Service providers
//
//	registry := di.NewProviderRegistry(c)
//	registry.Register(&MailServiceProvider{})
//	registry.Boot()
//
// # Cycles
//
// Each Get tracks the ids it is resolving; meeting one of them again fails
// with a *CircularDependencyError. Factories receive a Resolver bound to the
// same chain. A factory that calls a captured *Container instead starts a new
// chain, and cycles closed that way are not detected. Chains longer than
// WithMaxDepth (default 64) fail with ErrMaxDepth.
package di
