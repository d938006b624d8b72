package di

// ContextualBuilder implements the fluent contextual binding API.
//
//	// While building the report controller, "storage" resolves to S3.
//	c.When("app.ReportController").Needs("storage").GiveID("storage.s3")
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain for the class concrete.
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which dependency id of the concrete class is overridden.
func (b *ContextualBuilder) Needs(id string) *ContextualBuilder {
	b.needs = id
	return b
}

// Give provides the factory used when the concrete class resolves the
// dependency. The factory is called without params or config.
func (b *ContextualBuilder) Give(factory Factory) {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	if _, ok := b.container.contextual[b.concrete]; !ok {
		b.container.contextual[b.concrete] = make(map[string]Factory)
	}
	b.container.contextual[b.concrete][b.needs] = factory
}

// GiveValue is a shorthand for Give when the value is pre-built.
//
//	c.When("app.PhotoController").Needs("app.Filesystem").GiveValue(localFS)
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(Resolver, []any, Config) (any, error) { return value, nil })
}

// GiveID redirects the dependency to another id of the same container.
func (b *ContextualBuilder) GiveID(id string) {
	b.Give(func(r Resolver, _ []any, _ Config) (any, error) { return r.Get(id, nil, nil) })
}

// getContextual returns the contextual factory for (concrete, id), or nil.
func (c *Container) getContextual(concrete, id string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[concrete]; ok {
		return m[id]
	}
	return nil
}
