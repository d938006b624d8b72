package providers

import (
	"sort"

	"github.com/km-arc/go-framework/framework/alias"
	"github.com/km-arc/go-framework/framework/autoload"
	"github.com/km-arc/go-framework/framework/config"
	"github.com/km-arc/go-framework/framework/di"
	"github.com/km-arc/go-framework/framework/i18n"
	"github.com/km-arc/go-framework/framework/logging"
)

// Container ids bound by the core providers.
const (
	ConfigID   = "config"
	LoggerID   = "logger"
	AliasesID  = "aliases"
	I18nID     = "i18n"
	AutoloadID = "autoload"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound ids:
//   - "config" → *config.Config
type ConfigServiceProvider struct {
	di.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(c *di.Container) error {
	return c.SetSingleton(ConfigID, di.InstanceDefinition{Value: p.Config})
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the application logging sink.
//
// Bound ids:
//   - "logger" → the Sink as given (a *logging.Logger in an Application)
type LogServiceProvider struct {
	di.BaseProvider
	Logger logging.Sink
}

func (p *LogServiceProvider) Register(c *di.Container) error {
	return c.SetSingleton(LoggerID, di.InstanceDefinition{Value: p.Logger})
}

// Boot reports the registered definitions at trace level.
func (p *LogServiceProvider) Boot(c *di.Container) error {
	p.Logger.Log("container ready", logging.LevelTrace, "di")
	ids := make([]string, 0)
	for id := range c.Definitions() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p.Logger.Log("definition "+id, logging.LevelTrace, "di")
	}
	return nil
}

// ── AliasServiceProvider ──────────────────────────────────────────────────────

// AliasServiceProvider seeds the alias resolver and binds it.
//
// Bound ids:
//   - "aliases" → *alias.Resolver
//
// Entries are applied in order, so a later path may reference an earlier
// alias ("@app/plugins": "@app/vendor/plugins").
type AliasServiceProvider struct {
	di.BaseProvider
	Aliases *alias.Resolver
	Entries []config.AliasEntry
}

func (p *AliasServiceProvider) Register(c *di.Container) error {
	for _, e := range p.Entries {
		if err := p.Aliases.Set(e.Alias, e.Path); err != nil {
			return err
		}
	}
	return c.SetSingleton(AliasesID, di.InstanceDefinition{Value: p.Aliases})
}

// ── I18nServiceProvider ───────────────────────────────────────────────────────

// I18nServiceProvider builds the message catalog on first use.
//
// Bound ids (deferred):
//   - "i18n" → *i18n.Catalog
type I18nServiceProvider struct {
	di.BaseProvider
	Messages map[string]map[string]map[string]string
}

func (p *I18nServiceProvider) Register(c *di.Container) error {
	messages := p.Messages
	return c.SetSingleton(I18nID, di.Factory(func(_ di.Resolver, _ []any, _ di.Config) (any, error) {
		catalog := i18n.NewCatalog()
		catalog.Load(messages)
		return catalog, nil
	}))
}

func (p *I18nServiceProvider) Provides() []string { return []string{I18nID} }
func (p *I18nServiceProvider) IsDeferred() bool   { return true }

// ── AutoloadServiceProvider ───────────────────────────────────────────────────

// AutoloadServiceProvider binds the class locator. It depends on "aliases".
//
// Bound ids:
//   - "autoload" → *autoload.Locator
type AutoloadServiceProvider struct {
	di.BaseProvider
	ClassMap  map[string]string
	Extension string // default: autoload.DefaultExtension
}

func (p *AutoloadServiceProvider) Register(c *di.Container) error {
	classMap := p.ClassMap
	var opts []autoload.Option
	if p.Extension != "" {
		opts = append(opts, autoload.WithExtension(p.Extension))
	}

	return c.SetSingleton(AutoloadID, di.Factory(func(r di.Resolver, _ []any, _ di.Config) (any, error) {
		v, err := r.Get(AliasesID, nil, nil)
		if err != nil {
			return nil, err
		}
		aliases, ok := v.(*alias.Resolver)
		if !ok {
			return nil, &di.InvalidConfigError{ID: AliasesID, Reason: "not an alias resolver"}
		}
		return autoload.New(aliases, classMap, opts...), nil
	}))
}
