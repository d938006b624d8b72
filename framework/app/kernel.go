package app

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/km-arc/go-framework/framework/alias"
	"github.com/km-arc/go-framework/framework/autoload"
	"github.com/km-arc/go-framework/framework/config"
	"github.com/km-arc/go-framework/framework/di"
	"github.com/km-arc/go-framework/framework/i18n"
	"github.com/km-arc/go-framework/framework/logging"
	"github.com/km-arc/go-framework/framework/providers"
)

// DefaultCategory is the log category used when none is given.
const DefaultCategory = "application"

// FrameworkAlias points at the framework installation directory.
const FrameworkAlias = "@framework"

// Application is the process-scoped context: configuration, logger, alias
// resolver, type namespace and container, plus the providers wired into it.
// Create it with New and release it with Shutdown.
type Application struct {
	*di.Container
	Providers *di.ProviderRegistry

	Config   *config.Config
	Logger   *logging.Logger
	Aliases  *alias.Resolver
	Manifest *config.Manifest
}

// Option customises NewFromConfig.
type Option func(*options)

type options struct {
	logger *logging.Logger
	types  *di.Types
}

// WithLogger replaces the logger built from configuration.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTypes registers classes from an existing namespace.
func WithTypes(t *di.Types) Option {
	return func(o *options) { o.types = t }
}

// New loads configuration from envFiles and the environment and builds the
// application.
func New(envFiles ...string) (*Application, error) {
	return NewFromConfig(config.Load(envFiles...))
}

// NewFromConfig builds the application from cfg.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = logging.New(cfg.Log); err != nil {
			return nil, errors.Wrap(err, "create logger")
		}
	}

	manifest := &config.Manifest{}
	if cfg.App.Manifest != "" {
		m, err := config.LoadManifest(cfg.App.Manifest)
		if err != nil {
			return nil, errors.Wrapf(err, "load manifest %s", cfg.App.Manifest)
		}
		manifest = m
	}

	c := di.New(o.types, di.WithMaxDepth(cfg.DI.MaxDepth))
	a := &Application{
		Container: c,
		Providers: di.NewProviderRegistry(c),
		Config:    cfg,
		Logger:    logger,
		Aliases:   alias.NewResolver(),
		Manifest:  manifest,
	}

	entries := append([]config.AliasEntry{{Alias: FrameworkAlias, Path: cfg.App.Path}}, manifest.Aliases...)

	core := []di.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LogServiceProvider{Logger: logger},
		&providers.AliasServiceProvider{Aliases: a.Aliases, Entries: entries},
		&providers.I18nServiceProvider{Messages: manifest.Messages},
		&providers.AutoloadServiceProvider{ClassMap: manifest.ClassMap},
	}
	for _, p := range core {
		if err := a.Providers.Register(p); err != nil {
			return nil, errors.Wrapf(err, "register %T", p)
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider di.ServiceProvider) error {
	return errors.WithStack(a.Providers.Register(provider))
}

// Boot runs the Boot phase on all providers. Only the first call has effect.
func (a *Application) Boot() error {
	if a.Providers.Booted() {
		return nil
	}
	if err := a.Providers.Boot(); err != nil {
		return errors.Wrap(err, "boot providers")
	}
	a.Trace(fmt.Sprintf("%s %s booted", a.Config.App.Name, Version()), DefaultCategory)
	return nil
}

// Shutdown drops cached singletons and flushes the logger.
func (a *Application) Shutdown() error {
	a.Container.Flush()
	return errors.Wrap(a.Logger.Sync(), "sync logger")
}

// Version returns the framework version.
func Version() string { return "0.0.1-alpha" }

// ── Aliases ───────────────────────────────────────────────────────────────────

// GetAlias translates a path alias into a real path.
func (a *Application) GetAlias(token string) (string, error) { return a.Aliases.Get(token) }

// SetAlias registers a path alias.
func (a *Application) SetAlias(token, path string) error { return a.Aliases.Set(token, path) }

// ── Services ──────────────────────────────────────────────────────────────────

// Locator resolves the class locator bound by AutoloadServiceProvider.
func (a *Application) Locator() (*autoload.Locator, error) {
	return di.Resolve[*autoload.Locator](a.Container, providers.AutoloadID)
}

// Translator resolves the deferred message catalog.
func (a *Application) Translator() (i18n.Translator, error) {
	return di.Resolve[i18n.Translator](a.Container, providers.I18nID)
}

// ── Objects ───────────────────────────────────────────────────────────────────

// CreateObject builds an object from a loose configuration:
//
//	a.CreateObject("db.Connection")                            // container id
//	a.CreateObject(di.Config{"class": "db.Connection", "DSN": dsn}) // id plus properties
//	a.CreateObject(func(params []any) (any, error) { ... }, 1)  // called with params
func (a *Application) CreateObject(typ any, params ...any) (any, error) {
	switch t := typ.(type) {
	case string:
		return a.Container.Get(t, params, nil)
	case di.Config:
		return a.createFromConfig(t, params)
	case map[string]any:
		return a.createFromConfig(t, params)
	case func([]any) (any, error):
		return t(params)
	}
	return nil, &di.InvalidConfigError{Reason: fmt.Sprintf("unsupported configuration type: %T", typ)}
}

func (a *Application) createFromConfig(cfg di.Config, params []any) (any, error) {
	class, ok := cfg["class"].(string)
	if !ok || class == "" {
		return nil, &di.InvalidConfigError{Reason: `object configuration must contain a "class" element`}
	}
	rest := make(di.Config, len(cfg)-1)
	for k, v := range cfg {
		if k != "class" {
			rest[k] = v
		}
	}
	return a.Container.Get(class, params, rest)
}

// Configure applies props to object. See di.Configure.
func (a *Application) Configure(object any, props di.Config) error {
	return di.Configure(object, props)
}

// ObjectVars returns the exported properties of object.
func (a *Application) ObjectVars(object any) map[string]any {
	return di.ObjectVars(object)
}

// ── Logging ───────────────────────────────────────────────────────────────────

// Trace logs a debug message. It is dropped unless FRAMEWORK_DEBUG is set.
func (a *Application) Trace(message string, category ...string) {
	if a.Config.App.Debug {
		a.Logger.Log(message, logging.LevelTrace, categoryOf(category))
	}
}

func (a *Application) Info(message string, category ...string) {
	a.Logger.Log(message, logging.LevelInfo, categoryOf(category))
}

func (a *Application) Warning(message string, category ...string) {
	a.Logger.Log(message, logging.LevelWarning, categoryOf(category))
}

func (a *Application) Error(message string, category ...string) {
	a.Logger.Log(message, logging.LevelError, categoryOf(category))
}

// BeginProfile marks the start of a profiling block identified by token.
func (a *Application) BeginProfile(token string, category ...string) {
	a.Logger.Log(token, logging.LevelProfileBegin, categoryOf(category))
}

// EndProfile closes the block opened by BeginProfile with the same token.
func (a *Application) EndProfile(token string, category ...string) {
	a.Logger.Log(token, logging.LevelProfileEnd, categoryOf(category))
}

func categoryOf(category []string) string {
	if len(category) > 0 && category[0] != "" {
		return category[0]
	}
	return DefaultCategory
}

// ── Translation ───────────────────────────────────────────────────────────────

// T translates message. An empty language means the configured one. When no
// catalog is available only {name} placeholders are substituted.
func (a *Application) T(category, message string, params map[string]any, language string) string {
	if language == "" {
		language = a.Config.App.Language
	}
	tr, err := a.Translator()
	if err != nil {
		return i18n.Format(message, params)
	}
	return tr.Translate(category, message, params, language)
}
