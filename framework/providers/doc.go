// Package providers contains the framework's core service providers.
//
// Each provider binds one framework service into the di.Container:
//
//	"config"   → *config.Config           (ConfigServiceProvider)
//	"logger"   → *logging.Logger          (LogServiceProvider)
//	"aliases"  → *alias.Resolver          (AliasServiceProvider)
//	"i18n"     → *i18n.Catalog, deferred  (I18nServiceProvider)
//	"autoload" → *autoload.Locator        (AutoloadServiceProvider)
package providers
