package providers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-framework/framework/alias"
	"github.com/km-arc/go-framework/framework/autoload"
	"github.com/km-arc/go-framework/framework/config"
	"github.com/km-arc/go-framework/framework/di"
	"github.com/km-arc/go-framework/framework/i18n"
	"github.com/km-arc/go-framework/framework/logging"
	"github.com/km-arc/go-framework/framework/providers"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func registry(t *testing.T, ps ...di.ServiceProvider) (*di.Container, *di.ProviderRegistry) {
	t.Helper()
	c := di.New(nil)
	reg := di.NewProviderRegistry(c)
	for _, p := range ps {
		if err := reg.Register(p); err != nil {
			t.Fatalf("Register(%T): %v", p, err)
		}
	}
	return c, reg
}

// ── Config / Logger ──────────────────────────────────────────────────────────

func TestConfigServiceProvider_BindsSingleton(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Name: "Test"}}
	c, _ := registry(t, &providers.ConfigServiceProvider{Config: cfg})

	got, err := di.Resolve[*config.Config](c, providers.ConfigID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != cfg {
		t.Error("expected the bound config instance")
	}
	if !c.HasSingleton(providers.ConfigID, false) {
		t.Error("config should be a singleton")
	}
}

func TestLogServiceProvider_BootTracesDefinitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewWithCore(core)

	_, reg := registry(t, &providers.LogServiceProvider{Logger: logger})
	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if logs.FilterMessage("container ready").Len() != 1 {
		t.Error("expected a container ready entry")
	}
	if logs.FilterMessage("definition logger").Len() != 1 {
		t.Error("expected the logger definition to be traced")
	}
}

type recordingSink struct {
	lines []string
}

func (s *recordingSink) Log(message string, level logging.Level, category string) {
	s.lines = append(s.lines, category+"/"+level.String()+": "+message)
}

func TestLogServiceProvider_AcceptsAnySink(t *testing.T) {
	sink := &recordingSink{}
	c, reg := registry(t, &providers.LogServiceProvider{Logger: sink})
	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	got, err := di.Resolve[logging.Sink](c, providers.LoggerID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != sink {
		t.Error("expected the bound sink")
	}
	if len(sink.lines) == 0 || sink.lines[0] != "di/trace: container ready" {
		t.Errorf("got %v, want a leading di/trace entry", sink.lines)
	}
}

// ── Aliases ──────────────────────────────────────────────────────────────────

func TestAliasServiceProvider_AppliesEntriesInOrder(t *testing.T) {
	r := alias.NewResolver()
	c, _ := registry(t, &providers.AliasServiceProvider{
		Aliases: r,
		Entries: []config.AliasEntry{
			{Alias: "@app", Path: "/srv/app"},
			{Alias: "@app/plugins", Path: "@app/vendor/plugins"},
		},
	})

	got, err := r.Get("@app/plugins/blog")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "/srv/app/vendor/plugins/blog" {
		t.Errorf("got %q, want %q", got, "/srv/app/vendor/plugins/blog")
	}

	bound, err := di.Resolve[*alias.Resolver](c, providers.AliasesID)
	if err != nil || bound != r {
		t.Errorf("aliases not bound: %v", err)
	}
}

func TestAliasServiceProvider_UnknownReferenceFails(t *testing.T) {
	reg := di.NewProviderRegistry(di.New(nil))
	err := reg.Register(&providers.AliasServiceProvider{
		Aliases: alias.NewResolver(),
		Entries: []config.AliasEntry{{Alias: "@x", Path: "@missing/dir"}},
	})
	if !errors.Is(err, alias.ErrInvalidAlias) {
		t.Errorf("got %v, want ErrInvalidAlias", err)
	}
}

// ── I18n (deferred) ──────────────────────────────────────────────────────────

func TestI18nServiceProvider_IsDeferred(t *testing.T) {
	c, _ := registry(t, &providers.I18nServiceProvider{
		Messages: map[string]map[string]map[string]string{
			"de": {"app": {"Yes": "Ja"}},
		},
	})

	if _, ok := c.Definitions()[providers.I18nID].(di.FactoryDefinition); !ok {
		t.Fatal("expected a deferred interceptor before first use")
	}

	tr, err := di.Resolve[i18n.Translator](c, providers.I18nID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := tr.Translate("app", "Yes", nil, "de"); got != "Ja" {
		t.Errorf("got %q, want %q", got, "Ja")
	}

	again, _ := di.Resolve[i18n.Translator](c, providers.I18nID)
	if again != tr {
		t.Error("catalog should be a singleton")
	}
}

// ── Autoload ─────────────────────────────────────────────────────────────────

func TestAutoloadServiceProvider_UsesBoundAliases(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "models", "User.php")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := registry(t,
		&providers.AliasServiceProvider{
			Aliases: alias.NewResolver(),
			Entries: []config.AliasEntry{{Alias: "@app", Path: dir}},
		},
		&providers.AutoloadServiceProvider{Extension: ".php"},
	)

	l, err := di.Resolve[*autoload.Locator](c, providers.AutoloadID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got, err := l.Locate(`app\models\User`)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if filepath.ToSlash(got) != filepath.ToSlash(file) {
		t.Errorf("got %q, want %q", got, file)
	}
}

func TestAutoloadServiceProvider_MissingAliases(t *testing.T) {
	c, _ := registry(t, &providers.AutoloadServiceProvider{})

	_, err := c.Get(providers.AutoloadID, nil, nil)
	if err == nil {
		t.Fatal("expected an error without an aliases binding")
	}
}
