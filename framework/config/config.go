package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App AppConfig
	Log LogConfig
	DI  DIConfig
}

type AppConfig struct {
	Name     string
	Env      string // prod | dev | test | staging
	Debug    bool
	Path     string // framework installation directory, bound to @framework
	Language string
	Manifest string // optional bootstrap manifest (YAML)
}

// IsProd reports whether the application runs in production.
func (a AppConfig) IsProd() bool { return a.Env == "prod" }
func (a AppConfig) IsDev() bool  { return a.Env == "dev" }
func (a AppConfig) IsTest() bool { return a.Env == "test" }

type LogConfig struct {
	Level  string // trace | info | warning | error
	Format string // console | json
}

type DIConfig struct {
	MaxDepth int
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:     Get("FRAMEWORK_NAME", "GoFramework"),
			Env:      Get("FRAMEWORK_ENV", "prod"),
			Debug:    GetBool("FRAMEWORK_DEBUG", false),
			Path:     Get("FRAMEWORK_PATH", "."),
			Language: Get("FRAMEWORK_LANGUAGE", "en-US"),
			Manifest: Get("FRAMEWORK_MANIFEST", ""),
		},
		Log: LogConfig{
			Level:  Get("LOG_LEVEL", "info"),
			Format: Get("LOG_FORMAT", "console"),
		},
		DI: DIConfig{
			MaxDepth: GetInt("DI_MAX_DEPTH", 64),
		},
	}
}

// Get returns the trimmed value of key, or fallback when it is unset or
// blank.
func Get(key, fallback string) string {
	return lookup(key, fallback, func(v string) (string, error) { return v, nil })
}

// GetInt parses key as a base-10 int. Unparsable values yield fallback.
func GetInt(key string, fallback int) int {
	return lookup(key, fallback, strconv.Atoi)
}

// GetBool parses key with strconv.ParseBool. Unparsable values yield
// fallback.
func GetBool(key string, fallback bool) bool {
	return lookup(key, fallback, strconv.ParseBool)
}

func lookup[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}
