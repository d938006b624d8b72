package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/km-arc/go-framework/framework/i18n"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		message string
		params  map[string]any
		want    string
	}{
		{"no params", "Hello, {name}", nil, "Hello, {name}"},
		{"single", "Hello, {name}", map[string]any{"name": "Ada"}, "Hello, Ada"},
		{"repeated", "{n} and {n}", map[string]any{"n": 2}, "2 and 2"},
		{"unknown token kept", "{a} {b}", map[string]any{"a": "x"}, "x {b}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Format(tt.message, tt.params))
		})
	}
}

func TestCatalog_Translate(t *testing.T) {
	c := i18n.NewCatalog()
	c.Load(map[string]map[string]map[string]string{
		"de-DE": {"app": {"Hello, {name}": "Hallo, {name}"}},
		"fr":    {"app": {"Hello, {name}": "Bonjour, {name}"}},
	})

	params := map[string]any{"name": "Ada"}
	assert.Equal(t, "Hallo, Ada", c.Translate("app", "Hello, {name}", params, "de-DE"))
	assert.Equal(t, "Bonjour, Ada", c.Translate("app", "Hello, {name}", params, "fr-CA"))
	assert.Equal(t, "Hello, Ada", c.Translate("app", "Hello, {name}", params, "es"))
	assert.Equal(t, "Hello, Ada", c.Translate("other", "Hello, {name}", params, "de-DE"))
	assert.Equal(t, []string{"de-DE", "fr"}, c.Languages())
}

func TestCatalog_AddMerges(t *testing.T) {
	c := i18n.NewCatalog()
	c.Add("de", "app", map[string]string{"Yes": "Ja"})
	c.Add("de", "app", map[string]string{"No": "Nein"})

	assert.Equal(t, "Ja", c.Translate("app", "Yes", nil, "de"))
	assert.Equal(t, "Nein", c.Translate("app", "No", nil, "de"))
}

func TestCatalog_EmptyTranslationFallsBack(t *testing.T) {
	c := i18n.NewCatalog()
	c.Add("de", "app", map[string]string{"Yes": ""})

	assert.Equal(t, "Yes", c.Translate("app", "Yes", nil, "de"))
}
