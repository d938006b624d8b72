package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-framework/framework/config"
)

func TestLoadManifest_PreservesAliasOrder(t *testing.T) {
	m, err := config.LoadManifest("testdata/manifest.yaml")
	require.NoError(t, err)

	assert.Equal(t, []config.AliasEntry{
		{Alias: "@app", Path: "/srv/app"},
		{Alias: "@app/plugins", Path: "@app/vendor/plugins"},
		{Alias: "@runtime", Path: "/var/run/app/"},
	}, m.Aliases)
	assert.Equal(t, "@app/models/User.go", m.ClassMap[`app\models\User`])
	assert.Equal(t, "Hallo, {name}", m.Messages["de-DE"]["app"]["Hello, {name}"])
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := config.LoadManifest("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParseManifest_Empty(t *testing.T) {
	m, err := config.ParseManifest([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, m.Aliases)
	assert.Empty(t, m.ClassMap)
}

func TestParseManifest_RejectsBadAliases(t *testing.T) {
	_, err := config.ParseManifest([]byte("aliases:\n  - \"@app\"\n"))
	assert.ErrorContains(t, err, "aliases must be a mapping")

	_, err = config.ParseManifest([]byte("aliases:\n  \"@app\": [a, b]\n"))
	assert.ErrorContains(t, err, "path must be a string")
}
