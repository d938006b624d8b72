package alias_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-framework/framework/alias"
)

// ── Set / Get ─────────────────────────────────────────────────────────────────

func TestResolver_RoundTrip(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/base"))

	got, err := r.Get("@foo")
	require.NoError(t, err)
	assert.Equal(t, "/base", got)

	got, err = r.Get("@foo/x")
	require.NoError(t, err)
	assert.Equal(t, "/base/x", got)
}

func TestResolver_LongestPrefixWins(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))
	require.NoError(t, r.Set("@foo/bar", "/b"))

	tests := []struct {
		in   string
		want string
	}{
		{"@foo/bar/baz", "/b/baz"},
		{"@foo/bar", "/b"},
		{"@foo/qux", "/a/qux"},
		{"@foo", "/a"},
		{"@foo/barbaz", "/a/barbaz"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Get(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_SubAliasBeforeRoot(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo/bar", "/b"))

	got, err := r.Get("@foo/bar/x")
	require.NoError(t, err)
	assert.Equal(t, "/b/x", got)

	_, err = r.Get("@foo/other")
	assert.ErrorIs(t, err, alias.ErrInvalidAlias)

	require.NoError(t, r.Set("@foo", "/a"))
	got, err = r.Get("@foo/other")
	require.NoError(t, err)
	assert.Equal(t, "/a/other", got)
}

func TestResolver_MostSpecificOfThree(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@app", "/srv/app"))
	require.NoError(t, r.Set("@app/plugins/blog", "/opt/blog"))
	require.NoError(t, r.Set("@app/plugins", "/opt/plugins"))

	got, err := r.Get("@app/plugins/blog/views")
	require.NoError(t, err)
	assert.Equal(t, "/opt/blog/views", got)

	got, err = r.Get("@app/plugins/shop")
	require.NoError(t, err)
	assert.Equal(t, "/opt/plugins/shop", got)
}

func TestResolver_AddsPrefixAndTrimsSeparators(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("runtime", `/var/run/app/\`))

	got, err := r.Get("@runtime/cache")
	require.NoError(t, err)
	assert.Equal(t, "/var/run/app/cache", got)
}

func TestResolver_PathMayReferenceAlias(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@app", "/srv/app"))
	require.NoError(t, r.Set("@views", "@app/views"))

	got, err := r.Get("@views/site")
	require.NoError(t, err)
	assert.Equal(t, "/srv/app/views/site", got)
}

func TestResolver_PathReferencingUnknownAliasFails(t *testing.T) {
	r := alias.NewResolver()
	err := r.Set("@views", "@nope/views")
	assert.ErrorIs(t, err, alias.ErrInvalidAlias)

	_, ok := r.Lookup("@views")
	assert.False(t, ok)
}

func TestResolver_ReplaceScalar(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))
	require.NoError(t, r.Set("@foo", "/z"))

	got, err := r.Get("@foo/x")
	require.NoError(t, err)
	assert.Equal(t, "/z/x", got)
}

func TestResolver_LiteralPathReturnedUnchanged(t *testing.T) {
	r := alias.NewResolver()
	got, err := r.Get("/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", got)
}

// ── Failure paths ─────────────────────────────────────────────────────────────

func TestResolver_Unregistered(t *testing.T) {
	r := alias.NewResolver()

	got, ok := r.Lookup("@missing")
	assert.False(t, ok)
	assert.Empty(t, got)

	_, err := r.Get("@missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, alias.ErrInvalidAlias)

	var aliasErr *alias.InvalidAliasError
	require.True(t, errors.As(err, &aliasErr))
	assert.Equal(t, "@missing", aliasErr.Alias)
}

// ── Root ──────────────────────────────────────────────────────────────────────

func TestResolver_Root(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))
	require.NoError(t, r.Set("@foo/bar", "/b"))
	require.NoError(t, r.Set("@web", "/www"))

	root, ok := r.Root("@foo/bar/baz")
	require.True(t, ok)
	assert.Equal(t, "@foo/bar", root)

	root, ok = r.Root("@foo/qux")
	require.True(t, ok)
	assert.Equal(t, "@foo", root)

	root, ok = r.Root("@web/assets")
	require.True(t, ok)
	assert.Equal(t, "@web", root)

	_, ok = r.Root("@none")
	assert.False(t, ok)
}

// ── Remove ────────────────────────────────────────────────────────────────────

func TestResolver_RemoveScalar(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))

	r.Remove("@foo/sub") // sub-path of a scalar root: no-op
	_, ok := r.Lookup("@foo")
	assert.True(t, ok)

	r.Remove("foo")
	_, ok = r.Lookup("@foo")
	assert.False(t, ok)
}

func TestResolver_RemoveNested(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))
	require.NoError(t, r.Set("@foo/bar", "/b"))

	r.Remove("@foo/bar")
	got, err := r.Get("@foo/bar/baz")
	require.NoError(t, err)
	assert.Equal(t, "/a/bar/baz", got)

	r.Remove("@foo")
	_, ok := r.Lookup("@foo")
	assert.False(t, ok)
	assert.Empty(t, r.Aliases())
}

func TestResolver_Aliases(t *testing.T) {
	r := alias.NewResolver()
	require.NoError(t, r.Set("@foo", "/a"))
	require.NoError(t, r.Set("@foo/bar", "/b"))
	require.NoError(t, r.Set("@web", "/www"))

	assert.Equal(t, map[string]string{
		"@foo":     "/a",
		"@foo/bar": "/b",
		"@web":     "/www",
	}, r.Aliases())
}

func TestResolver_SharedTable(t *testing.T) {
	table := alias.NewTable()
	a := alias.NewResolverWithTable(table)
	b := alias.NewResolverWithTable(table)

	require.NoError(t, a.Set("@shared", "/s"))
	got, err := b.Get("@shared/x")
	require.NoError(t, err)
	assert.Equal(t, "/s/x", got)
}
