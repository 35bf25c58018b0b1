package options_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"deepstate/options"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	yaml := `
members: all
reference_handling: structural_with_reference_loops
immutable:
  - options_test.money
ignore_types:
  - point
ignore_fields:
  "*options_test.owner": [Comment]
`

	cfg, err := options.ParseConfig([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "all", cfg.Members)
	assert.Equal(t, "structural_with_reference_loops", cfg.ReferenceHandling)
	assert.Equal(t, []string{"options_test.money"}, cfg.Immutable)

	reg := options.NewTypeRegistry(reflect.TypeFor[money](), reflect.TypeFor[*owner]())
	options.Register[point](reg)

	s, err := cfg.Settings(reg)
	require.NoError(t, err)

	assert.Equal(t, options.MembersAll, s.Filter())
	assert.Equal(t, options.StructuralWithReferenceLoops, s.ReferenceHandling())
	assert.True(t, s.IsForcedImmutable(reflect.TypeFor[money]()))
	assert.True(t, s.IsIgnoredType(reflect.TypeFor[point]()))
	assert.True(t, s.IsIgnoredMember(reflect.TypeFor[owner](), "Comment"))
}

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := options.ParseConfig([]byte(`immutable: []`))
	require.NoError(t, err)

	assert.Equal(t, "exported", cfg.Members)
	assert.Equal(t, "structural", cfg.ReferenceHandling)

	s, err := cfg.Settings(nil)
	require.NoError(t, err)
	assert.Equal(t, options.MembersExported, s.Filter())
	assert.Equal(t, options.Structural, s.ReferenceHandling())
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := options.ParseConfig([]byte("members: [oops"))
	require.Error(t, err)

	cfg, err := options.ParseConfig([]byte("immutable: [store.Missing]"))
	require.NoError(t, err)
	_, err = cfg.Settings(options.NewTypeRegistry())
	require.ErrorIs(t, err, options.ErrUnknownType)

	cfg, err = options.ParseConfig([]byte("members: some"))
	require.NoError(t, err)
	_, err = cfg.Settings(nil)
	require.ErrorIs(t, err, options.ErrUnknownValue)

	cfg, err = options.ParseConfig([]byte("ignore_fields: {owner: [Nope]}"))
	require.NoError(t, err)
	_, err = cfg.Settings(options.NewTypeRegistry(reflect.TypeFor[owner]()))
	require.Error(t, err)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	data, err := options.MarshalConfig(&options.Config{Members: "all", ReferenceHandling: "references"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := options.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "all", cfg.Members)
	assert.Equal(t, "references", cfg.ReferenceHandling)

	_, err = options.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTypeRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := options.NewTypeRegistry(reflect.TypeFor[owner]())

	for _, name := range []string{"owner", "options_test.owner", "deepstate/options_test.owner"} {
		got, ok := reg.Resolve(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, reflect.TypeFor[owner](), got)
		}
	}

	got, ok := reg.Resolve("*owner")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[*owner](), got)

	_, ok = reg.Resolve("other.owner")
	assert.False(t, ok)
	_, ok = reg.Resolve("")
	assert.False(t, ok)
}
