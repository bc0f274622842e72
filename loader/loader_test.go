package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sghaida/lazyscope/di"
)

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

//
// -----------------------------------------------------------------------------
// YAML
// -----------------------------------------------------------------------------

// TestYAML_TopLevelKeys verifies scalars, mappings and sequences become registry entries.
func TestYAML_TopLevelKeys(t *testing.T) {
	t.Parallel()

	reg, err := YAML(strings.NewReader(`
host: localhost
port: 5432
debug: true
db:
  user: app
tags: [a, b]
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"db", "debug", "host", "port", "tags"}, reg.Keys())
	assert.Equal(t, "localhost", reg.MustGet("host"))
	assert.Equal(t, 5432, reg.MustGet("port"))
	assert.Equal(t, true, reg.MustGet("debug"))
	assert.Equal(t, map[string]any{"user": "app"}, reg.MustGet("db"))
	assert.Equal(t, []any{"a", "b"}, reg.MustGet("tags"))
}

// TestYAML_EmptyAndInvalid verifies empty input is fine and non-mapping input fails.
func TestYAML_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	reg, err := YAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())

	_, err = YAML(strings.NewReader("- just\n- a list\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader: parse yaml")
}

// TestYAMLFile verifies file loading and error wrapping.
func TestYAMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeTempFile(t, dir, "config.yaml", "name: svc\n")

	reg, err := YAMLFile(p)
	require.NoError(t, err)
	assert.Equal(t, "svc", reg.MustGet("name"))

	_, err = YAMLFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeTempFile(t, dir, "bad.yaml", "name: [unterminated\n")
	_, err = YAMLFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loader: parse "+bad)
}

// TestYAML_ImportIntoContainer verifies a loaded registry feeds Container.Import.
func TestYAML_ImportIntoContainer(t *testing.T) {
	t.Parallel()

	reg, err := YAML(strings.NewReader("dsn: postgres://localhost\n"))
	require.NoError(t, err)

	c := di.New()
	require.NoError(t, c.Import(reg))
	assert.Equal(t, "postgres://localhost", di.MustGetAs[string](c, "dsn"))
}

//
// -----------------------------------------------------------------------------
// Dotenv / Environ
// -----------------------------------------------------------------------------

// TestDotenv_ReadsWithoutSettingEnv verifies values are read and the process environment is untouched.
func TestDotenv_ReadsWithoutSettingEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	base := writeTempFile(t, dir, "base.env", "LAZYSCOPE_TEST_A=one\nLAZYSCOPE_TEST_B=two\n")
	local := writeTempFile(t, dir, "local.env", "# override\nLAZYSCOPE_TEST_B=three\n")

	reg, err := Dotenv(base, local)
	require.NoError(t, err)

	assert.Equal(t, []string{"LAZYSCOPE_TEST_A", "LAZYSCOPE_TEST_B"}, reg.Keys())
	assert.Equal(t, "one", reg.MustGet("LAZYSCOPE_TEST_A"))
	assert.Equal(t, "three", reg.MustGet("LAZYSCOPE_TEST_B"))

	_, set := os.LookupEnv("LAZYSCOPE_TEST_A")
	assert.False(t, set)
}

// TestDotenv_MissingFile verifies a missing file is reported with its name.
func TestDotenv_MissingFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.env")
	_, err := Dotenv(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

// TestEnviron_PrefixStripped verifies prefix filtering against the process environment.
func TestEnviron_PrefixStripped(t *testing.T) {
	t.Setenv("LAZYSCOPE_ENV_PORT", "8080")
	t.Setenv("LAZYSCOPE_ENV_", "ignored")

	reg := Environ("LAZYSCOPE_ENV_")
	assert.Equal(t, []string{"PORT"}, reg.Keys())
	assert.Equal(t, "8080", reg.MustGet("PORT"))
}
