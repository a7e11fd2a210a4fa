package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoaderOptions{ConfigPaths: []string{t.TempDir()}})

	require.NoError(t, err)
	assert.Equal(t, "glab", cfg.GitLab.Binary)
	assert.Empty(t, cfg.GitLab.Repo)
	assert.Equal(t, ".", cfg.Git.RepositoryDir)
	assert.False(t, cfg.Store.Enabled)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.True(t, cfg.Observability.Logging.Enabled)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "human", cfg.Observability.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
gitlab:
  binary: /usr/local/bin/glab
  repo: group/project
store:
  enabled: true
  path: /tmp/ledger.db
observability:
  logging:
    level: debug
    format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrpost.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})

	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/glab", cfg.GitLab.Binary)
	assert.Equal(t, "group/project", cfg.GitLab.Repo)
	assert.True(t, cfg.Store.Enabled)
	assert.Equal(t, "/tmp/ledger.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadExpandsEnvInFileValues(t *testing.T) {
	t.Setenv("MRPOST_TEST_LEDGER", "/data/ledger.db")

	dir := t.TempDir()
	content := `
store:
  path: ${MRPOST_TEST_LEDGER}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrpost.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})

	require.NoError(t, err)
	assert.Equal(t, "/data/ledger.db", cfg.Store.Path)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("MRPOST_GITLAB_BINARY", "/env/glab")

	dir := t.TempDir()
	content := `
gitlab:
  binary: /file/glab
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrpost.yaml"), []byte(content), 0o644))

	cfg, err := Load(LoaderOptions{ConfigPaths: []string{dir}})

	require.NoError(t, err)
	assert.Equal(t, "/env/glab", cfg.GitLab.Binary)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrpost.yaml"), []byte("gitlab: ["), 0o644))

	_, err := Load(LoaderOptions{ConfigPaths: []string{dir}})

	assert.Error(t, err)
}

func TestExpandEnvString(t *testing.T) {
	t.Setenv("TEST_BINARY", "/opt/glab")
	t.Setenv("TEST_REPO", "group/project")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "expand ${VAR} syntax", input: "${TEST_BINARY}", expected: "/opt/glab"},
		{name: "expand $VAR syntax", input: "$TEST_BINARY", expected: "/opt/glab"},
		{name: "expand in middle of string", input: "bin:${TEST_BINARY}:end", expected: "bin:/opt/glab:end"},
		{name: "expand multiple variables", input: "${TEST_BINARY}:${TEST_REPO}", expected: "/opt/glab:group/project"},
		{name: "leave non-existent var unchanged", input: "${NONEXISTENT_VAR}", expected: "${NONEXISTENT_VAR}"},
		{name: "handle empty string", input: "", expected: ""},
		{name: "handle string without variables", input: "plain-text", expected: "plain-text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvString(tt.input))
		})
	}
}

func TestLocateConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mrpost.yaml"), []byte("gitlab: {}"), 0o644))

	t.Run("found", func(t *testing.T) {
		found := locateConfigFile("mrpost", []string{dir})
		assert.Equal(t, filepath.Join(dir, "mrpost.yaml"), found)
	})

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, locateConfigFile("mrpost", []string{t.TempDir()}))
	})
}
