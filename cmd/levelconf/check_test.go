package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/levelconf/levels"
)

func runCheck(t *testing.T, yaml string) (string, error) {
	t.Helper()
	return runCheckFile(t, "config.yaml", yaml)
}

func runCheckFile(t *testing.T, file, content string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))

	var out bytes.Buffer
	cmd := buildRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"check", "--config-path", dir, "--env-prefix", "LEVELCONFCHECK", "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := runCheck(t, `
logger:
  levels:
    root: WARN
    com.example: DEBUG
    foo: false
`)
	require.NoError(t, err)

	assert.Contains(t, out, "LOGGER")
	assert.Regexp(t, `com\.example\s+DEBUG`, out)
	assert.Regexp(t, `foo\s+OFF`, out)
	assert.Regexp(t, `root\s+WARN`, out)
}

func TestCheckInvalidLevel(t *testing.T) {
	_, err := runCheck(t, `
logger:
  levels:
    bar: verbose
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, levels.ErrInvalidLevel)
	assert.Equal(t, "Invalid log level: 'verbose' for logger: 'bar'", err.Error())
}

func TestCheckFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		typ     string
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"logger": {"levels": {"com.example": "DEBUG", "root": "WARN"}}}`,
			typ:     "json",
		},
		{
			name:    "toml",
			file:    "config.toml",
			content: "[logger.levels]\n\"com.example\" = \"DEBUG\"\nroot = \"WARN\"\n",
			typ:     "toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCheckFile(t, tt.file, tt.content, "--config-type", tt.typ)
			require.NoError(t, err)
			assert.Regexp(t, `com\.example\s+DEBUG`, out)
			assert.Regexp(t, `root\s+WARN`, out)
		})
	}
}
