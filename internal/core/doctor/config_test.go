package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/briefly/internal/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestConfigCheck_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	result := NewConfigCheck(path, t.TempDir()).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "using defaults")
	assert.Equal(t, StatusPass, result.Items[1].Status)
}

func TestConfigCheck_InvalidFields(t *testing.T) {
	t.Setenv(config.EnvBackendURL, "")
	path := writeConfig(t, "backend:\n  url: ftp://example.com\ntui:\n  theme: no-such-theme\n")

	result := NewConfigCheck(path, t.TempDir()).Run(context.Background())

	require.NotEmpty(t, result.Items)
	labels := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		assert.Equal(t, StatusFail, item.Status)
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "backend.url")
	assert.Contains(t, labels, "tui.theme")
}

func TestConfigCheck_Unparsable(t *testing.T) {
	path := writeConfig(t, "backend: [unclosed\n")

	result := NewConfigCheck(path, t.TempDir()).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, path, result.Items[0].Label)
}
