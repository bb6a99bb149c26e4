package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageCheck_Healthy(t *testing.T) {
	check := NewStorageCheck(t.TempDir(), true, false)
	result := check.Run(context.Background())

	assert.Equal(t, "Storage", result.Name)
	require.Len(t, result.Items, 3)
	for _, item := range result.Items {
		assert.Equal(t, StatusPass, item.Status, item.Label)
	}
}

func TestStorageCheck_InMemory(t *testing.T) {
	check := NewStorageCheck(t.TempDir(), false, false)
	result := check.Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, "database", result.Items[2].Label)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
}

func TestStorageCheck_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	result := NewStorageCheck(dir, true, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.True(t, result.Items[0].Fixable)
	assert.NoDirExists(t, dir)
}

func TestStorageCheck_Autofix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	result := NewStorageCheck(dir, true, true).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "created", result.Items[0].Detail)
	assert.DirExists(t, dir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")
}

func TestStorageCheck_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	result := NewStorageCheck(path, true, true).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "not a directory")
}
