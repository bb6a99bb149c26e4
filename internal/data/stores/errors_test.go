package stores

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverFromCorruption_MovesAllFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, db.FileName)

	require.NoError(t, os.WriteFile(dbPath, []byte("corrupted data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", []byte("wal data"), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-shm", []byte("shm data"), 0o644))

	backup, err := RecoverFromCorruption(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(backup), db.FileName+".corrupt."))

	for _, path := range []string{backup, backup + "-wal", backup + "-shm"} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "%s should exist", path)
	}
	for _, path := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be gone", path)
	}
}

func TestRecoverFromCorruption_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	files, _ := filepath.Glob(filepath.Join(dir, "*.corrupt.*"))
	assert.Empty(t, files)
}

func TestRecoverFromCorruption_ThenOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, db.FileName), []byte("not a database"), 0o644))

	_, err := RecoverFromCorruption(dir)
	require.NoError(t, err)

	database, err := db.Open(dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	assert.NoError(t, database.Close())
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", kv.ErrNotFound)))
	assert.False(t, IsNotFoundError(errors.New("boom")))
	assert.False(t, IsNotFoundError(nil))
}

func TestIsCorruptionError_Messages(t *testing.T) {
	assert.True(t, IsCorruptionError(errors.New("file is not a database")))
	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.False(t, IsCorruptionError(errors.New("no such table")))
}
