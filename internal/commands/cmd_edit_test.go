package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptional(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name       string
		path       string
		wantText   string
		wantExists bool
		wantErr    string
	}{
		{
			name:       "existing",
			path:       write("a.txt", "héllo"),
			wantText:   "héllo",
			wantExists: true,
		},
		{
			name: "missing",
			path: filepath.Join(dir, "nope.txt"),
		},
		{
			name:       "latin-1",
			path:       write("b.txt", "caf\xe9"),
			wantExists: true,
			wantErr:    "not valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, exists, err := readOptional(tt.path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantExists, exists)
		})
	}
}
