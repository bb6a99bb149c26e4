package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/styles"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		fallback string
		want     string
	}{
		{name: "nothing stored", fallback: "gruvbox", want: "gruvbox"},
		{name: "stored wins", stored: "kanagawa", fallback: "gruvbox", want: "kanagawa"},
		{name: "unknown stored", stored: "neon", fallback: "onedark", want: "onedark"},
		{name: "unknown fallback", fallback: "neon", want: styles.DefaultTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := kv.NewMemory()
			if tt.stored != "" {
				require.NoError(t, kv.Scoped[string](store, "prefs").Set(ctx, themeKey, tt.stored))
			}

			p, err := Load(ctx, store, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Theme())
			assert.Equal(t, tt.want, styles.CurrentTheme)
		})
	}
}

func TestSetTheme(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	p, err := Load(ctx, store, styles.DefaultTheme)
	require.NoError(t, err)

	require.Error(t, p.SetTheme(ctx, "neon"))
	assert.Equal(t, styles.DefaultTheme, p.Theme())

	require.NoError(t, p.SetTheme(ctx, "catppuccin"))

	reloaded, err := Load(ctx, store, styles.DefaultTheme)
	require.NoError(t, err)
	assert.Equal(t, "catppuccin", reloaded.Theme())
}

func TestCycleTheme(t *testing.T) {
	ctx := context.Background()
	p, err := Load(ctx, kv.NewMemory(), styles.DefaultTheme)
	require.NoError(t, err)

	seen := map[string]bool{p.Theme(): true}
	for range len(styles.ThemeNames()) - 1 {
		next, err := p.CycleTheme(ctx)
		require.NoError(t, err)
		assert.False(t, seen[next], "theme %s repeated early", next)
		seen[next] = true
	}

	next, err := p.CycleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, styles.DefaultTheme, next)
}
