// Package prefs holds user preferences that outlive a session. The stored
// values are read once at startup and changed only through setters.
package prefs

import (
	"context"
	"fmt"
	"sync"

	"github.com/colonyops/briefly/internal/core/kv"
	"github.com/colonyops/briefly/internal/core/logging"
	"github.com/colonyops/briefly/internal/core/styles"
)

const themeKey = "theme"

// Prefs is the process-wide preference state.
type Prefs struct {
	mu    sync.RWMutex
	store *kv.TypedKV[string]
	theme string
}

// Load reads stored preferences, falling back to defaultTheme, and applies
// the theme.
func Load(ctx context.Context, store kv.KV, defaultTheme string) (*Prefs, error) {
	p := &Prefs{store: kv.Scoped[string](store, "prefs")}

	theme, ok, err := p.store.Lookup(ctx, themeKey)
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	if _, known := styles.GetPalette(theme); !ok || !known {
		if ok {
			l := logging.For(ctx, "prefs")
			l.Warn().Str("theme", theme).Msg("stored theme unknown, using default")
		}
		theme = defaultTheme
	}

	palette, known := styles.GetPalette(theme)
	if !known {
		theme = styles.DefaultTheme
		palette, _ = styles.GetPalette(theme)
	}

	styles.SetTheme(theme, palette)
	p.theme = theme
	return p, nil
}

// Theme returns the active theme name.
func (p *Prefs) Theme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// SetTheme validates, applies and persists a theme.
func (p *Prefs) SetTheme(ctx context.Context, name string) error {
	palette, ok := styles.GetPalette(name)
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Set(ctx, themeKey, name); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	styles.SetTheme(name, palette)
	p.theme = name
	return nil
}

// CycleTheme switches to the theme after the current one.
func (p *Prefs) CycleTheme(ctx context.Context) (string, error) {
	next := styles.NextTheme(p.Theme())
	if err := p.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
