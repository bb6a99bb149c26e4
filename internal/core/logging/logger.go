package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// For returns the component logger bound to ctx so ContextHook can pick up
// request scoped fields.
func For(ctx context.Context, name string) zerolog.Logger {
	return Component(name).With().Ctx(ctx).Logger()
}
