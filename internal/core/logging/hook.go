package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies request_id and user from the event context onto the
// log event.
type ContextHook struct{}

// Run implements zerolog.Hook.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetRequestID(ctx); id != "" {
		e.Str("request_id", id)
	}
	if u := GetUser(ctx); u != "" {
		e.Str("user", u)
	}
}
