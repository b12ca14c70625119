package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts notice_id and source from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if id := GetNoticeID(ctx); id != 0 {
		e.Uint64("notice_id", id)
	}

	if src := GetSource(ctx); src != "" {
		e.Str("source", src)
	}
}
