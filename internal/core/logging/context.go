package logging

import "context"

type contextKey string

const (
	noticeIDKey contextKey = "notice_id"
	sourceKey   contextKey = "source"
)

// WithNoticeID adds a notice ID to the context.
func WithNoticeID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, noticeIDKey, id)
}

// WithSource adds a notice source to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// GetNoticeID retrieves the notice ID from the context.
// Returns 0 if not present.
func GetNoticeID(ctx context.Context) uint64 {
	if id, ok := ctx.Value(noticeIDKey).(uint64); ok {
		return id
	}
	return 0
}

// GetSource retrieves the notice source from the context.
// Returns empty string if not present.
func GetSource(ctx context.Context) string {
	if src, ok := ctx.Value(sourceKey).(string); ok {
		return src
	}
	return ""
}
