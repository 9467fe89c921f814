package ctxutil

import "context"

type ctxKey string

const (
	requestIDKey  ctxKey = "request_id"
	retryCountKey ctxKey = "retry_count"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRetryCount returns a child context recording how many times the request
// travelling with it has already been replayed.
func WithRetryCount(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, retryCountKey, n)
}

// RetryCountFromCtx returns the replay count, 0 for a first attempt.
func RetryCountFromCtx(ctx context.Context) int {
	n, _ := ctx.Value(retryCountKey).(int)
	return n
}
