package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/pkg/ctxutil"
)

// Logger returns middleware that logs each outgoing request with method, host,
// path, status code, duration, and context identifiers (request_id, retry).
// Headers are never logged.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("host", r.URL.Host),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", duration),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if n := ctxutil.RetryCountFromCtx(r.Context()); n > 0 {
				attrs = append(attrs, slog.Int("retry", n))
			}

			level := slog.LevelInfo
			switch {
			case err != nil:
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", err.Error()))
			case resp.StatusCode >= 500:
				level = slog.LevelError
				attrs = append(attrs, slog.Int("status", resp.StatusCode))
			default:
				attrs = append(attrs, slog.Int("status", resp.StatusCode))
			}
			logger.LogAttrs(r.Context(), level, "http.client", attrs...)
			return resp, err
		})
	}
}
