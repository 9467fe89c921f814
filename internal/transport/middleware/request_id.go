package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/pkg/ctxutil"
)

// RequestIDHeader carries the correlation id of an outgoing request.
const RequestIDHeader = "X-Request-Id"

// RequestID tags each outgoing request with an id taken from the context, or a
// new UUID. A replayed request keeps the id of its first attempt.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			id := ctxutil.RequestIDFromCtx(r.Context())
			if id == "" {
				id = r.Header.Get(RequestIDHeader)
			}
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			out := r.Clone(ctx)
			out.Header.Set(RequestIDHeader, id)
			return next.RoundTrip(out)
		})
	}
}
