package middleware

import "net/http"

// UserAgent sets the User-Agent header on requests that carry none.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if ua == "" {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("User-Agent") != "" {
				return next.RoundTrip(r)
			}
			out := r.Clone(r.Context())
			out.Header.Set("User-Agent", ua)
			return next.RoundTrip(out)
		})
	}
}
