package middleware

import "net/http"

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Middleware is a function that wraps an http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// Chain combines multiple middleware into a single Middleware.
// Middleware are applied in the order given: Chain(mw1, mw2)(rt)
// results in mw1(mw2(rt)), so mw1 sees the request first (outermost).
func Chain(mws ...Middleware) Middleware {
	return func(final http.RoundTripper) http.RoundTripper {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Client returns an http.Client whose transport is base wrapped by mws.
// A nil base means http.DefaultTransport.
func Client(base http.RoundTripper, mws ...Middleware) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{Transport: Chain(mws...)(base)}
}
