package middleware

import (
	"context"
	"io"
	"net/http"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/pkg/ctxutil"
)

// tokenSource supplies the bearer token and refreshes it after a rejection.
// RefreshIfStale returns an error only when ctx ended before the refresh
// outcome was known.
type tokenSource interface {
	AccessToken() string
	RefreshIfStale(ctx context.Context, failedToken string) (bool, error)
}

// loginRedirector is told when the operator has to sign in again.
type loginRedirector interface {
	RedirectToLogin(ctx context.Context)
}

// Auth attaches the session's bearer token to every request. A 401 on a first
// attempt triggers one refresh; on success the request is replayed once with
// the new token, otherwise the 401 is returned and redirect is notified.
// Replays carry a retry count in their context and are never retried again.
// A caller that gives up while the refresh is pending gets its ctx error and
// no redirect. redirect may be nil.
func Auth(source tokenSource, redirect loginRedirector) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			token := source.AccessToken()

			resp, err := next.RoundTrip(withBearer(r.Context(), r, token))
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}

			ctx := r.Context()
			attempt := ctxutil.RetryCountFromCtx(ctx)
			if attempt > 0 || !replayable(r) {
				return resp, nil
			}

			ok, err := source.RefreshIfStale(ctx, token)
			if err != nil {
				drain(resp.Body)
				return nil, err
			}
			if !ok {
				if redirect != nil {
					redirect.RedirectToLogin(ctx)
				}
				return resp, nil
			}

			retry := withBearer(ctxutil.WithRetryCount(ctx, attempt+1), r, source.AccessToken())
			if r.GetBody != nil && r.Body != nil && r.Body != http.NoBody {
				body, err := r.GetBody()
				if err != nil {
					return resp, nil
				}
				retry.Body = body
			}

			drain(resp.Body)
			return next.RoundTrip(retry)
		})
	}
}

// withBearer clones r for ctx with the Authorization header set to token, or
// removed when token is empty.
func withBearer(ctx context.Context, r *http.Request, token string) *http.Request {
	out := r.Clone(ctx)
	if token == "" {
		out.Header.Del("Authorization")
	} else {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	return out
}

func replayable(r *http.Request) bool {
	return r.Body == nil || r.Body == http.NoBody || r.GetBody != nil
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
