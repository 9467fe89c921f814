package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/pkg/ctxutil"
)

//go:generate moq -out token_source_mock_test.go -pkg middleware . tokenSource
//go:generate moq -out login_redirector_mock_test.go -pkg middleware . loginRedirector

type hit struct {
	auth string
	body string
}

// protectedServer answers 200 only for the bearer token it currently accepts.
type protectedServer struct {
	*httptest.Server
	mu    sync.Mutex
	valid string
	hits  []hit
}

func newProtectedServer(t *testing.T, valid string) *protectedServer {
	t.Helper()
	ps := &protectedServer{valid: valid}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ps.mu.Lock()
		ps.hits = append(ps.hits, hit{auth: r.Header.Get("Authorization"), body: string(body)})
		ok := ps.valid != "" && r.Header.Get("Authorization") == "Bearer "+ps.valid
		ps.mu.Unlock()
		if !ok {
			http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *protectedServer) Hits() []hit {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return append([]hit(nil), ps.hits...)
}

// rotatingSource hands out current until a refresh succeeds, then next.
func rotatingSource(current, next string, refreshOK bool) *tokenSourceMock {
	var mu sync.Mutex
	tok := current
	return &tokenSourceMock{
		AccessTokenFunc: func() string {
			mu.Lock()
			defer mu.Unlock()
			return tok
		},
		RefreshIfStaleFunc: func(context.Context, string) (bool, error) {
			if !refreshOK {
				return false, nil
			}
			mu.Lock()
			tok = next
			mu.Unlock()
			return true, nil
		},
	}
}

func noRedirect(t *testing.T) *loginRedirectorMock {
	return &loginRedirectorMock{
		RedirectToLoginFunc: func(context.Context) { t.Error("unexpected login redirect") },
	}
}

func TestAuth_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-1")
	source := rotatingSource("tok-1", "", false)
	client := Client(nil, Auth(source, noRedirect(t)))

	resp, err := client.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if got := srv.Hits()[0].auth; got != "Bearer tok-1" {
		t.Errorf("Authorization: got %q", got)
	}
}

func TestAuth_NoTokenSendsAnonymous(t *testing.T) {
	t.Parallel()

	gotAuth := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth <- r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	source := rotatingSource("", "", false)
	client := Client(nil, Auth(source, nil))

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", "Bearer stale-from-caller")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if got := <-gotAuth; got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

func TestAuth_RefreshesAndReplaysOnce(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-2")
	source := rotatingSource("tok-1", "tok-2", true)
	client := Client(nil, Auth(source, noRedirect(t)))

	payload := `{"event_id":"evt-1"}`
	resp, err := client.Post(srv.URL+"/api/events/evt-1/ack", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	hits := srv.Hits()
	if len(hits) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(hits))
	}
	if hits[0].auth != "Bearer tok-1" || hits[1].auth != "Bearer tok-2" {
		t.Errorf("Authorization headers: got %q then %q", hits[0].auth, hits[1].auth)
	}
	if hits[1].body != payload {
		t.Errorf("replayed body: got %q, want %q", hits[1].body, payload)
	}

	calls := source.RefreshIfStaleCalls()
	if len(calls) != 1 || calls[0].FailedToken != "tok-1" {
		t.Errorf("RefreshIfStale calls: %+v", calls)
	}
}

func TestAuth_NeverRetriesTwice(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "")
	source := rotatingSource("tok-1", "tok-2", true)
	client := Client(nil, Auth(source, noRedirect(t)))

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	if n := len(srv.Hits()); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
	if n := len(source.RefreshIfStaleCalls()); n != 1 {
		t.Errorf("expected 1 refresh, got %d", n)
	}
}

func TestAuth_RefreshFailureReturnsOriginal401(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-2")
	source := rotatingSource("tok-1", "", false)
	redirect := &loginRedirectorMock{RedirectToLoginFunc: func(context.Context) {}}
	client := Client(nil, Auth(source, redirect))

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	if !strings.Contains(string(body), "token expired") {
		t.Errorf("expected the original response body, got %q", body)
	}
	if n := len(srv.Hits()); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
	if n := len(redirect.RedirectToLoginCalls()); n != 1 {
		t.Errorf("expected 1 login redirect, got %d", n)
	}
}

func TestAuth_CallerTimeoutDuringRefreshDoesNotRedirect(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-2")
	source := &tokenSourceMock{
		AccessTokenFunc: func() string { return "tok-1" },
		RefreshIfStaleFunc: func(ctx context.Context, _ string) (bool, error) {
			<-ctx.Done()
			return false, ctx.Err()
		},
	}
	client := Client(nil, Auth(source, noRedirect(t)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)

	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
		t.Fatalf("expected an error, got status %d", resp.StatusCode)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected %v, got %v", context.DeadlineExceeded, err)
	}
	if n := len(srv.Hits()); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
}

func TestAuth_ReplayedRequestIsNotRetried(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-2")
	source := rotatingSource("tok-1", "tok-2", true)
	client := Client(nil, Auth(source, noRedirect(t)))

	ctx := ctxutil.WithRetryCount(context.Background(), 1)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	if len(source.RefreshIfStaleCalls()) != 0 {
		t.Error("RefreshIfStale should not be called for a replayed request")
	}
}

func TestAuth_UnreplayableBodyIsNotRetried(t *testing.T) {
	t.Parallel()

	srv := newProtectedServer(t, "tok-2")
	source := rotatingSource("tok-1", "tok-2", true)
	client := Client(nil, Auth(source, noRedirect(t)))

	body := io.NopCloser(strings.NewReader("streamed"))
	req, _ := http.NewRequest(http.MethodPost, srv.URL, body)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, resp.StatusCode)
	}
	if len(source.RefreshIfStaleCalls()) != 0 {
		t.Error("RefreshIfStale should not be called for a body that cannot be replayed")
	}
}

func TestAuth_OtherStatusesPassThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	source := rotatingSource("tok-1", "tok-2", true)
	client := Client(nil, Auth(source, noRedirect(t)))

	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, resp.StatusCode)
	}
	if len(source.RefreshIfStaleCalls()) != 0 {
		t.Error("RefreshIfStale should only run after a 401")
	}
}
