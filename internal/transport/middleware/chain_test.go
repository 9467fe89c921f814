package middleware

import (
	"net/http"
	"testing"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
				order = append(order, name+"-before")
				resp, err := next.RoundTrip(r)
				order = append(order, name+"-after")
				return resp, err
			})
		}
	}

	final := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		order = append(order, "transport")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	req, _ := http.NewRequest(http.MethodGet, "http://rtcc.test/", nil)
	if _, err := Chain(mw("mw1"), mw("mw2"))(final).RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	expected := []string{"mw1-before", "mw2-before", "transport", "mw2-after", "mw1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("order[%d] = %s, want %s", i, order[i], v)
		}
	}
}

func TestChain_Empty(t *testing.T) {
	called := false
	final := RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
	})

	req, _ := http.NewRequest(http.MethodGet, "http://rtcc.test/", nil)
	resp, err := Chain()(final).RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if !called {
		t.Error("expected transport to be called")
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestClient_DefaultTransport(t *testing.T) {
	c := Client(nil)
	if c.Transport != http.DefaultTransport {
		t.Errorf("expected http.DefaultTransport, got %T", c.Transport)
	}
}
