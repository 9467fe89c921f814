package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestSigner_SignAndParse(t *testing.T) {
	t.Parallel()

	issued := time.Unix(1_700_000_000, 0)
	signer := NewSigner(testSecret, "rtcc-test")

	token, err := signer.Sign("42", "jdoe", "detective", issued, 15*time.Minute)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := ParseClaims(token)
	if err != nil {
		t.Fatalf("ParseClaims failed: %v", err)
	}
	if claims.Sub != "42" {
		t.Errorf("Sub: got %q, want %q", claims.Sub, "42")
	}
	if claims.Username != "jdoe" {
		t.Errorf("Username: got %q, want %q", claims.Username, "jdoe")
	}
	if claims.Role != "detective" {
		t.Errorf("Role: got %q, want %q", claims.Role, "detective")
	}
	if claims.Iat != issued.Unix() {
		t.Errorf("Iat: got %d, want %d", claims.Iat, issued.Unix())
	}
	if claims.Exp != issued.Add(15*time.Minute).Unix() {
		t.Errorf("Exp: got %d, want %d", claims.Exp, issued.Add(15*time.Minute).Unix())
	}
}

func TestParseClaims_IgnoresSignature(t *testing.T) {
	t.Parallel()

	token, err := NewSigner("some-other-secret-that-nobody-shares!", "other").
		Sign("7", "analyst1", "analyst", time.Now(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseClaims(token); err != nil {
		t.Fatalf("ParseClaims should not verify signatures: %v", err)
	}
}

func TestParseClaims_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-jwt", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"} {
		if _, err := ParseClaims(tok); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("ParseClaims(%q) error = %v, want ErrMalformedToken", tok, err)
		}
	}
}

func TestIsExpired(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)
	signer := NewSigner(testSecret, "rtcc-test")

	valid, _ := signer.Sign("1", "u", "officer", now, time.Minute)
	expired, _ := signer.Sign("1", "u", "officer", now.Add(-time.Hour), 30*time.Minute)

	if IsExpired(valid, now) {
		t.Error("valid token reported expired")
	}
	if !IsExpired(expired, now) {
		t.Error("expired token reported valid")
	}
	if !IsExpired("garbage", now) {
		t.Error("unparsable token must be treated as expired")
	}
}

func TestClaims_ExpiredAt_MillisecondBoundary(t *testing.T) {
	t.Parallel()

	c := &Claims{Exp: 1_700_000_000}
	if c.ExpiredAt(time.UnixMilli(1_700_000_000_000)) {
		t.Error("token is not expired at exactly exp")
	}
	if !c.ExpiredAt(time.UnixMilli(1_700_000_000_001)) {
		t.Error("token must be expired one millisecond after exp")
	}
	if !(&Claims{}).ExpiredAt(time.Unix(0, 0)) {
		t.Error("missing exp must count as expired")
	}
}

func TestLooksLikeJWT(t *testing.T) {
	t.Parallel()

	if !LooksLikeJWT("a.b.c") {
		t.Error("three segments should look like a JWT")
	}
	if LooksLikeJWT("opaque-refresh-token") {
		t.Error("opaque token should not look like a JWT")
	}
}
