// Package auth decodes the claims carried by RTCC access and refresh tokens.
//
// Signatures are never verified here: the client trusts the server that
// issued the token and only reads the expiry to decide when to refresh.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMalformedToken is returned when a token payload cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the decoded, unverified payload of an RTCC token.
type Claims struct {
	Sub      string
	Username string
	Role     string
	Exp      int64 // seconds since epoch
	Iat      int64 // seconds since epoch
}

// tokenClaims extends standard JWT claims with the operator's username and role.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

var parser = jwt.NewParser()

// ParseClaims decodes the payload of a JWT without checking its signature.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrMalformedToken)
	}

	var tc tokenClaims
	if _, _, err := parser.ParseUnverified(token, &tc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	c := &Claims{
		Sub:      tc.Subject,
		Username: tc.Username,
		Role:     tc.Role,
	}
	if tc.ExpiresAt != nil {
		c.Exp = tc.ExpiresAt.Unix()
	}
	if tc.IssuedAt != nil {
		c.Iat = tc.IssuedAt.Unix()
	}
	return c, nil
}

// ExpiredAt reports whether the claims are expired at now.
// A missing exp claim counts as expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.Exp == 0 {
		return true
	}
	return c.Exp*1000 < now.UnixMilli()
}

// IsExpired decodes token and reports whether it is expired at now.
// Tokens that cannot be decoded are treated as already expired.
func IsExpired(token string, now time.Time) bool {
	c, err := ParseClaims(token)
	if err != nil {
		return true
	}
	return c.ExpiredAt(now)
}

// LooksLikeJWT reports whether token has the three-segment compact form.
// Opaque refresh tokens do not, and their validity is left to the server.
func LooksLikeJWT(token string) bool {
	dots := 0
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			dots++
		}
	}
	return dots == 2
}

// Signer issues HS256 tokens carrying the claim shape read by ParseClaims.
// It backs development fixtures and fake identity servers.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a Signer. secret should be at least 32 characters.
func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer}
}

// Sign creates a signed token for the given subject valid for ttl from issuedAt.
// A negative ttl produces an already expired token.
func (s *Signer) Sign(sub, username, role string, issuedAt time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		Username: username,
		Role:     role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
