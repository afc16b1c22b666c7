package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

// Claims carried by every token the backend signs. Scope distinguishes the
// long-lived identity token ("identity"), the short-lived chat access token
// ("chat"), and the session token ("session") that keys the session store.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email,omitempty"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}

func signToken(userID, email, scope, secret string, ttl time.Duration) (string, error) {
	c := Claims{
		UserID: userID,
		Email:  email,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// MakeIdentityToken signs the token returned by login. Carries uid and email.
func MakeIdentityToken(userID, email, secret string, ttl time.Duration) (string, error) {
	return signToken(userID, email, "identity", secret, ttl)
}

// MakeChatToken signs the short-lived token scoped for collaborator-facing calls.
func MakeChatToken(userID, secret string, ttl time.Duration) (string, error) {
	return signToken(userID, "", "chat", secret, ttl)
}

// MakeSessionToken signs the token used as the primary key into the session store.
func MakeSessionToken(userID, secret string, ttl time.Duration) (string, error) {
	return signToken(userID, "", "session", secret, ttl)
}

// Verifier adapts ParseToken to the middleware's TokenVerifier interface.
type Verifier struct {
	Secret string
}

func (v Verifier) VerifyToken(raw string) (string, error) {
	claims, err := ParseToken(raw, v.Secret)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ParseToken verifies an HMAC-signed token and returns its claims.
func ParseToken(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}
