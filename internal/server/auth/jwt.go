// Package auth issues and verifies the bearer tokens that carry a user id.
// Verification depends only on the token and the signing secret; the user
// store is never consulted.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/ringkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the user id the token is bound to.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenService signs tokens with an HS256 secret supplied at construction.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService returns a TokenService issuing tokens valid for validity.
func NewTokenService(secretKey string, validity time.Duration) *TokenService {
	return &TokenService{
		secret:   []byte(secretKey),
		validity: validity,
		now:      time.Now,
	}
}

// Issue returns a signed token for userID that expires after the configured
// validity window.
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(s.secret)
}

// Verify returns the user id embedded in tokenString. It fails with
// common.ErrTokenExpired once the expiry has passed and with
// common.ErrInvalidToken for anything else: bad signature, wrong algorithm,
// malformed input, missing expiry or missing user id.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. An empty header, another scheme or an empty token yield
// common.ErrTokenMissing.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrTokenMissing
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrTokenMissing
	}

	return token, nil
}
