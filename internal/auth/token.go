// Package auth issues and checks credentials: bcrypt password hashes and
// signed, short-lived bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that must not authenticate a
// request: bad signature, unexpected algorithm, malformed payload, missing
// user_id claim or expiry in the past.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

type accessClaims struct {
	UserID *uint64 `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies access tokens with one shared secret and a
// fixed HMAC algorithm.  There is no rotation and no revocation.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a TokenService.
type Option func(*TokenService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService validates the algorithm and TTL and returns a service.
func NewTokenService(secret, algorithm string, ttl time.Duration, opts ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	s := &TokenService{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for userID that expires after the configured TTL.
func (s *TokenService) Issue(userID uint64) (AccessToken, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := accessClaims{
		UserID: &userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks raw and returns the user id it was issued for.  Every failure
// wraps ErrInvalidToken.
func (s *TokenService) Verify(raw string) (uint64, error) {
	claims := &accessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return 0, ErrInvalidToken
	}
	if claims.UserID == nil {
		return 0, fmt.Errorf("%w: user_id claim missing", ErrInvalidToken)
	}
	return *claims.UserID, nil
}
