// Package token implements the signed session token carried in the
// session cookie. Tokens are HS256 JWTs with the user's identity claims.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TTL is how long an issued session token stays valid.
const TTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned by Verify for malformed, tampered or
// expired tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the identity claims embedded in a session token.
type Claims struct {
	Email  string
	UserID uint
}

// Service issues and verifies session tokens signed with a shared secret.
type Service struct {
	secret []byte
}

// NewService creates a token Service with the given signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// Issue produces a signed token embedding the user's email and ID.
func (s *Service) Issue(email string, userID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"iss":   "scribe",
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   now.Add(TTL).Unix(),
		"jti":   uuid.New().String(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify validates the token signature and returns the embedded claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, ok := mapClaims["email"].(string)
	if !ok || email == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{Email: email, UserID: uint(userID)}, nil
}
