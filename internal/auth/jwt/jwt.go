package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/secugard/secugard/internal/apiserver/database"
)

// minSecretLen guards against HS256 secrets short enough to brute force.
const minSecretLen = 32

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token has expired")
	ErrWeakSecret      = errors.New("secret key must be at least 32 characters")
	ErrInvalidLifetime = errors.New("token lifetime must be positive")
)

// Claims ties a session token to a back-office account. The role travels
// in the token so permission checks do not need a user lookup per request.
type Claims struct {
	UserID   uint              `json:"user_id"`
	Username string            `json:"username"`
	Role     database.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates the HS256 session tokens of the API.
type Service struct {
	secret   []byte
	lifetime time.Duration
}

func NewService(secret string, lifetime time.Duration) (*Service, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if lifetime <= 0 {
		return nil, ErrInvalidLifetime
	}
	return &Service{secret: []byte(secret), lifetime: lifetime}, nil
}

// Issue creates a token for the given account.
func (s *Service) Issue(user *database.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses a token and returns its claims. Tokens signed with any
// method other than HMAC are rejected outright.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
