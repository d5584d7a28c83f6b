package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("token_invalid")
	ErrTokenExpired = errors.New("token_expired")
)

// Claims are the JWT claims issued by the identity provider.
type Claims struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	BPCode string `json:"bp_code,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken validates a bearer token and returns the acting user.
func ParseToken(raw, secret string) (Actor, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Actor{}, ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Actor{}, ErrTokenExpired
		}
		return Actor{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Actor{}, ErrTokenInvalid
	}

	return Actor{
		UserID: claims.Subject,
		Name:   claims.Name,
		Role:   Role(claims.Role),
		BPCode: claims.BPCode,
	}, nil
}

// IssueToken signs a token for the given actor, used by tests and tooling.
func IssueToken(a Actor, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:   a.Name,
		Role:   string(a.Role),
		BPCode: a.BPCode,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
