package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims are the claims carried by an access token
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// GenerateToken signs an HS256 access token valid for ttl
func GenerateToken(claims TokenClaims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID.String(),
		"sub":     claims.UserID.String(),
		"email":   claims.Email,
		"role":    claims.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenStr and extracts its claims. The user id is read
// from user_id, falling back to sub.
func ParseToken(tokenStr, secret string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	raw, _ := mc["user_id"].(string)
	if raw == "" {
		raw, _ = mc["sub"].(string)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return TokenClaims{}, ErrInvalidToken
	}

	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)
	return TokenClaims{UserID: id, Email: email, Role: role}, nil
}
