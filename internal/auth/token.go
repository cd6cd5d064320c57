// Package auth выпускает и проверяет JWT локальных клиентов демона.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL — время жизни токена клиента.
const TokenTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims — утверждения токена. Subject — идентификатор клиента (cli, extension, ...).
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken подписывает HS256-токен для клиента clientID.
func IssueToken(clientID, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("empty auth secret")
	}
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок действия, возвращает идентификатор клиента.
func ParseToken(token, secret string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
