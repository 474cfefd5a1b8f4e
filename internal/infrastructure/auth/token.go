package auth

import (
	"time"

	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jimlawless/whereami"
)

// JWTManager выпускает и проверяет HS256-токены.
// Subject токена — e-mail пользователя.
type JWTManager struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTManager(cfg *cfg.AuthCfg) *JWTManager {
	return &JWTManager{
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
	}
}

func (m *JWTManager) Issue(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return signed, nil
}

// ParseSubject проверяет подпись и срок действия и возвращает subject.
// Любой сбой проверки сводится к e.ErrUnauthorized, чтобы не раскрывать причину.
func (m *JWTManager) ParseSubject(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, e.ErrUnauthorized
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", e.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", e.ErrUnauthorized
	}

	return claims.Subject, nil
}
