package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/yanews/internal/models"
)

// accessClaims: sub — id пользователя, jti — ключ для отзыва при logout.
type accessClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// generateAccessToken подписывает HS256-токен для пользователя.
func (s *Service) generateAccessToken(id models.Identity, now time.Time) (*models.Token, error) {
	const op = "auth.token.generateAccessToken"

	expiresAt := now.Add(s.cfg.TokenTTL)
	claims := accessClaims{
		Name: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   id.UserID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Token{AccessToken: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

// parseAccessToken проверяет подпись, issuer и срок действия.
func (s *Service) parseAccessToken(tokenStr string) (*accessClaims, error) {
	const op = "auth.token.parseAccessToken"

	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}
