package handler

import (
	"errors"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier проверяет bearer-токены (HS256) и извлекает из них данные пользователя.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier создает проверку токенов. Пустые issuer и audience не проверяются.
func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

type identityClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Nickname  string `json:"nickname"`
	GivenName string `json:"given_name"`
	Picture   string `json:"picture"`
	jwt.RegisteredClaims
}

// Verify проверяет подпись и срок действия токена.
func (v *TokenVerifier) Verify(raw string) (model.Identity, error) {
	if len(v.secret) == 0 {
		return model.Identity{}, errors.New("не задан секрет для проверки токенов")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	var claims identityClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return model.Identity{}, fmt.Errorf("недействительный токен: %w", err)
	}
	if claims.Subject == "" {
		return model.Identity{}, errors.New("в токене нет subject")
	}
	return model.Identity{
		Subject:   claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Nickname:  claims.Nickname,
		GivenName: claims.GivenName,
		Picture:   claims.Picture,
	}, nil
}
