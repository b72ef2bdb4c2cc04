package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filedrive/internal/platform/config"
)

// Claims carried by the external identity provider's bearer tokens.
// Subject is the stable token identifier used to key local user records.
type Claims struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) TokenIdentifier() string {
	return c.Subject
}

type TokenService struct {
	config config.IdentityConfig
}

func NewTokenService(cfg config.IdentityConfig) *TokenService {
	return &TokenService{config: cfg}
}

// ValidateToken checks the signature and expiry of a provider token.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, errors.New("unexpected token issuer")
	}

	return claims, nil
}

// MintToken issues a token the way the provider would. Used by local
// development and tests; production tokens come from the provider.
func (s *TokenService) MintToken(tokenIdentifier, name, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenIdentifier,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.config.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
