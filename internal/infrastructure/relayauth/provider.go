// Package relayauth authenticates the gateway relay to the bot. The relay
// signs short-lived HS256 tokens with a shared secret; anything else posted
// to the event endpoint is rejected before a payload is even decoded.
package relayauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the relay token payload.
type Claims struct {
	RelayID string `json:"relay_id"`
	jwt.RegisteredClaims
}

// Provider signs and verifies relay tokens.
type Provider struct {
	secret []byte
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.GatewaySecret == "" {
		return nil, fmt.Errorf("gateway shared secret not set")
	}
	return &Provider{secret: []byte(cfg.GatewaySecret)}, nil
}

// Sign issues a relay token. The bot only verifies in production; signing
// exists for the relay side of local deployments and for tests.
func (p *Provider) Sign(relayID string, ttl time.Duration) (string, error) {
	claims := Claims{
		RelayID: relayID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// Verify parses and validates a relay token.
func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
