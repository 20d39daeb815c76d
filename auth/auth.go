// Package auth binds the AuthProvider capability to JWT session tokens
// issued by the external auth backend. Login flows (magic link, OAuth, admin
// credentials) live entirely on that backend; this side only verifies the
// shared-secret signature and tracks logged-out tokens.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/dgrijalva/jwt-go"

	"fooddash/storefront"
)

// Claims are the session claims the auth backend signs into its tokens.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

type Provider struct {
	secret []byte

	mu      sync.RWMutex
	revoked map[string]struct{}
}

func New(secret string) *Provider {
	return &Provider{
		secret:  []byte(secret),
		revoked: make(map[string]struct{}),
	}
}

// CheckSession validates a token. A missing, malformed, expired or revoked
// token is not an error, just an unauthenticated session.
func (p *Provider) CheckSession(ctx context.Context, token string) (storefront.AuthSession, error) {
	if token == "" {
		return storefront.AuthSession{}, nil
	}

	p.mu.RLock()
	_, dropped := p.revoked[token]
	p.mu.RUnlock()
	if dropped {
		return storefront.AuthSession{}, nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return storefront.AuthSession{}, nil
	}

	return storefront.AuthSession{
		Authenticated: true,
		Role:          claims.Role,
		Name:          claims.Name,
		Email:         claims.Email,
	}, nil
}

// Logout drops the token so later CheckSession calls see it unauthenticated.
func (p *Provider) Logout(ctx context.Context, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[token] = struct{}{}
	return nil
}
