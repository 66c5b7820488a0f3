package auth

import (
	"fmt"
	"strings"
)

// TokenDecoder is the part of Manager the gate depends on.
type TokenDecoder interface {
	Decode(token string) (*Claims, error)
}

// Gate authorizes a presented token, optionally requiring a role.
type Gate struct {
	decoder TokenDecoder
}

// NewGate wraps decoder.
func NewGate(decoder TokenDecoder) *Gate {
	return &Gate{decoder: decoder}
}

// Authorize decodes token and checks requiredRole when it is non-empty.
//
// Every decode failure matches ErrUnauthorized and also the precise kind
// (ErrMissingToken, ErrTokenExpired, ErrBadSignature, ErrMalformedToken).
// A valid token with the wrong role fails with ErrForbidden.
func (g *Gate) Authorize(token string, requiredRole string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, ErrMissingToken)
	}
	claims, err := g.decoder.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if requiredRole != "" && claims.Role != requiredRole {
		return nil, fmt.Errorf("%w: role %q, need %q", ErrForbidden, claims.Role, requiredRole)
	}
	return claims, nil
}
