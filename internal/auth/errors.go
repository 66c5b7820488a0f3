package auth

import "errors"

// Credential failures. Both collapse to ErrInvalidCredentials at the HTTP edge.
var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrBadCredential      = errors.New("auth: bad credential")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrRoleLookupFailed   = errors.New("auth: failed to retrieve user role")
)

// Token failures. Decode returns exactly one of the first three.
var (
	ErrTokenExpired   = errors.New("auth: token has expired")
	ErrBadSignature   = errors.New("auth: invalid token signature")
	ErrMalformedToken = errors.New("auth: malformed token")
	ErrMissingToken   = errors.New("auth: missing token")
)

// Gate outcomes.
var (
	ErrUnauthorized = errors.New("auth: unauthorized")
	ErrForbidden    = errors.New("auth: forbidden")
)
