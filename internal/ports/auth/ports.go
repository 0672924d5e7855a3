package auth

import (
	"context"
	"time"
)

// TokenVerifier verifica un token y devuelve claims o error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer firma un token para los claims dados.
// Devuelve el token y su fecha de expiración.
type TokenIssuer interface {
	Issue(ctx context.Context, claims Claims) (string, time.Time, error)
}
