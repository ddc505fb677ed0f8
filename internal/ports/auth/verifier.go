package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// RoleResolver devuelve el rol vigente del usuario. El rol del token queda
// congelado al emitirse; el resolver permite que un cambio de rol aplique ya.
type RoleResolver interface {
	CurrentRole(ctx context.Context, userID string) (Role, error)
}
