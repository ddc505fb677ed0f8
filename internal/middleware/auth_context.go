package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	tokenKey  ctxKey = "session_token"
)

type AuthOptions struct {
	// CookieName de la sesión (default "token").
	CookieName string

	// DevAuth habilita X-Debug-User-ID / X-Debug-User-Role (tests, dev local).
	DevAuth bool

	// Roles, si viene, reemplaza el rol del token por el rol actual del usuario.
	Roles auth.RoleResolver
}

// AuthContext:
// - Lee el token desde la cookie de sesión; si no hay, desde Authorization: Bearer.
// - Si verifier != nil y hay token => intenta Verify() y setea claims.
// - Con opts.Roles, el rol sale del usuario actual y no del token.
// - Si DevAuth y viene X-Debug-User-ID => setea claims sin token.
// - Si no hay claims, el request sigue igual; los handlers/RequireAuth deciden 401/403.
func AuthContext(verifier auth.AuthVerifier, opts AuthOptions) func(http.Handler) http.Handler {
	cookieName := strings.TrimSpace(opts.CookieName)
	if cookieName == "" {
		cookieName = "token"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.DevAuth {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					role := auth.Role(strings.ToLower(strings.TrimSpace(r.Header.Get("X-Debug-User-Role"))))
					if role != auth.RoleAdmin {
						role = auth.RoleUser
					}
					claims := auth.Claims{UserID: uid, Role: role}
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}

			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí. El handler decide 401/403.
				next.ServeHTTP(w, r)
				return
			}

			if opts.Roles != nil {
				role, err := opts.Roles.CurrentRole(r.Context(), claims.UserID)
				if err != nil {
					// usuario borrado o lookup fallido: la sesión no autentica
					next.ServeHTTP(w, r)
					return
				}
				claims.Role = role
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return auth.Claims{}, false
	}
	return c, true
}

// SessionToken devuelve el token crudo que autenticó el request (para logout).
func SessionToken(ctx context.Context) string {
	v, _ := ctx.Value(tokenKey).(string)
	return v
}

// RequireAuth corta con 401 si no hay claims.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetClaims(r.Context()); !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin corta con 401 sin sesión y 403 si el rol no es admin.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil {
		if v := strings.TrimSpace(c.Value); v != "" {
			return v
		}
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
