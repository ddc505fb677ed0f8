package jwtsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrRevokedToken = errors.New("token has been revoked")
	ErrNoSecret     = errors.New("jwt secret not configured")
)

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// sessionClaims es lo que viaja firmado en la cookie.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Subject es lo mínimo que el manager necesita para emitir una sesión.
type Subject struct {
	UserID string
	Email  string
	Role   auth.Role
}

// Issued describe un token recién firmado.
type Issued struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

// Manager emite y verifica tokens HS256. Implementa auth.AuthVerifier.
type Manager struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	blacklist Blacklist
	now       func() time.Time
}

func NewManager(cfg Config, blacklist Blacklist) (*Manager, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrNoSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "pet-adoption"
	}
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &Manager{
		secret:    []byte(cfg.Secret),
		issuer:    issuer,
		ttl:       ttl,
		blacklist: blacklist,
		now:       time.Now,
	}, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(s Subject) (Issued, error) {
	if strings.TrimSpace(s.UserID) == "" {
		return Issued{}, errors.New("jwt: subject user id required")
	}

	now := m.now()
	exp := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    m.issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: s.Email,
		Role:  s.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return Issued{Token: signed, TokenID: jti, ExpiresAt: exp}, nil
}

func (m *Manager) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &sc, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrExpiredToken
		}
		return auth.Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || strings.TrimSpace(sc.Subject) == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	if sc.ID != "" {
		revoked, err := m.blacklist.IsRevoked(ctx, sc.ID)
		if err != nil {
			return auth.Claims{}, fmt.Errorf("jwt: blacklist: %w", err)
		}
		if revoked {
			return auth.Claims{}, ErrRevokedToken
		}
	}

	role := sc.Role
	if role == "" {
		role = auth.RoleUser
	}

	return auth.Claims{
		UserID:  sc.Subject,
		Email:   sc.Email,
		Role:    role,
		TokenID: sc.ID,
	}, nil
}

// Revoke invalida el token hasta que expire naturalmente.
func (m *Manager) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if strings.TrimSpace(tokenID) == "" {
		return nil
	}
	ttl := expiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.blacklist.Revoke(ctx, tokenID, ttl)
}

// ExpiresAt devuelve la expiración de un token ya verificado (para calcular TTL del blacklist).
func (m *Manager) ExpiresAt(token string) (time.Time, error) {
	var sc sessionClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &sc)
	if err != nil || sc.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return sc.ExpiresAt.Time, nil
}

var _ auth.AuthVerifier = (*Manager)(nil)
