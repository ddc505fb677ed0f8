package jwtsession

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/ports/auth"
)

type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite string // lax | strict | none
}

// Cookies guarda el JWT en una cookie HttpOnly. Implementa users.Sessions.
type Cookies struct {
	manager *Manager
	cfg     CookieConfig
}

func NewCookies(m *Manager, cfg CookieConfig) *Cookies {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "token"
	}
	return &Cookies{manager: m, cfg: cfg}
}

func (c *Cookies) Name() string {
	return c.cfg.Name
}

func (c *Cookies) Start(w http.ResponseWriter, userID, email string, role auth.Role) error {
	issued, err := c.manager.Issue(Subject{UserID: userID, Email: email, Role: role})
	if err != nil {
		return err
	}

	http.SetCookie(w, c.cookie(issued.Token, int(c.manager.TTL().Seconds()), issued.ExpiresAt))
	return nil
}

// End limpia la cookie y revoca el jti si había token.
func (c *Cookies) End(ctx context.Context, w http.ResponseWriter, token string) error {
	http.SetCookie(w, c.cookie("", -1, time.Unix(0, 0)))

	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	claims, err := c.manager.Verify(ctx, token)
	if err != nil {
		// Ya inválido/revocado: nada que hacer.
		return nil
	}
	exp, err := c.manager.ExpiresAt(token)
	if err != nil {
		return nil
	}
	return c.manager.Revoke(ctx, claims.TokenID, exp)
}

func (c *Cookies) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.Name,
		Value:    value,
		Path:     "/",
		Domain:   c.cfg.Domain,
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: parseSameSite(c.cfg.SameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
