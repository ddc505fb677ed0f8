package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"pet-adoption/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSelfDemotion       = errors.New("admins cannot change their own role")
)

const (
	MinPasswordLength = 8
	// bcrypt solo acepta hasta 72 bytes, no runas.
	MaxPasswordBytes  = 72
	defaultBcryptCost = 12
)

type Service struct {
	repo       Repository
	now        func() time.Time
	bcryptCost int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:       repo,
		now:        time.Now,
		bcryptCost: defaultBcryptCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, auth.RoleUser)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role auth.Role) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	if name == "" || !validEmail(email) || len(in.Password) < MinPasswordLength {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) > MaxPasswordBytes {
		return User{}, fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login no distingue "email desconocido" de "password incorrecto".
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CurrentRole lee el rol guardado; las sesiones lo usan en vez del rol firmado en el token.
func (s *Service) CurrentRole(ctx context.Context, userID string) (auth.Role, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// SetRole cambia el rol de targetID. Un admin no puede cambiarse a sí mismo
// (evita quedarse sin admins por accidente).
func (s *Service) SetRole(ctx context.Context, actorID, targetID string, role auth.Role) (User, error) {
	if role != auth.RoleUser && role != auth.RoleAdmin {
		return User{}, ErrInvalidInput
	}
	if strings.TrimSpace(targetID) == "" {
		return User{}, ErrInvalidInput
	}
	if actorID == targetID {
		return User{}, ErrSelfDemotion
	}

	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return User{}, err
	}
	if u.Role == role {
		return u, nil
	}

	u.Role = role
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// EnsureAdmin crea el admin si no existe, o lo promueve si ya existe como user.
// Devuelve created=true solo cuando se creó la cuenta.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (User, bool, error) {
	email := normalizeEmail(in.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == auth.RoleAdmin {
			return existing, false, nil
		}
		existing.Role = auth.RoleAdmin
		existing.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, existing); err != nil {
			return User{}, false, err
		}
		return existing, false, nil
	case errors.Is(err, ErrNotFound):
		u, err := s.create(ctx, in, auth.RoleAdmin)
		if err != nil {
			return User{}, false, err
		}
		return u, true, nil
	default:
		return User{}, false, err
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

var _ auth.RoleResolver = (*Service)(nil)
