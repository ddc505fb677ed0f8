package users

import (
	"time"

	"pet-adoption/internal/ports/auth"
)

// User es una cuenta del portal: adoptante (user) o staff del refugio (admin).
type User struct {
	ID           string
	Name         string
	Email        string // siempre en minúsculas, único
	PasswordHash string
	Role         auth.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}
