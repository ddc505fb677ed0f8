package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=8"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

func TestStruct_OK(t *testing.T) {
	assert.Nil(t, Struct(signup{Name: "Ana", Email: "ana@example.com", Password: "12345678"}))
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	got := Struct(signup{Email: "nope", Password: "123", Role: "root"})

	assert.Equal(t, "is required", got["name"])
	assert.Equal(t, "must be a valid email", got["email"])
	assert.Equal(t, "must be at least 8", got["password"])
	assert.Equal(t, "must be one of: user admin", got["role"])
}
