package adoptions

import "time"

// Status del ciclo de una solicitud.
// pending -> approved | rejected | withdrawn (todos terminales)
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type HomeType string

const (
	HomeHouse     HomeType = "house"
	HomeApartment HomeType = "apartment"
	HomeOther     HomeType = "other"
)

func (h HomeType) Valid() bool {
	switch h {
	case HomeHouse, HomeApartment, HomeOther:
		return true
	}
	return false
}

// Application es la solicitud de adopción de un usuario para una mascota.
type Application struct {
	ID string

	PetID  string
	UserID string

	Status Status

	// Formulario
	Message    string
	HomeType   HomeType
	HasYard    bool
	OtherPets  string
	Experience string

	// Revisión (admin)
	AdminNotes string
	ReviewedBy string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
