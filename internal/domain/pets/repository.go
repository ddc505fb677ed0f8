package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Pet, error)

	// List devuelve la página pedida y el total que matchea el filtro (sin paginar).
	List(ctx context.Context, filter ListFilter) ([]Pet, int, error)
}

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortName   SortOrder = "name"
	SortAge    SortOrder = "age"
	SortFee    SortOrder = "fee"
)

func (s SortOrder) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortName, SortAge, SortFee:
		return true
	}
	return false
}

type ListFilter struct {
	Species     Species
	Breed       string // contains, case-insensitive
	Sex         Sex
	Size        Size
	EnergyLevel EnergyLevel
	Status      Status

	GoodWithKids *bool
	GoodWithPets *bool

	MinAgeMonths *int
	MaxAgeMonths *int

	// Query busca en nombre, raza y descripción.
	Query string

	Sort SortOrder

	Limit  int
	Offset int
}
