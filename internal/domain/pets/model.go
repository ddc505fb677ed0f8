package pets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Species define las especies que maneja el refugio.
// @Enum dog, cat, rabbit, bird, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesRabbit Species = "rabbit"
	SpeciesBird   Species = "bird"
	SpeciesOther  Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Size es el tamaño adulto estimado.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Status del ciclo de adopción.
// available -> pending (hay solicitud en revisión, opcional) -> adopted
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusAdopted   Status = "adopted"
)

// Pet representa una mascota publicada para adopción.
type Pet struct {
	ID string

	Name        string
	Species     Species
	Breed       string
	Sex         Sex
	AgeMonths   int
	Size        Size
	EnergyLevel EnergyLevel

	GoodWithKids bool
	GoodWithPets bool

	Description string
	AdoptionFee decimal.Decimal
	Status      Status

	// ImageKey es la key en el object storage; ImageURL la URL pública derivada.
	ImageURL string
	ImageKey string

	CreatedBy string // admin que la publicó

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesRabbit, SpeciesBird, SpeciesOther:
		return true
	}
	return false
}

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusAdopted:
		return true
	}
	return false
}
