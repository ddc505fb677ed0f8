package pets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("pet not found")
	ErrNotAvailable       = errors.New("pet is not available for adoption")
	ErrStorageUnavailable = errors.New("image storage not configured")
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type Service struct {
	repo  Repository
	store storage.ObjectStorage
	log   logger.Logger
	now   func() time.Time
}

// NewService: store puede ser nil (sin upload de imágenes).
func NewService(repo Repository, store storage.ObjectStorage, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:  repo,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name         string
	Species      Species
	Breed        string
	Sex          Sex
	AgeMonths    int
	Size         Size
	EnergyLevel  EnergyLevel
	GoodWithKids bool
	GoodWithPets bool
	Description  string
	AdoptionFee  decimal.Decimal
}

func (s *Service) Create(ctx context.Context, createdBy string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(createdBy) == "" {
		return Pet{}, ErrInvalidInput
	}

	sex := in.Sex
	if sex == "" {
		sex = SexUnknown
	}
	size := in.Size
	if size == "" {
		size = SizeMedium
	}
	energy := in.EnergyLevel
	if energy == "" {
		energy = EnergyMedium
	}

	now := s.now()
	p := Pet{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Species:      in.Species,
		Breed:        strings.TrimSpace(in.Breed),
		Sex:          sex,
		AgeMonths:    in.AgeMonths,
		Size:         size,
		EnergyLevel:  energy,
		GoodWithKids: in.GoodWithKids,
		GoodWithPets: in.GoodWithPets,
		Description:  strings.TrimSpace(in.Description),
		AdoptionFee:  in.AdoptionFee.Round(2),
		Status:       StatusAvailable,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := validatePet(p); err != nil {
		return Pet{}, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// UpdateInput: punteros para PATCH real, nil = no tocar.
type UpdateInput struct {
	Name         *string
	Species      *Species
	Breed        *string
	Sex          *Sex
	AgeMonths    *int
	Size         *Size
	EnergyLevel  *EnergyLevel
	GoodWithKids *bool
	GoodWithPets *bool
	Description  *string
	AdoptionFee  *decimal.Decimal
	Status       *Status
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Species != nil {
		p.Species = *in.Species
	}
	if in.Breed != nil {
		p.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.Sex != nil {
		p.Sex = *in.Sex
	}
	if in.AgeMonths != nil {
		p.AgeMonths = *in.AgeMonths
	}
	if in.Size != nil {
		p.Size = *in.Size
	}
	if in.EnergyLevel != nil {
		p.EnergyLevel = *in.EnergyLevel
	}
	if in.GoodWithKids != nil {
		p.GoodWithKids = *in.GoodWithKids
	}
	if in.GoodWithPets != nil {
		p.GoodWithPets = *in.GoodWithPets
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.AdoptionFee != nil {
		p.AdoptionFee = in.AdoptionFee.Round(2)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}

	if err := validatePet(p); err != nil {
		return Pet{}, err
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// SetStatus lo usa el módulo de adopciones al aprobar una solicitud.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Pet, error) {
	if !status.Valid() {
		return Pet{}, ErrInvalidInput
	}
	return s.Update(ctx, id, UpdateInput{Status: &status})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.deleteObject(ctx, p.ImageKey)
	return nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Page es el resultado paginado de List.
type Page struct {
	Items      []Pet
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// List normaliza paginación (page base 1) y delega el filtrado al repo.
func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if filter.Sort == "" {
		filter.Sort = SortNewest
	}
	if !filter.Sort.Valid() {
		return Page{}, ErrInvalidInput
	}
	if filter.MinAgeMonths != nil && filter.MaxAgeMonths != nil && *filter.MinAgeMonths > *filter.MaxAgeMonths {
		return Page{}, ErrInvalidInput
	}

	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// ListAvailable trae todas las mascotas disponibles (el quiz rankea sobre este set).
func (s *Service) ListAvailable(ctx context.Context) ([]Pet, error) {
	out := make([]Pet, 0)
	page := 1
	for {
		res, err := s.List(ctx, ListFilter{Status: StatusAvailable, Sort: SortOldest}, page, MaxPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
		if page >= res.TotalPages || len(res.Items) == 0 {
			return out, nil
		}
		page++
	}
}

// AttachImage sube la imagen y reemplaza la anterior (que se borra best-effort).
func (s *Service) AttachImage(ctx context.Context, id, filename, contentType string, body io.Reader, size int64) (Pet, error) {
	if s.store == nil {
		return Pet{}, ErrStorageUnavailable
	}

	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	key := fmt.Sprintf("pets/%s/%s%s", p.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.store.Put(ctx, key, contentType, body, size)
	if err != nil {
		return Pet{}, fmt.Errorf("upload image: %w", err)
	}

	previous := p.ImageKey
	p.ImageKey = key
	p.ImageURL = url
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		// No dejar huérfano el objeto recién subido.
		s.deleteObject(ctx, key)
		return Pet{}, err
	}

	s.deleteObject(ctx, previous)
	return p, nil
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if s.store == nil || strings.TrimSpace(key) == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("delete pet image failed", map[string]any{"key": key, "err": err})
	}
}

func validatePet(p Pet) error {
	if p.Name == "" || len(p.Name) > 100 {
		return ErrInvalidInput
	}
	if !p.Species.Valid() || !p.Sex.Valid() || !p.Size.Valid() || !p.EnergyLevel.Valid() || !p.Status.Valid() {
		return ErrInvalidInput
	}
	if p.AgeMonths < 0 || p.AgeMonths > 600 {
		return ErrInvalidInput
	}
	if p.AdoptionFee.IsNegative() {
		return ErrInvalidInput
	}
	return nil
}
