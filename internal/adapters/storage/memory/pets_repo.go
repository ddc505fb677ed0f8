package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pet-adoption/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return pets.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return pets.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	breed := strings.ToLower(strings.TrimSpace(f.Breed))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if f.Species != "" && p.Species != f.Species {
			continue
		}
		if f.Sex != "" && p.Sex != f.Sex {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		if f.EnergyLevel != "" && p.EnergyLevel != f.EnergyLevel {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.GoodWithKids != nil && p.GoodWithKids != *f.GoodWithKids {
			continue
		}
		if f.GoodWithPets != nil && p.GoodWithPets != *f.GoodWithPets {
			continue
		}
		if f.MinAgeMonths != nil && p.AgeMonths < *f.MinAgeMonths {
			continue
		}
		if f.MaxAgeMonths != nil && p.AgeMonths > *f.MaxAgeMonths {
			continue
		}
		if breed != "" && !strings.Contains(strings.ToLower(p.Breed), breed) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		out = append(out, p)
	}

	sortPets(out, f.Sort)

	total := len(out)
	if f.Offset >= total {
		return []pets.Pet{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return out[f.Offset:end], total, nil
}

func matchesQuery(p pets.Pet, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Breed), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// sortPets replica el ORDER BY del adapter postgres (id como desempate).
func sortPets(items []pets.Pet, order pets.SortOrder) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case pets.SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case pets.SortName:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		case pets.SortAge:
			if a.AgeMonths != b.AgeMonths {
				return a.AgeMonths < b.AgeMonths
			}
		case pets.SortFee:
			if !a.AdoptionFee.Equal(b.AdoptionFee) {
				return a.AdoptionFee.LessThan(b.AdoptionFee)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}
