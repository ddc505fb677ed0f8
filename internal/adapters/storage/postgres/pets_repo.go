package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, name, species, breed, sex,
	age_months, size, energy_level,
	good_with_kids, good_with_pets,
	description, adoption_fee, status,
	image_url, image_key, created_by,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		p.AgeMonths,
		string(p.Size),
		string(p.EnergyLevel),
		p.GoodWithKids,
		p.GoodWithPets,
		p.Description,
		p.AdoptionFee,
		string(p.Status),
		p.ImageURL,
		p.ImageKey,
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			age_months = $6,
			size = $7,
			energy_level = $8,
			good_with_kids = $9,
			good_with_pets = $10,
			description = $11,
			adoption_fee = $12,
			status = $13,
			image_url = $14,
			image_key = $15,
			updated_at = $16
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		p.AgeMonths,
		string(p.Size),
		string(p.EnergyLevel),
		p.GoodWithKids,
		p.GoodWithPets,
		p.Description,
		p.AdoptionFee,
		string(p.Status),
		p.ImageURL,
		p.ImageKey,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, pets.ErrNotFound)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, pets.ErrNotFound)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

var petOrderBy = map[pets.SortOrder]string{
	pets.SortNewest: "created_at DESC, id ASC",
	pets.SortOldest: "created_at ASC, id ASC",
	pets.SortName:   "lower(name) ASC, id ASC",
	pets.SortAge:    "age_months ASC, id ASC",
	pets.SortFee:    "adoption_fee ASC, id ASC",
}

func (r *PetsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, int, error) {
	where, args := buildPetWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy, ok := petOrderBy[f.Sort]
	if !ok {
		orderBy = petOrderBy[pets.SortNewest]
	}

	limit := f.Limit
	if limit <= 0 {
		limit = pets.DefaultPageSize
	}
	argN := len(args) + 1

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + petColumns + ` FROM pets`)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY " + orderBy)
	sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1))
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// buildPetWhere arma el WHERE dinámico con placeholders numerados.
func buildPetWhere(f pets.ListFilter) (string, []any) {
	conds := make([]string, 0)
	args := make([]any, 0)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Species != "" {
		add("species = $%d", string(f.Species))
	}
	if f.Sex != "" {
		add("sex = $%d", string(f.Sex))
	}
	if f.Size != "" {
		add("size = $%d", string(f.Size))
	}
	if f.EnergyLevel != "" {
		add("energy_level = $%d", string(f.EnergyLevel))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.GoodWithKids != nil {
		add("good_with_kids = $%d", *f.GoodWithKids)
	}
	if f.GoodWithPets != nil {
		add("good_with_pets = $%d", *f.GoodWithPets)
	}
	if f.MinAgeMonths != nil {
		add("age_months >= $%d", *f.MinAgeMonths)
	}
	if f.MaxAgeMonths != nil {
		add("age_months <= $%d", *f.MaxAgeMonths)
	}
	if b := strings.TrimSpace(f.Breed); b != "" {
		add("breed ILIKE $%d", "%"+escapeLike(b)+"%")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR breed ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var species, sex, size, energy, status string
	if err := s.Scan(
		&p.ID,
		&p.Name,
		&species,
		&p.Breed,
		&sex,
		&p.AgeMonths,
		&size,
		&energy,
		&p.GoodWithKids,
		&p.GoodWithPets,
		&p.Description,
		&p.AdoptionFee,
		&status,
		&p.ImageURL,
		&p.ImageKey,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	p.Size = pets.Size(size)
	p.EnergyLevel = pets.EnergyLevel(energy)
	p.Status = pets.Status(status)
	return p, nil
}
