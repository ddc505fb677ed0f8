package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const applicationColumns = `
	id, pet_id, user_id, status,
	message, home_type, has_yard, other_pets, experience,
	admin_notes, reviewed_by, reviewed_at,
	created_at, updated_at`

func (r *AdoptionsRepo) Create(ctx context.Context, a adoptions.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_applications (`+applicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		a.ID,
		a.PetID,
		a.UserID,
		string(a.Status),
		a.Message,
		string(a.HomeType),
		a.HasYard,
		a.OtherPets,
		a.Experience,
		a.AdminNotes,
		a.ReviewedBy,
		nullTime(a.ReviewedAt),
		a.CreatedAt,
		a.UpdatedAt,
	)
	switch {
	case isUniqueViolation(err):
		// carrera entre dos submits: lo frena el índice parcial
		return adoptions.ErrDuplicate
	case isForeignKeyViolation(err, "adoption_applications_pet_id_fkey"):
		return pets.ErrNotFound
	}
	return err
}

func (r *AdoptionsRepo) Update(ctx context.Context, a adoptions.Application) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adoption_applications
		SET
			status = $2,
			admin_notes = $3,
			reviewed_by = $4,
			reviewed_at = $5,
			updated_at = $6
		WHERE id = $1
	`,
		a.ID,
		string(a.Status),
		a.AdminNotes,
		a.ReviewedBy,
		nullTime(a.ReviewedAt),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, adoptions.ErrNotFound)
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM adoption_applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	return a, err
}

func (r *AdoptionsRepo) ListByUser(ctx context.Context, userID string) ([]adoptions.Application, error) {
	items, _, err := r.List(ctx, adoptions.ListFilter{UserID: userID, Limit: -1})
	return items, err
}

func (r *AdoptionsRepo) ListByPet(ctx context.Context, petID string, status adoptions.Status) ([]adoptions.Application, error) {
	items, _, err := r.List(ctx, adoptions.ListFilter{PetID: petID, Status: status, Limit: -1})
	return items, err
}

// List: Limit < 0 devuelve todo (sin paginar).
func (r *AdoptionsRepo) List(ctx context.Context, f adoptions.ListFilter) ([]adoptions.Application, int, error) {
	conds := make([]string, 0)
	args := make([]any, 0)
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PetID != "" {
		args = append(args, f.PetID)
		conds = append(conds, fmt.Sprintf("pet_id = $%d", len(args)))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM adoption_applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + applicationColumns + ` FROM adoption_applications` + where + ` ORDER BY created_at DESC, id ASC`
	if f.Limit >= 0 {
		limit := f.Limit
		if limit == 0 {
			limit = adoptions.DefaultPageSize
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]adoptions.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func scanApplication(s rowScanner) (adoptions.Application, error) {
	var a adoptions.Application
	var status, home string
	var reviewedAt sql.NullTime
	if err := s.Scan(
		&a.ID,
		&a.PetID,
		&a.UserID,
		&status,
		&a.Message,
		&home,
		&a.HasYard,
		&a.OtherPets,
		&a.Experience,
		&a.AdminNotes,
		&a.ReviewedBy,
		&reviewedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return adoptions.Application{}, err
	}
	a.Status = adoptions.Status(status)
	a.HomeType = adoptions.HomeType(home)
	a.ReviewedAt = timePtr(reviewedAt)
	return a, nil
}
