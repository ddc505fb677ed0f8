package adoptions

import "context"

type Repository interface {
	Create(ctx context.Context, a Application) error
	Update(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id string) (Application, error)

	ListByUser(ctx context.Context, userID string) ([]Application, error)
	ListByPet(ctx context.Context, petID string, status Status) ([]Application, error)

	// List (admin) devuelve la página y el total sin paginar. Orden: más nuevas primero.
	List(ctx context.Context, filter ListFilter) ([]Application, int, error)
}

type ListFilter struct {
	Status Status
	PetID  string
	UserID string

	Limit  int
	Offset int
}
