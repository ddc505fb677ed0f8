package quiz

import "context"

type Repository interface {
	Create(ctx context.Context, q Quiz) error
	GetByID(ctx context.Context, id string) (Quiz, error)
	GetActive(ctx context.Context) (Quiz, error)
	List(ctx context.Context) ([]Quiz, error)

	// SetActive activa id y desactiva el resto en una sola operación.
	SetActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error

	CreateResponse(ctx context.Context, r Response) error
	ListResponsesByUser(ctx context.Context, userID string) ([]Response, error)
}
