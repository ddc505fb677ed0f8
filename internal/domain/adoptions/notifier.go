package adoptions

import "context"

// Decision es lo que se notifica cuando una solicitud cambia de estado.
type Decision struct {
	ApplicationID string
	PetID         string
	PetName       string
	UserID        string
	Status        Status
	Notes         string
}

// Notifier recibe las decisiones de revisión. Un error acá nunca falla el request.
type Notifier interface {
	Notify(ctx context.Context, d Decision) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Decision) error { return nil }
