package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("application not found")
	ErrBadState     = errors.New("application is not pending")
	ErrDuplicate    = errors.New("you already have a pending application for this pet")
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	autoRejectNote = "Another application for this pet was approved."

	// Tope por notificación; corre fuera del request.
	notifyTimeout = 30 * time.Second
)

// PetDirectory es lo que adopciones necesita del módulo de mascotas.
type PetDirectory interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	SetStatus(ctx context.Context, id string, status pets.Status) (pets.Pet, error)
}

type Service struct {
	repo     Repository
	pets     PetDirectory
	notifier Notifier
	log      logger.Logger
	now      func() time.Time

	notifying sync.WaitGroup
}

func NewService(repo Repository, petDir PetDirectory, notifier Notifier, log logger.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		pets:     petDir,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type SubmitInput struct {
	Message    string
	HomeType   HomeType
	HasYard    bool
	OtherPets  string
	Experience string
}

// Submit crea una solicitud pending. Errores de mascota: pets.ErrNotFound / pets.ErrNotAvailable.
func (s *Service) Submit(ctx context.Context, userID, petID string, in SubmitInput) (Application, error) {
	userID = strings.TrimSpace(userID)
	petID = strings.TrimSpace(petID)
	if userID == "" || petID == "" {
		return Application{}, ErrInvalidInput
	}

	home := in.HomeType
	if home == "" {
		home = HomeOther
	}
	if !home.Valid() {
		return Application{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Application{}, err
	}
	if pet.Status != pets.StatusAvailable {
		return Application{}, pets.ErrNotAvailable
	}

	pending, err := s.repo.ListByPet(ctx, petID, StatusPending)
	if err != nil {
		return Application{}, err
	}
	for _, a := range pending {
		if a.UserID == userID {
			return Application{}, ErrDuplicate
		}
	}

	now := s.now()
	a := Application{
		ID:         uuid.NewString(),
		PetID:      petID,
		UserID:     userID,
		Status:     StatusPending,
		Message:    strings.TrimSpace(in.Message),
		HomeType:   home,
		HasYard:    in.HasYard,
		OtherPets:  strings.TrimSpace(in.OtherPets),
		Experience: strings.TrimSpace(in.Experience),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID)
}

type Page struct {
	Items      []Application
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// List es la vista admin.
func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int) (Page, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return Page{}, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
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

// Get: solo el dueño de la solicitud o un admin.
func (s *Service) Get(ctx context.Context, viewerID string, isAdmin bool, id string) (Application, error) {
	a, err := s.getByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if !isAdmin && a.UserID != viewerID {
		return Application{}, ErrForbidden
	}
	return a, nil
}

// Review aprueba o rechaza una solicitud pending.
// Al aprobar: la mascota pasa a adopted y el resto de solicitudes pending de esa mascota se rechazan.
func (s *Service) Review(ctx context.Context, adminID, id string, decision Status, notes string) (Application, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return Application{}, ErrInvalidInput
	}
	if decision != StatusApproved && decision != StatusRejected {
		return Application{}, ErrInvalidInput
	}

	a, err := s.getByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if a.Status != StatusPending {
		return Application{}, ErrBadState
	}

	pet, err := s.pets.GetByID(ctx, a.PetID)
	if err != nil {
		return Application{}, err
	}
	if decision == StatusApproved && pet.Status == pets.StatusAdopted {
		return Application{}, pets.ErrNotAvailable
	}

	now := s.now()
	a.Status = decision
	a.AdminNotes = strings.TrimSpace(notes)
	a.ReviewedBy = adminID
	a.ReviewedAt = &now
	a.UpdatedAt = now

	if err := s.repo.Update(ctx, a); err != nil {
		return Application{}, err
	}

	// Lo ya persistido se notifica aunque falle un paso posterior.
	decisions := []Decision{toDecision(a, pet.Name)}
	defer func() { s.dispatch(ctx, decisions) }()

	if decision != StatusApproved {
		return a, nil
	}

	if _, err := s.pets.SetStatus(ctx, pet.ID, pets.StatusAdopted); err != nil {
		return Application{}, fmt.Errorf("mark pet adopted: %w", err)
	}

	others, err := s.repo.ListByPet(ctx, pet.ID, StatusPending)
	if err != nil {
		return Application{}, err
	}
	rejected := 0
	for _, o := range others {
		if o.ID == a.ID {
			continue
		}
		o.Status = StatusRejected
		o.AdminNotes = autoRejectNote
		o.ReviewedBy = adminID
		o.ReviewedAt = &now
		o.UpdatedAt = now
		if err := s.repo.Update(ctx, o); err != nil {
			return Application{}, fmt.Errorf("auto-reject %s: %w", o.ID, err)
		}
		decisions = append(decisions, toDecision(o, pet.Name))
		rejected++
	}

	s.log.Info("adoption approved", map[string]any{
		"application_id": a.ID,
		"pet_id":         pet.ID,
		"auto_rejected":  rejected,
	})
	return a, nil
}

// Withdraw: el solicitante cancela su propia solicitud mientras siga pending.
func (s *Service) Withdraw(ctx context.Context, userID, id string) (Application, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Application{}, ErrInvalidInput
	}

	a, err := s.getByID(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if a.UserID != userID {
		return Application{}, ErrForbidden
	}
	if a.Status != StatusPending {
		return Application{}, ErrBadState
	}

	a.Status = StatusWithdrawn
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) getByID(ctx context.Context, id string) (Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Application{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// dispatch manda las notificaciones en segundo plano, en orden. Un webhook
// lento o caído no demora ni falla la revisión.
func (s *Service) dispatch(ctx context.Context, decisions []Decision) {
	if len(decisions) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.notifying.Add(1)
	go func() {
		defer s.notifying.Done()
		for _, d := range decisions {
			nctx, cancel := context.WithTimeout(ctx, notifyTimeout)
			err := s.notifier.Notify(nctx, d)
			cancel()
			if err != nil {
				s.log.Warn("adoption notify failed", map[string]any{"application_id": d.ApplicationID, "err": err})
			}
		}
	}()
}

// WaitNotifications bloquea hasta que terminen las notificaciones en curso.
func (s *Service) WaitNotifications() {
	s.notifying.Wait()
}

func toDecision(a Application, petName string) Decision {
	return Decision{
		ApplicationID: a.ID,
		PetID:         a.PetID,
		PetName:       petName,
		UserID:        a.UserID,
		Status:        a.Status,
		Notes:         a.AdminNotes,
	}
}
