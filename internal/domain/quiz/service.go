package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("quiz not found")
	ErrNoActive     = errors.New("no active quiz")
)

// PetSource entrega el set de mascotas a rankear.
type PetSource interface {
	ListAvailable(ctx context.Context) ([]pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetSource
	now  func() time.Time
}

func NewService(repo Repository, petSource PetSource) *Service {
	return &Service{
		repo: repo,
		pets: petSource,
		now:  time.Now,
	}
}

type OptionInput struct {
	Text    string
	Weights map[string]int
}

type QuestionInput struct {
	Text    string
	Options []OptionInput
}

type CreateInput struct {
	Title       string
	Description string
	Questions   []QuestionInput
}

// Create guarda un quiz nuevo. Si todavía no hay ninguno activo, queda activo.
func (s *Service) Create(ctx context.Context, in CreateInput) (Quiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Quiz{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(in.Questions) == 0 {
		return Quiz{}, fmt.Errorf("%w: at least one question is required", ErrInvalidInput)
	}

	now := s.now()
	q := Quiz{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Questions:   make([]Question, 0, len(in.Questions)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, qi := range in.Questions {
		text := strings.TrimSpace(qi.Text)
		if text == "" {
			return Quiz{}, fmt.Errorf("%w: question %d has no text", ErrInvalidInput, i+1)
		}
		if len(qi.Options) < 2 {
			return Quiz{}, fmt.Errorf("%w: question %d needs at least two options", ErrInvalidInput, i+1)
		}

		question := Question{
			ID:       uuid.NewString(),
			Text:     text,
			Position: i + 1,
			Options:  make([]Option, 0, len(qi.Options)),
		}
		for j, oi := range qi.Options {
			otext := strings.TrimSpace(oi.Text)
			if otext == "" {
				return Quiz{}, fmt.Errorf("%w: question %d option %d has no text", ErrInvalidInput, i+1, j+1)
			}
			weights := make(map[string]int, len(oi.Weights))
			for tag, w := range oi.Weights {
				tag = strings.ToLower(strings.TrimSpace(tag))
				if !pets.KnownTag(tag) {
					return Quiz{}, fmt.Errorf("%w: unknown tag %q", ErrInvalidInput, tag)
				}
				// "Species:dog" y "species:dog" son el mismo tag
				if _, dup := weights[tag]; dup {
					return Quiz{}, fmt.Errorf("%w: question %d option %d repeats tag %q", ErrInvalidInput, i+1, j+1, tag)
				}
				weights[tag] = w
			}
			question.Options = append(question.Options, Option{
				ID:       uuid.NewString(),
				Text:     otext,
				Position: j + 1,
				Weights:  weights,
			})
		}
		q.Questions = append(q.Questions, question)
	}

	if _, err := s.repo.GetActive(ctx); errors.Is(err, ErrNotFound) {
		q.Active = true
	} else if err != nil {
		return Quiz{}, err
	}

	if err := s.repo.Create(ctx, q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

func (s *Service) GetActive(ctx context.Context) (Quiz, error) {
	q, err := s.repo.GetActive(ctx)
	if errors.Is(err, ErrNotFound) {
		return Quiz{}, ErrNoActive
	}
	return q, err
}

func (s *Service) GetByID(ctx context.Context, id string) (Quiz, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Quiz{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Quiz, error) {
	return s.repo.List(ctx)
}

func (s *Service) Activate(ctx context.Context, id string) (Quiz, error) {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	if err := s.repo.SetActive(ctx, q.ID); err != nil {
		return Quiz{}, err
	}
	q.Active = true
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	q, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, q.ID)
}

// Submit puntúa las respuestas contra las mascotas available.
// Con userID vacío (anónimo) no se guarda nada y Response.ID queda vacío.
func (s *Service) Submit(ctx context.Context, quizID, userID string, answers []Answer, limit int) (Response, error) {
	q, err := s.GetByID(ctx, quizID)
	if err != nil {
		return Response{}, err
	}

	selected, normalized, err := selectOptions(q, answers)
	if err != nil {
		return Response{}, err
	}

	candidates, err := s.pets.ListAvailable(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("list pets: %w", err)
	}

	resp := Response{
		QuizID:    q.ID,
		UserID:    strings.TrimSpace(userID),
		Answers:   normalized,
		Results:   Rank(candidates, selected, limit),
		CreatedAt: s.now(),
	}

	if resp.UserID == "" {
		return resp, nil
	}

	resp.ID = uuid.NewString()
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

func (s *Service) ListMyResponses(ctx context.Context, userID string) ([]Response, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListResponsesByUser(ctx, userID)
}

// selectOptions valida una respuesta por pregunta (todas respondidas) y
// devuelve las opciones elegidas en el orden de las preguntas.
func selectOptions(q Quiz, answers []Answer) ([]Option, []Answer, error) {
	chosen := make(map[string]string, len(answers))
	for _, a := range answers {
		qid := strings.TrimSpace(a.QuestionID)
		oid := strings.TrimSpace(a.OptionID)

		question, ok := q.question(qid)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown question %q", ErrInvalidInput, qid)
		}
		if _, dup := chosen[qid]; dup {
			return nil, nil, fmt.Errorf("%w: question %q answered more than once", ErrInvalidInput, qid)
		}
		if _, ok := question.option(oid); !ok {
			return nil, nil, fmt.Errorf("%w: option %q does not belong to question %q", ErrInvalidInput, oid, qid)
		}
		chosen[qid] = oid
	}

	selected := make([]Option, 0, len(q.Questions))
	normalized := make([]Answer, 0, len(q.Questions))
	for _, question := range q.Questions {
		oid, ok := chosen[question.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: question %q is not answered", ErrInvalidInput, question.ID)
		}
		opt, _ := question.option(oid)
		selected = append(selected, opt)
		normalized = append(normalized, Answer{QuestionID: question.ID, OptionID: oid})
	}
	return selected, normalized, nil
}
