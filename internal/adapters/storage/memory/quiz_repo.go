package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-adoption/internal/domain/quiz"
)

type quizRepo struct {
	mu        sync.RWMutex
	byID      map[string]quiz.Quiz
	responses []quiz.Response
}

func NewQuizRepo() quiz.Repository {
	return &quizRepo{
		byID: make(map[string]quiz.Quiz),
	}
}

func (r *quizRepo) Create(ctx context.Context, q quiz.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if q.ID == "" {
		return errors.New("quiz id required")
	}
	if _, exists := r.byID[q.ID]; exists {
		return errors.New("quiz already exists")
	}
	if q.Active {
		r.deactivateAllLocked()
	}
	r.byID[q.ID] = q
	return nil
}

func (r *quizRepo) GetByID(ctx context.Context, id string) (quiz.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.byID[id]
	if !ok {
		return quiz.Quiz{}, quiz.ErrNotFound
	}
	return q, nil
}

func (r *quizRepo) GetActive(ctx context.Context) (quiz.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.byID {
		if q.Active {
			return q, nil
		}
	}
	return quiz.Quiz{}, quiz.ErrNotFound
}

func (r *quizRepo) List(ctx context.Context) ([]quiz.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiz.Quiz, 0, len(r.byID))
	for _, q := range r.byID {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *quizRepo) SetActive(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.byID[id]
	if !ok {
		return quiz.ErrNotFound
	}
	r.deactivateAllLocked()
	q.Active = true
	r.byID[id] = q
	return nil
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return quiz.ErrNotFound
	}
	delete(r.byID, id)

	// Igual que el ON DELETE CASCADE de postgres.
	kept := r.responses[:0]
	for _, resp := range r.responses {
		if resp.QuizID != id {
			kept = append(kept, resp)
		}
	}
	r.responses = kept
	return nil
}

func (r *quizRepo) CreateResponse(ctx context.Context, resp quiz.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[resp.QuizID]; !ok {
		return quiz.ErrNotFound
	}
	r.responses = append(r.responses, resp)
	return nil
}

func (r *quizRepo) ListResponsesByUser(ctx context.Context, userID string) ([]quiz.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiz.Response, 0)
	for _, resp := range r.responses {
		if resp.UserID == userID {
			out = append(out, resp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *quizRepo) deactivateAllLocked() {
	for k, q := range r.byID {
		if q.Active {
			q.Active = false
			r.byID[k] = q
		}
	}
}
