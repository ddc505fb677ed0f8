package quiz

import "time"

// Quiz es el cuestionario de compatibilidad. Solo uno está activo a la vez.
type Quiz struct {
	ID          string
	Title       string
	Description string
	Active      bool
	Questions   []Question

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Question struct {
	ID       string
	Text     string
	Position int
	Options  []Option
}

// Option suma Weights[tag] a cada mascota que tenga ese tag (ver pets.Tags).
type Option struct {
	ID       string
	Text     string
	Position int
	Weights  map[string]int
}

type Answer struct {
	QuestionID string
	OptionID   string
}

// Match es una mascota rankeada para un set de respuestas.
type Match struct {
	PetID    string
	PetName  string
	Species  string
	ImageURL string
	Score    int
	Percent  int
}

// Response guarda las respuestas y el resultado de un usuario logueado.
type Response struct {
	ID      string
	QuizID  string
	UserID  string
	Answers []Answer
	Results []Match

	CreatedAt time.Time
}

func (q Quiz) question(id string) (Question, bool) {
	for _, qu := range q.Questions {
		if qu.ID == id {
			return qu, true
		}
	}
	return Question{}, false
}

func (q Question) option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
