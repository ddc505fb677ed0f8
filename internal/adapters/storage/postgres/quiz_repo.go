package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"pet-adoption/internal/domain/quiz"
)

type QuizRepo struct {
	db *sql.DB
}

func NewQuizRepo(db *sql.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Formas JSONB. Se versionan con el schema, no con los structs del dominio.
type questionDoc struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Position int         `json:"position"`
	Options  []optionDoc `json:"options"`
}

type optionDoc struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Position int            `json:"position"`
	Weights  map[string]int `json:"weights"`
}

type answerDoc struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type matchDoc struct {
	PetID    string `json:"pet_id"`
	PetName  string `json:"pet_name"`
	Species  string `json:"species"`
	ImageURL string `json:"image_url,omitempty"`
	Score    int    `json:"score"`
	Percent  int    `json:"percent"`
}

const quizColumns = `id, title, description, active, questions, created_at, updated_at`

func (r *QuizRepo) Create(ctx context.Context, q quiz.Quiz) error {
	questions, err := json.Marshal(toQuestionDocs(q.Questions))
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if q.Active {
		if _, err := tx.ExecContext(ctx, `UPDATE quizzes SET active = FALSE WHERE active`); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO quizzes (`+quizColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		q.ID,
		q.Title,
		q.Description,
		q.Active,
		questions,
		q.CreatedAt,
		q.UpdatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *QuizRepo) GetByID(ctx context.Context, id string) (quiz.Quiz, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id)
	return scanQuiz(row)
}

func (r *QuizRepo) GetActive(ctx context.Context) (quiz.Quiz, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE active LIMIT 1`)
	return scanQuiz(row)
}

func (r *QuizRepo) List(ctx context.Context) ([]quiz.Quiz, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quizColumns+` FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]quiz.Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SetActive desactiva el resto y activa id dentro de una transacción
// (el índice único parcial no admite dos activos a la vez).
func (r *QuizRepo) SetActive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE quizzes SET active = FALSE WHERE active AND id <> $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE quizzes SET active = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, quiz.ErrNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *QuizRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, quiz.ErrNotFound)
}

func (r *QuizRepo) CreateResponse(ctx context.Context, resp quiz.Response) error {
	answers := make([]answerDoc, 0, len(resp.Answers))
	for _, a := range resp.Answers {
		answers = append(answers, answerDoc{QuestionID: a.QuestionID, OptionID: a.OptionID})
	}
	results := make([]matchDoc, 0, len(resp.Results))
	for _, m := range resp.Results {
		results = append(results, matchDoc(m))
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO quiz_responses (id, quiz_id, user_id, answers, results, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		resp.ID,
		resp.QuizID,
		resp.UserID,
		answersJSON,
		resultsJSON,
		resp.CreatedAt,
	)
	if isForeignKeyViolation(err, "quiz_responses_quiz_id_fkey") {
		return quiz.ErrNotFound
	}
	return err
}

func (r *QuizRepo) ListResponsesByUser(ctx context.Context, userID string) ([]quiz.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quiz_id, user_id, answers, results, created_at
		FROM quiz_responses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]quiz.Response, 0)
	for rows.Next() {
		var resp quiz.Response
		var answersJSON, resultsJSON []byte
		if err := rows.Scan(&resp.ID, &resp.QuizID, &resp.UserID, &answersJSON, &resultsJSON, &resp.CreatedAt); err != nil {
			return nil, err
		}

		var answers []answerDoc
		if err := json.Unmarshal(answersJSON, &answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		var results []matchDoc
		if err := json.Unmarshal(resultsJSON, &results); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}

		resp.Answers = make([]quiz.Answer, 0, len(answers))
		for _, a := range answers {
			resp.Answers = append(resp.Answers, quiz.Answer{QuestionID: a.QuestionID, OptionID: a.OptionID})
		}
		resp.Results = make([]quiz.Match, 0, len(results))
		for _, m := range results {
			resp.Results = append(resp.Results, quiz.Match(m))
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func scanQuiz(s rowScanner) (quiz.Quiz, error) {
	var q quiz.Quiz
	var questionsJSON []byte
	if err := s.Scan(&q.ID, &q.Title, &q.Description, &q.Active, &questionsJSON, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quiz.ErrNotFound
		}
		return quiz.Quiz{}, err
	}

	var docs []questionDoc
	if err := json.Unmarshal(questionsJSON, &docs); err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode questions: %w", err)
	}
	q.Questions = fromQuestionDocs(docs)
	return q, nil
}

func toQuestionDocs(in []quiz.Question) []questionDoc {
	out := make([]questionDoc, 0, len(in))
	for _, q := range in {
		d := questionDoc{ID: q.ID, Text: q.Text, Position: q.Position, Options: make([]optionDoc, 0, len(q.Options))}
		for _, o := range q.Options {
			d.Options = append(d.Options, optionDoc(o))
		}
		out = append(out, d)
	}
	return out
}

func fromQuestionDocs(in []questionDoc) []quiz.Question {
	out := make([]quiz.Question, 0, len(in))
	for _, d := range in {
		q := quiz.Question{ID: d.ID, Text: d.Text, Position: d.Position, Options: make([]quiz.Option, 0, len(d.Options))}
		for _, o := range d.Options {
			q.Options = append(q.Options, quiz.Option(o))
		}
		out = append(out, q)
	}
	return out
}
