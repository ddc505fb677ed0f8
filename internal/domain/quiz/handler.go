package quiz

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/api/quiz", func(qr chi.Router) {
		// Público: el quiz se puede responder sin cuenta (no se guarda).
		qr.Get("/", getActiveHandler(svc, log))
		qr.Get("/{quizID}", getQuizHandler(svc, log))
		qr.Post("/{quizID}/submit", submitHandler(svc, log))

		qr.With(middleware.RequireAuth).Get("/responses/me", myResponsesHandler(svc))

		// Admin
		qr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Get("/all", listQuizzesHandler(svc))
			ar.Post("/", createQuizHandler(svc, log))
			ar.Post("/{quizID}/activate", activateHandler(svc, log))
			ar.Delete("/{quizID}", deleteQuizHandler(svc, log))
		})
	})
}

type optionRequest struct {
	Text    string         `json:"text" validate:"required,max=200"`
	Weights map[string]int `json:"weights"`
}

type questionRequest struct {
	Text    string          `json:"text" validate:"required,max=500"`
	Options []optionRequest `json:"options" validate:"min=2,dive"`
}

type createQuizRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	Questions   []questionRequest `json:"questions" validate:"min=1,dive"`
}

type answerRequest struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id" validate:"required"`
}

type submitRequest struct {
	Answers []answerRequest `json:"answers" validate:"min=1,dive"`
	Limit   int             `json:"limit" validate:"min=0,max=20"`
}

type optionResponse struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Position int            `json:"position"`
	Weights  map[string]int `json:"weights,omitempty"`
}

type questionResponse struct {
	ID       string           `json:"id"`
	Text     string           `json:"text"`
	Position int              `json:"position"`
	Options  []optionResponse `json:"options"`
}

type quizResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Active      bool               `json:"active"`
	Questions   []questionResponse `json:"questions"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

type matchResponse struct {
	PetID    string `json:"pet_id"`
	PetName  string `json:"pet_name"`
	Species  string `json:"species"`
	ImageURL string `json:"image_url,omitempty"`
	Score    int    `json:"score"`
	Percent  int    `json:"percent"`
}

type answerResponse struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type responseResponse struct {
	ID        string           `json:"id,omitempty"`
	QuizID    string           `json:"quiz_id"`
	Saved     bool             `json:"saved"`
	Answers   []answerResponse `json:"answers"`
	Results   []matchResponse  `json:"results"`
	CreatedAt time.Time        `json:"created_at"`
}

// getActiveHandler godoc
// @Summary Quiz activo
// @Tags quiz
// @Produce json
// @Success 200 {object} quizResponse
// @Failure 404 {object} map[string]string "no active quiz"
// @Router /api/quiz [get]
func getActiveHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.GetActive(r.Context())
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toQuizResponse(q, isAdmin(r)))
	}
}

// getQuizHandler godoc
// @Summary Quiz por ID
// @Description Los pesos solo se incluyen para admin.
// @Tags quiz
// @Produce json
// @Param quizID path string true "ID del quiz"
// @Success 200 {object} quizResponse
// @Failure 404 {object} map[string]string "quiz not found"
// @Router /api/quiz/{quizID} [get]
func getQuizHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.GetByID(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toQuizResponse(q, isAdmin(r)))
	}
}

// listQuizzesHandler godoc
// @Summary Listar quizzes (admin)
// @Tags quiz
// @Produce json
// @Success 200 {array} quizResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Router /api/quiz/all [get]
func listQuizzesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]quizResponse, 0, len(items))
		for _, q := range items {
			out = append(out, toQuizResponse(q, true))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// createQuizHandler godoc
// @Summary Crear quiz (admin)
// @Description Cada opción lleva pesos por tag: species:<s>, size:<s>, energy:<e>, sex:<s>, age:<baby|young|adult|senior>, good_with_kids, good_with_pets.
// @Tags quiz
// @Accept json
// @Produce json
// @Param payload body createQuizRequest true "Quiz"
// @Success 201 {object} quizResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Router /api/quiz [post]
func createQuizHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createQuizRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		in := CreateInput{Title: req.Title, Description: req.Description}
		for _, qr := range req.Questions {
			qi := QuestionInput{Text: qr.Text}
			for _, or := range qr.Options {
				qi.Options = append(qi.Options, OptionInput{Text: or.Text, Weights: or.Weights})
			}
			in.Questions = append(in.Questions, qi)
		}

		q, err := svc.Create(r.Context(), in)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("quiz created", map[string]any{"quiz_id": q.ID, "questions": len(q.Questions), "active": q.Active})
		respond.JSON(w, http.StatusCreated, toQuizResponse(q, true))
	}
}

// activateHandler godoc
// @Summary Activar quiz (admin)
// @Description Desactiva el quiz activo anterior.
// @Tags quiz
// @Produce json
// @Param quizID path string true "ID del quiz"
// @Success 200 {object} quizResponse
// @Failure 404 {object} map[string]string "quiz not found"
// @Router /api/quiz/{quizID}/activate [post]
func activateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := svc.Activate(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		log.Info("quiz activated", map[string]any{"quiz_id": q.ID})
		respond.JSON(w, http.StatusOK, toQuizResponse(q, true))
	}
}

// deleteQuizHandler godoc
// @Summary Borrar quiz (admin)
// @Tags quiz
// @Param quizID path string true "ID del quiz"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "quiz not found"
// @Router /api/quiz/{quizID} [delete]
func deleteQuizHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.NoContent(w)
	}
}

// submitHandler godoc
// @Summary Responder quiz
// @Description Devuelve las mascotas available más compatibles. Si hay sesión, la respuesta se guarda.
// @Tags quiz
// @Accept json
// @Produce json
// @Param quizID path string true "ID del quiz"
// @Param payload body submitRequest true "Respuestas"
// @Success 200 {object} responseResponse
// @Failure 400 {object} map[string]string "respuestas inválidas"
// @Failure 404 {object} map[string]string "quiz not found"
// @Router /api/quiz/{quizID}/submit [post]
func submitHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		// El limit también puede venir por query (?limit=10).
		if v := r.URL.Query().Get("limit"); v != "" && req.Limit == 0 {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > MaxMatchLimit {
				respond.Error(w, http.StatusBadRequest, "invalid limit")
				return
			}
			req.Limit = n
		}

		answers := make([]Answer, 0, len(req.Answers))
		for _, a := range req.Answers {
			answers = append(answers, Answer{QuestionID: a.QuestionID, OptionID: a.OptionID})
		}

		var userID string
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			userID = claims.UserID
		}

		resp, err := svc.Submit(r.Context(), chi.URLParam(r, "quizID"), userID, answers, req.Limit)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponseResponse(resp))
	}
}

// myResponsesHandler godoc
// @Summary Mis resultados
// @Tags quiz
// @Produce json
// @Success 200 {array} responseResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /api/quiz/responses/me [get]
func myResponsesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListMyResponses(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]responseResponse, 0, len(items))
		for _, resp := range items {
			out = append(out, toResponseResponse(resp))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	return ok && claims.IsAdmin()
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoActive):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		log.Error("quiz: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// toQuizResponse oculta los pesos a quien no es admin.
func toQuizResponse(q Quiz, withWeights bool) quizResponse {
	out := quizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Active:      q.Active,
		Questions:   make([]questionResponse, 0, len(q.Questions)),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	for _, qu := range q.Questions {
		qr := questionResponse{
			ID:       qu.ID,
			Text:     qu.Text,
			Position: qu.Position,
			Options:  make([]optionResponse, 0, len(qu.Options)),
		}
		for _, o := range qu.Options {
			or := optionResponse{ID: o.ID, Text: o.Text, Position: o.Position}
			if withWeights {
				or.Weights = o.Weights
			}
			qr.Options = append(qr.Options, or)
		}
		out.Questions = append(out.Questions, qr)
	}
	return out
}

func toResponseResponse(r Response) responseResponse {
	out := responseResponse{
		ID:        r.ID,
		QuizID:    r.QuizID,
		Saved:     r.ID != "",
		Answers:   make([]answerResponse, 0, len(r.Answers)),
		Results:   make([]matchResponse, 0, len(r.Results)),
		CreatedAt: r.CreatedAt,
	}
	for _, a := range r.Answers {
		out.Answers = append(out.Answers, answerResponse{QuestionID: a.QuestionID, OptionID: a.OptionID})
	}
	for _, m := range r.Results {
		out.Results = append(out.Results, matchResponse{
			PetID:    m.PetID,
			PetName:  m.PetName,
			Species:  m.Species,
			ImageURL: m.ImageURL,
			Score:    m.Score,
			Percent:  m.Percent,
		})
	}
	return out
}
