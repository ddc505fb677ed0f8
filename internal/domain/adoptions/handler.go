package adoptions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validation"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/api/adoption", func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)

		ar.Post("/", submitHandler(svc, log))
		ar.Get("/me", listMineHandler(svc))
		ar.Get("/{applicationID}", getHandler(svc, log))
		ar.Post("/{applicationID}/withdraw", withdrawHandler(svc, log))

		// Admin
		ar.With(middleware.RequireAdmin).Get("/", listHandler(svc))
		ar.With(middleware.RequireAdmin).Patch("/{applicationID}/review", reviewHandler(svc, log))
	})
}

type submitRequest struct {
	PetID      string `json:"pet_id" validate:"required"`
	Message    string `json:"message" validate:"max=2000"`
	HomeType   string `json:"home_type" validate:"omitempty,oneof=house apartment other"`
	HasYard    bool   `json:"has_yard"`
	OtherPets  string `json:"other_pets" validate:"max=500"`
	Experience string `json:"experience" validate:"max=2000"`
}

type reviewRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type applicationResponse struct {
	ID         string     `json:"id"`
	PetID      string     `json:"pet_id"`
	UserID     string     `json:"user_id"`
	Status     Status     `json:"status"`
	Message    string     `json:"message"`
	HomeType   HomeType   `json:"home_type"`
	HasYard    bool       `json:"has_yard"`
	OtherPets  string     `json:"other_pets"`
	Experience string     `json:"experience"`
	AdminNotes string     `json:"admin_notes,omitempty"`
	ReviewedBy string     `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type pageResponse struct {
	Items      []applicationResponse `json:"items"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// submitHandler godoc
// @Summary Solicitar adopción
// @Description La mascota tiene que estar `available`. Una sola solicitud pending por usuario y mascota.
// @Tags adoption
// @Accept json
// @Produce json
// @Param payload body submitRequest true "Formulario de adopción"
// @Success 201 {object} applicationResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 404 {object} map[string]string "pet not found"
// @Failure 409 {object} map[string]string "pet not available / duplicate"
// @Router /api/adoption [post]
func submitHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req submitRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		a, err := svc.Submit(r.Context(), claims.UserID, req.PetID, SubmitInput{
			Message:    req.Message,
			HomeType:   HomeType(req.HomeType),
			HasYard:    req.HasYard,
			OtherPets:  req.OtherPets,
			Experience: req.Experience,
		})
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("adoption submitted", map[string]any{"application_id": a.ID, "pet_id": a.PetID, "user_id": a.UserID})
		respond.JSON(w, http.StatusCreated, toResponse(a))
	}
}

// listMineHandler godoc
// @Summary Mis solicitudes
// @Tags adoption
// @Produce json
// @Success 200 {array} applicationResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /api/adoption/me [get]
func listMineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListMine(r.Context(), claims.UserID)
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]applicationResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// listHandler godoc
// @Summary Listar solicitudes (admin)
// @Tags adoption
// @Produce json
// @Param status query string false "pending | approved | rejected | withdrawn"
// @Param pet_id query string false "Filtrar por mascota"
// @Param page query int false "Página (base 1)"
// @Param limit query int false "Tamaño de página (1-100)"
// @Success 200 {object} pageResponse
// @Router /api/adoption [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			Status: Status(strings.ToLower(strings.TrimSpace(q.Get("status")))),
			PetID:  strings.TrimSpace(q.Get("pet_id")),
		}

		page, limit := 1, DefaultPageSize
		if v := q.Get("page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				respond.Error(w, http.StatusBadRequest, "page must be a positive integer")
				return
			}
			page = n
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > MaxPageSize {
				respond.Error(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}

		res, err := svc.List(r.Context(), filter, page, limit)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				respond.Error(w, http.StatusBadRequest, "invalid status")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := pageResponse{
			Items:      make([]applicationResponse, 0, len(res.Items)),
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		}
		for _, a := range res.Items {
			out.Items = append(out.Items, toResponse(a))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// getHandler godoc
// @Summary Detalle de solicitud
// @Description El solicitante ve la suya; el admin, cualquiera.
// @Tags adoption
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "application not found"
// @Router /api/adoption/{applicationID} [get]
func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.Get(r.Context(), claims.UserID, claims.IsAdmin(), chi.URLParam(r, "applicationID"))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(a))
	}
}

// reviewHandler godoc
// @Summary Revisar solicitud (admin)
// @Description Aprobar marca la mascota como adoptada y rechaza el resto de solicitudes pending.
// @Tags adoption
// @Accept json
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body reviewRequest true "Decisión"
// @Success 200 {object} applicationResponse
// @Failure 409 {object} map[string]string "application is not pending"
// @Router /api/adoption/{applicationID}/review [patch]
func reviewHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reviewRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		a, err := svc.Review(r.Context(), claims.UserID, chi.URLParam(r, "applicationID"), Status(req.Status), req.Notes)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("adoption reviewed", map[string]any{"application_id": a.ID, "status": a.Status, "by": claims.UserID})
		respond.JSON(w, http.StatusOK, toResponse(a))
	}
}

// withdrawHandler godoc
// @Summary Retirar solicitud
// @Tags adoption
// @Produce json
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 409 {object} map[string]string "application is not pending"
// @Router /api/adoption/{applicationID}/withdraw [post]
func withdrawHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		a, err := svc.Withdraw(r.Context(), claims.UserID, chi.URLParam(r, "applicationID"))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toResponse(a))
	}
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, pets.ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrBadState), errors.Is(err, ErrDuplicate), errors.Is(err, pets.ErrNotAvailable):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error("adoptions: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:         a.ID,
		PetID:      a.PetID,
		UserID:     a.UserID,
		Status:     a.Status,
		Message:    a.Message,
		HomeType:   a.HomeType,
		HasYard:    a.HasYard,
		OtherPets:  a.OtherPets,
		Experience: a.Experience,
		AdminNotes: a.AdminNotes,
		ReviewedBy: a.ReviewedBy,
		ReviewedAt: a.ReviewedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
