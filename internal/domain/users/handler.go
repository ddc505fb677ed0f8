package users

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validation"
	"pet-adoption/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// Sessions abre/cierra la sesión del navegador (cookie con JWT).
// La implementación vive en adapters/auth/jwtsession.
type Sessions interface {
	Start(w http.ResponseWriter, userID, email string, role auth.Role) error
	End(ctx context.Context, w http.ResponseWriter, token string) error
}

func RegisterRoutes(r chi.Router, svc *Service, sessions Sessions, log logger.Logger) {
	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, sessions, log))
		ar.Post("/login", loginHandler(svc, sessions, log))
		ar.Post("/logout", logoutHandler(sessions, log))

		ar.With(middleware.RequireAuth).Get("/me", meHandler(svc))

		ar.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin)
			admin.Get("/users", listUsersHandler(svc))
			admin.Patch("/users/{userID}/role", setRoleHandler(svc, log))
		})
	})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Description Crea una cuenta con rol `user` y abre la sesión (cookie HttpOnly con JWT).
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 409 {object} map[string]string "email already registered"
// @Router /api/auth/register [post]
func registerHandler(svc *Service, sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		if err := sessions.Start(w, u.ID, u.Email, u.Role); err != nil {
			log.Error("start session failed", map[string]any{"user_id": u.ID, "err": err})
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		log.Info("user registered", map[string]any{"user_id": u.ID})
		respond.JSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string "invalid email or password"
// @Router /api/auth/login [post]
func loginHandler(svc *Service, sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		if err := sessions.Start(w, u.ID, u.Email, u.Role); err != nil {
			log.Error("start session failed", map[string]any{"user_id": u.ID, "err": err})
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

// logoutHandler es idempotente: sin sesión igual limpia la cookie.
// @Summary Cerrar sesión
// @Tags auth
// @Success 204 "No Content"
// @Router /api/auth/logout [post]
func logoutHandler(sessions Sessions, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.SessionToken(r.Context())
		if err := sessions.End(r.Context(), w, token); err != nil {
			// La cookie ya se limpió; solo no pudimos revocar el jti.
			log.Warn("revoke session failed", map[string]any{"err": err})
		}
		respond.NoContent(w)
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /api/auth/me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// Token válido pero la cuenta ya no existe.
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuarios (admin)
// @Tags auth
// @Produce json
// @Success 200 {array} userResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Router /api/auth/users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// setRoleHandler godoc
// @Summary Cambiar rol (admin)
// @Description El cambio aplica en el próximo request del usuario, sin re-login.
// @Tags auth
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param payload body setRoleRequest true "Nuevo rol"
// @Success 200 {object} userResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 404 {object} map[string]string "user not found"
// @Failure 409 {object} map[string]string "admins cannot change their own role"
// @Router /api/auth/users/{userID}/role [patch]
func setRoleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req setRoleRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		u, err := svc.SetRole(r.Context(), claims.UserID, chi.URLParam(r, "userID"), auth.Role(strings.ToLower(req.Role)))
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("user role changed", map[string]any{"user_id": u.ID, "role": u.Role, "by": claims.UserID})
		respond.JSON(w, http.StatusOK, toUserResponse(u))
	}
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrSelfDemotion):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error("users: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
