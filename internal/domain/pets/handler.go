package pets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

type HandlerOptions struct {
	MaxUploadBytes int64
}

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, opts HandlerOptions) {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}

	r.Route("/api/pets", func(pr chi.Router) {
		// Público: el catálogo se ve sin login.
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		// Admin
		pr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireAdmin)
			ar.Post("/", createPetHandler(svc, log))
			ar.Patch("/{petID}", updatePetHandler(svc, log))
			ar.Delete("/{petID}", deletePetHandler(svc, log))
			ar.Post("/{petID}/image", uploadImageHandler(svc, log, opts.MaxUploadBytes))
		})
	})
}

type createPetRequest struct {
	Name         string           `json:"name" validate:"required,max=100"`
	Species      string           `json:"species" validate:"required,oneof=dog cat rabbit bird other"`
	Breed        string           `json:"breed" validate:"max=100"`
	Sex          string           `json:"sex" validate:"omitempty,oneof=male female unknown"`
	AgeMonths    int              `json:"age_months" validate:"min=0,max=600"`
	Size         string           `json:"size" validate:"omitempty,oneof=small medium large"`
	EnergyLevel  string           `json:"energy_level" validate:"omitempty,oneof=low medium high"`
	GoodWithKids bool             `json:"good_with_kids"`
	GoodWithPets bool             `json:"good_with_pets"`
	Description  string           `json:"description" validate:"max=4000"`
	AdoptionFee  *decimal.Decimal `json:"adoption_fee"`
}

type updatePetRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Species      *string          `json:"species" validate:"omitempty,oneof=dog cat rabbit bird other"`
	Breed        *string          `json:"breed" validate:"omitempty,max=100"`
	Sex          *string          `json:"sex" validate:"omitempty,oneof=male female unknown"`
	AgeMonths    *int             `json:"age_months" validate:"omitempty,min=0,max=600"`
	Size         *string          `json:"size" validate:"omitempty,oneof=small medium large"`
	EnergyLevel  *string          `json:"energy_level" validate:"omitempty,oneof=low medium high"`
	GoodWithKids *bool            `json:"good_with_kids"`
	GoodWithPets *bool            `json:"good_with_pets"`
	Description  *string          `json:"description" validate:"omitempty,max=4000"`
	AdoptionFee  *decimal.Decimal `json:"adoption_fee"`
	Status       *string          `json:"status" validate:"omitempty,oneof=available pending adopted"`
}

type petResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Species      Species         `json:"species"`
	Breed        string          `json:"breed"`
	Sex          Sex             `json:"sex"`
	AgeMonths    int             `json:"age_months"`
	AgeGroup     string          `json:"age_group"`
	Size         Size            `json:"size"`
	EnergyLevel  EnergyLevel     `json:"energy_level"`
	GoodWithKids bool            `json:"good_with_kids"`
	GoodWithPets bool            `json:"good_with_pets"`
	Description  string          `json:"description"`
	AdoptionFee  decimal.Decimal `json:"adoption_fee"`
	Status       Status          `json:"status"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type pageResponse struct {
	Items      []petResponse `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Catálogo público con filtros y paginación. Sin `status` devuelve todas; el SPA pide `status=available`.
// @Tags pets
// @Produce json
// @Param species query string false "dog | cat | rabbit | bird | other"
// @Param breed query string false "Contiene (case-insensitive)"
// @Param sex query string false "male | female | unknown"
// @Param size query string false "small | medium | large"
// @Param energy_level query string false "low | medium | high"
// @Param energy query string false "alias de energy_level"
// @Param status query string false "available | pending | adopted"
// @Param good_with_kids query bool false "Solo compatibles con niños"
// @Param good_with_pets query bool false "Solo compatibles con otras mascotas"
// @Param min_age query int false "Edad mínima en meses"
// @Param max_age query int false "Edad máxima en meses"
// @Param q query string false "Texto libre en nombre/raza/descripción"
// @Param sort query string false "newest | oldest | name | age | fee"
// @Param page query int false "Página (base 1)"
// @Param limit query int false "Tamaño de página (1-100). Por defecto 12"
// @Success 200 {object} pageResponse
// @Failure 400 {object} map[string]string "filtro inválido"
// @Router /api/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, page, limit, err := parseListQuery(r)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := svc.List(r.Context(), filter, page, limit)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				respond.Error(w, http.StatusBadRequest, "invalid filter")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := pageResponse{
			Items:      make([]petResponse, 0, len(res.Items)),
			Total:      res.Total,
			Page:       res.Page,
			Limit:      res.Limit,
			TotalPages: res.TotalPages,
		}
		for _, p := range res.Items {
			out.Items = append(out.Items, toPetResponse(p))
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Detalle de mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {object} map[string]string "pet not found"
// @Router /api/pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "pet not found")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// createPetHandler godoc
// @Summary Publicar mascota
// @Description Solo admin.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /api/pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createPetRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		fee := decimal.Zero
		if req.AdoptionFee != nil {
			fee = *req.AdoptionFee
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:         req.Name,
			Species:      Species(req.Species),
			Breed:        req.Breed,
			Sex:          Sex(req.Sex),
			AgeMonths:    req.AgeMonths,
			Size:         Size(req.Size),
			EnergyLevel:  EnergyLevel(req.EnergyLevel),
			GoodWithKids: req.GoodWithKids,
			GoodWithPets: req.GoodWithPets,
			Description:  req.Description,
			AdoptionFee:  fee,
		})
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("pet created", map[string]any{"pet_id": p.ID, "by": claims.UserID})
		respond.JSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Solo admin. Los campos ausentes no se tocan.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a cambiar"
// @Success 200 {object} petResponse
// @Failure 400 {object} map[string]any "validation failed"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /api/pets/{petID} [patch]
func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePetRequest
		if err := respond.DecodeJSON(r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if details := validation.Struct(req); details != nil {
			respond.ValidationError(w, details)
			return
		}

		in := UpdateInput{
			Name:         req.Name,
			Breed:        req.Breed,
			AgeMonths:    req.AgeMonths,
			GoodWithKids: req.GoodWithKids,
			GoodWithPets: req.GoodWithPets,
			Description:  req.Description,
			AdoptionFee:  req.AdoptionFee,
		}
		if req.Species != nil {
			v := Species(*req.Species)
			in.Species = &v
		}
		if req.Sex != nil {
			v := Sex(*req.Sex)
			in.Sex = &v
		}
		if req.Size != nil {
			v := Size(*req.Size)
			in.Size = &v
		}
		if req.EnergyLevel != nil {
			v := EnergyLevel(*req.EnergyLevel)
			in.EnergyLevel = &v
		}
		if req.Status != nil {
			v := Status(*req.Status)
			in.Status = &v
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), in)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Solo admin.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /api/pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		if err := svc.Delete(r.Context(), petID); err != nil {
			writeServiceError(w, log, err)
			return
		}

		claims, _ := middleware.GetClaims(r.Context())
		log.Info("pet deleted", map[string]any{"pet_id": petID, "by": claims.UserID})
		respond.NoContent(w)
	}
}

// uploadImageHandler godoc
// @Summary Subir imagen de mascota
// @Description Solo admin. multipart/form-data con el campo `image` (jpeg, png, gif o webp). Reemplaza la imagen anterior.
// @Tags pets
// @Accept mpfd
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param image formData file true "Imagen"
// @Success 200 {object} petResponse
// @Failure 400 {object} map[string]string "archivo inválido"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /api/pets/{petID}/image [post]
func uploadImageHandler(svc *Service, log logger.Logger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Margen para los headers del multipart.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid multipart form or file too large")
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile("image")
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		if header.Size > maxBytes {
			respond.Error(w, http.StatusBadRequest, fmt.Sprintf("image must be at most %d bytes", maxBytes))
			return
		}

		mt, err := mimetype.DetectReader(file)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "could not read image")
			return
		}
		contentType := strings.SplitN(mt.String(), ";", 2)[0]
		if _, ok := allowedImageTypes[contentType]; !ok {
			respond.Error(w, http.StatusBadRequest, "image must be jpeg, png, gif or webp")
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		filename := header.Filename
		if !strings.Contains(filename, ".") {
			filename += mt.Extension()
		}

		p, err := svc.AttachImage(r.Context(), chi.URLParam(r, "petID"), filename, contentType, file, header.Size)
		if err != nil {
			writeServiceError(w, log, err)
			return
		}

		log.Info("pet image uploaded", map[string]any{"pet_id": p.ID, "key": p.ImageKey, "bytes": header.Size})
		respond.JSON(w, http.StatusOK, toPetResponse(p))
	}
}

func parseListQuery(r *http.Request) (ListFilter, int, int, error) {
	q := r.URL.Query()
	var f ListFilter

	if v := strings.ToLower(strings.TrimSpace(q.Get("species"))); v != "" {
		f.Species = Species(v)
		if !f.Species.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid species")
		}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("sex"))); v != "" {
		f.Sex = Sex(v)
		if !f.Sex.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid sex")
		}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("size"))); v != "" {
		f.Size = Size(v)
		if !f.Size.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid size")
		}
	}
	energy := q.Get("energy_level")
	if strings.TrimSpace(energy) == "" {
		// alias corto, mismo nombre que el tag del quiz (energy:<e>)
		energy = q.Get("energy")
	}
	if v := strings.ToLower(strings.TrimSpace(energy)); v != "" {
		f.EnergyLevel = EnergyLevel(v)
		if !f.EnergyLevel.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid energy_level")
		}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("status"))); v != "" {
		f.Status = Status(v)
		if !f.Status.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid status")
		}
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("sort"))); v != "" {
		f.Sort = SortOrder(v)
		if !f.Sort.Valid() {
			return ListFilter{}, 0, 0, errors.New("invalid sort")
		}
	}

	f.Breed = strings.TrimSpace(q.Get("breed"))
	f.Query = strings.TrimSpace(q.Get("q"))

	var err error
	if f.GoodWithKids, err = parseBoolParam(q.Get("good_with_kids"), "good_with_kids"); err != nil {
		return ListFilter{}, 0, 0, err
	}
	if f.GoodWithPets, err = parseBoolParam(q.Get("good_with_pets"), "good_with_pets"); err != nil {
		return ListFilter{}, 0, 0, err
	}
	if f.MinAgeMonths, err = parseIntParam(q.Get("min_age"), "min_age"); err != nil {
		return ListFilter{}, 0, 0, err
	}
	if f.MaxAgeMonths, err = parseIntParam(q.Get("max_age"), "max_age"); err != nil {
		return ListFilter{}, 0, 0, err
	}

	page, limit := 1, DefaultPageSize
	if v := strings.TrimSpace(q.Get("page")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListFilter{}, 0, 0, errors.New("page must be a positive integer")
		}
		page = n
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return ListFilter{}, 0, 0, fmt.Errorf("limit must be between 1 and %d", MaxPageSize)
		}
		limit = n
	}

	return f, page, limit, nil
}

func parseBoolParam(raw, name string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", name)
	}
	return &b, nil
}

func parseIntParam(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return &n, nil
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAvailable):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStorageUnavailable):
		respond.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Error("pets: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:           p.ID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		Sex:          p.Sex,
		AgeMonths:    p.AgeMonths,
		AgeGroup:     AgeGroup(p.AgeMonths),
		Size:         p.Size,
		EnergyLevel:  p.EnergyLevel,
		GoodWithKids: p.GoodWithKids,
		GoodWithPets: p.GoodWithPets,
		Description:  p.Description,
		AdoptionFee:  p.AdoptionFee,
		Status:       p.Status,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
