package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"pet-adoption/internal/adapters/auth/jwtsession"
	"pet-adoption/internal/adapters/objectstore/local"
	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"
	_ "pet-adoption/internal/docs"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/quiz"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/ports/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Tokens firma/verifica las sesiones. Si es nil se crea uno efímero (dev/tests).
	Tokens *jwtsession.Manager
	Cookie jwtsession.CookieConfig

	// Storage para fotos. nil => los uploads responden 503.
	Storage storage.ObjectStorage
	// UploadDir: si viene, se sirve en /uploads/* (storage local).
	UploadDir      string
	MaxUploadBytes int64

	Notifier adoptions.Notifier

	CORSOrigins []string
	DevAuth     bool

	// Admin, si viene, se crea (o promueve) sobre el repo de usuarios que arma el router.
	Admin *users.RegisterInput
}

// NewRouter es New con context.Background(); entra en pánico si New falla.
func NewRouter(opts Options) http.Handler {
	h, err := New(context.Background(), opts)
	if err != nil {
		panic(err)
	}
	return h
}

// New arma repos, services y rutas. Falla si el bootstrap del admin falla.
func New(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	tokens := opts.Tokens
	if tokens == nil {
		// Secreto aleatorio: las sesiones no sobreviven un reinicio, alcanza para dev.
		m, err := jwtsession.NewManager(jwtsession.Config{Secret: uuid.NewString()}, nil)
		if err != nil {
			return nil, err
		}
		tokens = m
	}
	sessions := jwtsession.NewCookies(tokens, opts.Cookie)

	var (
		userRepo     users.Repository
		petRepo      pets.Repository
		adoptionRepo adoptions.Repository
		quizRepo     quiz.Repository
	)

	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		adoptionRepo = pg.NewAdoptionsRepo(opts.DB)
		quizRepo = pg.NewQuizRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		adoptionRepo = mem.NewAdoptionRepo()
		quizRepo = mem.NewQuizRepo()
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = adoptions.NopNotifier{}
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	petsSvc := pets.NewService(petRepo, opts.Storage, log.With(map[string]any{"module": "pets"}))
	adoptionsSvc := adoptions.NewService(adoptionRepo, petsSvc, notifier, log.With(map[string]any{"module": "adoptions"}))
	quizSvc := quiz.NewService(quizRepo, petsSvc)

	if opts.Admin != nil {
		u, created, err := usersSvc.EnsureAdmin(ctx, *opts.Admin)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		log.Info("admin ready", map[string]any{"user_id": u.ID, "email": u.Email, "created": created})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(tokens, middleware.AuthOptions{
		CookieName: sessions.Name(),
		DevAuth:    opts.DevAuth,
		Roles:      usersSvc,
	}))

	r.Get("/health", healthHandler(opts.DB))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if dir := strings.TrimSpace(opts.UploadDir); dir != "" {
		fs := http.StripPrefix(local.URLPrefix, http.FileServer(http.Dir(dir)))
		r.Get(local.URLPrefix+"*", func(w http.ResponseWriter, req *http.Request) {
			// sin listado de directorios
			if strings.HasSuffix(req.URL.Path, "/") {
				http.NotFound(w, req)
				return
			}
			w.Header().Set("X-Content-Type-Options", "nosniff")
			fs.ServeHTTP(w, req)
		})
	}

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, sessions, log)
	pets.RegisterRoutes(r, petsSvc, log, pets.HandlerOptions{MaxUploadBytes: opts.MaxUploadBytes})
	adoptions.RegisterRoutes(r, adoptionsSvc, log)
	quiz.RegisterRoutes(r, quizSvc, log)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "storage": "memory"}
		if db != nil {
			status["storage"] = "postgres"
			if err := db.PingContext(r.Context()); err != nil {
				status["status"] = "degraded"
				respond.JSON(w, http.StatusServiceUnavailable, status)
				return
			}
		}
		respond.JSON(w, http.StatusOK, status)
	}
}
