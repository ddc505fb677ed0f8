package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption/internal/adapters/auth/jwtsession"
	"pet-adoption/internal/adapters/notify/webhook"
	"pet-adoption/internal/adapters/objectstore/local"
	"pet-adoption/internal/adapters/objectstore/s3store"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/config"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/storage"
	"pet-adoption/internal/router"

	"github.com/spf13/cobra"
)

var configPath string

// @title Pet Adoption API
// @version 1.0
// @description API de adopción de mascotas: catálogo, solicitudes y quiz de compatibilidad.
// @BasePath /
func main() {
	root := &cobra.Command{
		Use:           "pet-adoption",
		Short:         "Pet adoption API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Sin subcomando = serve
		RunE: runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./config.yaml if present)")

	root.AddCommand(serveCmd, migrateCmd, createAdminCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

// bootstrap carga config y logger; lo comparten todos los comandos.
func bootstrap() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	return cfg, log, nil
}

func syncLogger(log logger.Logger) {
	if s, ok := log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer syncLogger(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Logger:         log,
		Cookie:         cookieConfig(cfg),
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		CORSOrigins:    cfg.HTTP.CORSAllowedOrigins,
		DevAuth:        cfg.HTTP.DevAuth,
	}

	if cfg.DB.DSN != "" {
		if cfg.DB.AutoMigrate {
			if err := migrateUp(cfg.DB.DSN, log); err != nil {
				return err
			}
		}
		db, err := pg.Open(cfg.DB.DSN)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("db_dsn not set: using in-memory storage, data is lost on restart", nil)
	}

	var blacklist jwtsession.Blacklist
	if cfg.Redis.Addr != "" {
		rb, err := jwtsession.NewRedisBlacklist(ctx, jwtsession.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rb.Close()
		blacklist = rb
	}

	tokens, err := jwtsession.NewManager(jwtsession.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, blacklist)
	if err != nil {
		return err
	}
	opts.Tokens = tokens

	store, uploadDir, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	opts.Storage = store
	opts.UploadDir = uploadDir

	if cfg.NotifyWebhookURL != "" {
		n, err := webhook.New(cfg.NotifyWebhookURL, nil)
		if err != nil {
			return err
		}
		opts.Notifier = n
	} else {
		opts.Notifier = adoptions.NopNotifier{}
	}

	// Se siembra en el repo que arme el router, sea Postgres o memoria.
	if cfg.Admin.Email != "" {
		opts.Admin = &users.RegisterInput{
			Name:     cfg.Admin.Name,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}
	}

	handler, err := router.New(ctx, opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "env": cfg.App.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func cookieConfig(cfg *config.Config) jwtsession.CookieConfig {
	return jwtsession.CookieConfig{
		Name:     cfg.Cookie.Name,
		Domain:   cfg.Cookie.Domain,
		Secure:   cfg.Cookie.Secure,
		SameSite: cfg.Cookie.SameSite,
	}
}

// openStorage devuelve el storage y, para el driver local, el directorio a servir en /uploads/.
func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.ObjectStorage, string, error) {
	switch cfg.Storage.Driver {
	case "s3":
		st, err := s3store.New(ctx, s3store.Config{
			Bucket:       cfg.Storage.S3Bucket,
			Region:       cfg.Storage.S3Region,
			Endpoint:     cfg.Storage.S3Endpoint,
			AccessKey:    cfg.Storage.S3AccessKey,
			SecretKey:    cfg.Storage.S3SecretKey,
			UsePathStyle: cfg.Storage.S3UsePathStyle,
			PublicURL:    cfg.Storage.S3PublicURL,
		}, log)
		if err != nil {
			return nil, "", err
		}
		log.Info("using s3 image storage", map[string]any{"bucket": cfg.Storage.S3Bucket})
		return st, "", nil
	default:
		st, err := local.New(cfg.Storage.UploadDir, cfg.Storage.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		log.Info("using local image storage", map[string]any{"dir": st.Root()})
		return st, st.Root(), nil
	}
}
