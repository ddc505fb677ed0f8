package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-me"

type Config struct {
	App     AppConfig
	DB      DBConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Redis   RedisConfig
	Storage StorageConfig
	HTTP    HTTPConfig
	Admin   AdminConfig

	NotifyWebhookURL string
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DBConfig struct {
	DSN         string
	AutoMigrate bool
}

type LogConfig struct {
	Level  string
	Format string
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type CookieConfig struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite string // lax | strict | none
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Driver         string // local | s3
	UploadDir      string
	PublicBaseURL  string
	MaxUploadBytes int64

	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UsePathStyle bool
	S3PublicURL    string
}

type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	DevAuth            bool
}

// AdminConfig: si Email viene seteado, al arrancar se asegura que exista ese admin.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "pet-adoption")
	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")

	v.SetDefault("db_dsn", "")
	v.SetDefault("db_auto_migrate", true)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("jwt_secret", devJWTSecret)
	v.SetDefault("jwt_issuer", "pet-adoption")
	v.SetDefault("jwt_ttl", "24h")

	v.SetDefault("cookie_name", "token")
	v.SetDefault("cookie_domain", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("cookie_same_site", "lax")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("storage_driver", "local")
	v.SetDefault("upload_dir", "./uploads")
	v.SetDefault("public_base_url", "")
	v.SetDefault("max_upload_bytes", 5<<20)
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key", "")
	v.SetDefault("s3_secret_key", "")
	v.SetDefault("s3_use_path_style", true)
	v.SetDefault("s3_public_url", "")

	v.SetDefault("http_read_timeout", "5s")
	v.SetDefault("http_write_timeout", "15s")
	v.SetDefault("cors_allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("dev_auth", false)

	v.SetDefault("notify_webhook_url", "")

	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password", "")
	v.SetDefault("admin_name", "Administrator")
}

// Load lee configuración con esta prioridad:
// 1. variables de entorno (PORT, DB_DSN, JWT_SECRET, ...)
// 2. config.yaml (., ./config, /etc/pet-adoption) o el path explícito
// 3. defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pet-adoption")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strings.TrimSpace(path) != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// sin archivo: defaults + env
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app_name"),
			Env:  v.GetString("env"),
			Port: v.GetString("port"),
		},
		DB: DBConfig{
			DSN:         v.GetString("db_dsn"),
			AutoMigrate: v.GetBool("db_auto_migrate"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			Issuer: v.GetString("jwt_issuer"),
			TTL:    v.GetDuration("jwt_ttl"),
		},
		Cookie: CookieConfig{
			Name:     v.GetString("cookie_name"),
			Domain:   v.GetString("cookie_domain"),
			Secure:   v.GetBool("cookie_secure"),
			SameSite: v.GetString("cookie_same_site"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("storage_driver")),
			UploadDir:      v.GetString("upload_dir"),
			PublicBaseURL:  strings.TrimRight(v.GetString("public_base_url"), "/"),
			MaxUploadBytes: v.GetInt64("max_upload_bytes"),
			S3Bucket:       v.GetString("s3_bucket"),
			S3Region:       v.GetString("s3_region"),
			S3Endpoint:     v.GetString("s3_endpoint"),
			S3AccessKey:    v.GetString("s3_access_key"),
			S3SecretKey:    v.GetString("s3_secret_key"),
			S3UsePathStyle: v.GetBool("s3_use_path_style"),
			S3PublicURL:    strings.TrimRight(v.GetString("s3_public_url"), "/"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http_read_timeout"),
			WriteTimeout:       v.GetDuration("http_write_timeout"),
			CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
			DevAuth:            v.GetBool("dev_auth"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("admin_email"),
			Password: v.GetString("admin_password"),
			Name:     v.GetString("admin_name"),
		},
		NotifyWebhookURL: v.GetString("notify_webhook_url"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.Port) == "" {
		return errors.New("config: port is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: jwt_ttl must be positive")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: jwt_secret is required")
	}
	if c.IsProduction() {
		if c.JWT.Secret == devJWTSecret || len(c.JWT.Secret) < 32 {
			return errors.New("config: jwt_secret must be set to a strong value in production")
		}
		if c.HTTP.DevAuth {
			return errors.New("config: dev_auth cannot be enabled in production")
		}
	}
	switch c.Storage.Driver {
	case "local":
		if strings.TrimSpace(c.Storage.UploadDir) == "" {
			return errors.New("config: upload_dir is required for local storage")
		}
	case "s3":
		if c.Storage.S3Bucket == "" {
			return errors.New("config: s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("config: unknown storage_driver %q", c.Storage.Driver)
	}
	switch strings.ToLower(c.Cookie.SameSite) {
	case "lax", "strict", "none", "":
	default:
		return fmt.Errorf("config: invalid cookie_same_site %q", c.Cookie.SameSite)
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("config: max_upload_bytes must be positive")
	}
	return nil
}

// splitList acepta tanto listas yaml como CSV en env (CORS_ALLOWED_ORIGINS=a,b).
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
