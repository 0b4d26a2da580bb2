package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yungbote/classbridge-backend/internal/clients/gcp"
	"github.com/yungbote/classbridge-backend/internal/clients/razorpay"
	"github.com/yungbote/classbridge-backend/internal/data/aggregates"
	"github.com/yungbote/classbridge-backend/internal/data/db"
	"github.com/yungbote/classbridge-backend/internal/observability"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
	"github.com/yungbote/classbridge-backend/internal/realtime/bus"
	"github.com/yungbote/classbridge-backend/internal/services"
)

type Config struct {
	Env     string
	LogMode string
	Port    string

	DB       db.Config
	Otel     observability.OtelConfig
	Google   services.GoogleConfig
	Razorpay razorpay.Config
	Bucket   gcp.BucketConfig
	Avatar   services.AvatarConfig
	Redis    bus.RedisConfig

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	ImportLimits    aggregates.TxLimits
	DisplayLocation *time.Location
	CORSOrigins     []string
	SecureCookies   bool
}

// LoadDotEnv loads .env and .env.<APP_ENV> when they exist. Variables already set in the
// process win over both files.
func LoadDotEnv() error {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	files := []string{".env"}
	if env != "" {
		files = append([]string{".env." + env}, files...)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("config stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config load %s: %w", f, err)
		}
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("SQLITE_PATH", "classbridge.db")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_NAME", "classbridge")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("DB_CONNECT_BACKOFF", 2*time.Second)

	v.SetDefault("JWT_SECRET_KEY", "defaultsecret")
	v.SetDefault("ACCESS_TOKEN_TTL", 3600)

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback")

	v.SetDefault("RAZORPAY_KEY_ID", "")
	v.SetDefault("RAZORPAY_KEY_SECRET", "")
	v.SetDefault("RAZORPAY_BASE_URL", "")

	v.SetDefault("GCS_CREDENTIALS", "")
	v.SetDefault("MEDIA_GCS_BUCKET_NAME", "")
	v.SetDefault("MEDIA_CDN_DOMAIN", "")
	v.SetDefault("AVATAR_GCS_BUCKET_NAME", "")
	v.SetDefault("AVATAR_CDN_DOMAIN", "")
	v.SetDefault("AVATAR_FONT", "")
	v.SetDefault("AVATAR_COLORS", "")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_CHANNEL", "classbridge:sse")

	v.SetDefault("IMPORT_MAX_WAIT", 5*time.Second)
	v.SetDefault("IMPORT_TIMEOUT", 10*time.Second)

	v.SetDefault("DISPLAY_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("CORS_ORIGINS", "")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "classbridge-api")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_HEADERS", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SAMPLE_RATIO", 0.1)
	v.SetDefault("APP_VERSION", "dev")

	v.AutomaticEnv()
	return v
}

// LoadConfig reads the process environment. Call LoadDotEnv first to pick up .env files.
func LoadConfig(log *logger.Logger) (Config, error) {
	return loadConfig(newViper(), log)
}

func loadConfig(v *viper.Viper, log *logger.Logger) (Config, error) {
	tz := strings.TrimSpace(v.GetString("DISPLAY_TIMEZONE"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}
	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))

	cfg := Config{
		Env:     env,
		LogMode: v.GetString("LOG_MODE"),
		Port:    v.GetString("PORT"),
		DB: db.Config{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("POSTGRES_HOST"),
			Port:            v.GetString("POSTGRES_PORT"),
			User:            v.GetString("POSTGRES_USER"),
			Password:        v.GetString("POSTGRES_PASSWORD"),
			Name:            v.GetString("POSTGRES_NAME"),
			SSLMode:         v.GetString("POSTGRES_SSLMODE"),
			SQLitePath:      v.GetString("SQLITE_PATH"),
			ConnectAttempts: v.GetInt("DB_CONNECT_ATTEMPTS"),
			ConnectBackoff:  v.GetDuration("DB_CONNECT_BACKOFF"),
		},
		Otel: observability.OtelConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: env,
			Version:     v.GetString("APP_VERSION"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Headers:     v.GetString("OTEL_EXPORTER_OTLP_HEADERS"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio: v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
		Google: services.GoogleConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		},
		Razorpay: razorpay.Config{
			KeyID:     v.GetString("RAZORPAY_KEY_ID"),
			KeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
			BaseURL:   v.GetString("RAZORPAY_BASE_URL"),
		},
		Bucket: gcp.BucketConfig{
			Credentials:     v.GetString("GCS_CREDENTIALS"),
			MediaBucket:     v.GetString("MEDIA_GCS_BUCKET_NAME"),
			MediaCDNDomain:  v.GetString("MEDIA_CDN_DOMAIN"),
			AvatarBucket:    v.GetString("AVATAR_GCS_BUCKET_NAME"),
			AvatarCDNDomain: v.GetString("AVATAR_CDN_DOMAIN"),
		},
		Avatar: services.AvatarConfig{
			FontPath:   v.GetString("AVATAR_FONT"),
			ColorsPath: v.GetString("AVATAR_COLORS"),
		},
		Redis: bus.RedisConfig{
			Addr:    v.GetString("REDIS_ADDR"),
			Channel: v.GetString("REDIS_CHANNEL"),
		},
		JWTSecretKey:   v.GetString("JWT_SECRET_KEY"),
		AccessTokenTTL: time.Duration(v.GetInt("ACCESS_TOKEN_TTL")) * time.Second,
		ImportLimits: aggregates.TxLimits{
			MaxWait: v.GetDuration("IMPORT_MAX_WAIT"),
			Timeout: v.GetDuration("IMPORT_TIMEOUT"),
		},
		DisplayLocation: loc,
		CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		SecureCookies:   env == "production" || env == "prod",
	}

	if cfg.isProduction() && cfg.JWTSecretKey == "defaultsecret" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	if log != nil {
		log.Info("config loaded",
			"env", cfg.Env,
			"db_driver", cfg.DB.Driver,
			"redis", cfg.Redis.Addr != "",
			"payments", cfg.PaymentsEnabled(),
			"storage", cfg.StorageEnabled(),
			"google", cfg.GoogleEnabled(),
			"display_timezone", loc.String(),
		)
	}
	return cfg, nil
}

func (c Config) isProduction() bool { return c.Env == "production" || c.Env == "prod" }

func (c Config) PaymentsEnabled() bool {
	return strings.TrimSpace(c.Razorpay.KeyID) != "" && strings.TrimSpace(c.Razorpay.KeySecret) != ""
}

func (c Config) StorageEnabled() bool {
	return strings.TrimSpace(c.Bucket.MediaBucket) != "" && strings.TrimSpace(c.Bucket.AvatarBucket) != ""
}

func (c Config) GoogleEnabled() bool {
	return strings.TrimSpace(c.Google.ClientID) != "" && strings.TrimSpace(c.Google.ClientSecret) != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
