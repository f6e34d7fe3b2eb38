package app

import (
	"strings"
	"time"

	"github.com/yungbote/fotherbys-backend/internal/platform/redis"
	"github.com/yungbote/fotherbys-backend/internal/data/db"
	"github.com/yungbote/fotherbys-backend/internal/http/middleware"
	"github.com/yungbote/fotherbys-backend/internal/observability"
	"github.com/yungbote/fotherbys-backend/internal/platform/envutil"
	"github.com/yungbote/fotherbys-backend/internal/platform/logger"
)

const devJWTSecret = "fotherbys-dev-secret-change-me"

type Config struct {
	LogMode        string
	Port           string
	AllowedOrigins []string
	RequestTimeout time.Duration
	JWTSecretKey   string

	DB db.Config

	MediaMode          string
	MediaRoot          string
	MediaPublicBaseURL string
	MediaBucket        string
	MediaCDNDomain     string
	EmulatorHost       string

	HouseName string
	FontPath  string

	Redis redis.Config
	Otel  observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		LogMode:        envutil.String("LOG_MODE", "development", log),
		Port:           envutil.String("PORT", "8000", log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins, log),
		RequestTimeout: envutil.Seconds("REQUEST_TIMEOUT_SECONDS", 30*time.Second, log),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "", log),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverSQLite, log),
			SQLitePath:       envutil.String("SQLITE_PATH", "data/fotherbys.db", log),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "fotherbys", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
		},

		MediaMode:          envutil.String("MEDIA_STORAGE_MODE", "local", log),
		MediaRoot:          envutil.String("MEDIA_ROOT", "uploads", log),
		MediaPublicBaseURL: envutil.String("MEDIA_PUBLIC_BASE_URL", "/uploads", log),
		MediaBucket:        envutil.String("MEDIA_GCS_BUCKET", "", log),
		MediaCDNDomain:     envutil.String("MEDIA_CDN_DOMAIN", "", log),
		EmulatorHost:       envutil.String("STORAGE_EMULATOR_HOST", "", log),

		HouseName: envutil.String("CATALOGUE_HOUSE_NAME", "Fotherby's", log),
		FontPath:  envutil.String("CATALOGUE_FONT_PATH", "", log),

		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			DB:       envutil.Int("REDIS_DB", 0, log),
			Channel:  envutil.String("LOT_EVENTS_CHANNEL", redis.DefaultLotEventsChannel, log),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "fotherbys-backend", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
	}
	cfg.Otel.Environment = cfg.LogMode

	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = devJWTSecret
		if cfg.Production() && log != nil {
			log.Warn("JWT_SECRET_KEY is not set; using the development secret")
		}
	}
	return cfg
}

func (c Config) Production() bool {
	m := strings.ToLower(strings.TrimSpace(c.LogMode))
	return m == "prod" || m == "production"
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	p := strings.TrimSpace(c.Port)
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}
