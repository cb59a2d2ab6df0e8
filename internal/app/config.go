package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mindtrack-backend/internal/data/db"
	"github.com/yungbote/mindtrack-backend/internal/platform/envutil"
	"github.com/yungbote/mindtrack-backend/internal/platform/gcp"
	"github.com/yungbote/mindtrack-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port    string
	LogMode string

	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RedisAddr       string
	InsightCacheTTL time.Duration

	ReportStorage gcp.ReportStorageConfig
	ShareBaseURL  string
	ShareTokenTTL time.Duration

	HistoryLimit   int
	AllowedOrigins []string

	ServiceName    string
	MetricsEnabled bool
}

// fileConfig is the YAML shape read from MINDTRACK_CONFIG. Unset keys keep
// their defaults; environment variables win over the file.
type fileConfig struct {
	Port     string `yaml:"port"`
	LogMode  string `yaml:"log_mode"`
	Database struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlite_path"`
		Postgres   struct {
			Host     string `yaml:"host"`
			Port     string `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Name     string `yaml:"name"`
			SSLMode  string `yaml:"sslmode"`
		} `yaml:"postgres"`
	} `yaml:"database"`
	Auth struct {
		JWTSecretKey           string `yaml:"jwt_secret_key"`
		AccessTokenTTLSeconds  int    `yaml:"access_token_ttl"`
		RefreshTokenTTLSeconds int    `yaml:"refresh_token_ttl"`
	} `yaml:"auth"`
	Cache struct {
		RedisAddr  string `yaml:"redis_addr"`
		TTLSeconds int    `yaml:"ttl"`
	} `yaml:"cache"`
	Reports struct {
		StorageMode   string `yaml:"storage_mode"`
		Bucket        string `yaml:"bucket"`
		EmulatorHost  string `yaml:"emulator_host"`
		CDNDomain     string `yaml:"cdn_domain"`
		PublicBaseURL string `yaml:"public_base_url"`
		ShareBaseURL  string `yaml:"share_base_url"`
		ShareTTLSecs  int    `yaml:"share_token_ttl"`
	} `yaml:"reports"`
	HistoryLimit   int      `yaml:"history_limit"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ServiceName    string   `yaml:"service_name"`
	MetricsEnabled *bool    `yaml:"metrics_enabled"`
}

func defaultConfig() Config {
	return Config{
		Port:     "8080",
		LogMode:  "development",
		DBDriver: db.DriverPostgres,
		Postgres: db.PostgresConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			Name:    "mindtrack",
			SSLMode: "disable",
		},
		SQLitePath:      "mindtrack.db",
		JWTSecretKey:    defaultJWTSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		InsightCacheTTL: 10 * time.Minute,
		ShareBaseURL:    "http://localhost:5173",
		ShareTokenTTL:   30 * 24 * time.Hour,
		HistoryLimit:    30,
		ServiceName:     "mindtrack-api",
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("MINDTRACK_CONFIG", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := applyYAML(&cfg, raw); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg)

	mode, err := gcp.ParseObjectStorageMode(string(cfg.ReportStorage.Mode), cfg.ReportStorage.EmulatorHost)
	if err != nil {
		return Config{}, err
	}
	cfg.ReportStorage.Mode = mode

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY is not set; using the development default")
	}
	log.Debug("Resolved config",
		"port", cfg.Port,
		"db_driver", cfg.DBDriver,
		"postgres_host", cfg.Postgres.Host,
		"sqlite_path", cfg.SQLitePath,
		"access_token_ttl", cfg.AccessTokenTTL.String(),
		"redis_enabled", cfg.RedisAddr != "",
		"report_storage_mode", cfg.ReportStorage.Mode,
		"report_bucket", cfg.ReportStorage.Bucket,
		"history_limit", cfg.HistoryLimit,
		"metrics_enabled", cfg.MetricsEnabled,
	)
	return cfg, nil
}

func applyYAML(cfg *Config, raw []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}
	setString(&cfg.Port, fc.Port)
	setString(&cfg.LogMode, fc.LogMode)
	setString(&cfg.DBDriver, fc.Database.Driver)
	setString(&cfg.SQLitePath, fc.Database.SQLitePath)
	setString(&cfg.Postgres.Host, fc.Database.Postgres.Host)
	setString(&cfg.Postgres.Port, fc.Database.Postgres.Port)
	setString(&cfg.Postgres.User, fc.Database.Postgres.User)
	setString(&cfg.Postgres.Password, fc.Database.Postgres.Password)
	setString(&cfg.Postgres.Name, fc.Database.Postgres.Name)
	setString(&cfg.Postgres.SSLMode, fc.Database.Postgres.SSLMode)
	setString(&cfg.JWTSecretKey, fc.Auth.JWTSecretKey)
	setSeconds(&cfg.AccessTokenTTL, fc.Auth.AccessTokenTTLSeconds)
	setSeconds(&cfg.RefreshTokenTTL, fc.Auth.RefreshTokenTTLSeconds)
	setString(&cfg.RedisAddr, fc.Cache.RedisAddr)
	setSeconds(&cfg.InsightCacheTTL, fc.Cache.TTLSeconds)
	if fc.Reports.StorageMode != "" {
		cfg.ReportStorage.Mode = gcp.ObjectStorageMode(fc.Reports.StorageMode)
	}
	setString(&cfg.ReportStorage.Bucket, fc.Reports.Bucket)
	setString(&cfg.ReportStorage.EmulatorHost, fc.Reports.EmulatorHost)
	setString(&cfg.ReportStorage.CDNDomain, fc.Reports.CDNDomain)
	setString(&cfg.ReportStorage.PublicBaseURL, fc.Reports.PublicBaseURL)
	setString(&cfg.ShareBaseURL, fc.Reports.ShareBaseURL)
	setSeconds(&cfg.ShareTokenTTL, fc.Reports.ShareTTLSecs)
	if fc.HistoryLimit > 0 {
		cfg.HistoryLimit = fc.HistoryLimit
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	setString(&cfg.ServiceName, fc.ServiceName)
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.DBDriver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DBDriver))
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey)
	cfg.AccessTokenTTL = envutil.Seconds("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL)
	cfg.RefreshTokenTTL = envutil.Seconds("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL)
	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.InsightCacheTTL = envutil.Seconds("INSIGHT_CACHE_TTL", cfg.InsightCacheTTL)
	cfg.ReportStorage.Mode = gcp.ObjectStorageMode(envutil.String("OBJECT_STORAGE_MODE", string(cfg.ReportStorage.Mode)))
	cfg.ReportStorage.Bucket = envutil.String("REPORT_GCS_BUCKET_NAME", cfg.ReportStorage.Bucket)
	cfg.ReportStorage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.ReportStorage.EmulatorHost)
	cfg.ReportStorage.CDNDomain = envutil.String("REPORT_CDN_DOMAIN", cfg.ReportStorage.CDNDomain)
	cfg.ReportStorage.PublicBaseURL = envutil.String("REPORT_PUBLIC_BASE_URL", cfg.ReportStorage.PublicBaseURL)
	cfg.ShareBaseURL = envutil.String("SHARE_BASE_URL", cfg.ShareBaseURL)
	cfg.ShareTokenTTL = envutil.Seconds("SHARE_TOKEN_TTL", cfg.ShareTokenTTL)
	cfg.HistoryLimit = envutil.Int("HISTORY_LIMIT", cfg.HistoryLimit)
	if raw := envutil.String("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)
}

func (cfg Config) validate() error {
	switch cfg.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 || cfg.ShareTokenTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if cfg.HistoryLimit < 1 || cfg.HistoryLimit > 100 {
		return fmt.Errorf("HISTORY_LIMIT must be in [1,100], got %d", cfg.HistoryLimit)
	}
	if cfg.LogMode == "production" && cfg.JWTSecretKey == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setSeconds(dst *time.Duration, secs int) {
	if secs > 0 {
		*dst = time.Duration(secs) * time.Second
	}
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
