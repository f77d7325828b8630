package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fitness-league-go/pkg/logger"
)

type Config struct {
	HTTPPort       string
	Env            string
	StorageTimeout time.Duration
	CORSOrigins    []string
	DB             DBConfig
	Supabase       SupabaseConfig
	RestDay        RestDayConfig
	Proofs         ProofConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Migrate         bool
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	// JWTSecret enables local HS256 verification instead of calling
	// /auth/v1/user on every request.
	JWTSecret      string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

type RestDayConfig struct {
	Enabled bool
	// RunAt is the UTC wall clock time of the daily backfill, "HH:MM".
	RunAt      string
	CronSecret string
}

type ProofConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	URLTTL          time.Duration
}

// Enabled reports whether presigned proof uploads are configured.
func (c ProofConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		StorageTimeout: getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),
		CORSOrigins:    getEnvList("CORS_ALLOWED_ORIGINS"),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "fitness_league"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			Migrate:         getEnvBool("DB_MIGRATE", true),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserAvatar: getEnv("AUTH_MOCK_USER_AVATAR_URL", ""),
		},
		RestDay: RestDayConfig{
			Enabled:    getEnvBool("REST_DAY_ENABLED", true),
			RunAt:      getEnv("REST_DAY_RUN_AT", "00:05"),
			CronSecret: getEnv("CRON_SECRET", ""),
		},
		Proofs: ProofConfig{
			Bucket:          getEnv("PROOF_BUCKET", ""),
			Endpoint:        getEnv("PROOF_ENDPOINT", ""),
			Region:          getEnv("PROOF_REGION", "auto"),
			AccessKeyID:     getEnv("PROOF_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("PROOF_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   getEnv("PROOF_PUBLIC_BASE_URL", ""),
			URLTTL:          getEnvDuration("PROOF_URL_TTL", 15*time.Minute),
		},
	}

	if _, _, err := ParseRunAt(cfg.RestDay.RunAt); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseRunAt splits an "HH:MM" wall clock time.
func ParseRunAt(value string) (uint, uint, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid REST_DAY_RUN_AT %q: %w", value, err)
	}
	return uint(parsed.Hour()), uint(parsed.Minute()), nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var values []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
