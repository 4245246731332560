package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Artifacts ArtifactsConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Logger    LoggerConfig
	Zammad    ZammadConfig
	Zendesk   ZendeskConfig
	Routing   RoutingConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	MinDescriptionLength  int
}

// ArtifactsConfig addresses the five trained artifacts loaded at startup.
type ArtifactsConfig struct {
	VectorizerPath      string
	DepartmentModelPath string
	PriorityModelPath   string
	DepartmentCodecPath string
	PriorityCodecPath   string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig controls the prediction result cache.
type CacheConfig struct {
	Enabled    bool
	TTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ZammadConfig holds credentials for the Zammad helpdesk backend. Either an
// HTTP token or username/password must be set for the backend to register.
type ZammadConfig struct {
	URL       string
	HTTPToken string
	Username  string
	Password  string
}

// ZendeskConfig holds credentials for the Zendesk helpdesk backend.
type ZendeskConfig struct {
	Subdomain string
	Email     string
	APIToken  string
}

// RoutingConfig controls how predicted departments map onto helpdesk groups.
type RoutingConfig struct {
	DefaultBackend   string
	AutoCreateGroups bool
	GroupPrefix      string
	TimeoutSeconds   int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-classifier"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			MinDescriptionLength:  getEnvAsInt("MIN_DESCRIPTION_LENGTH", 10),
		},
		Artifacts: ArtifactsConfig{
			VectorizerPath:      getEnv("ARTIFACT_VECTORIZER_PATH", "models/tfidf_vectorizer.json"),
			DepartmentModelPath: getEnv("ARTIFACT_DEPARTMENT_MODEL_PATH", "models/log_reg_dept_model.json"),
			PriorityModelPath:   getEnv("ARTIFACT_PRIORITY_MODEL_PATH", "models/log_reg_prio_model.json"),
			DepartmentCodecPath: getEnv("ARTIFACT_DEPARTMENT_CODEC_PATH", "models/le_department.json"),
			PriorityCodecPath:   getEnv("ARTIFACT_PRIORITY_CODEC_PATH", "models/le_priority.json"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("PREDICTION_CACHE_ENABLED", true),
			TTLSeconds: getEnvAsInt("PREDICTION_CACHE_TTL_SECONDS", 3600),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Zammad: ZammadConfig{
			URL:       os.Getenv("ZAMMAD_URL"),
			HTTPToken: os.Getenv("ZAMMAD_HTTP_TOKEN"),
			Username:  os.Getenv("ZAMMAD_USERNAME"),
			Password:  os.Getenv("ZAMMAD_PASSWORD"),
		},
		Zendesk: ZendeskConfig{
			Subdomain: os.Getenv("ZENDESK_SUBDOMAIN"),
			Email:     os.Getenv("ZENDESK_EMAIL"),
			APIToken:  os.Getenv("ZENDESK_TOKEN"),
		},
		Routing: RoutingConfig{
			DefaultBackend:   getEnv("ROUTING_DEFAULT_BACKEND", "zammad"),
			AutoCreateGroups: getEnvAsBool("ROUTING_AUTO_CREATE_GROUPS", true),
			GroupPrefix:      getEnv("ROUTING_GROUP_PREFIX", ""),
			TimeoutSeconds:   getEnvAsInt("ROUTING_TIMEOUT_SECONDS", 20),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Timeout returns the outbound helpdesk call timeout.
func (r RoutingConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Configured reports whether Zammad credentials are present.
func (z ZammadConfig) Configured() bool {
	return z.URL != "" && (z.HTTPToken != "" || (z.Username != "" && z.Password != ""))
}

// Configured reports whether Zendesk credentials are present.
func (z ZendeskConfig) Configured() bool {
	return z.Subdomain != "" && z.Email != "" && z.APIToken != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
