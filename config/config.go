package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "foodgram-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DatabaseURL wins over the DB* parts when set.
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis configuration. Redis is optional; an empty RedisURL and RedisHost disables it.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Image storage
	StorageDriver string
	MediaRoot     string
	MediaURL      string
	S3BucketName  string
	AWSRegion     string
	S3Endpoint    string

	CORSAllowedOrigins []string
	LogLevel           string

	// RecipeCreateLimit is the number of recipes a user may create per hour.
	RecipeCreateLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	switch env {
	case CI, Development, Test:
		loadDefaults(cfg)
	case Production:
		// Production has no fallbacks for credentials.
		cfg.ServerHost = "0.0.0.0"
		cfg.ServerPort = "8080"
		cfg.DBPort = "5432"
		cfg.DBSSLMode = "require"
		cfg.StorageDriver = "s3"
		cfg.JWTTTL = 24 * time.Hour
		cfg.LogLevel = "info"
		cfg.RecipeCreateLimit = 30
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadValues(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the database connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// RedisAddr returns a redis URL, or an empty string when redis is not configured.
func (c *Config) RedisAddr() string {
	if c.RedisURL != "" {
		return c.RedisURL
	}
	if c.RedisHost == "" {
		return ""
	}
	port := c.RedisPort
	if port == "" {
		port = "6379"
	}
	if c.RedisPassword != "" {
		return fmt.Sprintf("redis://:%s@%s:%s/%d", c.RedisPassword, c.RedisHost, port, c.RedisDB)
	}
	return fmt.Sprintf("redis://%s:%s/%d", c.RedisHost, port, c.RedisDB)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func loadDefaults(cfg *Config) {
	cfg.ServerHost = "0.0.0.0"
	cfg.ServerPort = "8080"
	cfg.DBHost = "localhost"
	cfg.DBPort = "5432"
	cfg.DBUser = "postgres"
	cfg.DBPassword = "postgres"
	cfg.DBName = "foodgram"
	cfg.DBSSLMode = "disable"
	cfg.JWTSecret = defaultJWTSecret
	cfg.JWTTTL = 24 * time.Hour
	cfg.StorageDriver = "local"
	cfg.MediaRoot = "media"
	cfg.MediaURL = "/media"
	cfg.CORSAllowedOrigins = []string{"http://localhost:3000"}
	cfg.LogLevel = "debug"
	cfg.RecipeCreateLimit = 30
}

// loadValues overlays environment variables and Docker secrets onto cfg.
func loadValues(cfg *Config) error {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBPort, "DB_PORT")
	setString(&cfg.DBUser, "DB_USER")
	setString(&cfg.DBPassword, "DB_PASSWORD")
	setString(&cfg.DBName, "DB_NAME")
	setString(&cfg.DBSSLMode, "DB_SSL_MODE")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.StorageDriver, "STORAGE_DRIVER")
	setString(&cfg.MediaRoot, "MEDIA_ROOT")
	setString(&cfg.MediaURL, "MEDIA_URL")
	setString(&cfg.S3BucketName, "S3_BUCKET_NAME")
	setString(&cfg.AWSRegion, "AWS_REGION")
	setString(&cfg.S3Endpoint, "S3_ENDPOINT")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := lookup("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v := lookup("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}
	if v := lookup("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_TTL %q: %w", v, err)
		}
		cfg.JWTTTL = d
	}
	if v := lookup("RECIPE_CREATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RECIPE_CREATE_LIMIT %q: %w", v, err)
		}
		cfg.RecipeCreateLimit = n
	}
	return nil
}

func setString(dst *string, name string) {
	if v := lookup(name); v != "" {
		*dst = v
	}
}

// lookup returns the environment variable, falling back to the Docker secret
// with the lower-cased name.
func lookup(name string) string {
	if v, ok := os.LookupEnv(name); ok {
		return strings.TrimSpace(v)
	}
	return readSecret(strings.ToLower(name))
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// loadDotEnv reads ENV_FILE (default .env) when it exists. Variables already
// present in the environment are not overridden.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
