package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "foodgram-dev-secret"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Recipe images
	S3Bucket string
	S3Region string
	MediaDir string
	MediaURL string

	CORSOrigins []string

	PageSize          int
	RecipeCreateLimit int
}

// LoadConfig reads configuration from the environment, Docker secrets and an
// optional .env file, in that order of precedence.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	if env == Development || env == Test {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("could not read .env file")
		}
	}

	cfg := &Config{
		ServerPort: lookup("SERVER_PORT", "8080"),
		ServerHost: lookup("SERVER_HOST", "0.0.0.0"),

		DBDriver:   lookup("DB_DRIVER", DriverPostgres),
		DBHost:     lookup("DB_HOST", "localhost"),
		DBPort:     lookup("DB_PORT", "5432"),
		DBUser:     lookup("DB_USER", "postgres"),
		DBPassword: lookup("DB_PASSWORD", ""),
		DBName:     lookup("DB_NAME", "foodgram"),
		DBSSLMode:  lookup("DB_SSL_MODE", "disable"),
		SQLitePath: lookup("SQLITE_PATH", "foodgram.db"),

		RedisURL:      lookup("REDIS_URL", ""),
		RedisHost:     lookup("REDIS_HOST", ""),
		RedisPort:     lookup("REDIS_PORT", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", ""),

		JWTSecret: lookup("JWT_SECRET", defaultJWTSecret),

		S3Bucket: lookup("S3_BUCKET_NAME", ""),
		S3Region: lookup("AWS_REGION", "us-east-1"),
		MediaDir: lookup("MEDIA_DIR", "media"),
		MediaURL: lookup("MEDIA_URL", "/media/"),

		CORSOrigins: splitList(lookup("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	var err error
	if cfg.RedisDB, err = lookupInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = lookupInt("PAGE_SIZE", 6); err != nil {
		return nil, err
	}
	if cfg.RecipeCreateLimit, err = lookupInt("RECIPE_CREATE_LIMIT", 30); err != nil {
		return nil, err
	}
	ttl := lookup("TOKEN_TTL", "24h")
	if cfg.TokenTTL, err = time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
	}

	if err := ValidateConfig(env, cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// lookup returns the environment variable, then the Docker secret with the
// lower-cased name, then def.
func lookup(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(name)); v != "" {
		return v
	}
	return def
}

func lookupInt(name string, def int) (int, error) {
	raw := lookup(name, "")
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
