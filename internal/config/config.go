package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration for the server and the seed CLI.
type Config struct {
	Addr           string
	DatabaseURL    string
	SSLMode        string
	AllowedOrigins []string
	BcryptCost     int
	LogLevel       string
	GinMode        string
	FixturesPath   string
	MaxOpenConns   int
	MaxIdleConns   int
}

// Load builds a Config from environment variables. POSTGRES_URL has no
// default; its absence is reported by the routes that need a database.
func Load() Config {
	return Config{
		Addr:           GetString("HTTP_ADDR", ":8080"),
		DatabaseURL:    strings.TrimSpace(GetString("POSTGRES_URL", "")),
		SSLMode:        GetString("POSTGRES_SSLMODE", "require"),
		AllowedOrigins: GetList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		BcryptCost:     GetInt("BCRYPT_COST", 10),
		LogLevel:       GetString("LOG_LEVEL", "info"),
		GinMode:        GetString("GIN_MODE", "release"),
		FixturesPath:   GetString("SEED_FIXTURES_PATH", ""),
		MaxOpenConns:   GetInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:   GetInt("DB_MAX_IDLE_CONNS", 5),
	}
}

// DSN returns the connection string with sslmode applied. Keyword/value
// DSNs and URLs that already name an sslmode are returned unchanged.
func (c Config) DSN() string {
	if c.DatabaseURL == "" || c.SSLMode == "" {
		return c.DatabaseURL
	}
	if !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return c.DatabaseURL
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return c.DatabaseURL
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return c.DatabaseURL
	}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an environment variable as integer or returns fallback.
func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}

// GetList splits a comma separated variable, dropping empty entries.
func GetList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
