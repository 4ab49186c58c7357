package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort     = "8585"
	defaultPageSize = 9
)

type Config struct {
	Port         string
	DBPath       string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool
	SiteURL      string
	CORSOrigins  []string
	PageSize     int
	LogLevel     slog.Level

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	CloudinaryCloud  string
	CloudinaryPreset string
	CloudinaryURL    string

	MailAPIKey string
	MailAPIURL string
	MailFrom   string
	MailTo     string
}

// LoadConfig reads the environment, after loading a local .env when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", defaultPort),
		DBPath:       getEnv("DB_PATH", "./webstudio.db"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		SiteURL:      strings.TrimSuffix(getEnv("SITE_URL", "http://localhost:"+defaultPort), "/"),
		CORSOrigins:  splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		PageSize:     defaultPageSize,
		LogLevel:     parseLevel(getEnv("LOG_LEVEL", "debug")),

		OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", ""),

		CloudinaryCloud:  getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
		CloudinaryURL:    getEnv("CLOUDINARY_BASE_URL", ""),

		MailAPIKey: getEnv("RESEND_API_KEY", ""),
		MailAPIURL: getEnv("MAIL_API_URL", ""),
		MailFrom:   getEnv("MAIL_FROM", ""),
		MailTo:     getEnv("MAIL_TO", ""),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = defaultPort
	}

	if raw, ok := os.LookupEnv("PAGE_SIZE"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.PageSize = n
		} else {
			slog.Warn("Invalid PAGE_SIZE, using default", "PAGE_SIZE", raw, "default", defaultPageSize)
		}
	}

	if cfg.OpenAIKey == "" {
		slog.Warn("OPENAI_API_KEY not set. Saving content in the admin will fail until it is configured.")
	}

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes, or generates a
// throwaway one for development.
func loadKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		slog.Warn(name + " environment variable not set. Generating a random key for development. PLEASE SET " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn(name + " is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE " + name + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// generateRandomBytes generates a random byte slice of specified length
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		padded := make([]byte, n)
		copy(padded, fallbackKey)
		return padded
	}
	return b
}
