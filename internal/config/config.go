package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	defaultPort           = "8080"
	defaultDBName         = "esports.db"
	defaultMigrationsDir  = "./migrations"
	defaultUploadDir      = "./uploads"
	defaultMaxUploadBytes = 5 << 20
	defaultSessionTTL     = 24 * time.Hour
	defaultAdminUsername  = "admin"
	defaultAdminPassword  = "admin123"
)

// Load reads configuration from environment variables and .env file.
// It exits the process when a required variable is missing or malformed.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from lookup.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	secret := getEnv("SECRET_KEY", "")
	if secret == "" {
		return Config{}, fmt.Errorf("required environment variable SECRET_KEY is not set")
	}

	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", strconv.Itoa(defaultMaxUploadBytes)), 10, 64)
	if err != nil || maxUpload <= 0 {
		return Config{}, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer")
	}
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", defaultSessionTTL.String()))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be a positive duration")
	}

	cfg := Config{
		DBName:         getEnv("DB_NAME", defaultDBName),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", defaultMigrationsDir),
		UploadDir:      getEnv("UPLOAD_DIR", defaultUploadDir),
		MaxUploadBytes: maxUpload,
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SecretKey:      secret,
		SessionTTL:     ttl,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", defaultAdminUsername),
			Password: getEnv("ADMIN_PASSWORD", defaultAdminPassword),
		},
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnv("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnv("GCP_PROJECT", ""),
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
