package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName         string
	MigrationsDir  string
	UploadDir      string
	MaxUploadBytes int64
	Port           string
	LogLevel       string
	SecretKey      string
	SessionTTL     time.Duration
	AllowedOrigins []string
	Admin          AdminConfig
	Slack          SlackConfig
	Turso          TursoConfig
	ProjectID      string
}

// AdminConfig is the account created when the roster is empty.
type AdminConfig struct {
	Username string
	Password string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// Enabled reports whether notifications can be posted.
func (c SlackConfig) Enabled() bool {
	return c.Token != "" && c.ChannelID != ""
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
