// Package config loads application configuration from environment variables.
// All variables use the LEARN_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Content ContentConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// ContentConfig locates the content files. Directories and files are relative
// to Path.
type ContentConfig struct {
	Path           string
	LevelsDir      string
	DictionaryDir  string
	DictionaryFile string
	EmailsFile     string
	// Validate runs the offline content check at startup and logs its issues.
	Validate bool
}

// CORSConfig holds cross-origin settings for the JSON API.
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// LoadDotEnv reads KEY=value lines from path into the environment. Variables
// that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from environment variables with LEARN_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("LEARN_SERVER_PORT", 8080),
			Host: envStr("LEARN_SERVER_HOST", "0.0.0.0"),
		},
		Content: ContentConfig{
			Path:           envStr("LEARN_CONTENT_PATH", "./content"),
			LevelsDir:      envStr("LEARN_CONTENT_LEVELS_DIR", "levels"),
			DictionaryDir:  envStr("LEARN_CONTENT_DICTIONARY_DIR", "dictionary"),
			DictionaryFile: envStr("LEARN_CONTENT_DICTIONARY_FILE", "dictionary.json"),
			EmailsFile:     envStr("LEARN_CONTENT_EMAILS_FILE", "emails.json"),
			Validate:       envBool("LEARN_CONTENT_VALIDATE", false),
		},
		CORS: CORSConfig{
			AllowedOrigins: envList("LEARN_CORS_ALLOWED_ORIGINS", nil),
		},
		Log: LogConfig{
			Level:  envStr("LEARN_LOG_LEVEL", "info"),
			Format: envStr("LEARN_LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("LEARN_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if strings.TrimSpace(c.Content.Path) == "" {
		return fmt.Errorf("LEARN_CONTENT_PATH is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LEARN_LOG_LEVEL must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("LEARN_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

// envList splits a comma separated variable, dropping empty elements.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
