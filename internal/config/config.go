package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Upload      UploadConfig
	Statement   StatementConfig
	Categorizer CategorizerConfig
	Log         LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// UploadConfig holds statement upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// StatementConfig holds the section markers used to slice statement text.
type StatementConfig struct {
	StartMarker string `mapstructure:"start_marker"`
	StopMarker  string `mapstructure:"stop_marker"`
}

// CategorizerProviderConfig holds settings for a single LLM categorizer provider.
type CategorizerProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// CategorizerConfig holds LLM categorizer settings with multi-provider support.
type CategorizerConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   CategorizerProviderConfig `mapstructure:"primary"`
	Secondary CategorizerProviderConfig `mapstructure:"secondary"`
	Tertiary  CategorizerProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary categorizer provider config, falling back
// to legacy flat fields.
func (c *CategorizerConfig) PrimaryConfig() *CategorizerProviderConfig {
	if c.Primary.Provider != "" {
		return &c.Primary
	}
	return &CategorizerProviderConfig{
		Provider:     c.Provider,
		APIKey:       c.APIKey,
		DefaultModel: c.DefaultModel,
		TimeoutSecs:  c.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary categorizer provider config, or nil if not configured.
func (c *CategorizerConfig) SecondaryConfig() *CategorizerProviderConfig {
	if c.Secondary.Provider != "" {
		return &c.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary categorizer provider config, or nil if not configured.
func (c *CategorizerConfig) TertiaryConfig() *CategorizerProviderConfig {
	if c.Tertiary.Provider != "" {
		return &c.Tertiary
	}
	return nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SPENDSCOPE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPENDSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// CORS defaults (Vite dev server origins)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// Statement marker defaults
	v.SetDefault("statement.start_marker", "ACCOUNT ACTIVITY")
	v.SetDefault("statement.stop_marker", "Totals Year-to-Date")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Categorizer defaults (legacy flat)
	v.SetDefault("categorizer.provider", "openai")
	v.SetDefault("categorizer.api_key", "")
	v.SetDefault("categorizer.default_model", "gpt-4o")
	v.SetDefault("categorizer.timeout_secs", 120)

	// Categorizer primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("categorizer."+tier+".provider", "")
		v.SetDefault("categorizer."+tier+".api_key", "")
		v.SetDefault("categorizer."+tier+".default_model", "")
		v.SetDefault("categorizer."+tier+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                         "SPENDSCOPE_SERVER_PORT",
		"server.read_timeout":                 "SPENDSCOPE_SERVER_READ_TIMEOUT",
		"server.write_timeout":                "SPENDSCOPE_SERVER_WRITE_TIMEOUT",
		"server.environment":                  "SPENDSCOPE_SERVER_ENVIRONMENT",
		"cors.allowed_origins":                "SPENDSCOPE_CORS_ALLOWED_ORIGINS",
		"upload.max_file_size_mb":             "SPENDSCOPE_UPLOAD_MAX_FILE_SIZE_MB",
		"statement.start_marker":              "SPENDSCOPE_STATEMENT_START_MARKER",
		"statement.stop_marker":               "SPENDSCOPE_STATEMENT_STOP_MARKER",
		"log.level":                           "SPENDSCOPE_LOG_LEVEL",
		"log.format":                          "SPENDSCOPE_LOG_FORMAT",
		"categorizer.provider":                "SPENDSCOPE_CATEGORIZER_PROVIDER",
		"categorizer.api_key":                 "SPENDSCOPE_CATEGORIZER_API_KEY",
		"categorizer.default_model":           "SPENDSCOPE_CATEGORIZER_DEFAULT_MODEL",
		"categorizer.timeout_secs":            "SPENDSCOPE_CATEGORIZER_TIMEOUT_SECS",
		"categorizer.primary.provider":        "SPENDSCOPE_CATEGORIZER_PRIMARY_PROVIDER",
		"categorizer.primary.api_key":         "SPENDSCOPE_CATEGORIZER_PRIMARY_API_KEY",
		"categorizer.primary.default_model":   "SPENDSCOPE_CATEGORIZER_PRIMARY_DEFAULT_MODEL",
		"categorizer.primary.timeout_secs":    "SPENDSCOPE_CATEGORIZER_PRIMARY_TIMEOUT_SECS",
		"categorizer.secondary.provider":      "SPENDSCOPE_CATEGORIZER_SECONDARY_PROVIDER",
		"categorizer.secondary.api_key":       "SPENDSCOPE_CATEGORIZER_SECONDARY_API_KEY",
		"categorizer.secondary.default_model": "SPENDSCOPE_CATEGORIZER_SECONDARY_DEFAULT_MODEL",
		"categorizer.secondary.timeout_secs":  "SPENDSCOPE_CATEGORIZER_SECONDARY_TIMEOUT_SECS",
		"categorizer.tertiary.provider":       "SPENDSCOPE_CATEGORIZER_TERTIARY_PROVIDER",
		"categorizer.tertiary.api_key":        "SPENDSCOPE_CATEGORIZER_TERTIARY_API_KEY",
		"categorizer.tertiary.default_model":  "SPENDSCOPE_CATEGORIZER_TERTIARY_DEFAULT_MODEL",
		"categorizer.tertiary.timeout_secs":   "SPENDSCOPE_CATEGORIZER_TERTIARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SPENDSCOPE_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SPENDSCOPE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	cfg.Statement = StatementConfig{
		StartMarker: v.GetString("statement.start_marker"),
		StopMarker:  v.GetString("statement.stop_marker"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	cfg.Categorizer = CategorizerConfig{
		Provider:     v.GetString("categorizer.provider"),
		APIKey:       v.GetString("categorizer.api_key"),
		DefaultModel: v.GetString("categorizer.default_model"),
		TimeoutSecs:  v.GetInt("categorizer.timeout_secs"),
		Primary: CategorizerProviderConfig{
			Provider:     v.GetString("categorizer.primary.provider"),
			APIKey:       v.GetString("categorizer.primary.api_key"),
			DefaultModel: v.GetString("categorizer.primary.default_model"),
			TimeoutSecs:  v.GetInt("categorizer.primary.timeout_secs"),
		},
		Secondary: CategorizerProviderConfig{
			Provider:     v.GetString("categorizer.secondary.provider"),
			APIKey:       v.GetString("categorizer.secondary.api_key"),
			DefaultModel: v.GetString("categorizer.secondary.default_model"),
			TimeoutSecs:  v.GetInt("categorizer.secondary.timeout_secs"),
		},
		Tertiary: CategorizerProviderConfig{
			Provider:     v.GetString("categorizer.tertiary.provider"),
			APIKey:       v.GetString("categorizer.tertiary.api_key"),
			DefaultModel: v.GetString("categorizer.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("categorizer.tertiary.timeout_secs"),
		},
	}

	return cfg, nil
}
