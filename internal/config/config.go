package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Limits  LimitsConfig
	Extract ExtractConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for archiving uploaded originals.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LimitsConfig holds local upload validation limits.
type LimitsConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileSizeBytes returns the upload cap in bytes.
func (l *LimitsConfig) MaxFileSizeBytes() int64 {
	return l.MaxFileSizeMB * 1024 * 1024
}

// ProviderConfig holds settings for a single extraction provider.
type ProviderConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds extraction provider settings.
type ExtractConfig struct {
	Mistral ProviderConfig `mapstructure:"mistral"`
	Gemini  ProviderConfig `mapstructure:"gemini"`
}

// Load reads configuration from environment variables with the FIELDLENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FIELDLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "fieldlens")
	v.SetDefault("db.password", "fieldlens_secret")
	v.SetDefault("db.name", "fieldlens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "fieldlens-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Upload limits
	v.SetDefault("limits.max_file_size_mb", 50)

	// Extraction provider defaults
	v.SetDefault("extract.mistral.api_key", "")
	v.SetDefault("extract.mistral.model", "mistral-medium-latest")
	v.SetDefault("extract.mistral.timeout_secs", 300)
	v.SetDefault("extract.gemini.api_key", "")
	v.SetDefault("extract.gemini.model", "gemini-2.5-flash-lite")
	v.SetDefault("extract.gemini.timeout_secs", 300)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "FIELDLENS_SERVER_PORT",
		"server.read_timeout":          "FIELDLENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "FIELDLENS_SERVER_WRITE_TIMEOUT",
		"server.environment":           "FIELDLENS_SERVER_ENVIRONMENT",
		"db.host":                      "FIELDLENS_DB_HOST",
		"db.port":                      "FIELDLENS_DB_PORT",
		"db.user":                      "FIELDLENS_DB_USER",
		"db.password":                  "FIELDLENS_DB_PASSWORD",
		"db.name":                      "FIELDLENS_DB_NAME",
		"db.sslmode":                   "FIELDLENS_DB_SSLMODE",
		"db.max_open":                  "FIELDLENS_DB_MAX_OPEN",
		"db.max_idle":                  "FIELDLENS_DB_MAX_IDLE",
		"s3.region":                    "FIELDLENS_S3_REGION",
		"s3.bucket":                    "FIELDLENS_S3_BUCKET",
		"s3.endpoint":                  "FIELDLENS_S3_ENDPOINT",
		"s3.access_key":                "FIELDLENS_S3_ACCESS_KEY",
		"s3.secret_key":                "FIELDLENS_S3_SECRET_KEY",
		"s3.presign_expiry":            "FIELDLENS_S3_PRESIGN_EXPIRY",
		"log.level":                    "FIELDLENS_LOG_LEVEL",
		"log.format":                   "FIELDLENS_LOG_FORMAT",
		"cors.allowed_origins":         "FIELDLENS_CORS_ALLOWED_ORIGINS",
		"limits.max_file_size_mb":      "FIELDLENS_LIMITS_MAX_FILE_SIZE_MB",
		"extract.mistral.api_key":      "FIELDLENS_EXTRACT_MISTRAL_API_KEY",
		"extract.mistral.model":        "FIELDLENS_EXTRACT_MISTRAL_MODEL",
		"extract.mistral.timeout_secs": "FIELDLENS_EXTRACT_MISTRAL_TIMEOUT_SECS",
		"extract.gemini.api_key":       "FIELDLENS_EXTRACT_GEMINI_API_KEY",
		"extract.gemini.model":         "FIELDLENS_EXTRACT_GEMINI_MODEL",
		"extract.gemini.timeout_secs":  "FIELDLENS_EXTRACT_GEMINI_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FIELDLENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FIELDLENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Limits = LimitsConfig{
		MaxFileSizeMB: v.GetInt64("limits.max_file_size_mb"),
	}

	cfg.Extract = ExtractConfig{
		Mistral: ProviderConfig{
			APIKey:      v.GetString("extract.mistral.api_key"),
			Model:       v.GetString("extract.mistral.model"),
			TimeoutSecs: v.GetInt("extract.mistral.timeout_secs"),
		},
		Gemini: ProviderConfig{
			APIKey:      v.GetString("extract.gemini.api_key"),
			Model:       v.GetString("extract.gemini.model"),
			TimeoutSecs: v.GetInt("extract.gemini.timeout_secs"),
		},
	}

	return cfg, nil
}
