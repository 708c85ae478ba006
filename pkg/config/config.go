package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	OAuth    OAuthConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Local    LocalConfig
	Script   ScriptConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadBytes  int64    `envconfig:"MAX_UPLOAD_BYTES" default:"1048576"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string        `envconfig:"DB_HOST" default:"localhost"`
	Port        string        `envconfig:"DB_PORT" default:"5432"`
	User        string        `envconfig:"DB_USER" default:"postgres"`
	Password    string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string        `envconfig:"DB_NAME" default:"linerunner"`
	SSLMode     string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int           `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int           `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	Migrations  string        `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
	ConnectWait time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"30s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"true"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google      GoogleOAuthConfig
	AdminEmails []string `envconfig:"ADMIN_EMAILS"`
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/v1/auth/google/callback"`
	FrontendURL  string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// StorageConfig holds object storage configuration for markdown sources
type StorageConfig struct {
	Enabled         bool   `envconfig:"STORAGE_ENABLED" default:"false"`
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"linerunner"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
}

// LocalConfig holds the local fallback project directory
type LocalConfig struct {
	Dir string `envconfig:"LOCAL_PROJECTS_DIR" default:"data/projects"`
}

// ScriptConfig holds markdown import settings
type ScriptConfig struct {
	SungMarker string `envconfig:"SCRIPT_SUNG_MARKER" default:"~"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

// Load loads configuration from environment variables and validates it for the API server
func Load() (*Config, error) {
	config, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnv loads configuration without the API-only checks
func LoadEnv() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OAuth.Google.ClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.OAuth.Google.ClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.Server.Environment == "production" && c.JWT.AccessSecret == "your-access-secret-change-in-production" {
		return fmt.Errorf("JWT_ACCESS_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
