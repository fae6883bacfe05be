package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Security SecurityConfig `json:"security"`
	Logging  LoggingConfig  `json:"logging"`
	Storage  StorageConfig  `json:"storage"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	CORSOrigin   string        `json:"cors_origin"`
}

// DatabaseConfig represents database configuration. Driver is "postgres"
// or "sqlite"; Path is only used by sqlite.
type DatabaseConfig struct {
	Driver         string        `json:"driver"`
	Path           string        `json:"path"`
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// SecurityConfig
type SecurityConfig struct {
	JWTSecret   string        `json:"jwt_secret"`
	TokenTTL    time.Duration `json:"token_ttl"`
	RequireAuth bool          `json:"require_auth"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// StorageConfig controls archiving of generated reports to S3.
type StorageConfig struct {
	ArchiveReports  bool          `json:"archive_reports"`
	S3Bucket        string        `json:"s3_bucket"`
	S3Prefix        string        `json:"s3_prefix"`
	Region          string        `json:"region"`
	Endpoint        string        `json:"endpoint"`
	AccessKeyID     string        `json:"access_key_id"`
	SecretAccessKey string        `json:"secret_access_key"`
	PresignTTL      time.Duration `json:"presign_ttl"`
}

// Enabled reports whether report archiving is configured.
func (s StorageConfig) Enabled() bool {
	return s.ArchiveReports && s.S3Bucket != ""
}

// DefaultJWTSecret signs development tokens. Validate rejects it once auth
// is required.
const DefaultJWTSecret = "dev-secret-change-me"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigin:   "*",
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "data/ghg.db",
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "ghg_calculator",
			SSLMode: "disable",
		},
		Security: SecurityConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Development: true,
		},
		Storage: StorageConfig{
			S3Prefix:   "ghg-reports",
			Region:     "us-east-1",
			PresignTTL: 15 * time.Minute,
		},
	}
}

// LoadConfig loads configuration from file and environment variables.
// A .env file in the working directory is read first when present.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		config.Server.CORSOrigin = origin
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		config.Database.Driver = driver
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		config.Database.Path = path
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbPort := os.Getenv("DATABASE_PORT"); dbPort != "" {
		if p, err := strconv.Atoi(dbPort); err == nil {
			config.Database.Port = p
		}
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Security.JWTSecret = secret
	}
	if v := os.Getenv("REQUIRE_AUTH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Security.RequireAuth = b
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Logging.Development = b
		}
	}
	if bucket := os.Getenv("REPORTS_S3_BUCKET"); bucket != "" {
		config.Storage.S3Bucket = bucket
		config.Storage.ArchiveReports = true
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Storage.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
	}
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("database host and db_name are required for postgres")
		}
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Security.RequireAuth && (c.Security.JWTSecret == "" || c.Security.JWTSecret == DefaultJWTSecret) {
		return fmt.Errorf("a non-default jwt_secret is required when require_auth is set")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
