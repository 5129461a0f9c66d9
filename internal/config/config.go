package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the configuration file is looked up when no path is given
var DefaultPath = filepath.Join("configs", "config.yaml")

// PathEnvVar overrides DefaultPath
const PathEnvVar = "REGISTRAR_CONFIG"

// Storage drivers
const (
	DriverCSV      = "csv"
	DriverPostgres = "postgres"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Storage struct {
		Driver          string `yaml:"driver" env:"STORAGE_DRIVER"`
		DataDir         string `yaml:"data_dir" env:"STORAGE_DATA_DIR"`
		StudentsFile    string `yaml:"students_file" env:"STORAGE_STUDENTS_FILE"`
		SubjectsFile    string `yaml:"subjects_file" env:"STORAGE_SUBJECTS_FILE"`
		EnrollmentsFile string `yaml:"enrollments_file" env:"STORAGE_ENROLLMENTS_FILE"`
		Seed            bool   `yaml:"seed" env:"STORAGE_SEED"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Registration struct {
		MinimumAge int `yaml:"minimum_age" env:"REGISTRATION_MINIMUM_AGE"`
	} `yaml:"registration"`

	// EnvOverrides lists the environment variables applied on top of the file
	EnvOverrides []string `yaml:"-"`
}

// ResolvePath picks the config file path: explicit argument, then REGISTRAR_CONFIG, then DefaultPath
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return GetEnv(PathEnvVar, DefaultPath)
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Storage.Driver = DriverCSV
	config.Storage.DataDir = "data"
	config.Storage.StudentsFile = "students.csv"
	config.Storage.SubjectsFile = "subjects.csv"
	config.Storage.EnrollmentsFile = "enrollments.csv"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "registrar"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "8h"
	config.JWT.Issuer = "registrar"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Registration.MinimumAge = 15
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	applied, err := applyEnv(config, os.LookupEnv)
	config.EnvOverrides = applied
	return err
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Storage.Driver) {
	case DriverCSV:
		if config.Storage.DataDir == "" {
			return fmt.Errorf("storage data_dir is required for the csv driver")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres driver")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database conn_max_lifetime: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Registration.MinimumAge < 0 {
		return fmt.Errorf("registration minimum_age must not be negative")
	}

	return nil
}

// ValidateForServer checks the settings only the HTTP server needs
func (c *Config) ValidateForServer() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	return nil
}

// StoragePaths returns the full paths of the students, subjects and enrollments files
func (c *Config) StoragePaths() (students, subjects, enrollments string) {
	dir := c.Storage.DataDir
	return filepath.Join(dir, c.Storage.StudentsFile),
		filepath.Join(dir, c.Storage.SubjectsFile),
		filepath.Join(dir, c.Storage.EnrollmentsFile)
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
