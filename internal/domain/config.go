package domain

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"time"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"
)

// ValidEnvironments enumerates all recognized environments.
var ValidEnvironments = []Environment{EnvDevelopment, EnvStaging, EnvProduction, EnvTest}

var (
	validLogLevels       = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats      = []string{"text", "json"}
	validStorageBackends = []string{"memory", "file"}
	validEmailBackends   = []string{"console", "noop"}
)

// AppConfig holds every tunable of the users service.
type AppConfig struct {
	Environment Environment   `yaml:"environment"`
	Log         LogConfig     `yaml:"log"`
	Server      ServerConfig  `yaml:"server"`
	Storage     StorageConfig `yaml:"storage"`
	Email       EmailConfig   `yaml:"email"`
	Tracing     TracingConfig `yaml:"tracing"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns host:port for net.Listen.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type StorageConfig struct {
	// Backend is "memory" or "file".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type EmailConfig struct {
	Backend string `yaml:"backend"`
	From    string `yaml:"from"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// DefaultConfig returns the configuration used when no file or env override is present.
func DefaultConfig() AppConfig {
	return AppConfig{
		Environment: EnvDevelopment,
		Log:         LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{Backend: "memory", Path: "users.json"},
		Email:   EmailConfig{Backend: "console", From: "noreply@example.com"},
		Tracing: TracingConfig{Enabled: false, ServiceName: "hexagonal"},
	}
}

func (c AppConfig) IsDevelopment() bool { return c.Environment == EnvDevelopment }

func (c AppConfig) IsProduction() bool { return c.Environment == EnvProduction }

// Validate checks that every enumerated field holds a known value.
func (c AppConfig) Validate() error {
	if !slices.Contains(ValidEnvironments, c.Environment) {
		return fmt.Errorf("unknown environment %q (valid: development, staging, production, test)", c.Environment)
	}
	if !slices.Contains(validLogLevels, c.Log.Level) {
		return fmt.Errorf("unknown log level %q (valid: trace, debug, info, warn, error)", c.Log.Level)
	}
	if !slices.Contains(validLogFormats, c.Log.Format) {
		return fmt.Errorf("unknown log format %q (valid: text, json)", c.Log.Format)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range 1-65535", c.Server.Port)
	}
	if !slices.Contains(validStorageBackends, c.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q (valid: memory, file)", c.Storage.Backend)
	}
	if c.Storage.Backend == "file" && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for the file backend")
	}
	if !slices.Contains(validEmailBackends, c.Email.Backend) {
		return fmt.Errorf("unknown email backend %q (valid: console, noop)", c.Email.Backend)
	}
	return nil
}
