package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abdidvp/hexagonal/internal/domain"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "APP_"

// YAMLLoader implements domain.ConfigLoader. Sources, lowest precedence first:
// defaults, default.yaml, <environment>.yaml, local.yaml, APP_* variables.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv} }

// NewWithEnv creates a YAMLLoader that resolves variables through lookup.
func NewWithEnv(lookup func(string) (string, bool)) *YAMLLoader {
	return &YAMLLoader{lookupEnv: lookup}
}

// Load reads the config files in dir. Missing files are skipped.
func (l *YAMLLoader) Load(dir string) (domain.AppConfig, error) {
	cfg := domain.DefaultConfig()
	if err := overlayFile(&cfg, filepath.Join(dir, "default.yaml")); err != nil {
		return domain.AppConfig{}, err
	}

	// The environment file is chosen after default.yaml so it can be set there.
	env := cfg.Environment
	if v, ok := l.lookupEnv(EnvPrefix + "ENVIRONMENT"); ok && v != "" {
		env = domain.Environment(v)
	}
	for _, name := range []string{string(env) + ".yaml", "local.yaml"} {
		if err := overlayFile(&cfg, filepath.Join(dir, name)); err != nil {
			return domain.AppConfig{}, err
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return domain.AppConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.AppConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func overlayFile(cfg *domain.AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (l *YAMLLoader) applyEnv(cfg *domain.AppConfig) error {
	str := func(key string, dst *string) {
		if v, ok := l.lookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	var env string
	str("ENVIRONMENT", &env)
	if env != "" {
		cfg.Environment = domain.Environment(env)
	}
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("SERVER_HOST", &cfg.Server.Host)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("STORAGE_PATH", &cfg.Storage.Path)
	str("EMAIL_BACKEND", &cfg.Email.Backend)
	str("EMAIL_FROM", &cfg.Email.From)
	str("TRACING_SERVICE_NAME", &cfg.Tracing.ServiceName)

	if v, ok := l.lookupEnv(EnvPrefix + "SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sSERVER_PORT: %w", EnvPrefix, err)
		}
		cfg.Server.Port = port
	}
	if v, ok := l.lookupEnv(EnvPrefix + "TRACING_ENABLED"); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parsing %sTRACING_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Tracing.Enabled = enabled
	}
	return nil
}
