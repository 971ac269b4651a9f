package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/logger"
)

// Config holds the service configuration loaded from YAML, with individual
// values overridable through environment variables (see GetEnv call sites).
type Config struct {
	PostgresConfig PostgresConfig `yaml:"database"`
	JWTSecretKey   string         `yaml:"jwt_secret"`
	CatalogPath    string         `yaml:"catalog_path"`
	Port           string         `yaml:"port"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

// ReadConfig reads the configuration from the YAML file. A missing file is
// not an error: every value has an environment fallback.
func ReadConfig(filePath string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("config file not found, relying on env vars", "path", filePath)
			return &config, nil
		}
		logger.Error("unable to read config file", "path", filePath, "error", err)
		return nil, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		logger.Error("unable to unmarshal config YAML", "error", err)
		return nil, err
	}

	return &config, nil
}

// GetEnv returns the value of an environment variable or a fallback.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// JWTSecret resolves the token-signing secret: env var first, then config.
func (c *Config) JWTSecret() []byte {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte(c.JWTSecretKey)
}
