// Package config loads process configuration from an optional YAML file and
// the environment, with environment taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the process needs at startup.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr" env:"LATTICE_ADDR"`

	// MongoURI is the deployment connection string.
	MongoURI string `yaml:"mongo_uri" env:"LATTICE_MONGODB_URI"`

	// Database is the logical database name.
	Database string `yaml:"database" env:"LATTICE_MONGODB_DB"`

	// SecretKey signs bearer tokens. Required.
	SecretKey string `yaml:"secret_key" env:"LATTICE_SECRET_KEY"`

	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `yaml:"token_ttl" env:"LATTICE_TOKEN_TTL"`

	// FirstSuperuser and FirstSuperuserPassword seed the initial superuser
	// account at startup when both are set and the account is absent.
	FirstSuperuser         string `yaml:"first_superuser" env:"LATTICE_FIRST_SUPERUSER"`
	FirstSuperuserPassword string `yaml:"first_superuser_password" env:"LATTICE_FIRST_SUPERUSER_PASSWORD"`

	// LogLevel is one of zerolog's level names.
	LogLevel string `yaml:"log_level" env:"LATTICE_LOG_LEVEL"`
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first if present. When path is non-empty the YAML
// file supplies values, then set environment variables override, then
// defaults fill whatever is still empty.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	cfg.applyDefaults()
	if cfg.SecretKey == "" {
		return nil, errors.New("config: secret key is required (LATTICE_SECRET_KEY)")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "lattice"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 8 * 24 * time.Hour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
