// Package config loads the server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the greenflow server settings.
type Config struct {
	Addr     string `env:"GREENFLOW_ADDR" envDefault:":8080"`
	LogLevel string `env:"GREENFLOW_LOG_LEVEL" envDefault:"info"`

	// GraphDir is the directory of questionnaire export files loaded at boot.
	GraphDir string `env:"GREENFLOW_GRAPH_DIR" envDefault:"./graphs"`

	// DBPath is the SQLite file for claims and documents.
	DBPath string `env:"GREENFLOW_DB_PATH" envDefault:"greenflow.db"`

	// BlobDir stores uploaded supporting documents.
	BlobDir string `env:"GREENFLOW_BLOB_DIR" envDefault:"./blobs"`

	// RedisAddr enables the Redis state store and distributed session
	// locking when set; empty keeps sessions in memory.
	RedisAddr     string `env:"GREENFLOW_REDIS_ADDR"`
	RedisPassword string `env:"GREENFLOW_REDIS_PASSWORD"`
	RedisDB       int    `env:"GREENFLOW_REDIS_DB" envDefault:"0"`

	// Static development tokens for the identity provider.
	UserToken  string `env:"GREENFLOW_USER_TOKEN" envDefault:"dev-user"`
	AdminToken string `env:"GREENFLOW_ADMIN_TOKEN" envDefault:"dev-admin"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
