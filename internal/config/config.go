// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles configuration loading from environment variables,
// optionally pre-populated from a .env file. It provides a centralized Config
// struct used by the seeder command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values loaded from the environment.
type Config struct {
	Env string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible page cache). Empty host disables invalidation.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage for demo media
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BucketPublic string
	S3PublicURL    string

	// Seeding
	MediaDir      string // directory of demo images to import, optional
	FixtureDir    string // replaces the embedded fixture data when set
	DryRun        bool   // seed into memory instead of PostgreSQL
	DefaultLocale string
	Webspace      string
	AuthorEmail   string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// (or at ENV_FILE) is read first; variables already set win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(envOrDefault("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	dryRun, err := strconv.ParseBool(envOrDefault("SEED_DRY_RUN", "false"))
	if err != nil {
		return nil, fmt.Errorf("SEED_DRY_RUN: %w", err)
	}

	cfg := &Config{
		Env: envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "demoseed"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "demoseed"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic: envOrDefault("S3_BUCKET_PUBLIC", "demoseed-public"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),

		MediaDir:      os.Getenv("MEDIA_DIR"),
		FixtureDir:    os.Getenv("FIXTURE_DIR"),
		DryRun:        dryRun,
		DefaultLocale: envOrDefault("SEED_DEFAULT_LOCALE", "en"),
		Webspace:      envOrDefault("SEED_WEBSPACE", "demo"),
		AuthorEmail:   envOrDefault("SEED_AUTHOR_EMAIL", "admin@demoseed.local"),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// IsDev returns true if running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasCache reports whether a Valkey host is configured.
func (c *Config) HasCache() bool {
	return c.ValkeyHost != ""
}

// HasStorage reports whether S3 credentials are configured.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// ContentsPath returns the node path of the webspace's content root, which
// is also the path of its homepage.
func (c *Config) ContentsPath() string {
	return "/cmf/" + c.Webspace + "/contents"
}

// SnippetsPath returns the node path under which all snippets live.
func (c *Config) SnippetsPath() string {
	return "/cmf/snippets"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
