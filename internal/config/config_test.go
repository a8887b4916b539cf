// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envVars = []string{
	"APP_ENV", "ENV_FILE",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"S3_BUCKET_PUBLIC", "S3_PUBLIC_URL",
	"MEDIA_DIR", "FIXTURE_DIR", "SEED_DRY_RUN", "SEED_DEFAULT_LOCALE",
	"SEED_WEBSPACE", "SEED_AUTHOR_EMAIL",
}

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset. t.Setenv restores the originals after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Env", cfg.Env, "development")
	check("DBHost", cfg.DBHost, "localhost")
	check("DBUser", cfg.DBUser, "demoseed")
	check("DBName", cfg.DBName, "demoseed")
	check("ValkeyHost", cfg.ValkeyHost, "")
	check("S3BucketPublic", cfg.S3BucketPublic, "demoseed-public")
	check("DefaultLocale", cfg.DefaultLocale, "en")
	check("Webspace", cfg.Webspace, "demo")
	check("AuthorEmail", cfg.AuthorEmail, "admin@demoseed.local")

	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
	if cfg.HasCache() {
		t.Error("HasCache should be false without VALKEY_HOST")
	}
	if cfg.HasStorage() {
		t.Error("HasStorage should be false without S3 credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_DRY_RUN", "true")
	t.Setenv("SEED_WEBSPACE", "example")
	t.Setenv("VALKEY_HOST", "cache")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.DryRun {
		t.Error("expected DryRun")
	}
	if !cfg.HasCache() {
		t.Error("expected HasCache")
	}
	if !cfg.HasStorage() {
		t.Error("expected HasStorage")
	}
	if got := cfg.ContentsPath(); got != "/cmf/example/contents" {
		t.Errorf("ContentsPath = %q", got)
	}
}

func TestLoad_InvalidDryRun(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEED_DRY_RUN", "maybe")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid SEED_DRY_RUN")
	}
}

// TestLoad_ProductionRequiresPassword verifies the default database password
// is refused in production.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error in production with default password")
	}
	if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
		t.Errorf("error should mention POSTGRES_PASSWORD, got: %v", err)
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	if _, err := Load(); err != nil {
		t.Errorf("unexpected error with password set: %v", err)
	}
}

// TestLoad_EnvFile verifies values are read from a .env file without
// overriding variables already present in the environment.
func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	for _, key := range envVars {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "seed.env")
	content := "SEED_WEBSPACE=fromfile\nSEED_DEFAULT_LOCALE=de\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("SEED_DEFAULT_LOCALE", "fr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Webspace != "fromfile" {
		t.Errorf("Webspace = %q, want %q", cfg.Webspace, "fromfile")
	}
	if cfg.DefaultLocale != "fr" {
		t.Errorf("DefaultLocale = %q, want environment value %q", cfg.DefaultLocale, "fr")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d"}
	want := "postgres://u:p@h:1/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
