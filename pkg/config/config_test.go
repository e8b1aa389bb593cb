package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fileConfig struct {
	Title string `yaml:"title"`
	Token string `yaml:"token"`
}

func (c *fileConfig) Validate() error {
	if c.Title == "" {
		return os.ErrInvalid
	}
	return nil
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_ADMIN_TOKEN", "sekret")
	path := writeConfig(t, "title: Directory\ntoken: ${TEST_ADMIN_TOKEN}\n")

	var cfg fileConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "sekret" {
		t.Errorf("token = %q, want expanded env value", cfg.Token)
	}
}

func TestLoadRunsValidation(t *testing.T) {
	path := writeConfig(t, "token: x\n")
	var cfg fileConfig
	err := Load(path, &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("expected validation failure, got %v", err)
	}
}

func TestLoadWithDefaultsFallsBack(t *testing.T) {
	def := writeConfig(t, "title: Default\n")
	var cfg fileConfig
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"), def, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Default" {
		t.Errorf("title = %q, want value from default file", cfg.Title)
	}
}
