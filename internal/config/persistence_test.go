// file: internal/config/persistence_test.go
// version: 1.1.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-6a7b8c9d0e1f

package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfigFilePath(t *testing.T) {
	AppConfig = Config{}
	if got := ConfigFilePath(); got != "" {
		t.Errorf("Expected empty path without database path, got %s", got)
	}

	AppConfig.DatabasePath = "/data/giftwell/giftwell.db"
	want := filepath.Join("/data/giftwell", "config.yaml")
	if got := ConfigFilePath(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestSaveAndLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	AppConfig = Config{
		DatabasePath:              filepath.Join(dir, "giftwell.db"),
		DatabaseType:              "pebble",
		ServerHost:                "127.0.0.1",
		ServerPort:                9090,
		OpenAIAPIKey:              "secret-key",
		EnableAIParsing:           true,
		SMSConfirmationTTLMinutes: 5,
	}

	if err := SaveConfigToFile(); err != nil {
		t.Fatalf("SaveConfigToFile failed: %v", err)
	}

	path := ConfigFilePath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Config file is not valid YAML: %v", err)
	}
	if raw["openai_api_key"] != "secret-key" {
		t.Errorf("Expected API key persisted, got %v", raw["openai_api_key"])
	}

	// Wipe in-memory values and confirm the file fills the gaps
	AppConfig.OpenAIAPIKey = ""
	AppConfig.EnableAIParsing = false

	if err := LoadConfigFromFile(); err != nil {
		t.Fatalf("LoadConfigFromFile failed: %v", err)
	}
	if AppConfig.OpenAIAPIKey != "secret-key" {
		t.Errorf("Expected API key restored from file, got %q", AppConfig.OpenAIAPIKey)
	}
	if !AppConfig.EnableAIParsing {
		t.Error("Expected AI parsing flag restored from file")
	}
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	dir := t.TempDir()
	AppConfig = Config{DatabasePath: filepath.Join(dir, "giftwell.db")}

	if err := LoadConfigFromFile(); err != nil {
		t.Errorf("Expected missing file to be a no-op, got %v", err)
	}
}

func TestLoadConfigFromFileDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	AppConfig = Config{
		DatabasePath: filepath.Join(dir, "giftwell.db"),
		OpenAIAPIKey: "from-file",
	}
	if err := SaveConfigToFile(); err != nil {
		t.Fatalf("SaveConfigToFile failed: %v", err)
	}

	// An already-set value must win over the file
	AppConfig.OpenAIAPIKey = "from-env"
	if err := LoadConfigFromFile(); err != nil {
		t.Fatalf("LoadConfigFromFile failed: %v", err)
	}
	if AppConfig.OpenAIAPIKey != "from-env" {
		t.Errorf("Expected env value preserved, got %q", AppConfig.OpenAIAPIKey)
	}
}
