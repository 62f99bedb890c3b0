// file: internal/config/persistence.go
// version: 1.2.0
// guid: 0f1a2b3c-4d5e-6f7a-8b9c-2d3e4f5a6b7c

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilePath returns the path to the YAML config file next to the database.
func ConfigFilePath() string {
	if AppConfig.DatabasePath != "" {
		return filepath.Join(filepath.Dir(AppConfig.DatabasePath), "config.yaml")
	}
	return ""
}

// LoadConfigFromFile loads settings from the YAML config file as a fallback.
// File values only fill in gaps — flags and env vars win.
func LoadConfigFromFile() error {
	path := ConfigFilePath()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileConfig map[string]any
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		log.Printf("Warning: Failed to parse config file %s: %v", path, err)
		return nil
	}

	applied := 0

	stringFallbacks := map[string]*string{
		"openai_api_key":       &AppConfig.OpenAIAPIKey,
		"sms_default_owner_id": &AppConfig.SMSDefaultOwnerID,
		"basic_auth_username":  &AppConfig.BasicAuthUsername,
		"basic_auth_password":  &AppConfig.BasicAuthPassword,
		"log_level":            &AppConfig.LogLevel,
	}
	for key, ptr := range stringFallbacks {
		if *ptr == "" {
			if val, ok := fileConfig[key].(string); ok && val != "" {
				*ptr = val
				applied++
				log.Printf("[INFO] Loaded %s from config file", key)
			}
		}
	}

	if !AppConfig.EnableAIParsing {
		if val, ok := fileConfig["enable_ai_parsing"].(bool); ok && val {
			AppConfig.EnableAIParsing = true
			applied++
			log.Printf("[INFO] Loaded enable_ai_parsing from config file")
		}
	}
	if !AppConfig.BasicAuthEnabled {
		if val, ok := fileConfig["basic_auth_enabled"].(bool); ok && val {
			AppConfig.BasicAuthEnabled = true
			applied++
		}
	}

	if applied > 0 {
		log.Printf("Applied %d settings from config file %s", applied, path)
	}
	return nil
}

// SaveConfigToFile writes key settings to a YAML config file next to the database.
// Secrets are stored in plaintext here — file permissions restrict access.
func SaveConfigToFile() error {
	path := ConfigFilePath()
	if path == "" {
		return fmt.Errorf("cannot determine config file path")
	}

	fileConfig := map[string]any{
		"database_path":                AppConfig.DatabasePath,
		"database_type":                AppConfig.DatabaseType,
		"server_host":                  AppConfig.ServerHost,
		"server_port":                  AppConfig.ServerPort,
		"enable_ai_parsing":            AppConfig.EnableAIParsing,
		"sms_confirmation_ttl_minutes": AppConfig.SMSConfirmationTTLMinutes,
		"sms_default_owner_id":         AppConfig.SMSDefaultOwnerID,
		"api_rate_limit_per_minute":    AppConfig.APIRateLimitPerMinute,
		"basic_auth_enabled":           AppConfig.BasicAuthEnabled,
		"basic_auth_username":          AppConfig.BasicAuthUsername,
		"log_level":                    AppConfig.LogLevel,
	}

	// Only write secrets if they're set (plaintext in file, file permissions protect them)
	if AppConfig.OpenAIAPIKey != "" {
		fileConfig["openai_api_key"] = AppConfig.OpenAIAPIKey
	}
	if AppConfig.BasicAuthPassword != "" {
		fileConfig["basic_auth_password"] = AppConfig.BasicAuthPassword
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	// Write with restrictive permissions since it may contain secrets
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("Configuration saved to file: %s", path)
	return nil
}
