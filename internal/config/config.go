// file: internal/config/config.go
// version: 1.1.0
// guid: 8d9e0f1a-2b3c-4d5e-6f7a-0b1c2d3e4f5a

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	DatabasePath string
	DatabaseType string // "pebble" (default) or "sqlite"
	EnableSQLite bool   // Must be true to use SQLite (safety flag)

	ServerHost string
	ServerPort int

	// AI gift extraction
	EnableAIParsing bool
	OpenAIAPIKey    string

	// SMS ingestion
	SMSConfirmationTTLMinutes int
	SMSDefaultOwnerID         string

	// HTTP surface
	APIRateLimitPerMinute int
	BasicAuthEnabled      bool
	BasicAuthUsername     string
	BasicAuthPassword     string

	LogLevel string
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("database_type", "pebble")
	viper.SetDefault("enable_sqlite3_i_know_the_risks", false)
	viper.SetDefault("server_host", "0.0.0.0")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("sms_confirmation_ttl_minutes", 10)
	viper.SetDefault("api_rate_limit_per_minute", 120)
	viper.SetDefault("log_level", "info")

	AppConfig = Config{
		DatabasePath: viper.GetString("database_path"),
		DatabaseType: viper.GetString("database_type"),
		EnableSQLite: viper.GetBool("enable_sqlite3_i_know_the_risks"),

		ServerHost: viper.GetString("server_host"),
		ServerPort: viper.GetInt("server_port"),

		EnableAIParsing: viper.GetBool("enable_ai_parsing"),
		OpenAIAPIKey:    viper.GetString("openai_api_key"),

		SMSConfirmationTTLMinutes: viper.GetInt("sms_confirmation_ttl_minutes"),
		SMSDefaultOwnerID:         viper.GetString("sms_default_owner_id"),

		APIRateLimitPerMinute: viper.GetInt("api_rate_limit_per_minute"),
		BasicAuthEnabled:      viper.GetBool("basic_auth_enabled"),
		BasicAuthUsername:     viper.GetString("basic_auth_username"),
		BasicAuthPassword:     viper.GetString("basic_auth_password"),

		LogLevel: viper.GetString("log_level"),
	}

	// Normalize database type
	if AppConfig.DatabaseType == "sqlite3" {
		AppConfig.DatabaseType = "sqlite"
	}
	if AppConfig.DatabaseType == "" {
		AppConfig.DatabaseType = "pebble"
	}
}
