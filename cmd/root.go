// file: cmd/root.go
// version: 1.3.0
// guid: 3a4b5c6d-7e8f-9a0b-1c2d-5d6e7f8a9b0c

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/giftwell/giftwell/internal/ai"
	"github.com/giftwell/giftwell/internal/config"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/giftwell/giftwell/internal/resolver"
	"github.com/giftwell/giftwell/internal/server"
	"github.com/giftwell/giftwell/internal/sms"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var databasePath string
var databaseType string
var enableSQLite bool
var ownerID string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "giftwell",
	Short: "Track gifts and resolve recipient names",
	Long: `Giftwell keeps a household's gift history and resolves the casual
names people actually use ("mom", "Liz", "Sar") to the recipients on file.

Run the web server for the full API, or use the resolve and suggest
commands to exercise the matching pipeline from the terminal.`,
}

// resolveCmd runs a single search term through the match cascade
var resolveCmd = &cobra.Command{
	Use:   "resolve <term>",
	Short: "Resolve a name, nickname, or relationship to a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return fmt.Errorf("owner not specified (use --owner)")
		}

		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		result, err := resolver.Match(args[0], ownerID, database.GlobalStore)
		if err != nil {
			return err
		}

		if result.Matched != nil {
			fmt.Printf("Matched: %s\n", result.Matched.Name)
			fmt.Printf("Method: %s, confidence: %s, score: %d\n", result.Method, result.Confidence, result.Score)
			if result.ShouldConfirm {
				fmt.Printf("Needs confirmation: %s\n", result.ConfirmationMessage)
			}
		} else {
			fmt.Printf("No match for %q\n", args[0])
		}
		for _, s := range result.Suggestions {
			fmt.Printf("  suggestion: %s (score %d, %s)\n", s.Recipient.Name, s.Score, s.Reason)
		}
		return nil
	},
}

// suggestCmd prints autocomplete candidates for a partial query
var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "List autocomplete suggestions for a partial name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return fmt.Errorf("owner not specified (use --owner)")
		}

		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		limit, _ := cmd.Flags().GetInt("limit")
		suggestions, err := resolver.Suggest(args[0], ownerID, database.GlobalStore, limit)
		if err != nil {
			return err
		}

		if len(suggestions) == 0 {
			fmt.Println("No suggestions")
			return nil
		}
		for _, s := range suggestions {
			fmt.Printf("%3d  %s (%s)\n", s.Score, s.Recipient.Name, s.Reason)
		}
		return nil
	},
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTTP API for recipients, gifts, name resolution, and the SMS webhook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		fmt.Printf("Using database: %s (%s)\n", config.AppConfig.DatabasePath, config.AppConfig.DatabaseType)

		// Load persisted settings (fills gaps, never overrides env or flags)
		if err := config.LoadConfigFromFile(); err != nil {
			fmt.Printf("Warning: could not load config file: %v\n", err)
		}

		parser := ai.NewGiftParser(config.AppConfig.OpenAIAPIKey, config.AppConfig.EnableAIParsing)
		if parser.IsEnabled() {
			fmt.Println("AI gift parsing enabled")
		} else {
			fmt.Println("AI gift parsing disabled; SMS messages will get a fallback reply")
		}

		ttl := time.Duration(config.AppConfig.SMSConfirmationTTLMinutes) * time.Minute
		smsHandler := sms.NewHandler(parser, database.GlobalStore, config.AppConfig.SMSDefaultOwnerID, ttl)

		srv := server.NewServer(database.GlobalStore, smsHandler)
		cfg := server.GetDefaultServerConfig()

		// Override with command line flags if provided
		if port := cmd.Flag("port").Value.String(); port != "" {
			cfg.Port = port
		}
		if host := cmd.Flag("host").Value.String(); host != "" {
			cfg.Host = host
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.giftwell.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "giftwell.pebble", "path to database (default: giftwell.pebble for PebbleDB)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default) or sqlite")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner account ID for resolve, suggest, and import")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)

	suggestCmd.Flags().Int("limit", 10, "maximum number of suggestions")

	// Add serve command specific flags
	serveCmd.Flags().String("port", "8080", "port to run the web server on")
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind the web server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".giftwell")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	// Ensure database directory exists
	if databasePath != "" {
		dbDir := filepath.Dir(databasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				fmt.Printf("Error creating database directory: %v\n", err)
			}
		}
	}

	config.InitConfig()
}
