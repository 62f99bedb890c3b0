// file: cmd/backup.go
// version: 1.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-9c0d1e2f3a4b

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/giftwell/giftwell/internal/backup"
	"github.com/giftwell/giftwell/internal/config"
	"github.com/spf13/cobra"
)

var (
	backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Back up and restore the gift database",
	}

	backupCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a compressed backup of the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			keep, _ := cmd.Flags().GetInt("keep")

			cfg := backup.DefaultConfig()
			if dir != "" {
				cfg.BackupDir = dir
			}
			if keep > 0 {
				cfg.MaxBackups = keep
			}

			info, err := backup.Create(config.AppConfig.DatabasePath, config.AppConfig.DatabaseType, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("Backup written: %s (%d bytes)\n", info.Path, info.Size)
			fmt.Printf("SHA-256: %s\n", info.Checksum)
			return nil
		},
	}

	backupListCmd = &cobra.Command{
		Use:   "list",
		Short: "List available backups",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				dir = backup.DefaultConfig().BackupDir
			}

			backups, err := backup.List(dir)
			if err != nil {
				return err
			}
			if len(backups) == 0 {
				fmt.Println("No backups found")
				return nil
			}
			for _, b := range backups {
				fmt.Printf("%s  %s  %d bytes  %s\n", b.CreatedAt.Format("2006-01-02 15:04:05"), b.DatabaseType, b.Size, b.Filename)
			}
			return nil
		},
	}

	backupRestoreCmd = &cobra.Command{
		Use:   "restore <backup.tar.gz>",
		Short: "Restore the database from a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := filepath.Dir(config.AppConfig.DatabasePath)
			if err := backup.Restore(args[0], target); err != nil {
				return err
			}
			fmt.Printf("Restored %s into %s\n", args[0], target)
			return nil
		},
	}
)

func init() {
	backupCreateCmd.Flags().String("dir", "", "backup directory (default: backups)")
	backupCreateCmd.Flags().Int("keep", 0, "maximum backups to keep (default: 10)")
	backupListCmd.Flags().String("dir", "", "backup directory (default: backups)")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}
