// file: cmd/import.go
// version: 1.1.0
// guid: 5c6d7e8f-9a0b-1c2d-3e4f-7f8a9b0c1d2e

package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giftwell/giftwell/internal/config"
	"github.com/giftwell/giftwell/internal/database"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// importCmd bulk-loads recipients from a CSV export.
//
// Expected columns: name, alias, relationship, birthday, notes. Only name
// is required; a header row is detected and skipped.
var importCmd = &cobra.Command{
	Use:   "import <recipients.csv>",
	Short: "Import recipients from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ownerID == "" {
			return fmt.Errorf("owner not specified (use --owner)")
		}

		if err := database.InitializeStore(config.AppConfig.DatabaseType, config.AppConfig.DatabasePath, config.AppConfig.EnableSQLite); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runImport(args[0], ownerID, dryRun)
	},
}

func init() {
	importCmd.Flags().Bool("dry-run", false, "Parse the file without writing records")
}

func runImport(path, owner string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) == 0 {
		return io.ErrUnexpectedEOF
	}

	// Skip a header row if the first cell looks like one
	if strings.EqualFold(strings.TrimSpace(rows[0][0]), "name") {
		rows = rows[1:]
	}

	fmt.Printf("Importing %d recipients for owner %s\n", len(rows), owner)
	bar := progressbar.Default(int64(len(rows)))

	imported := 0
	skipped := 0
	for i, row := range rows {
		bar.Add(1)

		recipient, err := recipientFromRow(row, owner)
		if err != nil {
			fmt.Printf("\nSkipping row %d: %v\n", i+1, err)
			skipped++
			continue
		}
		if dryRun {
			imported++
			continue
		}
		if _, err := database.GlobalStore.CreateRecipient(recipient); err != nil {
			return fmt.Errorf("failed to create recipient %q: %w", recipient.Name, err)
		}
		imported++
	}

	if dryRun {
		fmt.Printf("\nDry run: %d rows valid, %d skipped\n", imported, skipped)
	} else {
		fmt.Printf("\nImported %d recipients, skipped %d\n", imported, skipped)
	}
	return nil
}

func recipientFromRow(row []string, owner string) (*database.Recipient, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := get(0)
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}

	recipient := &database.Recipient{OwnerID: owner, Name: name}
	if alias := get(1); alias != "" {
		recipient.Alias = &alias
	}
	if rel := get(2); rel != "" {
		recipient.Relationship = &rel
	}
	if birthday := get(3); birthday != "" {
		recipient.Birthday = &birthday
	}
	if notes := get(4); notes != "" {
		recipient.Notes = &notes
	}
	return recipient, nil
}
