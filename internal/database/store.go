// file: internal/database/store.go
// version: 2.3.0
// guid: 4e5f6a7b-8c9d-0e1f-2a3b-4c5d6e7f8a9b

package database

import (
	"fmt"
	"time"
)

// Store defines the interface for our database operations
// This abstraction allows us to support both PebbleDB (default) and SQLite3 (opt-in)
type Store interface {
	// Lifecycle
	Close() error
	Reset() error

	// Recipients
	CreateRecipient(r *Recipient) (*Recipient, error) // Generates ULID if ID is empty
	GetRecipientByID(id string) (*Recipient, error)
	GetRecipientsByOwner(ownerID string) ([]Recipient, error)
	UpdateRecipient(id string, r *Recipient) (*Recipient, error)
	DeleteRecipient(id string) error
	CountRecipients() (int, error)

	// Gifts
	CreateGift(g *Gift) (*Gift, error) // Generates ULID if ID is empty
	GetGiftByID(id string) (*Gift, error)
	GetGiftsByRecipient(recipientID string) ([]Gift, error)
	GetGiftsByOwner(ownerID string, limit, offset int) ([]Gift, error)
	CountGifts() (int, error)
}

// Recipient represents one person a user gives gifts to. Name is required;
// Alias is an informal per-record nickname the owner uses for this person,
// and Relationship is a free-text kinship/role label ("Mother", "Friend").
type Recipient struct {
	ID           string     `json:"id"` // ULID format
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	Alias        *string    `json:"alias,omitempty"`
	Relationship *string    `json:"relationship,omitempty"`
	Birthday     *string    `json:"birthday,omitempty"` // YYYY-MM-DD
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Gift represents one logged gift against a recipient.
type Gift struct {
	ID          string     `json:"id"` // ULID format
	OwnerID     string     `json:"owner_id"`
	RecipientID string     `json:"recipient_id"`
	Description string     `json:"description"`
	Occasion    *string    `json:"occasion,omitempty"`
	AmountCents *int64     `json:"amount_cents,omitempty"`
	GiftedAt    *time.Time `json:"gifted_at,omitempty"`
	Source      string     `json:"source"` // "web" or "sms"
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// Global store instance
var GlobalStore Store

// InitializeStore initializes the database store based on configuration
func InitializeStore(dbType, path string, enableSQLite bool) error {
	var err error

	switch dbType {
	case "sqlite", "sqlite3":
		if !enableSQLite {
			return fmt.Errorf("SQLite3 is not enabled. To use SQLite3, you must explicitly enable it with --enable-sqlite3-i-know-the-risks or set 'enable_sqlite3_i_know_the_risks: true' in your config file. PebbleDB is the recommended database for production use")
		}
		GlobalStore, err = NewSQLiteStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
	case "pebble", "":
		// PebbleDB is the default
		GlobalStore, err = NewPebbleStore(path)
		if err != nil {
			return fmt.Errorf("failed to initialize PebbleDB store: %w", err)
		}
	default:
		return fmt.Errorf("unsupported database type: %s (supported: pebble, sqlite)", dbType)
	}

	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore != nil {
		return GlobalStore.Close()
	}
	return nil
}
