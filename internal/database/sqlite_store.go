// file: internal/database/sqlite_store.go
// version: 1.4.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	ulid "github.com/oklog/ulid/v2"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const recipientSelectColumns = `
	id, owner_id, name, alias, relationship, birthday, notes, created_at, updated_at
`

func scanRecipient(scanner rowScanner, r *Recipient) error {
	return scanner.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Alias, &r.Relationship,
		&r.Birthday, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	)
}

const giftSelectColumns = `
	id, owner_id, recipient_id, description, occasion, amount_cents, gifted_at, source, created_at
`

func scanGift(scanner rowScanner, g *Gift) error {
	return scanner.Scan(
		&g.ID, &g.OwnerID, &g.RecipientID, &g.Description, &g.Occasion,
		&g.AmountCents, &g.GiftedAt, &g.Source, &g.CreatedAt,
	)
}

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipients (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		alias TEXT,
		relationship TEXT,
		birthday TEXT,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_recipients_owner ON recipients(owner_id);

	CREATE TABLE IF NOT EXISTS gifts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		description TEXT NOT NULL,
		occasion TEXT,
		amount_cents INTEGER,
		gifted_at TIMESTAMP,
		source TEXT NOT NULL DEFAULT 'web',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (recipient_id) REFERENCES recipients(id)
	);

	CREATE INDEX IF NOT EXISTS idx_gifts_owner ON gifts(owner_id);
	CREATE INDEX IF NOT EXISTS idx_gifts_recipient ON gifts(recipient_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops and recreates all tables
func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS gifts; DROP TABLE IF EXISTS recipients;`); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return s.createTables()
}

// Recipient operations

func (s *SQLiteStore) CreateRecipient(r *Recipient) (*Recipient, error) {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = &now
	r.UpdatedAt = &now

	_, err := s.db.Exec(`
		INSERT INTO recipients (id, owner_id, name, alias, relationship, birthday, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.OwnerID, r.Name, r.Alias, r.Relationship, r.Birthday, r.Notes, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) GetRecipientByID(id string) (*Recipient, error) {
	row := s.db.QueryRow(`SELECT `+recipientSelectColumns+` FROM recipients WHERE id = ?`, id)
	var r Recipient
	if err := scanRecipient(row, &r); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// GetRecipientsByOwner returns all recipients for one owner in stable
// insertion order (created_at, then id — ULIDs sort by creation time).
func (s *SQLiteStore) GetRecipientsByOwner(ownerID string) ([]Recipient, error) {
	rows, err := s.db.Query(`
		SELECT `+recipientSelectColumns+`
		FROM recipients WHERE owner_id = ?
		ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []Recipient
	for rows.Next() {
		var r Recipient
		if err := scanRecipient(rows, &r); err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}
	return recipients, rows.Err()
}

func (s *SQLiteStore) UpdateRecipient(id string, r *Recipient) (*Recipient, error) {
	now := time.Now().UTC()
	r.UpdatedAt = &now

	result, err := s.db.Exec(`
		UPDATE recipients
		SET name = ?, alias = ?, relationship = ?, birthday = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		r.Name, r.Alias, r.Relationship, r.Birthday, r.Notes, r.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipient: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("recipient not found: %s", id)
	}
	return s.GetRecipientByID(id)
}

func (s *SQLiteStore) DeleteRecipient(id string) error {
	_, err := s.db.Exec(`DELETE FROM recipients WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) CountRecipients() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM recipients`).Scan(&count)
	return count, err
}

// Gift operations

func (s *SQLiteStore) CreateGift(g *Gift) (*Gift, error) {
	if g.ID == "" {
		g.ID = ulid.Make().String()
	}
	if g.Source == "" {
		g.Source = "web"
	}
	now := time.Now().UTC()
	g.CreatedAt = &now

	_, err := s.db.Exec(`
		INSERT INTO gifts (id, owner_id, recipient_id, description, occasion, amount_cents, gifted_at, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.OwnerID, g.RecipientID, g.Description, g.Occasion, g.AmountCents, g.GiftedAt, g.Source, g.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}
	return g, nil
}

func (s *SQLiteStore) GetGiftByID(id string) (*Gift, error) {
	row := s.db.QueryRow(`SELECT `+giftSelectColumns+` FROM gifts WHERE id = ?`, id)
	var g Gift
	if err := scanGift(row, &g); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *SQLiteStore) GetGiftsByRecipient(recipientID string) ([]Gift, error) {
	rows, err := s.db.Query(`
		SELECT `+giftSelectColumns+`
		FROM gifts WHERE recipient_id = ?
		ORDER BY created_at, id`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []Gift
	for rows.Next() {
		var g Gift
		if err := scanGift(rows, &g); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (s *SQLiteStore) GetGiftsByOwner(ownerID string, limit, offset int) ([]Gift, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.Query(`
		SELECT `+giftSelectColumns+`
		FROM gifts WHERE owner_id = ?
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []Gift
	for rows.Next() {
		var g Gift
		if err := scanGift(rows, &g); err != nil {
			return nil, err
		}
		gifts = append(gifts, g)
	}
	return gifts, rows.Err()
}

func (s *SQLiteStore) CountGifts() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM gifts`).Scan(&count)
	return count, err
}
