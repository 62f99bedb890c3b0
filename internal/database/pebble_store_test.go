// file: internal/database/pebble_store_test.go
// version: 1.1.0
// guid: 2c3d4e5f-6a7b-8c9d-0e1f-4a5b6c7d8e9f

package database

import (
	"os"
	"testing"

	ulid "github.com/oklog/ulid/v2"
)

// setupPebbleTestDB creates a temporary PebbleDB database for testing
// Returns the store and a cleanup function
func setupPebbleTestDB(t *testing.T) (Store, func()) {
	tmpdir := "/tmp/test_pebble_" + ulid.Make().String()

	store, err := NewPebbleStore(tmpdir)
	if err != nil {
		t.Fatalf("Failed to create test Pebble database: %v", err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpdir)
	}

	return store, cleanup
}

func TestNewPebbleStore(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	if store == nil {
		t.Fatal("Expected non-nil store")
	}
}

func TestPebbleCreateAndGetRecipient(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	alias := "Sar"
	relationship := "Friend"
	created, err := store.CreateRecipient(&Recipient{
		OwnerID:      "owner1",
		Name:         "Sarah Johnson",
		Alias:        &alias,
		Relationship: &relationship,
	})
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected non-empty recipient ID (ULID)")
	}
	if created.CreatedAt == nil || created.UpdatedAt == nil {
		t.Error("Expected timestamps to be set on create")
	}

	retrieved, err := store.GetRecipientByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to get recipient: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Expected recipient, got nil")
	}
	if retrieved.Name != "Sarah Johnson" {
		t.Errorf("Expected name Sarah Johnson, got %s", retrieved.Name)
	}
	if retrieved.Alias == nil || *retrieved.Alias != "Sar" {
		t.Errorf("Expected alias Sar, got %v", retrieved.Alias)
	}
}

func TestPebbleGetRecipientByIDNotFound(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	retrieved, err := store.GetRecipientByID("nonexistent")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if retrieved != nil {
		t.Errorf("Expected nil for missing recipient, got %+v", retrieved)
	}
}

func TestPebbleGetRecipientsByOwnerScoping(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	for _, fixture := range []struct{ owner, name string }{
		{"owner1", "Sarah Johnson"},
		{"owner1", "Margaret Jones"},
		{"owner2", "Robert Brown"},
	} {
		if _, err := store.CreateRecipient(&Recipient{OwnerID: fixture.owner, Name: fixture.name}); err != nil {
			t.Fatalf("Failed to create recipient: %v", err)
		}
	}

	recipients, err := store.GetRecipientsByOwner("owner1")
	if err != nil {
		t.Fatalf("Failed to get recipients: %v", err)
	}
	if len(recipients) != 2 {
		t.Fatalf("Expected 2 recipients for owner1, got %d", len(recipients))
	}
	// ULID keys preserve insertion order
	if recipients[0].Name != "Sarah Johnson" || recipients[1].Name != "Margaret Jones" {
		t.Errorf("Expected insertion order, got %s then %s", recipients[0].Name, recipients[1].Name)
	}

	other, err := store.GetRecipientsByOwner("owner2")
	if err != nil {
		t.Fatalf("Failed to get recipients: %v", err)
	}
	if len(other) != 1 || other[0].Name != "Robert Brown" {
		t.Errorf("Expected owner2's single recipient, got %+v", other)
	}
}

func TestPebbleUpdateRecipient(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	created, err := store.CreateRecipient(&Recipient{OwnerID: "owner1", Name: "Sarah Johnson"})
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}

	alias := "Sar"
	updated, err := store.UpdateRecipient(created.ID, &Recipient{
		Name:  "Sarah Johnson-Lee",
		Alias: &alias,
	})
	if err != nil {
		t.Fatalf("Failed to update recipient: %v", err)
	}
	if updated.Name != "Sarah Johnson-Lee" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}
	if updated.OwnerID != "owner1" {
		t.Errorf("Owner must survive update, got %s", updated.OwnerID)
	}
	if updated.CreatedAt == nil || !updated.CreatedAt.Equal(*created.CreatedAt) {
		t.Error("CreatedAt must survive update")
	}
}

func TestPebbleUpdateRecipientNotFound(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	if _, err := store.UpdateRecipient("missing", &Recipient{Name: "Nobody"}); err == nil {
		t.Error("Expected error updating missing recipient")
	}
}

func TestPebbleDeleteRecipient(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	created, err := store.CreateRecipient(&Recipient{OwnerID: "owner1", Name: "Sarah Johnson"})
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}

	if err := store.DeleteRecipient(created.ID); err != nil {
		t.Fatalf("Failed to delete recipient: %v", err)
	}

	retrieved, err := store.GetRecipientByID(created.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if retrieved != nil {
		t.Error("Expected recipient gone after delete")
	}

	// The owner index entry must be gone too
	recipients, err := store.GetRecipientsByOwner("owner1")
	if err != nil {
		t.Fatalf("Failed to get recipients: %v", err)
	}
	if len(recipients) != 0 {
		t.Errorf("Expected empty owner scope after delete, got %d", len(recipients))
	}
}

func TestPebbleCountRecipientsSkipsIndexKeys(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if _, err := store.CreateRecipient(&Recipient{OwnerID: "owner1", Name: "Recipient"}); err != nil {
			t.Fatalf("Failed to create recipient: %v", err)
		}
	}

	count, err := store.CountRecipients()
	if err != nil {
		t.Fatalf("Failed to count recipients: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 recipients (index keys excluded), got %d", count)
	}
}

func TestPebbleCreateAndGetGift(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	recipient, err := store.CreateRecipient(&Recipient{OwnerID: "owner1", Name: "Sarah Johnson"})
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}

	occasion := "birthday"
	amount := int64(4500)
	created, err := store.CreateGift(&Gift{
		OwnerID:     "owner1",
		RecipientID: recipient.ID,
		Description: "silver earrings",
		Occasion:    &occasion,
		AmountCents: &amount,
		Source:      "sms",
	})
	if err != nil {
		t.Fatalf("Failed to create gift: %v", err)
	}
	if created.ID == "" {
		t.Error("Expected non-empty gift ID (ULID)")
	}

	retrieved, err := store.GetGiftByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to get gift: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Expected gift, got nil")
	}
	if retrieved.Description != "silver earrings" || retrieved.Source != "sms" {
		t.Errorf("Unexpected gift: %+v", retrieved)
	}
	if retrieved.AmountCents == nil || *retrieved.AmountCents != 4500 {
		t.Errorf("Expected amount 4500, got %v", retrieved.AmountCents)
	}
}

func TestPebbleGiftDefaultSource(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	created, err := store.CreateGift(&Gift{OwnerID: "owner1", RecipientID: "r1", Description: "candle"})
	if err != nil {
		t.Fatalf("Failed to create gift: %v", err)
	}
	if created.Source != "web" {
		t.Errorf("Expected default source web, got %s", created.Source)
	}
}

func TestPebbleGetGiftsByRecipient(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	for _, fixture := range []struct{ recipient, desc string }{
		{"r1", "candle"},
		{"r1", "earrings"},
		{"r2", "cookbook"},
	} {
		if _, err := store.CreateGift(&Gift{OwnerID: "owner1", RecipientID: fixture.recipient, Description: fixture.desc}); err != nil {
			t.Fatalf("Failed to create gift: %v", err)
		}
	}

	gifts, err := store.GetGiftsByRecipient("r1")
	if err != nil {
		t.Fatalf("Failed to get gifts: %v", err)
	}
	if len(gifts) != 2 {
		t.Fatalf("Expected 2 gifts for r1, got %d", len(gifts))
	}
	if gifts[0].Description != "candle" || gifts[1].Description != "earrings" {
		t.Errorf("Expected insertion order, got %+v", gifts)
	}
}

func TestPebbleGetGiftsByOwnerPagination(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	descriptions := []string{"first", "second", "third", "fourth"}
	for _, desc := range descriptions {
		if _, err := store.CreateGift(&Gift{OwnerID: "owner1", RecipientID: "r1", Description: desc}); err != nil {
			t.Fatalf("Failed to create gift: %v", err)
		}
	}

	// Newest first
	page, err := store.GetGiftsByOwner("owner1", 2, 0)
	if err != nil {
		t.Fatalf("Failed to get gifts: %v", err)
	}
	if len(page) != 2 || page[0].Description != "fourth" || page[1].Description != "third" {
		t.Errorf("Expected newest-first page [fourth third], got %+v", page)
	}

	page, err = store.GetGiftsByOwner("owner1", 2, 2)
	if err != nil {
		t.Fatalf("Failed to get gifts: %v", err)
	}
	if len(page) != 2 || page[0].Description != "second" || page[1].Description != "first" {
		t.Errorf("Expected second page [second first], got %+v", page)
	}

	page, err = store.GetGiftsByOwner("owner1", 2, 10)
	if err != nil {
		t.Fatalf("Failed to get gifts: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("Expected empty page past the end, got %+v", page)
	}
}

func TestPebbleCountGifts(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if _, err := store.CreateGift(&Gift{OwnerID: "owner1", RecipientID: "r1", Description: "gift"}); err != nil {
			t.Fatalf("Failed to create gift: %v", err)
		}
	}

	count, err := store.CountGifts()
	if err != nil {
		t.Fatalf("Failed to count gifts: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 gifts, got %d", count)
	}
}

func TestPebbleReset(t *testing.T) {
	store, cleanup := setupPebbleTestDB(t)
	defer cleanup()

	if _, err := store.CreateRecipient(&Recipient{OwnerID: "owner1", Name: "Sarah Johnson"}); err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}
	if _, err := store.CreateGift(&Gift{OwnerID: "owner1", RecipientID: "r1", Description: "candle"}); err != nil {
		t.Fatalf("Failed to create gift: %v", err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Failed to reset store: %v", err)
	}

	recipients, _ := store.CountRecipients()
	gifts, _ := store.CountGifts()
	if recipients != 0 || gifts != 0 {
		t.Errorf("Expected empty store after reset, got %d recipients and %d gifts", recipients, gifts)
	}
}
