// file: internal/database/pebble_store.go
// version: 1.3.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-1b2c3d4e5f6a

package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble/v2"
	ulid "github.com/oklog/ulid/v2"
)

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - recipient:<id>                        -> Recipient JSON
// - recipient:owner:<owner_id>:<id>       -> recipient_id (for owner queries)
// - gift:<id>                             -> Gift JSON
// - gift:owner:<owner_id>:<id>            -> gift_id (for owner queries)
// - gift:recipient:<recipient_id>:<id>    -> gift_id (for recipient queries)
//
// ULID ids sort lexicographically by creation time, so index scans come back
// in insertion order without a separate sort.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

// Reset removes all keys
func (p *PebbleStore) Reset() error {
	return p.db.DeleteRange([]byte(""), []byte("\xff"), pebble.Sync)
}

// Recipient operations

func (p *PebbleStore) CreateRecipient(r *Recipient) (*Recipient, error) {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = &now
	r.UpdatedAt = &now

	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	key := []byte(fmt.Sprintf("recipient:%s", r.ID))
	if err := batch.Set(key, data, nil); err != nil {
		return nil, err
	}
	ownerKey := []byte(fmt.Sprintf("recipient:owner:%s:%s", r.OwnerID, r.ID))
	if err := batch.Set(ownerKey, []byte(r.ID), nil); err != nil {
		return nil, err
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}
	return r, nil
}

func (p *PebbleStore) GetRecipientByID(id string) (*Recipient, error) {
	key := []byte(fmt.Sprintf("recipient:%s", id))
	value, closer, err := p.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var r Recipient
	if err := json.Unmarshal(value, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (p *PebbleStore) GetRecipientsByOwner(ownerID string) ([]Recipient, error) {
	var recipients []Recipient
	prefix := []byte(fmt.Sprintf("recipient:owner:%s:", ownerID))

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: append(append([]byte{}, prefix...), 0xFF),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id := string(iter.Value()) // ULID string

		r, err := p.GetRecipientByID(id)
		if err != nil {
			return nil, err
		}
		if r != nil {
			recipients = append(recipients, *r)
		}
	}

	return recipients, nil
}

func (p *PebbleStore) UpdateRecipient(id string, r *Recipient) (*Recipient, error) {
	existing, err := p.GetRecipientByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("recipient not found: %s", id)
	}

	r.ID = id
	r.OwnerID = existing.OwnerID
	r.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	r.UpdatedAt = &now

	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	key := []byte(fmt.Sprintf("recipient:%s", id))
	if err := p.db.Set(key, data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to update recipient: %w", err)
	}
	return r, nil
}

func (p *PebbleStore) DeleteRecipient(id string) error {
	existing, err := p.GetRecipientByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	_ = batch.Delete([]byte(fmt.Sprintf("recipient:%s", id)), nil)
	_ = batch.Delete([]byte(fmt.Sprintf("recipient:owner:%s:%s", existing.OwnerID, id)), nil)

	return batch.Commit(pebble.Sync)
}

func (p *PebbleStore) CountRecipients() (int, error) {
	count := 0
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("recipient:"),
		UpperBound: []byte("recipient:\xff"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		// Skip owner index keys
		if strings.Contains(string(iter.Key()), ":owner:") {
			continue
		}
		count++
	}
	return count, nil
}

// Gift operations

func (p *PebbleStore) CreateGift(g *Gift) (*Gift, error) {
	if g.ID == "" {
		g.ID = ulid.Make().String()
	}
	if g.Source == "" {
		g.Source = "web"
	}
	now := time.Now().UTC()
	g.CreatedAt = &now

	data, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.Set([]byte(fmt.Sprintf("gift:%s", g.ID)), data, nil); err != nil {
		return nil, err
	}
	if err := batch.Set([]byte(fmt.Sprintf("gift:owner:%s:%s", g.OwnerID, g.ID)), []byte(g.ID), nil); err != nil {
		return nil, err
	}
	if err := batch.Set([]byte(fmt.Sprintf("gift:recipient:%s:%s", g.RecipientID, g.ID)), []byte(g.ID), nil); err != nil {
		return nil, err
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to create gift: %w", err)
	}
	return g, nil
}

func (p *PebbleStore) GetGiftByID(id string) (*Gift, error) {
	value, closer, err := p.db.Get([]byte(fmt.Sprintf("gift:%s", id)))
	if err == pebble.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var g Gift
	if err := json.Unmarshal(value, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (p *PebbleStore) getGiftsByIndex(prefix string) ([]Gift, error) {
	var gifts []Gift
	lower := []byte(prefix)

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: append(append([]byte{}, lower...), 0xFF),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		id := string(iter.Value())
		g, err := p.GetGiftByID(id)
		if err != nil {
			return nil, err
		}
		if g != nil {
			gifts = append(gifts, *g)
		}
	}
	return gifts, nil
}

func (p *PebbleStore) GetGiftsByRecipient(recipientID string) ([]Gift, error) {
	return p.getGiftsByIndex(fmt.Sprintf("gift:recipient:%s:", recipientID))
}

func (p *PebbleStore) GetGiftsByOwner(ownerID string, limit, offset int) ([]Gift, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	gifts, err := p.getGiftsByIndex(fmt.Sprintf("gift:owner:%s:", ownerID))
	if err != nil {
		return nil, err
	}

	// Index scan order is oldest-first; callers expect newest-first
	for i, j := 0, len(gifts)-1; i < j; i, j = i+1, j-1 {
		gifts[i], gifts[j] = gifts[j], gifts[i]
	}

	if offset >= len(gifts) {
		return nil, nil
	}
	gifts = gifts[offset:]
	if len(gifts) > limit {
		gifts = gifts[:limit]
	}
	return gifts, nil
}

func (p *PebbleStore) CountGifts() (int, error) {
	count := 0
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("gift:"),
		UpperBound: []byte("gift:\xff"),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if strings.Contains(key, ":owner:") || strings.Contains(key, ":recipient:") {
			continue
		}
		count++
	}
	return count, nil
}
