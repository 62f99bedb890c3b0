// file: internal/database/mock_store.go
// version: 1.2.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-3f4a5b6c7d8e

package database

// MockStore is a simple mock implementation for testing services
type MockStore struct {
	// Lifecycle
	CloseFunc func() error
	ResetFunc func() error

	// Recipient methods
	CreateRecipientFunc      func(r *Recipient) (*Recipient, error)
	GetRecipientByIDFunc     func(id string) (*Recipient, error)
	GetRecipientsByOwnerFunc func(ownerID string) ([]Recipient, error)
	UpdateRecipientFunc      func(id string, r *Recipient) (*Recipient, error)
	DeleteRecipientFunc      func(id string) error
	CountRecipientsFunc      func() (int, error)

	// Gift methods
	CreateGiftFunc          func(g *Gift) (*Gift, error)
	GetGiftByIDFunc         func(id string) (*Gift, error)
	GetGiftsByRecipientFunc func(recipientID string) ([]Gift, error)
	GetGiftsByOwnerFunc     func(ownerID string, limit, offset int) ([]Gift, error)
	CountGiftsFunc          func() (int, error)
}

func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockStore) Reset() error {
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	return nil
}

func (m *MockStore) CreateRecipient(r *Recipient) (*Recipient, error) {
	if m.CreateRecipientFunc != nil {
		return m.CreateRecipientFunc(r)
	}
	return r, nil
}

func (m *MockStore) GetRecipientByID(id string) (*Recipient, error) {
	if m.GetRecipientByIDFunc != nil {
		return m.GetRecipientByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetRecipientsByOwner(ownerID string) ([]Recipient, error) {
	if m.GetRecipientsByOwnerFunc != nil {
		return m.GetRecipientsByOwnerFunc(ownerID)
	}
	return nil, nil
}

func (m *MockStore) UpdateRecipient(id string, r *Recipient) (*Recipient, error) {
	if m.UpdateRecipientFunc != nil {
		return m.UpdateRecipientFunc(id, r)
	}
	return r, nil
}

func (m *MockStore) DeleteRecipient(id string) error {
	if m.DeleteRecipientFunc != nil {
		return m.DeleteRecipientFunc(id)
	}
	return nil
}

func (m *MockStore) CountRecipients() (int, error) {
	if m.CountRecipientsFunc != nil {
		return m.CountRecipientsFunc()
	}
	return 0, nil
}

func (m *MockStore) CreateGift(g *Gift) (*Gift, error) {
	if m.CreateGiftFunc != nil {
		return m.CreateGiftFunc(g)
	}
	return g, nil
}

func (m *MockStore) GetGiftByID(id string) (*Gift, error) {
	if m.GetGiftByIDFunc != nil {
		return m.GetGiftByIDFunc(id)
	}
	return nil, nil
}

func (m *MockStore) GetGiftsByRecipient(recipientID string) ([]Gift, error) {
	if m.GetGiftsByRecipientFunc != nil {
		return m.GetGiftsByRecipientFunc(recipientID)
	}
	return nil, nil
}

func (m *MockStore) GetGiftsByOwner(ownerID string, limit, offset int) ([]Gift, error) {
	if m.GetGiftsByOwnerFunc != nil {
		return m.GetGiftsByOwnerFunc(ownerID, limit, offset)
	}
	return nil, nil
}

func (m *MockStore) CountGifts() (int, error) {
	if m.CountGiftsFunc != nil {
		return m.CountGiftsFunc()
	}
	return 0, nil
}
