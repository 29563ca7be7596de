package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartdomain "github.com/palindromepay/PalindromeFox/internal/domain/cart"
	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

const (
	keyCart     = "cart"
	keyIdentity = "recipientIdentity"
)

// kvEntry is a single keyed JSON document. Writes replace the whole document
// under its key, which keeps reads free of partial states.
type kvEntry struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// KVStore implements the cart document store on a keyed JSON table.
type KVStore struct {
	db *gorm.DB
}

// NewKVStore creates a store backed by the given database connection.
func NewKVStore(db *Database) *KVStore {
	return &KVStore{db: db.DB}
}

var _ cartdomain.Store = (*KVStore)(nil)

func (s *KVStore) read(ctx context.Context, key string, out any) (bool, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, shared.NewDomainError(shared.CodeStorage, "Failed to read stored data: "+err.Error())
	}
	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		return false, shared.NewDomainError(shared.CodeStorage, "Stored data is corrupted: "+err.Error())
	}
	return true, nil
}

func (s *KVStore) write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return shared.NewDomainError(shared.CodeStorage, "Failed to serialize data: "+err.Error())
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&kvEntry{Key: key, Value: string(raw), UpdatedAt: time.Now()}).Error
	if err != nil {
		return shared.NewDomainError(shared.CodeStorage, "Failed to persist data: "+err.Error())
	}
	return nil
}

// ReadCart returns the stored cart, or an empty cart when none exists yet.
func (s *KVStore) ReadCart(ctx context.Context) (cartdomain.Cart, error) {
	var items cartdomain.Cart
	found, err := s.read(ctx, keyCart, &items)
	if err != nil {
		return nil, err
	}
	if !found || items == nil {
		return cartdomain.Cart{}, nil
	}
	return items, nil
}

// WriteCart replaces the stored cart document.
func (s *KVStore) WriteCart(ctx context.Context, items cartdomain.Cart) error {
	if items == nil {
		items = cartdomain.Cart{}
	}
	return s.write(ctx, keyCart, items)
}

// ReadIdentity returns the stored recipient identity, or nil when none has
// been saved.
func (s *KVStore) ReadIdentity(ctx context.Context) (*cartdomain.RecipientIdentity, error) {
	var identity cartdomain.RecipientIdentity
	found, err := s.read(ctx, keyIdentity, &identity)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &identity, nil
}

// WriteIdentity replaces the stored recipient identity.
func (s *KVStore) WriteIdentity(ctx context.Context, identity cartdomain.RecipientIdentity) error {
	return s.write(ctx, keyIdentity, identity)
}
