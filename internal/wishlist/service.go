package wishlist

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	pkgerrors "github.com/lunaria/storefront-core/pkg/errors"
	"github.com/lunaria/storefront-core/pkg/logger"
	"github.com/lunaria/storefront-core/pkg/storage"
)

// wishlistStorageKey is the well-known key holding the serialized wishlist.
const wishlistStorageKey = "wishlist"

// Manager owns the persisted wishlist. Unlike the cart it keeps no in-memory
// cache: every operation reads the persisted form, so concurrent consumers of
// the same adapter always see the latest list.
type Manager struct {
	mu    sync.Mutex
	store *storage.Adapter
	log   *logger.Logger
}

// Params groups the manager dependencies.
type Params struct {
	Store  *storage.Adapter
	Logger *logger.Logger
}

// NewManager builds a wishlist manager over the storage adapter.
func NewManager(params Params) (*Manager, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage adapter is required")
	}
	return &Manager{store: params.Store, log: params.Logger}, nil
}

// Items returns the current wishlist. A missing or corrupt persisted form
// reads as empty.
func (m *Manager) Items(ctx context.Context) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

// Add appends the product to the wishlist. Adding a product that is already
// saved is a conflict.
func (m *Manager) Add(ctx context.Context, product Product) error {
	if strings.TrimSpace(product.ProductID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.loadLocked(ctx)
	for _, entry := range entries {
		if entry.ProductID == product.ProductID {
			return pkgerrors.New(pkgerrors.CodeConflict, "product already in wishlist")
		}
	}

	entries = append(entries, entryFromProduct(product))
	m.persistLocked(ctx, entries)
	return nil
}

// Remove drops the product from the wishlist. Removing an absent product is
// a no-op, matching the storefront's unconditional filter.
func (m *Manager) Remove(ctx context.Context, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.loadLocked(ctx)
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.ProductID != productID {
			filtered = append(filtered, entry)
		}
	}
	m.persistLocked(ctx, filtered)
}

// Contains reports whether the product is saved.
func (m *Manager) Contains(ctx context.Context, productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.loadLocked(ctx) {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// Clear removes the whole wishlist from storage.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.RemoveItem(ctx, wishlistStorageKey)
}

func (m *Manager) loadLocked(ctx context.Context) []Entry {
	raw, ok := m.store.GetItem(ctx, wishlistStorageKey)
	if !ok || raw == "" {
		return []Entry{}
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if m.log != nil {
			m.log.Debug(m.log.WithComponent(ctx, "wishlist"), "persisted wishlist is not valid JSON, starting empty")
		}
		return []Entry{}
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries
}

func (m *Manager) persistLocked(ctx context.Context, entries []Entry) {
	encoded, err := json.Marshal(entries)
	if err != nil {
		if m.log != nil {
			m.log.Error(m.log.WithComponent(ctx, "wishlist"), "failed to serialize wishlist", err)
		}
		return
	}
	m.store.SetItem(ctx, wishlistStorageKey, string(encoded))
}
