package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/lunaria/storefront-core/pkg/errors"
	"github.com/lunaria/storefront-core/pkg/logger"
	"github.com/lunaria/storefront-core/pkg/metrics"
	"github.com/lunaria/storefront-core/pkg/storage"
	"go.uber.org/multierr"
)

// cartStorageKey is the well-known key holding the serialized cart.
const cartStorageKey = "cart"

// Subscriber receives a fresh snapshot of the cart after every mutation.
// Callbacks run inside the manager's critical section: they must not call
// back into the manager or its unsubscribe handles, only read the snapshot.
type Subscriber func(items []LineItem)

// Unsubscribe removes the subscriber it was returned for. Calling it more
// than once is a no-op.
type Unsubscribe func()

type subscription struct {
	id uuid.UUID
	fn Subscriber
}

// Manager is the single authoritative in-process representation of the
// shopping cart. It loads its state from the storage adapter once at
// construction, persists after every mutation, and notifies subscribers in
// registration order. The persisted form is the durable source of truth
// across process restarts; the in-memory list is a cache of it.
type Manager struct {
	mu      sync.Mutex
	store   *storage.Adapter
	items   []LineItem
	subs    []subscription
	log     *logger.Logger
	metrics *metrics.CartMetrics
}

// Params groups the manager dependencies.
type Params struct {
	Store   *storage.Adapter
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// NewManager builds a manager and hydrates it from the storage adapter.
// A missing or unparsable persisted cart hydrates as empty, never an error.
func NewManager(ctx context.Context, params Params) (*Manager, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage adapter is required")
	}
	m := &Manager{
		store:   params.Store,
		items:   []LineItem{},
		log:     params.Logger,
		metrics: params.Metrics,
	}
	m.load(ctx)
	return m, nil
}

func (m *Manager) load(ctx context.Context) {
	raw, ok := m.store.GetItem(ctx, cartStorageKey)
	if !ok || raw == "" {
		return
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		if m.log != nil {
			m.log.Debug(m.log.WithComponent(ctx, "cart"), "persisted cart is not valid JSON, starting empty")
		}
		return
	}
	m.items = items
	if m.items == nil {
		m.items = []LineItem{}
	}
}

// Items returns a defensive copy of the current cart, insertion order
// preserved.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Find returns a copy of the line for the product, or nil when absent.
func (m *Manager) Find(productID string) *LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx := m.indexLocked(productID); idx >= 0 {
		item := m.items[idx].clone()
		return &item
	}
	return nil
}

// AddItem merges the product into the cart: an existing line has its
// quantity incremented, a new product is appended at the end. Quantity is
// floored at 1; decreasing goes through UpdateQuantity or RemoveItem.
// Returns the resulting line for the product.
func (m *Manager) AddItem(ctx context.Context, product Product, quantity int) (LineItem, error) {
	if err := validate.Struct(product); err != nil {
		return LineItem{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
	}
	if product.ID() == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(product.ID())
	if idx >= 0 {
		m.items[idx].Quantity += quantity
	} else {
		m.items = append(m.items, lineFromProduct(product, quantity))
		idx = len(m.items) - 1
	}

	m.commitLocked(ctx, "add_item")
	return m.items[idx].clone(), nil
}

// RemoveItem drops the line for the product. A missing product is a
// NotFound error so programming mistakes surface early.
func (m *Manager) RemoveItem(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(ctx, productID)
}

func (m *Manager) removeLocked(ctx context.Context, productID string) error {
	idx := m.indexLocked(productID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in cart", productID))
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.commitLocked(ctx, "remove_item")
	return nil
}

// UpdateQuantity sets the line's quantity. A target below 1 removes the
// line instead and returns nil; the line never stores a non-positive
// quantity.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) (*LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.indexLocked(productID)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found in cart", productID))
	}
	if quantity < 1 {
		if err := m.removeLocked(ctx, productID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	m.items[idx].Quantity = quantity
	m.commitLocked(ctx, "update_quantity")
	item := m.items[idx].clone()
	return &item, nil
}

// Clear empties the cart and persists the empty form.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = []LineItem{}
	m.commitLocked(ctx, "clear_cart")
}

// ItemCount returns the sum of all line quantities.
func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, item := range m.items {
		count += item.Quantity
	}
	return count
}

// Subscribe registers a callback invoked with a fresh snapshot after every
// mutation, in registration order. A panicking callback is recovered and
// does not suppress later subscribers or the mutator.
func (m *Manager) Subscribe(fn Subscriber) (Unsubscribe, error) {
	if fn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscriber callback is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.subs = append(m.subs, subscription{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.subs {
			if sub.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}, nil
}

// commitLocked persists the cart and fans out to subscribers. Persistence
// failures are absorbed by the storage adapter, so the in-memory state stays
// authoritative even when the durable copy is lost.
func (m *Manager) commitLocked(ctx context.Context, op string) {
	m.persistLocked(ctx)
	m.notifyLocked(ctx)
	m.metrics.IncMutation(op)
}

func (m *Manager) persistLocked(ctx context.Context) {
	encoded, err := json.Marshal(m.items)
	if err != nil {
		// Line items are plain data; marshalling cannot realistically fail.
		if m.log != nil {
			m.log.Error(m.log.WithComponent(ctx, "cart"), "failed to serialize cart", err)
		}
		return
	}
	m.store.SetItem(ctx, cartStorageKey, string(encoded))
}

func (m *Manager) notifyLocked(ctx context.Context) {
	var panics error
	for _, sub := range m.subs {
		if err := safeNotify(sub.fn, m.snapshotLocked()); err != nil {
			m.metrics.IncSubscriberPanic()
			panics = multierr.Append(panics, err)
		}
	}
	if panics != nil && m.log != nil {
		m.log.Error(m.log.WithComponent(ctx, "cart"), "cart subscribers panicked", panics)
	}
}

func safeNotify(fn Subscriber, snapshot []LineItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panic: %v", r)
		}
	}()
	fn(snapshot)
	return nil
}

func (m *Manager) snapshotLocked() []LineItem {
	out := make([]LineItem, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item.clone())
	}
	return out
}

func (m *Manager) indexLocked(productID string) int {
	for i, item := range m.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
