package wishlist

import (
	"context"
	"testing"

	pkgerrors "github.com/lunaria/storefront-core/pkg/errors"
	"github.com/lunaria/storefront-core/pkg/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.Adapter) {
	t.Helper()
	adapter := storage.NewAdapter(context.Background(), storage.Params{
		Backend: storage.NewMemoryBackend(),
		Driver:  "memory",
	})
	m, err := NewManager(Params{Store: adapter})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return m, adapter
}

func TestNewManagerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(Params{}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddAndContains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager(t)

	if err := m.Add(ctx, Product{ProductID: "A", Name: "Tee", Price: 29.99, Category: "tops"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Contains(ctx, "A") {
		t.Fatal("expected product to be saved")
	}
	if m.Contains(ctx, "B") {
		t.Fatal("did not expect unknown product")
	}

	items := m.Items(ctx)
	if len(items) != 1 || items[0].ProductID != "A" || items[0].Image != defaultImage {
		t.Fatalf("unexpected wishlist contents: %+v", items)
	}
}

func TestAddDuplicateIsConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager(t)

	if err := m.Add(ctx, Product{ProductID: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Add(ctx, Product{ProductID: "A"}); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestAddRequiresProductID(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t)

	if err := m.Add(context.Background(), Product{Name: "nameless"}); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveIsUnconditional(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager(t)

	if err := m.Add(ctx, Product{ProductID: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Remove(ctx, "A")
	m.Remove(ctx, "A")

	if m.Contains(ctx, "A") {
		t.Fatal("expected product removed")
	}
}

func TestClearPurgesStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, adapter := newTestManager(t)

	if err := m.Add(ctx, Product{ProductID: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Clear(ctx)

	if _, ok := adapter.GetItem(ctx, wishlistStorageKey); ok {
		t.Fatal("expected wishlist key removed from storage")
	}
	if len(m.Items(ctx)) != 0 {
		t.Fatal("expected empty wishlist after clear")
	}
}

func TestCorruptWishlistReadsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, adapter := newTestManager(t)

	adapter.SetItem(ctx, wishlistStorageKey, "oops")
	if len(m.Items(ctx)) != 0 {
		t.Fatal("expected corrupt payload to read as empty wishlist")
	}
}

func TestFirstImageAdopted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newTestManager(t)

	if err := m.Add(ctx, Product{ProductID: "A", Images: []string{"a.jpg", "b.jpg"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items := m.Items(ctx)
	if items[0].Image != "a.jpg" {
		t.Fatalf("expected first image adopted, got %q", items[0].Image)
	}
}
