package storage

import (
	"context"
	"sync"

	"github.com/lunaria/storefront-core/pkg/logger"
	"github.com/lunaria/storefront-core/pkg/metrics"
)

const probeKey = "__storage_probe__"

// Adapter presents a never-failing get/set/remove surface over a durable
// backend. The backend is probed once at construction; after the probe or any
// later operation fails, the adapter latches onto an in-process map for the
// rest of the process lifetime. Callers never see storage errors.
type Adapter struct {
	mu       sync.Mutex
	backend  Backend
	enabled  bool
	fallback map[string]string
	driver   string
	log      *logger.Logger
	metrics  *metrics.CartMetrics
}

// Params groups the adapter dependencies. Backend may be nil, in which case
// the adapter runs purely in memory.
type Params struct {
	Backend Backend
	Driver  string
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// NewAdapter probes the backend and returns the guarded adapter.
func NewAdapter(ctx context.Context, params Params) *Adapter {
	a := &Adapter{
		backend:  params.Backend,
		fallback: make(map[string]string),
		driver:   params.Driver,
		log:      params.Logger,
		metrics:  params.Metrics,
	}
	a.enabled = a.probe(ctx)
	return a
}

// probe runs a harmless write+delete cycle against the backend.
func (a *Adapter) probe(ctx context.Context) bool {
	if a.backend == nil {
		return false
	}
	if err := a.backend.SetItem(ctx, probeKey, "1"); err != nil {
		a.debug(ctx, "storage probe write failed, using in-memory fallback", err)
		return false
	}
	if err := a.backend.RemoveItem(ctx, probeKey); err != nil {
		a.debug(ctx, "storage probe delete failed, using in-memory fallback", err)
		return false
	}
	return true
}

// GetItem returns the stored value, or ok=false when the key is absent.
// Never fails: a backend error routes the read to the in-memory fallback.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.enabled {
		value, ok, err := a.backend.GetItem(ctx, key)
		if err == nil {
			return value, ok
		}
		a.disable(ctx, "storage read failed", err)
	}
	a.metrics.IncFallback()
	value, ok := a.fallback[key]
	return value, ok
}

// SetItem stores the value. Never fails: on a backend error the value lands
// in the in-memory fallback instead, so it is not lost, merely not durable.
func (a *Adapter) SetItem(ctx context.Context, key, value string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.enabled {
		err := a.backend.SetItem(ctx, key, value)
		if err == nil {
			return
		}
		a.disable(ctx, "storage write failed", err)
	}
	a.metrics.IncFallback()
	a.fallback[key] = value
}

// RemoveItem deletes the key from whichever backing is in play. The in-memory
// fallback is always purged so stale data cannot resurrect a removed key.
func (a *Adapter) RemoveItem(ctx context.Context, key string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.enabled {
		if err := a.backend.RemoveItem(ctx, key); err != nil {
			a.disable(ctx, "storage delete failed", err)
			a.metrics.IncFallback()
		}
	}
	delete(a.fallback, key)
}

// IsPersistent reports whether the durable backend is still trusted.
func (a *Adapter) IsPersistent() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

// disable latches the adapter onto the in-memory fallback permanently.
func (a *Adapter) disable(ctx context.Context, msg string, err error) {
	a.enabled = false
	a.debug(ctx, msg+", storage disabled for process lifetime", err)
}

func (a *Adapter) debug(ctx context.Context, msg string, err error) {
	if a.log == nil {
		return
	}
	ctx = a.log.WithDriver(ctx, a.driver)
	if err != nil {
		ctx = a.log.WithField(ctx, "error", err.Error())
	}
	a.log.Debug(ctx, msg)
}
