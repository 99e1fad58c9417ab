package storage

import (
	"context"
	"fmt"

	"pos_core/internal/metrics"
	"pos_core/internal/pos"

	"go.uber.org/zap"
)

// Backend is a persistence strategy for the whole state.
type Backend interface {
	Load(ctx context.Context) (*pos.State, error)
	Save(ctx context.Context, state *pos.State) error
}

var (
	_ Backend   = (*KeyValueBackend)(nil)
	_ Backend   = (*DocumentBackend)(nil)
	_ pos.Saver = (*Adapter)(nil)
)

// Adapter picks a backend from settings.storageType. Document failures fall
// back to key-value and flip the selector. Whatever the document backend does
// not hold (cart, cash register, coupons, promotions, campaigns) is always
// written to key-value storage.
type Adapter struct {
	kv      *KeyValueBackend
	doc     *DocumentBackend
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewAdapter accepts a nil doc when no document store is configured.
func NewAdapter(kv *KeyValueBackend, doc *DocumentBackend, m *metrics.Metrics, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		kv:      kv,
		doc:     doc,
		metrics: m,
		logger:  logger.Named("storage"),
	}
}

func (a *Adapter) Load(ctx context.Context) (*pos.State, error) {
	state, err := a.kv.Load(ctx)
	if err != nil {
		return nil, err
	}
	if state.Settings.StorageType != pos.StorageDocument {
		return state, nil
	}

	if a.doc == nil {
		a.fallback(ctx, "load", state, ErrDocumentUnavailable)
		return state, nil
	}
	docState, err := a.doc.Load(ctx)
	if err != nil {
		a.fallback(ctx, "load", state, err)
		return state, nil
	}

	state.Products = docState.Products
	state.Sales = docState.Sales
	state.Settings = docState.Settings
	return state, nil
}

// Save never loses data to a document failure: it falls back and writes the
// full state to key-value storage instead.
func (a *Adapter) Save(ctx context.Context, state *pos.State) error {
	if state.Settings.StorageType == pos.StorageDocument {
		if a.doc == nil {
			a.fallback(ctx, "save", state, ErrDocumentUnavailable)
		} else if err := a.doc.Save(ctx, state); err != nil {
			a.fallback(ctx, "save", state, err)
		} else {
			return a.kv.SaveAuxiliary(ctx, state)
		}
	}
	return a.kv.Save(ctx, state)
}

func (a *Adapter) fallback(ctx context.Context, op string, state *pos.State, cause error) {
	a.logger.Warn("document storage failed, falling back to key-value",
		zap.String("operation", op),
		zap.Error(cause),
	)
	a.metrics.StorageFallback(op)
	state.Settings.StorageType = pos.StorageKeyValue
	if err := a.kv.SaveStorageType(ctx, pos.StorageKeyValue); err != nil {
		a.logger.Error("storage selector not persisted", zap.Error(err))
	}
}

// MigrateToDocument copies key-value contents to the document store and
// selects it. The copy is not transactional: a failure part way leaves the
// document store partially written while key-value stays selected.
func (a *Adapter) MigrateToDocument(ctx context.Context) (*pos.State, error) {
	if a.doc == nil {
		return nil, pos.Precondition(ErrDocumentUnavailable, "configure a document store first")
	}
	state, err := a.kv.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate to document: %w", err)
	}
	state.Settings.StorageType = pos.StorageDocument
	if err := a.doc.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("migrate to document: %w", err)
	}
	if err := a.kv.SaveAuxiliary(ctx, state); err != nil {
		return nil, fmt.Errorf("migrate to document: %w", err)
	}
	a.logger.Info("migrated to document storage",
		zap.Int("products", len(state.Products)),
		zap.Int("sales", len(state.Sales)),
	)
	return state, nil
}

// MigrateToKeyValue copies document contents back to key-value storage and
// selects it.
func (a *Adapter) MigrateToKeyValue(ctx context.Context) (*pos.State, error) {
	state, err := a.kv.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate to key-value: %w", err)
	}
	if a.doc != nil {
		docState, err := a.doc.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("migrate to key-value: %w", err)
		}
		state.Products = docState.Products
		state.Sales = docState.Sales
		state.Settings = docState.Settings
	}
	state.Settings.StorageType = pos.StorageKeyValue
	if err := a.kv.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("migrate to key-value: %w", err)
	}
	a.logger.Info("migrated to key-value storage",
		zap.Int("products", len(state.Products)),
		zap.Int("sales", len(state.Sales)),
	)
	return state, nil
}
