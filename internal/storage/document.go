package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"pos_core/internal/pos"

	"go.uber.org/zap"
)

// ErrDocumentUnavailable is returned when the document backend is selected but
// was never opened.
var ErrDocumentUnavailable = errors.New("document storage unavailable")

// DocumentStore holds one collection per entity: products and sales keyed by
// id, settings keyed by setting name.
type DocumentStore interface {
	Ping(ctx context.Context) error
	Products(ctx context.Context) ([]pos.Product, error)
	PutProducts(ctx context.Context, products []pos.Product) error
	Sales(ctx context.Context) ([]pos.Sale, error)
	PutSales(ctx context.Context, sales []pos.Sale) error
	Settings(ctx context.Context) (map[string]any, error)
	PutSettings(ctx context.Context, settings map[string]any) error
}

// DocumentBackend maps products, sales and settings to a DocumentStore. The
// remaining slices stay in key-value storage; see Adapter.
type DocumentBackend struct {
	store  DocumentStore
	logger *zap.Logger
}

func NewDocumentBackend(store DocumentStore, logger *zap.Logger) *DocumentBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentBackend{store: store, logger: logger.Named("document")}
}

// Load returns a state holding only products, sales and settings.
func (b *DocumentBackend) Load(ctx context.Context) (*pos.State, error) {
	state := pos.NewState()

	products, err := b.store.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	sales, err := b.store.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	raw, err := b.store.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	state.Products = products
	state.Sales = sales
	if len(raw) > 0 {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
		if err := json.Unmarshal(data, &state.Settings); err != nil {
			b.logger.Warn("corrupt settings reset to default", zap.Error(err))
			state.Settings = pos.DefaultSettings()
		}
	}
	state.Settings.StorageType = pos.StorageDocument
	state.Normalize()
	return state, nil
}

// Save replaces the three collections with the state's contents.
func (b *DocumentBackend) Save(ctx context.Context, state *pos.State) error {
	if err := b.store.PutProducts(ctx, state.Products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	if err := b.store.PutSales(ctx, state.Sales); err != nil {
		return fmt.Errorf("save sales: %w", err)
	}
	settings, err := settingsDocument(state.Settings)
	if err != nil {
		return err
	}
	if err := b.store.PutSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// settingsDocument flattens settings to name/value pairs. The storage
// selector is excluded; it lives in key-value storage.
func settingsDocument(s pos.Settings) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	delete(out, KeyStorageType)
	return out, nil
}

// MemoryDocumentStore is an in-process DocumentStore. Setting Err makes every
// call fail with it.
type MemoryDocumentStore struct {
	mu       sync.Mutex
	products []pos.Product
	sales    []pos.Sale
	settings map[string]any
	Err      error
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{settings: map[string]any{}}
}

// Fail sets the error returned by every following call; nil clears it.
func (s *MemoryDocumentStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

func (s *MemoryDocumentStore) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

func (s *MemoryDocumentStore) Products(context.Context) ([]pos.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]pos.Product, len(s.products))
	for i, p := range s.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (s *MemoryDocumentStore) PutProducts(_ context.Context, products []pos.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.products = make([]pos.Product, len(products))
	for i, p := range products {
		s.products[i] = p.Clone()
	}
	return nil
}

func (s *MemoryDocumentStore) Sales(context.Context) ([]pos.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]pos.Sale, len(s.sales))
	for i, sale := range s.sales {
		out[i] = sale.Clone()
	}
	return out, nil
}

func (s *MemoryDocumentStore) PutSales(_ context.Context, sales []pos.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sales = make([]pos.Sale, len(sales))
	for i, sale := range sales {
		s.sales[i] = sale.Clone()
	}
	return nil
}

func (s *MemoryDocumentStore) Settings(context.Context) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryDocumentStore) PutSettings(_ context.Context, settings map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.settings = make(map[string]any, len(settings))
	for k, v := range settings {
		s.settings[k] = v
	}
	return nil
}

// ProductIDs lists stored product ids in insertion order.
func (s *MemoryDocumentStore) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.products))
	for _, p := range s.products {
		ids = append(ids, p.ID)
	}
	return ids
}
