package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"pos_core/internal/metrics"
	"pos_core/internal/pos"

	"go.uber.org/zap"
)

// Key suffixes appended to the configured prefix.
const (
	KeyProducts     = "products"
	KeySales        = "sales"
	KeySettings     = "settings"
	KeyCart         = "cart"
	KeyCashRegister = "cashRegister"
	KeyCoupons      = "coupons"
	KeyPromotions   = "promotions"
	KeyCampaigns    = "campaigns"
	KeyStorageType  = "storageType"
)

// KeyValueOptions configures a KeyValueBackend.
type KeyValueOptions struct {
	Prefix string
	// DefaultStorageType is used when no selector has been stored yet.
	DefaultStorageType pos.StorageType
}

// KeyValueBackend stores each state slice as a JSON string under its own key.
type KeyValueBackend struct {
	store              KeyValueStore
	prefix             string
	defaultStorageType pos.StorageType
	metrics            *metrics.Metrics
	logger             *zap.Logger
}

func NewKeyValueBackend(store KeyValueStore, opts KeyValueOptions, m *metrics.Metrics, logger *zap.Logger) *KeyValueBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !opts.DefaultStorageType.Valid() {
		opts.DefaultStorageType = pos.StorageKeyValue
	}
	return &KeyValueBackend{
		store:              store,
		prefix:             opts.Prefix,
		defaultStorageType: opts.DefaultStorageType,
		metrics:            m,
		logger:             logger.Named("kv"),
	}
}

func (b *KeyValueBackend) key(name string) string {
	return b.prefix + name
}

// Load reads every slice. A missing or undecodable entry resets that slice to
// its default; only store I/O errors are returned.
func (b *KeyValueBackend) Load(ctx context.Context) (*pos.State, error) {
	state := pos.NewState()

	targets := []struct {
		name string
		dst  any
	}{
		{KeyProducts, &state.Products},
		{KeySales, &state.Sales},
		{KeySettings, &state.Settings},
		{KeyCart, &state.Cart},
		{KeyCashRegister, &state.CashRegister},
		{KeyCoupons, &state.Coupons},
		{KeyPromotions, &state.Promotions},
		{KeyCampaigns, &state.Campaigns},
	}
	for _, t := range targets {
		if err := b.read(ctx, t.name, t.dst); err != nil {
			return nil, err
		}
	}

	selector, ok, err := b.store.Get(ctx, b.key(KeyStorageType))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyStorageType, err)
	}
	state.Settings.StorageType = b.defaultStorageType
	if st := pos.StorageType(selector); ok && st.Valid() {
		state.Settings.StorageType = st
	}

	state.Normalize()
	return state, nil
}

// read decodes key into dst. Settings and the cash register decode over their
// defaults, so stored partial objects are merged.
func (b *KeyValueBackend) read(ctx context.Context, name string, dst any) error {
	key := b.key(name)
	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	if !ok || raw == "" {
		return nil
	}

	switch v := dst.(type) {
	case *pos.Settings:
		merged := pos.DefaultSettings()
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			b.corrupt(key, err)
			return nil
		}
		*v = merged
	case *pos.CashRegister:
		merged := pos.DefaultCashRegister()
		if err := json.Unmarshal([]byte(raw), &merged); err != nil {
			b.corrupt(key, err)
			return nil
		}
		*v = merged
	default:
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			b.corrupt(key, err)
			resetSlice(dst)
		}
	}
	return nil
}

func resetSlice(dst any) {
	switch v := dst.(type) {
	case *[]pos.Product:
		*v = []pos.Product{}
	case *[]pos.Sale:
		*v = []pos.Sale{}
	case *[]pos.CartItem:
		*v = []pos.CartItem{}
	case *[]pos.Coupon:
		*v = []pos.Coupon{}
	case *[]pos.Promotion:
		*v = []pos.Promotion{}
	case *[]pos.Campaign:
		*v = []pos.Campaign{}
	}
}

func (b *KeyValueBackend) corrupt(key string, err error) {
	b.logger.Warn("corrupt entry reset to default", zap.String("key", key), zap.Error(err))
	b.metrics.CorruptEntry(key)
}

// Save writes every slice plus the storage selector.
func (b *KeyValueBackend) Save(ctx context.Context, state *pos.State) error {
	entries := map[string]any{
		KeyProducts: state.Products,
		KeySales:    state.Sales,
		KeySettings: state.Settings,
	}
	if err := b.writeAll(ctx, entries); err != nil {
		return err
	}
	return b.SaveAuxiliary(ctx, state)
}

// SaveAuxiliary writes the slices the document backend does not hold: cart,
// cash register, coupons, promotions, campaigns and the storage selector.
func (b *KeyValueBackend) SaveAuxiliary(ctx context.Context, state *pos.State) error {
	entries := map[string]any{
		KeyCart:         state.Cart,
		KeyCashRegister: state.CashRegister,
		KeyCoupons:      state.Coupons,
		KeyPromotions:   state.Promotions,
		KeyCampaigns:    state.Campaigns,
	}
	if err := b.writeAll(ctx, entries); err != nil {
		return err
	}
	return b.SaveStorageType(ctx, state.Settings.StorageType)
}

func (b *KeyValueBackend) SaveStorageType(ctx context.Context, st pos.StorageType) error {
	if err := b.store.Set(ctx, b.key(KeyStorageType), string(st)); err != nil {
		return fmt.Errorf("save %s: %w", KeyStorageType, err)
	}
	return nil
}

func (b *KeyValueBackend) writeAll(ctx context.Context, entries map[string]any) error {
	for name, v := range entries {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := b.store.Set(ctx, b.key(name), string(data)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}
