package catalog

import (
	"context"
	"errors"
	"testing"

	"pos_core/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateSettings(t *testing.T) {
	svc, store := newTestService(t, nil)
	tz := -3

	got, err := svc.UpdateSettings(context.Background(), SettingsInput{
		BusinessName: " ",
		TaxRate:      5,
		Theme:        "dark",
		Timezone:     &tz,
		PixKeyType:   "email",
		PixKeyValue:  "loja@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "VendaNinja", got.BusinessName)
	assert.Equal(t, "R$", got.Currency)
	assert.Equal(t, "dark", got.Theme)
	require.NotNil(t, got.Timezone)
	assert.Equal(t, -3, *got.Timezone)
	assert.Equal(t, pos.StorageKeyValue, got.StorageType, "storage type is not editable here")
	assert.Equal(t, got, store.Snapshot().Settings)
}

func TestUpdateSettingsValidation(t *testing.T) {
	tests := []struct {
		name string
		in   SettingsInput
	}{
		{"pix type without value", SettingsInput{PixKeyType: "cpf"}},
		{"negative tax", SettingsInput{TaxRate: -1}},
		{"unknown theme", SettingsInput{Theme: "neon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, nil)
			_, err := svc.UpdateSettings(context.Background(), tt.in)
			assert.ErrorIs(t, err, pos.ErrInvalidSettings)
			assert.Equal(t, pos.DefaultSettings(), store.Snapshot().Settings)
		})
	}

	// sin tipo ni valor se limpia la clave
	svc, _ := newTestService(t, nil)
	got, err := svc.UpdateSettings(context.Background(), SettingsInput{})
	require.NoError(t, err)
	assert.Empty(t, got.PixKeyType)
	assert.Empty(t, got.PixKeyValue)
}

type fakeMigrator struct {
	state *pos.State
	err   error
	calls []pos.StorageType
}

func (f *fakeMigrator) migrate(target pos.StorageType) (*pos.State, error) {
	f.calls = append(f.calls, target)
	if f.err != nil {
		return nil, f.err
	}
	out := f.state.Clone()
	out.Settings.StorageType = target
	return out, nil
}

func (f *fakeMigrator) MigrateToDocument(context.Context) (*pos.State, error) {
	return f.migrate(pos.StorageDocument)
}

func (f *fakeMigrator) MigrateToKeyValue(context.Context) (*pos.State, error) {
	return f.migrate(pos.StorageKeyValue)
}

func TestSetStorageType(t *testing.T) {
	st := pos.NewState()
	st.Products = DefaultProducts()
	st.Coupons = []pos.Coupon{{ID: "c1", Code: "A"}}
	st.AppliedCouponID = "c1"
	svc, store := newTestService(t, st)
	migrator := &fakeMigrator{state: st.Clone()}
	ctx := context.Background()

	got, err := svc.SetStorageType(ctx, migrator, pos.StorageKeyValue)
	require.NoError(t, err)
	assert.Equal(t, pos.StorageKeyValue, got.StorageType)
	assert.Empty(t, migrator.calls, "same type is a no-op")

	got, err = svc.SetStorageType(ctx, migrator, pos.StorageDocument)
	require.NoError(t, err)
	assert.Equal(t, pos.StorageDocument, got.StorageType)
	assert.Equal(t, []pos.StorageType{pos.StorageDocument}, migrator.calls)

	snap := store.Snapshot()
	assert.Len(t, snap.Products, 6)
	assert.Equal(t, "c1", snap.AppliedCouponID, "applied coupon survives the switch")

	_, err = svc.SetStorageType(ctx, migrator, "sql")
	assert.ErrorIs(t, err, pos.ErrInvalidStorageType)
}

func TestSetStorageTypeFailure(t *testing.T) {
	svc, store := newTestService(t, nil)
	boom := errors.New("mongo down")

	_, err := svc.SetStorageType(context.Background(), &fakeMigrator{err: boom}, pos.StorageDocument)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, pos.StorageKeyValue, store.Snapshot().Settings.StorageType)
}
