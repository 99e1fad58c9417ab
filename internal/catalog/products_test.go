package catalog

import (
	"context"
	"testing"
	"time"

	"pos_core/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T, st *pos.State) (*Service, *pos.Store) {
	t.Helper()
	if st == nil {
		st = pos.NewState()
	}
	store := pos.NewStore(st, nil, zaptest.NewLogger(t))
	svc := NewService(store, zaptest.NewLogger(t))
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestCreateProduct(t *testing.T) {
	svc, store := newTestService(t, nil)

	p, err := svc.CreateProduct(context.Background(), ProductInput{
		Name: "  Bolo ", Price: 12.5, Code: "B01", Category: "Padaria", Stock: intPtr(3),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Bolo", p.Name)

	products := store.Snapshot().Products
	require.Len(t, products, 1)
	assert.Equal(t, 3, *products[0].Stock)
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name string
		in   ProductInput
	}{
		{"blank name", ProductInput{Name: " ", Price: 1}},
		{"negative price", ProductInput{Name: "X", Price: -1}},
		{"negative stock", ProductInput{Name: "X", Price: 1, Stock: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t, nil)
			_, err := svc.CreateProduct(context.Background(), tt.in)
			assert.ErrorIs(t, err, pos.ErrInvalidProduct)
			assert.Equal(t, pos.KindValidation, pos.KindOf(err))
			assert.Empty(t, store.Snapshot().Products)
		})
	}
}

func TestProductsFilter(t *testing.T) {
	st := pos.NewState()
	st.Products = DefaultProducts()
	st.Products[3].Code = "SAL"
	svc, _ := newTestService(t, st)

	names := func(ps []pos.Product) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Len(t, svc.Products(ProductFilter{}), 6)
	assert.Equal(t, []string{"Café", "Refrigerante", "Água"}, names(svc.Products(ProductFilter{Category: "Bebidas"})))
	assert.Equal(t, []string{"Salgadinho"}, names(svc.Products(ProductFilter{Query: "sal"})))
	assert.Equal(t, []string{"Pão de Açúcar"}, names(svc.Products(ProductFilter{Query: "AÇÚ"})))
	assert.Len(t, svc.Products(ProductFilter{Quick: true}), 4)
	assert.Equal(t, []string{"Bebidas", "Doces", "Padaria", "Snacks"}, svc.Categories())
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	st := pos.NewState()
	st.Products = DefaultProducts()
	st.Cart = []pos.CartItem{{Product: st.Products[0].Clone(), Quantity: 2}}
	svc, store := newTestService(t, st)
	ctx := context.Background()

	updated, err := svc.UpdateProduct(ctx, "1", ProductInput{Name: "Café Expresso", Price: 4})
	require.NoError(t, err)
	assert.Equal(t, "1", updated.ID)
	assert.Nil(t, updated.Stock)

	// a linha do carrinho conserva o preço copiado
	assert.Equal(t, 3.5, store.Snapshot().Cart[0].Price)

	_, err = svc.UpdateProduct(ctx, "missing", ProductInput{Name: "X"})
	assert.ErrorIs(t, err, pos.ErrProductNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, "1"))
	snap := store.Snapshot()
	assert.Len(t, snap.Products, 5)
	assert.Empty(t, snap.Cart)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "1"), pos.ErrProductNotFound)
}

func TestSeedDefaults(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	n, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.Snapshot().Products, 6)
}
