package sales

import (
	"context"
	"sync"
	"testing"
	"time"

	"pos_core/internal/metrics"
	"pos_core/internal/pos"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest" // Para un logger de prueba
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

type fixture struct {
	svc   *Service
	store *pos.Store
}

// newFixture arma un store en memoria con dos productos y un cupón.
func newFixture(t *testing.T) fixture {
	t.Helper()
	st := pos.NewState()
	st.Products = []pos.Product{
		{ID: "cafe", Name: "Café", Price: 3.5, Stock: intPtr(5)},
		{ID: "pao", Name: "Pão", Price: 10},
	}
	st.Coupons = []pos.Coupon{
		{ID: "c1", Code: "OFF10", Type: pos.DiscountPercent, Value: 10, Active: true, MaxUses: 0},
	}
	store := pos.NewStore(st, nil, zaptest.NewLogger(t))
	svc := NewService(store, metrics.New(prometheus.NewRegistry()), zaptest.NewLogger(t))
	svc.now = func() time.Time { return now }
	return fixture{svc: svc, store: store}
}

func line(t *testing.T, f fixture, id string, qty int) pos.CartItem {
	t.Helper()
	var item pos.CartItem
	_ = f.store.View(func(st *pos.State) error {
		item = pos.CartItem{Product: st.FindProduct(id).Clone(), Quantity: qty, DiscountType: pos.DiscountPercent}
		return nil
	})
	return item
}

func withCart(t *testing.T, f fixture, items ...pos.CartItem) {
	t.Helper()
	require.NoError(t, f.store.Update(context.Background(), func(st *pos.State) error {
		st.Cart = items
		return nil
	}))
}

// TestNewService verifica la inicialización del servicio.
func TestNewService(t *testing.T) {
	svc := NewService(pos.NewStore(nil, nil, nil), nil, nil)

	require.NotNil(t, svc)
	assert.NotNil(t, svc.logger)
	assert.Equal(t, PhaseIdle, svc.Status().Phase)
}

func TestOpenCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OpenCheckout()

	assert.ErrorIs(t, err, pos.ErrEmptyCart)
	assert.Equal(t, pos.KindPrecondition, pos.KindOf(err))
	assert.Equal(t, PhaseIdle, f.svc.Status().Phase)
}

func TestOpenCheckoutInsufficientStock(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "cafe", 6))

	_, err := f.svc.OpenCheckout()

	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Café", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Available)
}

func TestConfirmWithoutOpen(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "pao", 1))

	_, err := f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentPix})

	assert.ErrorIs(t, err, pos.ErrNoCheckout)
}

func TestConfirmCashInsufficientPayment(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "pao", 6))

	co, err := f.svc.OpenCheckout()
	require.NoError(t, err)
	assert.Equal(t, 60.0, co.Totals.Total)

	_, err = f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentCash, ReceivedAmount: 50})

	assert.ErrorIs(t, err, pos.ErrInsufficientPayment)
	assert.Equal(t, pos.KindPrecondition, pos.KindOf(err))
	assert.Equal(t, PhaseDrafting, f.svc.Status().Phase, "a failed confirm stays in drafting")
	snap := f.store.Snapshot()
	assert.Len(t, snap.Cart, 1, "cart is preserved")
	assert.Empty(t, snap.Sales)

	_, err = f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentCash})
	assert.ErrorIs(t, err, pos.ErrMissingReceivedAmount)
	assert.Equal(t, pos.KindPrecondition, pos.KindOf(err))

	_, err = f.svc.ConfirmCheckout(context.Background(), Payment{Method: "cheque", ReceivedAmount: 100})
	assert.ErrorIs(t, err, pos.ErrInvalidPaymentMethod)

	assert.Equal(t, 3.0, testutilCount(t, f.svc.metrics))
}

func TestConfirmCashCommits(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "cafe", 5), line(t, f, "pao", 1))

	_, err := f.svc.OpenCheckout()
	require.NoError(t, err)

	sale, err := f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentCash, ReceivedAmount: 30, CPF: " 123 "})
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, now, sale.Date)
	assert.Equal(t, 27.5, sale.Total)
	assert.Equal(t, 30.0, sale.ReceivedAmount)
	assert.Equal(t, 2.5, sale.Change)
	assert.Equal(t, "123", sale.CPF)
	assert.Equal(t, 0.0, sale.Tax)
	require.Len(t, sale.Items, 2)

	snap := f.store.Snapshot()
	assert.Empty(t, snap.Cart)
	assert.Equal(t, 0, *snap.FindProduct("cafe").Stock, "stock 5, quantity 5 leaves 0")
	assert.Nil(t, snap.FindProduct("pao").Stock, "untracked stock stays untracked")
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, sale.ID, snap.Sales[0].ID)

	status := f.svc.Status()
	assert.Equal(t, PhaseCommitted, status.Phase)
	assert.Equal(t, sale.ID, status.SaleID)
}

func TestConfirmNonCashIgnoresReceived(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "pao", 2))
	_, err := f.svc.OpenCheckout()
	require.NoError(t, err)

	sale, err := f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentCredit, ReceivedAmount: 5})
	require.NoError(t, err)

	assert.Equal(t, 20.0, sale.ReceivedAmount)
	assert.Equal(t, 0.0, sale.Change)
}

func TestConfirmWithCouponIncrementsUses(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "pao", 10))
	require.NoError(t, f.store.Update(context.Background(), func(st *pos.State) error {
		st.Cart[0].Discount = 10
		st.AppliedCouponID = "c1"
		return nil
	}))

	_, err := f.svc.OpenCheckout()
	require.NoError(t, err)
	_, err = f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentCash, ReceivedAmount: 10})
	require.ErrorIs(t, err, pos.ErrInsufficientPayment)
	assert.Equal(t, 0, f.store.Snapshot().FindCoupon("c1").Uses, "a rejected checkout does not use the coupon")

	sale, err := f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentPix})
	require.NoError(t, err)

	assert.Equal(t, 100.0, sale.Subtotal)
	assert.Equal(t, 9.0, sale.CouponDiscount)
	assert.Equal(t, 19.0, sale.Discount)
	assert.Equal(t, 81.0, sale.Total)
	assert.Equal(t, "OFF10", sale.CouponCode)

	snap := f.store.Snapshot()
	assert.Equal(t, 1, snap.FindCoupon("c1").Uses)
	assert.Empty(t, snap.AppliedCouponID)
}

func TestConfirmRechecksStock(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "cafe", 3))
	_, err := f.svc.OpenCheckout()
	require.NoError(t, err)

	// Otro terminal vende parte del stock entre la apertura y la confirmación.
	require.NoError(t, f.store.Update(context.Background(), func(st *pos.State) error {
		*st.FindProduct("cafe").Stock = 2
		return nil
	}))

	_, err = f.svc.ConfirmCheckout(context.Background(), Payment{Method: pos.PaymentPix})

	assert.ErrorIs(t, err, pos.ErrInsufficientStock)
	assert.Equal(t, 2, *f.store.Snapshot().FindProduct("cafe").Stock)
}

func TestConcurrentConfirmsDoNotOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	withCart(t, f, line(t, f, "cafe", 5))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.OpenCheckout(); err != nil {
				return
			}
			_, _ = f.svc.ConfirmCheckout(ctx, Payment{Method: pos.PaymentDebit})
		}()
	}
	wg.Wait()

	snap := f.store.Snapshot()
	assert.Len(t, snap.Sales, 1)
	assert.Equal(t, 0, *snap.FindProduct("cafe").Stock)
}

func TestCancelCheckout(t *testing.T) {
	f := newFixture(t)
	withCart(t, f, line(t, f, "pao", 1))

	_, err := f.svc.CancelCheckout()
	assert.ErrorIs(t, err, pos.ErrNoCheckout)

	_, err = f.svc.OpenCheckout()
	require.NoError(t, err)
	co, err := f.svc.CancelCheckout()
	require.NoError(t, err)

	assert.Equal(t, PhaseIdle, co.Phase)
	assert.Len(t, f.store.Snapshot().Cart, 1)
}

func testutilCount(t *testing.T, m *metrics.Metrics) float64 {
	t.Helper()
	// Cuenta los rechazos expuestos por /metrics.
	families, err := m.Gatherer().Gather()
	require.NoError(t, err)
	total := 0.0
	for _, fam := range families {
		if fam.GetName() != "pos_checkout_rejected_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
