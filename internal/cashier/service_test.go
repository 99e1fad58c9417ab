package cashier

import (
	"context"
	"testing"
	"time"

	"pos_core/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var now = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, sales ...pos.Sale) (*Service, *pos.Store) {
	t.Helper()
	tz := 0
	st := pos.NewState()
	st.Settings.Timezone = &tz
	st.Sales = sales
	store := pos.NewStore(st, nil, zaptest.NewLogger(t))
	svc := NewService(store, zaptest.NewLogger(t))
	svc.now = func() time.Time { return now }
	return svc, store
}

func sale(id string, at time.Time, method pos.PaymentMethod, total float64) pos.Sale {
	return pos.Sale{ID: id, Date: at, PaymentMethod: method, Total: total, Items: []pos.SaleItem{}}
}

func TestOpen(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Open(ctx, 100)
	require.NoError(t, err)
	assert.True(t, reg.IsOpen)
	assert.Equal(t, 100.0, reg.InitialAmount)
	require.NotNil(t, reg.CurrentSession)
	assert.Equal(t, now, reg.CurrentSession.OpenDate)

	_, err = svc.Open(ctx, 50)
	assert.ErrorIs(t, err, pos.ErrCashSessionOpen)
	assert.Equal(t, pos.KindPrecondition, pos.KindOf(err))
	assert.Equal(t, 100.0, svc.Status().InitialAmount)
}

func TestOpenRejectsNegative(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Open(context.Background(), -1)

	assert.ErrorIs(t, err, pos.ErrNegativeAmount)
	assert.False(t, svc.Status().IsOpen)
}

func TestCloseReconciles(t *testing.T) {
	svc, store := newTestService(t, sale("s1", now.Add(-2*time.Hour), pos.PaymentCash, 50))
	ctx := context.Background()
	_, err := svc.Open(ctx, 100)
	require.NoError(t, err)

	session, err := svc.Close(ctx, 150)
	require.NoError(t, err)

	assert.Equal(t, 150.0, session.ExpectedAmount)
	assert.Equal(t, 0.0, session.Difference)
	assert.Equal(t, 50.0, session.CashSales)
	assert.Equal(t, 1, session.TotalSales)
	require.NotNil(t, session.CloseDate)

	reg := store.Snapshot().CashRegister
	assert.False(t, reg.IsOpen)
	assert.Nil(t, reg.OpenDate)
	assert.Nil(t, reg.CurrentSession)
	assert.Equal(t, 0.0, reg.InitialAmount)
	require.Len(t, reg.History, 1)
	assert.Equal(t, 100.0, reg.History[0].InitialAmount)
}

func TestCloseCountsWholeCalendarDay(t *testing.T) {
	svc, _ := newTestService(t,
		sale("early", time.Date(2024, 6, 15, 0, 30, 0, 0, time.UTC), pos.PaymentCash, 20),
		sale("pix", time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), pos.PaymentPix, 40),
		sale("yesterday", time.Date(2024, 6, 14, 23, 59, 0, 0, time.UTC), pos.PaymentCash, 1000),
	)
	ctx := context.Background()
	_, err := svc.Open(ctx, 10)
	require.NoError(t, err)

	sum := svc.Summary()
	assert.Equal(t, 20.0, sum.CashSales, "cash sales before the session opened still count")
	assert.Equal(t, 30.0, sum.ExpectedAmount)
	assert.Equal(t, 2, sum.TotalSales)

	session, err := svc.Close(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, -5.0, session.Difference)
	assert.Equal(t, 2, session.TotalSales, "totalSales counts every payment method")
	assert.Len(t, session.Sales, 2)
}

func TestCloseWhenClosed(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Close(context.Background(), 0)

	assert.ErrorIs(t, err, pos.ErrCashSessionClosed)
}
