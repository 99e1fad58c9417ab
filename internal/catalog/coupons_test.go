package catalog

import (
	"context"
	"testing"
	"time"

	"pos_core/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func couponInput(code string) CouponInput {
	return CouponInput{
		Code:      code,
		Name:      "Desconto",
		Type:      pos.DiscountPercent,
		Value:     10,
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
		Active:    true,
	}
}

func TestCreateCoupon(t *testing.T) {
	svc, store := newTestService(t, nil)

	c, err := svc.CreateCoupon(context.Background(), couponInput(" off10 "))
	require.NoError(t, err)
	assert.Equal(t, "OFF10", c.Code)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), c.StartDate)
	assert.Equal(t, now, c.CreatedAt)
	assert.Len(t, store.Snapshot().Coupons, 1)
}

func TestCreateCouponValidation(t *testing.T) {
	mutate := func(fn func(*CouponInput)) CouponInput {
		in := couponInput("X")
		fn(&in)
		return in
	}

	tests := []struct {
		name string
		in   CouponInput
		want error
	}{
		{"blank code", mutate(func(in *CouponInput) { in.Code = " " }), pos.ErrInvalidCoupon},
		{"blank name", mutate(func(in *CouponInput) { in.Name = "" }), pos.ErrInvalidCoupon},
		{"zero value", mutate(func(in *CouponInput) { in.Value = 0 }), pos.ErrInvalidCoupon},
		{"percent above 100", mutate(func(in *CouponInput) { in.Value = 101 }), pos.ErrInvalidCoupon},
		{"bad type", mutate(func(in *CouponInput) { in.Type = "bogo" }), pos.ErrInvalidCoupon},
		{"bad date", mutate(func(in *CouponInput) { in.EndDate = "30/06/2024" }), pos.ErrInvalidDate},
		{"start after end", mutate(func(in *CouponInput) { in.StartDate = "2024-07-01" }), pos.ErrInvalidDateRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			_, err := svc.CreateCoupon(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, pos.KindValidation, pos.KindOf(err))
		})
	}

	// amount coupons may exceed 100
	svc, _ := newTestService(t, nil)
	in := couponInput("BIG")
	in.Type = pos.DiscountAmount
	in.Value = 150
	_, err := svc.CreateCoupon(context.Background(), in)
	assert.NoError(t, err)
}

func TestCouponCodeUnique(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.CreateCoupon(ctx, couponInput("OFF10"))
	require.NoError(t, err)
	second, err := svc.CreateCoupon(ctx, couponInput("OFF20"))
	require.NoError(t, err)

	_, err = svc.CreateCoupon(ctx, couponInput("off10"))
	assert.ErrorIs(t, err, pos.ErrDuplicateCouponCode)
	assert.Equal(t, pos.KindConflict, pos.KindOf(err))

	_, err = svc.UpdateCoupon(ctx, second.ID, couponInput("OFF10"))
	assert.ErrorIs(t, err, pos.ErrDuplicateCouponCode)

	// renaming onto its own code is fine
	_, err = svc.UpdateCoupon(ctx, first.ID, couponInput("OFF10"))
	assert.NoError(t, err)
}

func TestUpdateCouponKeepsUses(t *testing.T) {
	st := pos.NewState()
	created := now.AddDate(0, -1, 0)
	st.Coupons = []pos.Coupon{{ID: "c1", Code: "OLD", Uses: 4, CreatedAt: created}}
	svc, _ := newTestService(t, st)

	in := couponInput("NEW")
	in.MaxUses = 10
	c, err := svc.UpdateCoupon(context.Background(), "c1", in)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Uses)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, "NEW", c.Code)

	_, err = svc.UpdateCoupon(context.Background(), "nope", in)
	assert.ErrorIs(t, err, pos.ErrCouponNotFound)
}

func TestDeleteCouponDetachesCart(t *testing.T) {
	st := pos.NewState()
	st.Coupons = []pos.Coupon{{ID: "c1", Code: "A"}, {ID: "c2", Code: "B"}}
	st.AppliedCouponID = "c1"
	svc, store := newTestService(t, st)

	require.NoError(t, svc.DeleteCoupon(context.Background(), "c1"))

	snap := store.Snapshot()
	require.Len(t, snap.Coupons, 1)
	assert.Equal(t, "c2", snap.Coupons[0].ID)
	assert.Empty(t, snap.AppliedCouponID)
	assert.ErrorIs(t, svc.DeleteCoupon(context.Background(), "c1"), pos.ErrCouponNotFound)
}

func TestCouponListingStatus(t *testing.T) {
	day := 24 * time.Hour
	st := pos.NewState()
	st.Coupons = []pos.Coupon{
		{ID: "active", Active: true, StartDate: now.Add(-day), EndDate: now.Add(day)},
		{ID: "exhausted", Active: true, StartDate: now.Add(-day), EndDate: now.Add(day), MaxUses: 1, Uses: 1},
		{ID: "disabled", Active: false, StartDate: now.Add(-day), EndDate: now.Add(day)},
		{ID: "expired", Active: true, StartDate: now.Add(-2 * day), EndDate: now.Add(-day)},
		{ID: "unlimited", Active: true, StartDate: now.Add(-day), EndDate: now.Add(day), Uses: 50},
	}
	svc, _ := newTestService(t, st)

	got := map[string]CouponStatus{}
	for _, c := range svc.Coupons() {
		got[c.ID] = c.Status
	}
	assert.Equal(t, map[string]CouponStatus{
		"active":    CouponStatusActive,
		"exhausted": CouponStatusExhausted,
		"disabled":  CouponStatusInactive,
		"expired":   CouponStatusInactive,
		"unlimited": CouponStatusActive,
	}, got)
}
