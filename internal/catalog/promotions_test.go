package catalog

import (
	"context"
	"testing"

	"pos_core/internal/pos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionLifecycle(t *testing.T) {
	svc, store := newTestService(t, nil)
	ctx := context.Background()

	in := PromotionInput{
		Name:      "Leve 3 pague 2",
		Type:      pos.PromotionBuyXGetY,
		Products:  []string{"1"},
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
		Active:    true,
	}
	p, err := svc.CreatePromotion(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, now, p.CreatedAt)

	list := svc.Promotions()
	require.Len(t, list, 1)
	assert.Equal(t, "active", list[0].Status)

	in.Active = false
	in.Type = pos.PromotionFreeShipping
	updated, err := svc.UpdatePromotion(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "inactive", svc.Promotions()[0].Status)

	require.NoError(t, svc.DeletePromotion(ctx, p.ID))
	assert.Empty(t, store.Snapshot().Promotions)
	assert.ErrorIs(t, svc.DeletePromotion(ctx, p.ID), pos.ErrPromotionNotFound)
	_, err = svc.UpdatePromotion(ctx, p.ID, in)
	assert.ErrorIs(t, err, pos.ErrPromotionNotFound)
}

func TestPromotionValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.CreatePromotion(ctx, PromotionInput{Name: "X", Type: "bogus", StartDate: "2024-06-01", EndDate: "2024-06-02"})
	assert.ErrorIs(t, err, pos.ErrInvalidPromotion)

	_, err = svc.CreatePromotion(ctx, PromotionInput{Name: "X", Type: pos.PromotionDiscount, StartDate: "2024-06-05", EndDate: "2024-06-02"})
	assert.ErrorIs(t, err, pos.ErrInvalidDateRange)
}

func TestCampaigns(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	assert.Empty(t, svc.Campaigns())

	_, err := svc.CreateCampaign(ctx, CampaignInput{Name: " "})
	assert.ErrorIs(t, err, pos.ErrInvalidCampaign)

	c, err := svc.CreateCampaign(ctx, CampaignInput{Name: "Dia das Mães", Description: "vitrine"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, []pos.Campaign{c}, svc.Campaigns())
}
