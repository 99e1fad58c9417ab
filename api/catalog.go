package api

import (
	"net/http"

	"pos_core/internal/catalog"
	"pos_core/internal/pos"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	filter := catalog.ProductFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Quick:    c.Query("quick") == "true",
	}
	c.JSON(http.StatusOK, h.catalog.Products(filter))
}

func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Categories())
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.catalog.Product(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req catalog.ProductInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req catalog.ProductInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCoupons(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Coupons())
}

func (h *Handler) createCoupon(c *gin.Context) {
	var req catalog.CouponInput
	if !h.bind(c, &req) {
		return
	}
	coupon, err := h.catalog.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *Handler) updateCoupon(c *gin.Context) {
	var req catalog.CouponInput
	if !h.bind(c, &req) {
		return
	}
	coupon, err := h.catalog.UpdateCoupon(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	if err := h.catalog.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listPromotions(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Promotions())
}

func (h *Handler) createPromotion(c *gin.Context) {
	var req catalog.PromotionInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) updatePromotion(c *gin.Context) {
	var req catalog.PromotionInput
	if !h.bind(c, &req) {
		return
	}
	p, err := h.catalog.UpdatePromotion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePromotion(c *gin.Context) {
	if err := h.catalog.DeletePromotion(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCampaigns(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Campaigns())
}

func (h *Handler) createCampaign(c *gin.Context) {
	var req catalog.CampaignInput
	if !h.bind(c, &req) {
		return
	}
	campaign, err := h.catalog.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Settings())
}

func (h *Handler) updateSettings(c *gin.Context) {
	var req catalog.SettingsInput
	if !h.bind(c, &req) {
		return
	}
	settings, err := h.catalog.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) setStorageType(c *gin.Context) {
	var req struct {
		StorageType pos.StorageType `json:"storageType"`
	}
	if !h.bind(c, &req) {
		return
	}
	settings, err := h.catalog.SetStorageType(c.Request.Context(), h.migrator, req.StorageType)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
