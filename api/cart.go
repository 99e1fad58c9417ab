package api

import (
	"net/http"
	"strconv"

	"pos_core/internal/pos"
	"pos_core/internal/pricing"
	"pos_core/internal/sales"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart.Get())
}

func (h *Handler) addToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if !h.bind(c, &req) {
		return
	}
	v, err := h.cart.Add(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) searchAddToCart(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if !h.bind(c, &req) {
		return
	}
	v, err := h.cart.SearchAdd(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) changeQuantity(c *gin.Context) {
	var req struct {
		Change int `json:"change"`
	}
	if !h.bind(c, &req) {
		return
	}
	v, err := h.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Change)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) setItemDiscount(c *gin.Context) {
	var req struct {
		Discount     float64          `json:"discount"`
		DiscountType pos.DiscountType `json:"discountType"`
	}
	if !h.bind(c, &req) {
		return
	}
	v, err := h.cart.ApplyItemDiscount(c.Request.Context(), c.Param("id"), req.Discount, req.DiscountType)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) removeFromCart(c *gin.Context) {
	v, err := h.cart.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) clearCart(c *gin.Context) {
	v, err := h.cart.Clear(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// applyCoupon answers 200 for accepted coupons and 422 for rejected ones; both
// carry the status and the re-rendered cart.
func (h *Handler) applyCoupon(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if !h.bind(c, &req) {
		return
	}
	res, err := h.cart.ApplyCoupon(c.Request.Context(), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	status := http.StatusOK
	if res.Status != pricing.CouponAccepted {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}

func (h *Handler) removeCoupon(c *gin.Context) {
	v, err := h.cart.RemoveCoupon(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) checkoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.sales.Status())
}

func (h *Handler) openCheckout(c *gin.Context) {
	checkout, err := h.sales.OpenCheckout()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

func (h *Handler) confirmCheckout(c *gin.Context) {
	var req sales.Payment
	if !h.bind(c, &req) {
		return
	}
	sale, err := h.sales.ConfirmCheckout(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) cancelCheckout(c *gin.Context) {
	checkout, err := h.sales.CancelCheckout()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

func (h *Handler) changePreview(c *gin.Context) {
	received, err := strconv.ParseFloat(c.Query("received"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "received must be a number"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": received, "change": h.cart.ChangePreview(received)})
}

func (h *Handler) searchSales(c *gin.Context) {
	results, metadata, err := h.sales.Search(sales.Filter{
		Date:  c.Query("date"),
		Query: c.Query("q"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results":  results,
		"metadata": metadata,
	})
}

func (h *Handler) getSale(c *gin.Context) {
	sale, err := h.sales.Get(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}
