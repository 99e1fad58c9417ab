package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InitRoutes registers every endpoint on the given Gin engine. metrics may be
// nil when no registry is exposed.
func InitRoutes(e *gin.Engine, h *Handler, metrics http.Handler) {
	e.GET("/ping", h.ping)
	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics))
	}

	products := e.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/categories", h.listCategories)
	products.GET("/:id", h.getProduct)
	products.POST("", h.createProduct)
	products.PUT("/:id", h.updateProduct)
	products.DELETE("/:id", h.deleteProduct)

	cart := e.Group("/cart")
	cart.GET("", h.getCart)
	cart.DELETE("", h.clearCart)
	cart.POST("/items", h.addToCart)
	cart.POST("/search", h.searchAddToCart)
	cart.PATCH("/items/:id", h.changeQuantity)
	cart.PUT("/items/:id/discount", h.setItemDiscount)
	cart.DELETE("/items/:id", h.removeFromCart)
	cart.POST("/coupon", h.applyCoupon)
	cart.DELETE("/coupon", h.removeCoupon)

	checkout := e.Group("/checkout")
	checkout.GET("", h.checkoutStatus)
	checkout.POST("", h.openCheckout)
	checkout.POST("/confirm", h.confirmCheckout)
	checkout.DELETE("", h.cancelCheckout)
	checkout.GET("/change", h.changePreview)

	e.GET("/sales", h.searchSales)
	e.GET("/sales/:id", h.getSale)

	coupons := e.Group("/coupons")
	coupons.GET("", h.listCoupons)
	coupons.POST("", h.createCoupon)
	coupons.PUT("/:id", h.updateCoupon)
	coupons.DELETE("/:id", h.deleteCoupon)

	promotions := e.Group("/promotions")
	promotions.GET("", h.listPromotions)
	promotions.POST("", h.createPromotion)
	promotions.PUT("/:id", h.updatePromotion)
	promotions.DELETE("/:id", h.deletePromotion)

	e.GET("/campaigns", h.listCampaigns)
	e.POST("/campaigns", h.createCampaign)

	cash := e.Group("/cash")
	cash.GET("", h.cashStatus)
	cash.GET("/summary", h.cashSummary)
	cash.POST("/open", h.openCash)
	cash.POST("/close", h.closeCash)

	reports := e.Group("/reports")
	reports.GET("/period/:preset", h.reportPeriod)
	reports.GET("/summary", h.reportSummary)
	reports.GET("/charts", h.reportCharts)
	reports.GET("/sales.csv", h.exportCSV)

	e.GET("/settings", h.getSettings)
	e.PUT("/settings", h.updateSettings)
	e.POST("/settings/storage", h.setStorageType)

	e.GET("/backup", h.backup)
	e.POST("/restore", h.restore)
}
