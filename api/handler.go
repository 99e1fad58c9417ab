package api

import (
	"errors"
	"net/http"

	"pos_core/internal/cart"
	"pos_core/internal/cashier"
	"pos_core/internal/catalog"
	"pos_core/internal/pos"
	"pos_core/internal/report"
	"pos_core/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params are the services the HTTP layer exposes.
type Params struct {
	fx.In

	Cart     *cart.Service
	Sales    *sales.Service
	Cashier  *cashier.Service
	Catalog  *catalog.Service
	Report   *report.Service
	Migrator catalog.Migrator
	Logger   *zap.Logger
}

// Handler implements every HTTP endpoint on top of the services.
type Handler struct {
	cart     *cart.Service
	sales    *sales.Service
	cashier  *cashier.Service
	catalog  *catalog.Service
	report   *report.Service
	migrator catalog.Migrator
	logger   *zap.Logger
}

func NewHandler(p Params) *Handler {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		cart:     p.Cart,
		sales:    p.Sales,
		cashier:  p.Cashier,
		catalog:  p.Catalog,
		report:   p.Report,
		migrator: p.Migrator,
		logger:   logger.Named("api"),
	}
}

// errorStatus maps an error kind to its HTTP status.
func errorStatus(err error) int {
	switch pos.KindOf(err) {
	case pos.KindValidation:
		return http.StatusBadRequest
	case pos.KindPrecondition, pos.KindConflict:
		return http.StatusConflict
	case pos.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail writes err as JSON. Unclassified errors are logged and hidden.
func (h *Handler) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": err.Error(), "kind": pos.KindOf(err).String()}
	var stock *pos.InsufficientStockError
	if errors.As(err, &stock) {
		body["productId"] = stock.ProductID
		body["available"] = stock.Available
		body["requested"] = stock.Requested
	}
	c.JSON(status, body)
}

// bind decodes the JSON body into dst and answers 400 when it cannot.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return false
	}
	return true
}

func (h *Handler) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
