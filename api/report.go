package api

import (
	"bytes"
	"fmt"
	"net/http"

	"pos_core/internal/report"

	"github.com/gin-gonic/gin"
)

func (h *Handler) cashStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.cashier.Status())
}

func (h *Handler) cashSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.cashier.Summary())
}

func (h *Handler) openCash(c *gin.Context) {
	var req struct {
		InitialAmount float64 `json:"initialAmount"`
	}
	if !h.bind(c, &req) {
		return
	}
	reg, err := h.cashier.Open(c.Request.Context(), req.InitialAmount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *Handler) closeCash(c *gin.Context) {
	var req struct {
		FinalAmount float64 `json:"finalAmount"`
	}
	if !h.bind(c, &req) {
		return
	}
	session, err := h.cashier.Close(c.Request.Context(), req.FinalAmount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) reportQuery(c *gin.Context) (report.Query, bool) {
	var q report.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return report.Query{}, false
	}
	return q, true
}

func (h *Handler) reportPeriod(c *gin.Context) {
	q, err := h.report.Period(c.Param("preset"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) reportSummary(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}
	sum, err := h.report.Summary(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) reportCharts(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}
	charts, err := h.report.Charts(q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, charts)
}

func (h *Handler) exportCSV(c *gin.Context) {
	q, ok := h.reportQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	n, err := h.report.WriteCSV(&buf, q)
	if err != nil {
		h.fail(c, err)
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sales to export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.report.CSVFilename(q)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) backup(c *gin.Context) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.report.BackupFilename()))
	c.IndentedJSON(http.StatusOK, h.report.Backup())
}

func (h *Handler) restore(c *gin.Context) {
	var req report.RestoreInput
	if !h.bind(c, &req) {
		return
	}
	if err := h.report.Restore(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.catalog.Settings())
}
