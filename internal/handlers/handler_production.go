package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// productionHandler handles the accounting-facing endpoints of
// manufacturing orders.
type productionHandler struct {
	productionService portssvc.ProductionSvcFacade
}

func newProductionHandler(productionService portssvc.ProductionSvcFacade) *productionHandler {
	return &productionHandler{productionService: productionService}
}

func (h *productionHandler) markDone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.productionService.MarkDone(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, logger, err, "mark order done")
		return
	}

	logger.Info("Manufacturing order marked done",
		slog.String("order_id", orderID),
		slog.String("reference", order.Reference),
	)
	c.JSON(http.StatusOK, order)
}

func (h *productionHandler) listOrderEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orderID := c.Param("orderID")

	entries, err := h.productionService.ListOrderEntries(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, logger, err, "list order entries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// registerProductionRoutes registers production order specific routes.
func registerProductionRoutes(group *gin.RouterGroup, productionService portssvc.ProductionSvcFacade) {
	h := newProductionHandler(productionService)

	productions := group.Group("/productions")
	{
		productions.POST("/:orderID/mark-done", h.markDone)
		productions.GET("/:orderID/entries", h.listOrderEntries)
	}
}
