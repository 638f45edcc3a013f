package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/azsoft/erp_accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// wipHandler handles HTTP requests for WIP costing runs.
type wipHandler struct {
	wipService portssvc.WipSvcFacade
}

func newWipHandler(wipService portssvc.WipSvcFacade) *wipHandler {
	return &wipHandler{wipService: wipService}
}

func (h *wipHandler) createRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateWipRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create wip run request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.wipService.CreateRun(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create wip run")
		return
	}

	logger.Info("WIP run created", slog.String("run_id", run.RunID), slog.Int("line_count", len(run.Lines)))
	c.JSON(http.StatusCreated, dto.ToWipRunResponse(run))
}

func (h *wipHandler) getRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	run, err := h.wipService.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, logger, err, "retrieve wip run")
		return
	}
	c.JSON(http.StatusOK, dto.ToWipRunResponse(run))
}

func (h *wipHandler) refreshLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	run, err := h.wipService.RefreshLines(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "refresh wip run lines")
		return
	}

	logger.Info("WIP run lines refreshed", slog.String("run_id", runID), slog.Int("line_count", len(run.Lines)))
	c.JSON(http.StatusOK, dto.ToWipRunResponse(run))
}

func (h *wipHandler) postRun(c *gin.Context) {
	h.post(c, false)
}

func (h *wipHandler) postAndReverseRun(c *gin.Context) {
	h.post(c, true)
}

func (h *wipHandler) post(c *gin.Context, withReversal bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	runID := c.Param("runID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	post := h.wipService.Post
	if withReversal {
		post = h.wipService.PostAndReverse
	}
	run, err := post(c.Request.Context(), runID, userID)
	if err != nil {
		respondError(c, logger, err, "post wip run")
		return
	}

	logger.Info("WIP run posted",
		slog.String("run_id", runID),
		slog.String("entry_id", run.EntryID),
		slog.Bool("with_reversal", withReversal),
	)
	c.JSON(http.StatusOK, dto.ToWipRunResponse(run))
}

// registerWipRoutes registers WIP run specific routes.
func registerWipRoutes(group *gin.RouterGroup, wipService portssvc.WipSvcFacade) {
	h := newWipHandler(wipService)

	runs := group.Group("/wip/runs")
	{
		runs.POST("", h.createRun)
		runs.GET("/:runID", h.getRun)
		runs.POST("/:runID/refresh", h.refreshLines)
		runs.POST("/:runID/post", h.postRun)
		runs.POST("/:runID/post-and-reverse", h.postAndReverseRun)
	}
}
