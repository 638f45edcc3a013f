package handlers

import (
	"log/slog"
	"net/http"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/azsoft/erp_accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// giroHandler handles HTTP requests for giro instruments.
type giroHandler struct {
	giroService portssvc.GiroSvcFacade
}

func newGiroHandler(giroService portssvc.GiroSvcFacade) *giroHandler {
	return &giroHandler{giroService: giroService}
}

func (h *giroHandler) createGiro(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateGiroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind create giro request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	giro, err := h.giroService.CreateGiro(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "create giro")
		return
	}

	logger.Info("Giro created", slog.String("giro_id", giro.GiroID), slog.String("reference", giro.Reference))
	c.JSON(http.StatusCreated, dto.ToGiroResponse(giro))
}

func (h *giroHandler) getGiro(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giroID := c.Param("giroID")

	giro, err := h.giroService.GetGiroByID(c.Request.Context(), giroID)
	if err != nil {
		respondError(c, logger, err, "retrieve giro")
		return
	}
	c.JSON(http.StatusOK, dto.ToGiroResponse(giro))
}

func (h *giroHandler) listGiros(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListGirosParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind list giros params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	giros, nextToken, err := h.giroService.ListGiros(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list giros")
		return
	}

	resp := dto.ListGirosResponse{Giros: make([]dto.GiroResponse, 0, len(giros)), NextToken: nextToken}
	for i := range giros {
		resp.Giros = append(resp.Giros, dto.ToGiroResponse(&giros[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *giroHandler) deleteGiro(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giroID := c.Param("giroID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.giroService.DeleteGiro(c.Request.Context(), giroID, userID); err != nil {
		respondError(c, logger, err, "delete giro")
		return
	}

	logger.Info("Giro deleted", slog.String("giro_id", giroID))
	c.Status(http.StatusNoContent)
}

// transition wraps the lifecycle endpoints, which all share the same shape:
// path param, authenticated user, service call, giro response.
func (h *giroHandler) transition(action string, call func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		giroID := c.Param("giroID")

		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		giro, err := call(c, giroID, userID)
		if err != nil {
			respondError(c, logger, err, action)
			return
		}

		logger.Info("Giro transitioned",
			slog.String("giro_id", giroID),
			slog.String("action", action),
			slog.String("state", string(giro.State)),
		)
		c.JSON(http.StatusOK, dto.ToGiroResponse(giro))
	}
}

func (h *giroHandler) openLinkedEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	giroID := c.Param("giroID")
	which := c.Param("which")

	entry, err := h.giroService.OpenLinkedEntry(c.Request.Context(), giroID, which)
	if err != nil {
		respondError(c, logger, err, "open linked entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// registerGiroRoutes registers giro specific routes.
func registerGiroRoutes(group *gin.RouterGroup, giroService portssvc.GiroSvcFacade) {
	h := newGiroHandler(giroService)

	giros := group.Group("/giros")
	{
		giros.POST("", h.createGiro)
		giros.GET("", h.listGiros)
		giros.GET("/:giroID", h.getGiro)
		giros.DELETE("/:giroID", h.deleteGiro)

		giros.POST("/:giroID/confirm", h.transition("confirm giro", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.Confirm(c.Request.Context(), giroID, userID)
		}))
		giros.POST("/:giroID/reset-to-draft", h.transition("reset giro to draft", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.ResetToDraft(c.Request.Context(), giroID, userID)
		}))
		giros.POST("/:giroID/cancel", h.transition("cancel giro", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.Cancel(c.Request.Context(), giroID, userID)
		}))
		giros.POST("/:giroID/clear", h.transition("clear giro", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.Clear(c.Request.Context(), giroID, userID)
		}))
		giros.POST("/:giroID/reverse", h.transition("reverse giro", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.ReversePrimary(c.Request.Context(), giroID, userID)
		}))
		giros.POST("/:giroID/reverse-clearing", h.transition("reverse giro clearing", func(c *gin.Context, giroID, userID string) (*domain.GiroInstrument, error) {
			return h.giroService.ReverseClearing(c.Request.Context(), giroID, userID)
		}))

		giros.GET("/:giroID/entries/:which", h.openLinkedEntry)
	}
}
