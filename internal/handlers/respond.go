package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes. Validation and
// configuration problems are client errors; lifecycle conflicts map to 409;
// ledger posting failures map to 422 because the request was well-formed but
// the ledger refused it.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var posting *apperrors.PostingError
	var unbalanced *apperrors.UnbalancedEntryError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.As(err, &unbalanced):
		logger.Warn("Validation failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("State conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &posting):
		logger.Warn("Posting refused", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error("Unexpected failure", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
