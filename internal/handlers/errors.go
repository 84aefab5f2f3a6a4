package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// statusFor maps an error kind to an HTTP status and a short label for the response body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError writes err as a JSON error body. Internal errors never leak their cause.
func respondError(c *gin.Context, err error, fallbackMessage string) {
	logger := middleware.GetLoggerFromContext(c)
	status, kind := statusFor(err)

	body := dto.ErrorResponse{Error: kind, Code: apperrors.CodeInternal, Message: fallbackMessage}
	if status != http.StatusInternalServerError {
		body.Code = ""
		body.Message = err.Error()
		if appErr, ok := apperrors.As(err); ok {
			body.Code = appErr.Code
			body.Message = appErr.Message
			body.Details = appErr.Details
		}
		logger.Warn(fallbackMessage, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Error(fallbackMessage, slog.String("error", err.Error()))
	}

	c.JSON(status, body)
}

// respondBindError reports a request that could not be decoded or failed tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Code:    apperrors.CodeInvalidRequest,
		Message: err.Error(),
	})
}
