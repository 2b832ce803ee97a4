package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/testdeckhq/testdeck/pkg/logger"
)

// AppError is a domain error carrying the HTTP status it maps to. Services
// raise it near the point of detection; handlers propagate it unchanged to
// Error, which writes the final body.
type AppError struct {
	HTTPStatus int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequest(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

// --- Gin response helpers ---

// OK sends a 200 response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// Error writes an error response. An *AppError uses its own status with a
// `{message}` body. Anything else is an unexpected failure: it is logged,
// and the detail is exposed only outside release mode.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{"message": appErr.Message})
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unexpected error")

	if gin.Mode() == gin.ReleaseMode {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "message": "internal server error"})
}

// BadRequest writes a 400 with a bare `{message}` body, for binding and
// path-id failures that never reach a service.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": msg})
}
