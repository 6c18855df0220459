// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/account"
	authsvc "github.com/your-org/storefront/internal/domain/auth"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/checkout"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/api"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// statusFor maps domain and upstream errors to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, catalog.ErrEntityNotFound),
		errors.Is(err, account.ErrOrderNotFound):
		return http.StatusNotFound

	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, checkout.ErrCartChanged),
		errors.Is(err, session.ErrSessionExpired):
		return http.StatusConflict

	case errors.Is(err, cart.ErrInvalidKind),
		errors.Is(err, catalog.ErrUnknownKind),
		errors.Is(err, session.ErrInvalidQuantity),
		errors.Is(err, session.ErrUnsupportedLanguage),
		errors.Is(err, authsvc.ErrInvalidPhone),
		errors.Is(err, checkout.ErrInvalidPaymentMethod),
		errors.Is(err, checkout.ErrMissingAddress),
		errors.Is(err, account.ErrInvalidEmail):
		return http.StatusBadRequest

	case errors.Is(err, authsvc.ErrInvalidCode),
		errors.Is(err, checkout.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusUnprocessableEntity

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusNotFound, http.StatusUnprocessableEntity:
			return apiErr.Status
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// respondError writes the error envelope. Server-side failures are logged
// and their details withheld from the client.
func respondError(c *gin.Context, logger *logrus.Logger, err error, message string) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"session_id": middleware.GetSessionIDFromContext(c),
			"path":       c.FullPath(),
			"error":      err,
		}).Error(message)

		c.JSON(status, gin.H{
			"error": message,
		})
		return
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// respondBindError answers a request whose body or query failed validation
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

// sessionStore returns the store opened by the session middleware
func sessionStore(c *gin.Context) (*store.Store, bool) {
	st, ok := middleware.GetStore(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Session not available",
		})
		return nil, false
	}
	return st, true
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}
