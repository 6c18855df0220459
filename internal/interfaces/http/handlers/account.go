// internal/interfaces/http/handlers/account.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/account"
	"github.com/your-org/storefront/internal/domain/store"
)

// AccountHandler serves the signed-in customer's profile and orders
type AccountHandler struct {
	accounts *account.Service
	logger   *logrus.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *account.Service, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// GetProfile handles GET /account/profile
func (h *AccountHandler) GetProfile(c *gin.Context) {
	state, ok := h.state(c)
	if !ok {
		return
	}

	profile, err := h.accounts.Profile(c.Request.Context(), state.Auth.Token, state.Language.Code)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// UpdateProfile handles PUT /account/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	state, ok := h.state(c)
	if !ok {
		return
	}

	var req account.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), state.Auth.Token, state.Language.Code, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// ListOrders handles GET /account/orders
func (h *AccountHandler) ListOrders(c *gin.Context) {
	state, ok := h.state(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	orders, err := h.accounts.Orders(c.Request.Context(), state.Auth.Token, state.Language.Code, page)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /account/orders/:id
func (h *AccountHandler) GetOrder(c *gin.Context) {
	state, ok := h.state(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, err := h.accounts.Order(c.Request.Context(), state.Auth.Token, state.Language.Code, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// DownloadReceipt handles GET /account/orders/:id/receipt
func (h *AccountHandler) DownloadReceipt(c *gin.Context) {
	state, ok := h.state(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	o, receipt, err := h.accounts.Receipt(c.Request.Context(), state.Auth.Token, state.Language.Code, id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Header("Content-Length", strconv.Itoa(receipt.Len()))
	c.Data(http.StatusOK, "application/pdf", receipt.Bytes())
}

func (h *AccountHandler) state(c *gin.Context) (store.State, bool) {
	st, ok := sessionStore(c)
	if !ok {
		return store.State{}, false
	}
	return st.State(), true
}
