// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	authsvc "github.com/your-org/storefront/internal/domain/auth"
	"github.com/your-org/storefront/internal/pkg/auth"
)

// AuthHandler handles phone sign-in endpoints
type AuthHandler struct {
	auth   *authsvc.Service
	tokens *auth.TokenManager
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *authsvc.Service, tokens *auth.TokenManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		tokens: tokens,
		logger: logger,
	}
}

// RequestOTP handles POST /auth/otp
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	var req authsvc.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.RequestOTP(c.Request.Context(), req.Phone, st.State().Language.Code); err != nil {
		respondError(c, h.logger, err, "Failed to send verification code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification code sent",
	})
}

// VerifyOTP handles POST /auth/otp/verify
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	var req authsvc.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.VerifyOTP(c.Request.Context(), st, req, st.State().Language.Code)
	if err != nil {
		respondError(c, h.logger, err, "Sign in failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed in successfully",
		"data":    result,
	})
}

// Logout handles POST /auth/logout. The session stays alive as a guest
// session; the client swaps its token for the guest token returned.
func (h *AuthHandler) Logout(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	h.auth.SignOut(c.Request.Context(), st)

	token, expiresAt, err := h.tokens.Issue(auth.Claims{SessionID: st.ID()})
	if err != nil {
		respondError(c, h.logger, err, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Signed out successfully",
		"data": gin.H{
			"token":      token,
			"expires_at": expiresAt,
		},
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	me := h.auth.Me(st)
	c.JSON(http.StatusOK, gin.H{
		"message": "Session retrieved successfully",
		"data": gin.H{
			"session_id": st.ID(),
			"signed_in":  me.SignedIn(),
			"customer":   me,
		},
	})
}
