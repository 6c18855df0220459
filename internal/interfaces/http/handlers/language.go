package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// LanguageHandler reads and switches the session's presentation language
type LanguageHandler struct {
	sessions *session.Manager
	config   *config.Config
	logger   *logrus.Logger
}

// NewLanguageHandler creates a new language handler
func NewLanguageHandler(cfg *config.Config, sessions *session.Manager, logger *logrus.Logger) *LanguageHandler {
	return &LanguageHandler{
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// SetLanguageRequest represents a language switch
type SetLanguageRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetLanguage handles GET /language
func (h *LanguageHandler) GetLanguage(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Language retrieved successfully",
		"data": gin.H{
			"code":      st.State().Language.Code,
			"supported": h.config.Store.Languages,
		},
	})
}

// SetLanguage handles PUT /language
func (h *LanguageHandler) SetLanguage(c *gin.Context) {
	st, ok := sessionStore(c)
	if !ok {
		return
	}

	var req SetLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	state, err := h.sessions.SetLanguage(st, req.Code)
	if err != nil {
		respondError(c, h.logger, err, "Failed to change language")
		return
	}
	middleware.SetLanguageCookie(c, h.config, state.Language.Code)

	c.JSON(http.StatusOK, gin.H{
		"message": "Language changed successfully",
		"data": gin.H{
			"code":      state.Language.Code,
			"supported": h.config.Store.Languages,
		},
	})
}
