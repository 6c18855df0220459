// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/pkg/auth"
)

const (
	SessionCookie  = "session_id"
	LanguageCookie = "lang"

	sessionKey   = "session"
	sessionIDKey = "session_id"
)

// Session resolves the browsing session of the request and opens its store.
// A valid session token wins; otherwise the session cookie is used, and a
// new session is started when neither is present.
func Session(cfg *config.Config, sessions *session.Manager, tokens *auth.TokenManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hints session.Hints
		sessionID := ""

		if tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization")); tokenString != "" {
			claims, err := tokens.Validate(tokenString)
			if err == nil {
				sessionID = claims.SessionID
				if claims.SignedIn() {
					hints.Auth = store.AuthState{
						CustomerID: claims.CustomerID,
						Phone:      claims.Phone,
						Name:       claims.Name,
						Token:      claims.UpstreamToken,
						TokenID:    claims.ID,
					}
				}
			} else {
				logger.WithField("error", err).Debug("Ignoring invalid session token")
			}
		}

		if sessionID == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				if _, err := uuid.Parse(cookie); err == nil {
					sessionID = cookie
				}
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		SetSessionCookie(c, cfg, sessionID)

		hints.Language = requestLanguage(c, cfg)

		st, err := sessions.Open(c.Request.Context(), sessionID, hints)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"session_id": sessionID,
				"error":      err,
			}).Error("Failed to open session")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Session unavailable",
			})
			c.Abort()
			return
		}

		c.Set(sessionKey, st)
		c.Set(sessionIDKey, sessionID)

		c.Next()
	}
}

// RequireCustomer aborts requests whose session is not signed in
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := GetStore(c)
		if !ok || !st.State().Auth.SignedIn() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie (re)sets the session cookie
func SetSessionCookie(c *gin.Context, cfg *config.Config, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, cfg.Session.CookieMaxAge, "/", "", cfg.Security.SecureCookies, true)
}

// SetLanguageCookie remembers the presentation language across restarts
func SetLanguageCookie(c *gin.Context, cfg *config.Config, lang string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(LanguageCookie, lang, cfg.Session.CookieMaxAge, "/", "", cfg.Security.SecureCookies, false)
}

// requestLanguage reads the lang cookie, then the first Accept-Language tag
func requestLanguage(c *gin.Context, cfg *config.Config) string {
	if lang, err := c.Cookie(LanguageCookie); err == nil && cfg.SupportsLanguage(lang) {
		return lang
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		tag = strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if cfg.SupportsLanguage(tag) {
			return tag
		}
	}
	return cfg.Store.DefaultLanguage
}

// GetStore returns the session store opened for the request
func GetStore(c *gin.Context) (*store.Store, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	st, ok := value.(*store.Store)
	return st, ok
}

// GetSessionIDFromContext returns the request's session id
func GetSessionIDFromContext(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
