// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/config"
)

const sessionTokenType = "session"

// Claims represents the session token claims. UpstreamToken is the remote
// API bearer token of a signed-in customer.
type Claims struct {
	SessionID     string `json:"sid"`
	CustomerID    uint   `json:"customer_id,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Name          string `json:"name,omitempty"`
	UpstreamToken string `json:"upstream_token,omitempty"`
	TokenType     string `json:"token_type"`
	jwt.RegisteredClaims
}

// SignedIn reports whether the token belongs to a customer
func (c *Claims) SignedIn() bool {
	return c.CustomerID != 0 && c.UpstreamToken != ""
}

// TokenManager issues and validates session tokens
type TokenManager struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWT.Secret),
		expiry: cfg.JWT.TokenExpiry,
		issuer: cfg.App.Name,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue signs a session token for the claims' session and customer. A token
// id is generated unless claims.ID is set.
func (m *TokenManager) Issue(claims Claims) (string, time.Time, error) {
	if claims.SessionID == "" {
		return "", time.Time{}, errors.New("session id is required")
	}
	id := claims.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := m.now()
	expiresAt := now.Add(m.expiry)

	claims.TokenType = sessionTokenType
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        id,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    m.issuer,
		Subject:   fmt.Sprintf("customer:%d", claims.CustomerID),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate validates and parses a session token
func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.TokenType != sessionTokenType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %q", sessionTokenType, claims.TokenType)
	}
	if claims.SessionID == "" {
		return nil, fmt.Errorf("token has no session id")
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
