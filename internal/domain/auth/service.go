// internal/domain/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/api"
	jwtauth "github.com/your-org/storefront/internal/pkg/auth"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidCode  = errors.New("invalid or expired verification code")
)

// defaultCountryCode is prefixed to local numbers starting with 0
const defaultCountryCode = "20"

// Service signs customers in with a phone number and a one-time code
type Service struct {
	api      *api.Client
	sessions *session.Manager
	tokens   *jwtauth.TokenManager
	logger   *logrus.Logger
}

// NewService creates a new auth service
func NewService(apiClient *api.Client, sessions *session.Manager, tokens *jwtauth.TokenManager, logger *logrus.Logger) *Service {
	return &Service{
		api:      apiClient,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// OTPRequest represents a request for a verification code
type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyRequest represents the code the customer received
type VerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Customer is the signed-in customer as the remote API describes them
type Customer struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// SignInResult is returned after a successful verification
type SignInResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Customer  Customer  `json:"customer"`
}

type verifyResponse struct {
	Data struct {
		Token    string   `json:"token"`
		Customer Customer `json:"customer"`
	} `json:"data"`
}

// NormalizePhone converts a phone number to E.164. Local numbers starting
// with a single 0 get the default country code.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", ErrInvalidPhone
		}
	}

	phone := b.String()
	switch {
	case strings.HasPrefix(phone, "+"):
	case strings.HasPrefix(phone, "00"):
		phone = "+" + phone[2:]
	case strings.HasPrefix(phone, "0"):
		phone = "+" + defaultCountryCode + phone[1:]
	default:
		phone = "+" + phone
	}

	digits := len(phone) - 1
	if digits < 8 || digits > 15 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

// RequestOTP asks the remote API to send a verification code
func (s *Service) RequestOTP(ctx context.Context, phone, lang string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}

	err = s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "auth/otp",
		Body:     map[string]string{"phone": normalized},
		Language: lang,
	}, nil)
	if err != nil {
		if api.IsStatus(err, http.StatusUnprocessableEntity) {
			return ErrInvalidPhone
		}
		return fmt.Errorf("failed to request verification code: %w", err)
	}

	s.logger.WithField("phone", maskPhone(normalized)).Info("Verification code requested")
	return nil
}

// VerifyOTP checks the code, signs the session in and issues a session token
func (s *Service) VerifyOTP(ctx context.Context, st *store.Store, req VerifyRequest, lang string) (*SignInResult, error) {
	normalized, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	var resp verifyResponse
	err = s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Path:     "auth/otp/verify",
		Body:     map[string]string{"phone": normalized, "code": strings.TrimSpace(req.Code)},
		Language: lang,
	}, &resp)
	if err != nil {
		if api.IsStatus(err, http.StatusUnauthorized) || api.IsStatus(err, http.StatusUnprocessableEntity) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if resp.Data.Token == "" || resp.Data.Customer.ID == 0 {
		return nil, fmt.Errorf("remote API returned an incomplete sign-in response")
	}

	customer := resp.Data.Customer
	if customer.Phone == "" {
		customer.Phone = normalized
	}

	tokenID := uuid.NewString()
	if _, err := s.sessions.SignIn(ctx, st, store.AuthState{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Name:       customer.Name,
		Email:      customer.Email,
		Token:      resp.Data.Token,
		TokenID:    tokenID,
	}); err != nil {
		return nil, err
	}

	claims := jwtauth.Claims{
		SessionID:     st.ID(),
		CustomerID:    customer.ID,
		Phone:         customer.Phone,
		Name:          customer.Name,
		UpstreamToken: resp.Data.Token,
	}
	claims.ID = tokenID
	token, expiresAt, err := s.tokens.Issue(claims)
	if err != nil {
		return nil, err
	}

	return &SignInResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Customer:  customer,
	}, nil
}

// SignOut ends the customer's remote session and returns the session to guest mode
func (s *Service) SignOut(ctx context.Context, st *store.Store) {
	state := st.State()
	if state.Auth.SignedIn() {
		err := s.api.Do(ctx, api.Request{
			Method: http.MethodPost,
			Path:   "auth/logout",
			Token:  state.Auth.Token,
		}, nil)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"customer_id": state.Auth.CustomerID,
				"error":       err,
			}).Warn("Remote sign out failed")
		}
	}
	if _, err := s.sessions.SignOut(ctx, st); err != nil {
		s.logger.WithFields(logrus.Fields{
			"session_id":  st.ID(),
			"customer_id": state.Auth.CustomerID,
			"error":       err,
		}).Error("Failed to revoke session token")
	}
}

// Me returns the session's auth slice
func (s *Service) Me(st *store.Store) store.AuthState {
	return st.State().Auth
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
