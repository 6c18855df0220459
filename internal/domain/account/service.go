// internal/domain/account/service.go
package account

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/infrastructure/api"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidEmail  = errors.New("invalid email address")
)

// ReceiptRenderer renders an order receipt
type ReceiptRenderer interface {
	GenerateReceipt(o *order.Order, lang string) (*bytes.Buffer, error)
}

// Service reads and updates the customer's account on the remote API
type Service struct {
	api      *api.Client
	receipts ReceiptRenderer
	pageSize int
	logger   *logrus.Logger
}

// NewService creates a new account service
func NewService(cfg *config.Config, apiClient *api.Client, receipts ReceiptRenderer, logger *logrus.Logger) *Service {
	return &Service{
		api:      apiClient,
		receipts: receipts,
		pageSize: cfg.Upstream.PageSize,
		logger:   logger,
	}
}

var _ ReceiptRenderer = (*pdf.Service)(nil)

// Profile represents the customer profile
type Profile struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdateProfileRequest represents update profile request
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

type profileResponse struct {
	Data Profile `json:"data"`
}

type ordersResponse struct {
	Data []order.Order `json:"data"`
}

type orderResponse struct {
	Data order.Order `json:"data"`
}

// Profile returns the customer's profile
func (s *Service) Profile(ctx context.Context, token, lang string) (*Profile, error) {
	var resp profileResponse
	err := s.api.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "profile",
		Token:    token,
		Language: lang,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &resp.Data, nil
}

// UpdateProfile updates the customer's name and email
func (s *Service) UpdateProfile(ctx context.Context, token, lang string, req UpdateProfileRequest) (*Profile, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		return nil, ErrInvalidEmail
	}

	var resp profileResponse
	err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPut,
		Path:     "profile",
		Body:     req,
		Token:    token,
		Language: lang,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &resp.Data, nil
}

// Orders returns one page of the customer's order history, newest first
func (s *Service) Orders(ctx context.Context, token, lang string, page int) (*order.Page, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("paginate", strconv.Itoa(s.pageSize))

	var resp ordersResponse
	err := s.api.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "orders",
		Query:    query,
		Token:    token,
		Language: lang,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := &order.Page{Orders: resp.Data, Page: page}
	if result.Orders == nil {
		result.Orders = []order.Order{}
	}
	if len(resp.Data) == s.pageSize {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

// Order returns a single order of the customer
func (s *Service) Order(ctx context.Context, token, lang string, id int64) (*order.Order, error) {
	var resp orderResponse
	err := s.api.Do(ctx, api.Request{
		Method:   http.MethodGet,
		Path:     "orders/" + strconv.FormatInt(id, 10),
		Token:    token,
		Language: lang,
	}, &resp)
	if err != nil {
		if api.IsStatus(err, http.StatusNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &resp.Data, nil
}

// Receipt renders the order's receipt as a PDF
func (s *Service) Receipt(ctx context.Context, token, lang string, id int64) (*order.Order, *bytes.Buffer, error) {
	o, err := s.Order(ctx, token, lang, id)
	if err != nil {
		return nil, nil, err
	}

	buf, err := s.receipts.GenerateReceipt(o, lang)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": id,
			"error":    err,
		}).Error("Failed to generate receipt")
		return nil, nil, fmt.Errorf("failed to generate receipt: %w", err)
	}
	return o, buf, nil
}
