package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/session"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/infrastructure/api"
	jwtauth "github.com/your-org/storefront/internal/pkg/auth"
	"github.com/your-org/storefront/internal/pkg/logger"
)

type fixture struct {
	svc       *Service
	sessions  *session.Manager
	tokens    *jwtauth.TokenManager
	customers *cart.MemoryRepository
	logouts   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		switch r.URL.Path {
		case "/auth/otp":
			if body["phone"] == "+201000000000" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case "/auth/otp/verify":
			if body["code"] != "123456" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"wrong code"}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":{"token":"upstream-abc","customer":{"id":42,"name":"Mona","phone":"` + body["phone"] + `"}}}`))
		case "/auth/logout":
			assert.Equal(t, "Bearer upstream-abc", r.Header.Get("Authorization"))
			f.logouts++
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	cfg := &config.Config{
		App: config.AppConfig{Name: "Storefront"},
		JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", TokenExpiry: time.Hour},
		Store: config.StoreConfig{
			ShippingFee:           decimal.NewFromInt(300),
			FreeShippingThreshold: decimal.NewFromInt(3000),
			DefaultLanguage:       "en",
			Languages:             []string{"en", "ar"},
		},
	}

	f.customers = cart.NewMemoryRepository()
	f.sessions = session.NewManager(cfg, cart.NewMemoryRepository(), f.customers, session.NewMemoryRevocations(), nil, logger.Discard())
	f.tokens = jwtauth.NewTokenManager(cfg)
	f.svc = NewService(api.NewClientWithHTTP(server.URL, server.Client()), f.sessions, f.tokens, logger.Discard())
	return f
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"01001234567", "+201001234567", false},
		{"+20 100 123 4567", "+201001234567", false},
		{"00201001234567", "+201001234567", false},
		{"(010) 0123-4567", "+201001234567", false},
		{"201001234567", "+201001234567", false},
		{"12345", "", true},
		{"0100abc4567", "", true},
		{"10+01234567", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestOTP(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.RequestOTP(context.Background(), "01001234567", "en"))
	assert.ErrorIs(t, f.svc.RequestOTP(context.Background(), "01000000000", "en"), ErrInvalidPhone)
	assert.ErrorIs(t, f.svc.RequestOTP(context.Background(), "abc", "en"), ErrInvalidPhone)
}

func TestVerifyOTP_SignsInAndMergesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	st, err := f.sessions.Open(ctx, "sess-1", session.Hints{})
	require.NoError(t, err)
	st.Dispatch(store.CartLineAdded{
		Item:     cart.LineItem{ID: 1, Kind: cart.KindProduct, Price: "250", LeftInStock: 3},
		Quantity: 2,
	})

	result, err := f.svc.VerifyOTP(ctx, st, VerifyRequest{Phone: "01001234567", Code: " 123456 "}, "en")
	require.NoError(t, err)
	assert.Equal(t, uint(42), result.Customer.ID)

	claims, err := f.tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "upstream-abc", claims.UpstreamToken)
	assert.Equal(t, claims.ID, f.svc.Me(st).TokenID)

	me := f.svc.Me(st)
	assert.True(t, me.SignedIn())
	assert.Equal(t, "Mona", me.Name)

	saved, err := f.customers.Load(ctx, session.CustomerKey(42))
	require.NoError(t, err)
	assert.Len(t, saved.Products, 1)

	f.svc.SignOut(ctx, st)
	assert.Equal(t, 1, f.logouts)
	assert.False(t, f.svc.Me(st).SignedIn())
	assert.True(t, st.State().Cart.IsEmpty())

	f.sessions.Evict("sess-1")
	reopened, err := f.sessions.Open(ctx, "sess-1", session.Hints{Auth: store.AuthState{
		CustomerID: claims.CustomerID,
		Token:      claims.UpstreamToken,
		TokenID:    claims.ID,
	}})
	require.NoError(t, err)
	assert.False(t, reopened.State().Auth.SignedIn(), "signed-out token stays signed out")
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	f := newFixture(t)
	st, err := f.sessions.Open(context.Background(), "sess-1", session.Hints{})
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(context.Background(), st, VerifyRequest{Phone: "01001234567", Code: "000000"}, "en")
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.False(t, st.State().Auth.SignedIn())
}

func TestSignOut_GuestSkipsRemote(t *testing.T) {
	f := newFixture(t)
	st, err := f.sessions.Open(context.Background(), "sess-1", session.Hints{})
	require.NoError(t, err)

	f.svc.SignOut(context.Background(), st)
	assert.Equal(t, 0, f.logouts)
}
