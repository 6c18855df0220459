// internal/domain/session/manager.go
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/store"
)

const persistTimeout = 5 * time.Second

// Hints carry what the client already knows about a session (session token
// claims, language cookie). They seed the state when the session is not in
// memory, e.g. after a restart.
type Hints struct {
	Auth     store.AuthState
	Language string
}

// Manager owns the in-memory sessions: it hydrates them from the cart
// repositories, persists cart changes and evicts idle sessions.
type Manager struct {
	registry    *store.Registry
	guests      cart.Repository
	customers   cart.Repository
	revocations Revocations
	feeds       *catalog.Feeds
	config      *config.Config
	logger      *logrus.Logger
	now         func() time.Time
}

// NewManager creates a session manager. guests is keyed by session id and
// customers by customer id.
func NewManager(cfg *config.Config, guests, customers cart.Repository, revocations Revocations, feeds *catalog.Feeds, logger *logrus.Logger) *Manager {
	m := &Manager{
		registry:    store.NewRegistry(),
		guests:      guests,
		customers:   customers,
		revocations: revocations,
		feeds:       feeds,
		config:      cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}

	m.registry.OnOpen(func(st *store.Store) {
		st.Subscribe(m.persister(st.ID()))
	})
	if feeds != nil {
		m.registry.OnEvict(feeds.Drop)
	}
	return m
}

// CustomerKey is the repository key of a customer's cart
func CustomerKey(customerID uint) string {
	return strconv.FormatUint(uint64(customerID), 10)
}

// Open returns the session's store, loading it on first use
func (m *Manager) Open(ctx context.Context, id string, hints Hints) (*store.Store, error) {
	return m.registry.Open(ctx, id, func(ctx context.Context, id string) (store.State, error) {
		return m.load(ctx, id, hints), nil
	})
}

// Lookup returns the session's store if it is in memory
func (m *Manager) Lookup(id string) (*store.Store, bool) {
	return m.registry.Lookup(id)
}

// Feed returns the session's catalog fetcher for kind. It reports false, and
// keeps no fetcher, when the session has been evicted.
func (m *Manager) Feed(sessionID string, kind catalog.Kind) (*catalog.Fetcher, bool) {
	if m.feeds == nil {
		return nil, false
	}
	f := m.feeds.Get(sessionID, kind)
	// An eviction that finished before the fetcher was created has already
	// dropped the session's feeds; one that finishes later drops this one too.
	if _, ok := m.registry.Lookup(sessionID); !ok {
		m.feeds.Drop(sessionID)
		return nil, false
	}
	return f, true
}

// Len returns the number of sessions in memory
func (m *Manager) Len() int {
	return m.registry.Len()
}

func (m *Manager) load(ctx context.Context, id string, hints Hints) store.State {
	lang := hints.Language
	if !m.config.SupportsLanguage(lang) {
		lang = m.config.Store.DefaultLanguage
	}

	state := store.State{Language: store.LanguageState{Code: lang}}

	repo, key := m.guests, id
	if hints.Auth.SignedIn() && m.tokenActive(ctx, id, hints.Auth.TokenID) {
		state.Auth = hints.Auth
		repo, key = m.customers, CustomerKey(hints.Auth.CustomerID)
	}

	snapshot, err := repo.Load(ctx, key)
	if err != nil {
		// Carts are a cache; a failed load starts the session empty.
		m.logger.WithFields(logrus.Fields{
			"session_id": id,
			"error":      err,
		}).Warn("Failed to load cart, starting empty")
		snapshot = cart.Snapshot{}
	}
	state.Cart = store.CartState{Snapshot: snapshot}
	return state
}

// tokenActive reports whether a signed-in token may still sign its session
// in. Tokens without an id cannot be revoked and are refused, as are all
// tokens while the revocation list is unreachable.
func (m *Manager) tokenActive(ctx context.Context, sessionID, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	revoked, err := m.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		m.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"error":      err,
		}).Warn("Failed to check session token, opening as guest")
		return false
	}
	if revoked {
		m.logger.WithField("session_id", sessionID).Info("Ignoring signed-out session token")
	}
	return !revoked
}

// persister writes the cart slice to the repository that owns it after
// every cart change. Listeners run under the store lock, so writes land in
// dispatch order.
func (m *Manager) persister(sessionID string) store.Listener {
	return func(prev, next store.State, action store.Action) {
		if prev.Cart.Version == next.Cart.Version {
			return
		}
		// Signing out leaves the customer's cart where it is.
		if _, ok := action.(store.SignedOut); ok {
			return
		}

		repo, key := m.guests, sessionID
		if next.Auth.SignedIn() {
			repo, key = m.customers, CustomerKey(next.Auth.CustomerID)
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()

		if err := repo.Save(ctx, key, next.Cart.Snapshot); err != nil {
			m.logger.WithFields(logrus.Fields{
				"action": store.Name(action),
				"key":    key,
				"error":  err,
			}).Error("Failed to persist cart")
		}
	}
}

// SignIn attaches a customer to the session. The guest cart is merged into
// the customer's saved cart and the guest copy is dropped.
func (m *Manager) SignIn(ctx context.Context, st *store.Store, auth store.AuthState) (store.State, error) {
	if auth.SignedInAt.IsZero() {
		auth.SignedInAt = m.now()
	}

	saved, err := m.customers.Load(ctx, CustomerKey(auth.CustomerID))
	if err != nil {
		m.logger.WithFields(logrus.Fields{
			"customer_id": auth.CustomerID,
			"error":       err,
		}).Warn("Failed to load customer cart, merging into empty cart")
		saved = cart.Snapshot{}
	}

	next := st.Dispatch(store.SignedIn{Auth: auth, Saved: saved, At: m.now()})

	if err := m.guests.Delete(ctx, st.ID()); err != nil {
		m.logger.WithFields(logrus.Fields{
			"session_id": st.ID(),
			"error":      err,
		}).Warn("Failed to drop guest cart")
	}

	m.logger.WithFields(logrus.Fields{
		"session_id":  st.ID(),
		"customer_id": auth.CustomerID,
		"lines":       len(next.Cart.Products) + len(next.Cart.Packages),
	}).Info("Customer signed in")

	return next, nil
}

// SignOut forgets the customer and revokes the token the session was signed
// in with. The session continues as a guest with an empty cart even when the
// revocation cannot be recorded; that failure is returned.
func (m *Manager) SignOut(ctx context.Context, st *store.Store) (store.State, error) {
	tokenID := st.State().Auth.TokenID
	next := st.Dispatch(store.SignedOut{At: m.now()})
	if tokenID == "" {
		return next, nil
	}
	return next, m.revocations.Revoke(ctx, tokenID, m.config.JWT.TokenExpiry)
}

// SetLanguage switches the session's presentation language
func (m *Manager) SetLanguage(st *store.Store, code string) (store.State, error) {
	if !m.config.SupportsLanguage(code) {
		return st.State(), ErrUnsupportedLanguage
	}
	return st.Dispatch(store.LanguageChanged{Code: code}), nil
}

// Evict drops a session from memory
func (m *Manager) Evict(id string) {
	m.registry.Evict(id)
}

// Run evicts idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.registry.Sweep(maxIdle, time.Now()); n > 0 {
				m.logger.WithFields(logrus.Fields{
					"evicted": n,
					"active":  m.registry.Len(),
				}).Debug("Evicted idle sessions")
			}
		}
	}
}

// Close releases the catalog feeds
func (m *Manager) Close() {
	if m.feeds != nil {
		m.feeds.Close()
	}
}
