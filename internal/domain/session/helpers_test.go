package session

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
)

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{
			Currency:              "EGP",
			ShippingFee:           decimal.NewFromInt(300),
			FreeShippingThreshold: decimal.NewFromInt(3000),
			DefaultLanguage:       "en",
			Languages:             []string{"en", "ar"},
		},
	}
}

type fakeLookup struct {
	mu       sync.Mutex
	entities map[catalog.Kind]map[int64]catalog.Entity
	err      error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{entities: map[catalog.Kind]map[int64]catalog.Entity{
		catalog.KindProducts: {},
		catalog.KindPackages: {},
	}}
}

func (l *fakeLookup) put(kind catalog.Kind, e catalog.Entity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entities[kind][e.ID] = e
}

func (l *fakeLookup) remove(kind catalog.Kind, id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entities[kind], id)
}

func (l *fakeLookup) Get(_ context.Context, kind catalog.Kind, id int64) (catalog.Entity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return catalog.Entity{}, l.err
	}
	e, ok := l.entities[kind][id]
	if !ok {
		return catalog.Entity{}, catalog.ErrEntityNotFound
	}
	return e, nil
}

// gatedLookup blocks lookups of one entity until release is closed
type gatedLookup struct {
	*fakeLookup
	id      int64
	entered chan struct{}
	release chan struct{}
}

func newGatedLookup(inner *fakeLookup, id int64) *gatedLookup {
	return &gatedLookup{
		fakeLookup: inner,
		id:         id,
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
}

func (l *gatedLookup) Get(ctx context.Context, kind catalog.Kind, id int64) (catalog.Entity, error) {
	if id == l.id {
		select {
		case l.entered <- struct{}{}:
		default:
		}
		<-l.release
	}
	return l.fakeLookup.Get(ctx, kind, id)
}

type failingRepo struct{}

func (failingRepo) Load(context.Context, string) (cart.Snapshot, error) {
	return cart.Snapshot{}, errors.New("redis down")
}

func (failingRepo) Save(context.Context, string, cart.Snapshot) error {
	return errors.New("redis down")
}

func (failingRepo) Delete(context.Context, string) error {
	return errors.New("redis down")
}
