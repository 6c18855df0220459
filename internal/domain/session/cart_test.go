package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/domain/store"
	"github.com/your-org/storefront/internal/pkg/logger"
)

func newCartFixture(t *testing.T) (*CartService, *fakeLookup, *store.Store) {
	t.Helper()
	lookup := newFakeLookup()
	lookup.put(catalog.KindProducts, catalog.Entity{ID: 1, NameEn: "Serum", NameAr: "سيروم", Price: "250", LeftInStock: 5})
	lookup.put(catalog.KindProducts, catalog.Entity{ID: 2, NameEn: "Cream", Price: "300", LeftInStock: 0})
	lookup.put(catalog.KindPackages, catalog.Entity{ID: 10, NameEn: "Gift set", Price: "1,500.00", LeftInStock: 2})

	svc := NewCartService(testConfig(), lookup, logger.Discard())
	st := store.New("s1", store.State{Language: store.LanguageState{Code: "en"}})
	return svc, lookup, st
}

func TestCartService_AddComputesTotals(t *testing.T) {
	svc, _, st := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 1})
	require.NoError(t, err)
	view, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindPackage, ID: 10, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, "1750", view.Totals.Subtotal.String())
	assert.Equal(t, "300", view.Totals.Shipping.String())
	assert.Equal(t, "2050", view.Totals.GrandTotal.String())
	assert.False(t, view.Totals.FreeShipping)
	assert.Equal(t, "EGP", view.Currency)
	assert.Equal(t, "250", view.Products[0].LineTotal.String())
}

func TestCartService_AddClampsToStock(t *testing.T) {
	svc, _, st := newCartFixture(t)
	ctx := context.Background()

	view, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindPackage, ID: 10, Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Packages[0].Quantity)

	view, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindPackage, ID: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, view.Packages[0].Quantity)
	assert.Equal(t, "3000", view.Totals.Subtotal.String())
	assert.False(t, view.Totals.FreeShipping, "a subtotal equal to the threshold still pays shipping")
}

func TestCartService_AddErrors(t *testing.T) {
	svc, lookup, st := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 2, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrOutOfStock)

	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 99, Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrEntityNotFound)

	_, err = svc.Add(ctx, st, AddRequest{Kind: "voucher", ID: 1, Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrInvalidKind)

	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: -2})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	lookup.err = errors.New("upstream timeout")
	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 1})
	assert.Error(t, err)

	assert.True(t, st.State().Cart.IsEmpty())
}

func TestCartService_SetQuantityAndRemove(t *testing.T) {
	svc, _, st := newCartFixture(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 1})
	require.NoError(t, err)

	view, err := svc.SetQuantity(st, cart.KindProduct, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Products[0].Quantity)

	_, err = svc.SetQuantity(st, cart.KindProduct, 404, 1)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)

	_, err = svc.SetQuantity(st, cart.KindProduct, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	view, err = svc.SetQuantity(st, cart.KindProduct, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Products)

	_, err = svc.Remove(st, cart.KindProduct, 1)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestCartService_CountClearAndLanguage(t *testing.T) {
	svc, _, st := newCartFixture(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindPackage, ID: 10, Quantity: 1})
	require.NoError(t, err)

	assert.Equal(t, CartCount{Lines: 2, Quantity: 4}, svc.Count(st))

	st.Dispatch(store.LanguageChanged{Code: "ar"})
	view := svc.View(st)
	assert.Equal(t, "سيروم", view.Products[0].DisplayName)
	assert.Equal(t, "Gift set", view.Packages[0].DisplayName)

	view = svc.Clear(st)
	assert.Empty(t, view.Products)
	assert.Equal(t, "300", view.Totals.GrandTotal.String())
	assert.Equal(t, CartCount{}, svc.Count(st))
}

func TestCartService_Refresh(t *testing.T) {
	svc, lookup, st := newCartFixture(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 4})
	require.NoError(t, err)
	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindPackage, ID: 10, Quantity: 1})
	require.NoError(t, err)

	_, changed, err := svc.Refresh(ctx, st)
	require.NoError(t, err)
	assert.False(t, changed)

	lookup.put(catalog.KindProducts, catalog.Entity{ID: 1, NameEn: "Serum", Price: "275", LeftInStock: 2})
	lookup.remove(catalog.KindPackages, 10)

	view, changed, err := svc.Refresh(ctx, st)
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, view.Products, 1)
	assert.Equal(t, 2, view.Products[0].Quantity)
	assert.Equal(t, "275", view.Products[0].Price)
	assert.Empty(t, view.Packages)
}

func TestCartService_RefreshKeepsConcurrentMutations(t *testing.T) {
	plain, lookup, st := newCartFixture(t)
	lookup.put(catalog.KindProducts, catalog.Entity{ID: 3, NameEn: "Toner", Price: "120", LeftInStock: 8})
	ctx := context.Background()

	_, err := plain.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 4})
	require.NoError(t, err)

	gated := newGatedLookup(lookup, 1)
	svc := NewCartService(testConfig(), gated, logger.Discard())
	lookup.put(catalog.KindProducts, catalog.Entity{ID: 1, NameEn: "Serum", Price: "275", LeftInStock: 2})

	type result struct {
		view    CartView
		changed bool
		err     error
	}
	done := make(chan result, 1)
	go func() {
		view, changed, err := svc.Refresh(ctx, st)
		done <- result{view, changed, err}
	}()
	<-gated.entered

	_, err = svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 3, Quantity: 1})
	require.NoError(t, err)
	close(gated.release)

	res := <-done
	require.NoError(t, res.err)
	assert.True(t, res.changed)

	products := st.State().Cart.Products
	require.Len(t, products, 2, "the line added during the refresh survives")
	assert.Equal(t, "275", products[0].Price)
	assert.Equal(t, 2, products[0].Quantity)
	assert.Equal(t, int64(3), products[1].ID)
	assert.Equal(t, res.view.Version, st.State().Cart.Version)
}

func TestCartService_PreviewLeavesCartAlone(t *testing.T) {
	svc, lookup, st := newCartFixture(t)
	ctx := context.Background()
	_, err := svc.Add(ctx, st, AddRequest{Kind: cart.KindProduct, ID: 1, Quantity: 4})
	require.NoError(t, err)
	before := st.State().Cart

	lookup.put(catalog.KindProducts, catalog.Entity{ID: 1, NameEn: "Serum", Price: "275", LeftInStock: 2})

	view, changed, err := svc.Preview(ctx, st)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, view.Products[0].Quantity)
	assert.Equal(t, "550", view.Totals.Subtotal.String())
	assert.Equal(t, before, st.State().Cart)
}
