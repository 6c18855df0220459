package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 1, ClampQuantity(0, 5))
	assert.Equal(t, 1, ClampQuantity(-3, 5))
	assert.Equal(t, 5, ClampQuantity(9, 5))
	assert.Equal(t, 3, ClampQuantity(3, 5))
	assert.Equal(t, 0, ClampQuantity(2, 0))
}

func TestAddLine_NewAndExisting(t *testing.T) {
	item := LineItem{ID: 7, Kind: KindProduct, Name: "Mug", Price: "20.00", LeftInStock: 4}

	s := AddLine(Snapshot{}, item, 2, now)
	require.Len(t, s.Products, 1)
	assert.Equal(t, 2, s.Products[0].Quantity)
	assert.Equal(t, now, s.UpdatedAt)

	item.Price = "22.00"
	s = AddLine(s, item, 5, now)
	require.Len(t, s.Products, 1)
	assert.Equal(t, 4, s.Products[0].Quantity, "clamped to stock")
	assert.Equal(t, "22.00", s.Products[0].Price, "price refreshed")
	assert.Empty(t, s.Packages)
}

func TestAddLine_DoesNotMutateInput(t *testing.T) {
	original := Snapshot{Products: []LineItem{{ID: 1, Kind: KindProduct, Quantity: 1, LeftInStock: 9}}}

	_ = AddLine(original, LineItem{ID: 1, Kind: KindProduct, LeftInStock: 9}, 3, now)

	assert.Equal(t, 1, original.Products[0].Quantity)
}

func TestAddLine_PackagesKeptSeparate(t *testing.T) {
	s := AddLine(Snapshot{}, LineItem{ID: 1, Kind: KindProduct, LeftInStock: 2}, 1, now)
	s = AddLine(s, LineItem{ID: 1, Kind: KindPackage, LeftInStock: 2}, 1, now)

	assert.Len(t, s.Products, 1)
	assert.Len(t, s.Packages, 1)
}

func TestSetLineQuantity(t *testing.T) {
	s := Snapshot{Packages: []LineItem{{ID: 3, Kind: KindPackage, Quantity: 1, LeftInStock: 2}}}

	s = SetLineQuantity(s, KindPackage, 3, 10, now)
	assert.Equal(t, 2, s.Packages[0].Quantity)

	unchanged := SetLineQuantity(s, KindPackage, 99, 1, now.Add(time.Hour))
	assert.Equal(t, s, unchanged)

	s = SetLineQuantity(s, KindPackage, 3, 0, now)
	assert.Empty(t, s.Packages)
}

func TestRemoveLine(t *testing.T) {
	s := Snapshot{Products: []LineItem{{ID: 1}, {ID: 2}, {ID: 3}}}

	s = RemoveLine(s, KindProduct, 2, now)

	require.Len(t, s.Products, 2)
	assert.Equal(t, int64(1), s.Products[0].ID)
	assert.Equal(t, int64(3), s.Products[1].ID)
}

func TestMerge(t *testing.T) {
	customer := Snapshot{Products: []LineItem{
		{ID: 1, Kind: KindProduct, Price: "10", Quantity: 2, LeftInStock: 5},
	}}
	guest := Snapshot{
		Products: []LineItem{
			{ID: 1, Kind: KindProduct, Price: "12", Quantity: 4, LeftInStock: 5},
			{ID: 2, Kind: KindProduct, Price: "3", Quantity: 1, LeftInStock: 1},
		},
		Packages: []LineItem{{ID: 8, Kind: KindPackage, Price: "99", Quantity: 1, LeftInStock: 3}},
	}

	merged := Merge(customer, guest, now)

	require.Len(t, merged.Products, 2)
	assert.Equal(t, 5, merged.Products[0].Quantity)
	assert.Equal(t, "12", merged.Products[0].Price)
	assert.Equal(t, int64(2), merged.Products[1].ID)
	require.Len(t, merged.Packages, 1)
	assert.Equal(t, 2, customer.Products[0].Quantity)
}

func TestRefresh_AppliesToCurrentLines(t *testing.T) {
	s := Snapshot{
		Products: []LineItem{
			{ID: 1, Kind: KindProduct, Price: "250", Quantity: 4, LeftInStock: 5},
			{ID: 2, Kind: KindProduct, Price: "100", Quantity: 1, LeftInStock: 3},
			{ID: 3, Kind: KindProduct, Price: "80", Quantity: 2, LeftInStock: 2},
		},
		Packages: []LineItem{{ID: 9, Kind: KindPackage, Price: "900", Quantity: 1, LeftInStock: 1}},
	}
	fresh := map[Key]LineItem{
		{Kind: KindProduct, ID: 1}: {Name: "Serum", Price: "275", LeftInStock: 2},
		{Kind: KindProduct, ID: 3}: {Price: "80", LeftInStock: 0},
	}
	gone := map[Key]bool{{Kind: KindPackage, ID: 9}: true}

	next, changed := Refresh(s, fresh, gone, now)
	assert.True(t, changed)
	assert.Equal(t, now, next.UpdatedAt)
	require.Len(t, next.Products, 2)
	assert.Equal(t, LineItem{ID: 1, Kind: KindProduct, Name: "Serum", Price: "275", Quantity: 2, LeftInStock: 2}, next.Products[0])
	assert.Equal(t, s.Products[1], next.Products[1], "lines not looked up are kept")
	assert.Empty(t, next.Packages)
	assert.Equal(t, 4, s.Products[0].Quantity)
}

func TestRefresh_UnchangedReturnsInput(t *testing.T) {
	s := Snapshot{Products: []LineItem{{ID: 1, Kind: KindProduct, Price: "250", Quantity: 1, LeftInStock: 5}}}

	next, changed := Refresh(s, map[Key]LineItem{s.Products[0].Key(): s.Products[0]}, nil, now)
	assert.False(t, changed)
	assert.Equal(t, s, next)
}

func TestRemoveOrdered(t *testing.T) {
	s := Snapshot{
		Products: []LineItem{
			{ID: 1, Kind: KindProduct, Quantity: 3, LeftInStock: 9},
			{ID: 2, Kind: KindProduct, Quantity: 1, LeftInStock: 9},
		},
	}
	ordered := []LineItem{
		{ID: 1, Kind: KindProduct, Quantity: 2},
		{ID: 2, Kind: KindProduct, Quantity: 1},
		{ID: 5, Kind: KindPackage, Quantity: 1},
	}

	next := RemoveOrdered(s, ordered, now)
	require.Len(t, next.Products, 1)
	assert.Equal(t, int64(1), next.Products[0].ID)
	assert.Equal(t, 1, next.Products[0].Quantity)
}

func TestSnapshotFind(t *testing.T) {
	s := Snapshot{Packages: []LineItem{{ID: 4, Kind: KindPackage, Name: "Bundle"}}}

	item, ok := s.Find(KindPackage, 4)
	assert.True(t, ok)
	assert.Equal(t, "Bundle", item.Name)

	_, ok = s.Find(KindProduct, 4)
	assert.False(t, ok)
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := t.Context()

	empty, err := repo.Load(ctx, "missing")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	snap := Snapshot{Products: []LineItem{{ID: 1, Quantity: 1}}}
	require.NoError(t, repo.Save(ctx, "s1", snap))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	require.NoError(t, repo.Delete(ctx, "s1"))
	got, _ = repo.Load(ctx, "s1")
	assert.True(t, got.IsEmpty())
}
