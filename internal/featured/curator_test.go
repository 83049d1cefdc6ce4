package featured

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
)

func newProductCurator(t *testing.T, max int) (*Curator, store.Store) {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return NewCurator(s, domain.FeaturedProducts, max), s
}

func seedProducts(t *testing.T, s store.Store, n int, status string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		require.NoError(t, s.CreateProduct(ctx, &domain.Product{
			Name:   "product",
			Price:  float64(i + 1),
			Status: status,
		}))
	}
}

func TestCurator_ReplaceAssignsDenseIDs(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 9, "active")

	entries, err := cur.Replace(ctx, []int64{5, 9, 2})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, int64(5), entries[0].TargetID)
	assert.Equal(t, 1, entries[0].Order)
	assert.Equal(t, int64(2), entries[1].ID)
	assert.Equal(t, int64(9), entries[1].TargetID)
	assert.Equal(t, 2, entries[1].Order)
	assert.Equal(t, int64(3), entries[2].ID)
	assert.Equal(t, int64(2), entries[2].TargetID)
	assert.Equal(t, 3, entries[2].Order)

	details, err := cur.ListWithDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 3)
	for i, d := range details {
		assert.Equal(t, int64(i+1), d.ID)
		assert.Equal(t, i+1, d.Order)
	}
	assert.Equal(t, []int64{5, 9, 2},
		[]int64{details[0].TargetID, details[1].TargetID, details[2].TargetID})
}

func TestCurator_ReplaceOverLimitRejected(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 3)
	seedProducts(t, s, 5, "active")

	_, err := cur.Replace(ctx, []int64{1, 2})
	require.NoError(t, err)

	_, err = cur.Replace(ctx, []int64{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrLimitExceeded)

	// the stored list is unchanged after the rejected replace
	entries, err := s.FeaturedEntries(ctx, domain.FeaturedProducts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].TargetID)
	assert.Equal(t, int64(2), entries[1].TargetID)
}

func TestCurator_RemoveRenumbers(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 4, "active")

	_, err := cur.Replace(ctx, []int64{4, 1, 3})
	require.NoError(t, err)

	require.NoError(t, cur.Remove(ctx, 2))

	entries, err := s.FeaturedEntries(ctx, domain.FeaturedProducts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// survivors renumber dense from 1, relative order preserved
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, 1, entries[0].Order)
	assert.Equal(t, int64(4), entries[0].TargetID)
	assert.Equal(t, int64(2), entries[1].ID)
	assert.Equal(t, 2, entries[1].Order)
	assert.Equal(t, int64(3), entries[1].TargetID)
}

func TestCurator_RemoveMissingEntry(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 2, "active")

	_, err := cur.Replace(ctx, []int64{1, 2})
	require.NoError(t, err)

	assert.ErrorIs(t, cur.Remove(ctx, 99), ErrNotFound)
}

func TestCurator_ListWithDetailsIdempotent(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 3, "active")

	_, err := cur.Replace(ctx, []int64{3, 1})
	require.NoError(t, err)

	first, err := cur.ListWithDetails(ctx)
	require.NoError(t, err)
	second, err := cur.ListWithDetails(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCurator_DanglingTargetDropped(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 2, "active")

	_, err := cur.Replace(ctx, []int64{1, 77, 2})
	require.NoError(t, err)

	details, err := cur.ListWithDetails(ctx)
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, int64(1), details[0].TargetID)
	assert.Equal(t, int64(2), details[1].TargetID)
}

func TestCurator_ListPublicFiltersInactive(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)

	require.NoError(t, s.CreateProduct(ctx, &domain.Product{Name: "visible", Price: 10, Status: "active"}))
	require.NoError(t, s.CreateProduct(ctx, &domain.Product{Name: "hidden", Price: 20, Status: "inactive"}))

	_, err := cur.Replace(ctx, []int64{1, 2})
	require.NoError(t, err)

	items, err := cur.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, "visible", items[0].Name)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 10.0, *items[0].Price)
}

func TestCurator_ListPublicSortsByOrder(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 3, "active")

	_, err := cur.Replace(ctx, []int64{2, 3, 1})
	require.NoError(t, err)

	items, err := cur.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].Order, items[1].Order, items[2].Order})
}

func TestCurator_MarkaListUsesLogoAndWebsite(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	cur := NewCurator(s, domain.FeaturedMarkas, 6)

	require.NoError(t, s.CreateMarka(ctx, &domain.Marka{
		Name: "Bosch", Logo: "/uploads/bosch.png", Website: "https://bosch.example", Status: "active",
	}))

	_, err = cur.Replace(ctx, []int64{1})
	require.NoError(t, err)

	items, err := cur.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/uploads/bosch.png", items[0].Image)
	assert.Equal(t, "https://bosch.example", items[0].Website)
	assert.Nil(t, items[0].Price)
}

func TestCurator_SweepDropsDeletedTargets(t *testing.T) {
	ctx := context.Background()
	cur, s := newProductCurator(t, 8)
	seedProducts(t, s, 3, "active")

	_, err := cur.Replace(ctx, []int64{1, 2, 3})
	require.NoError(t, err)

	require.NoError(t, s.DeleteProduct(ctx, 2))
	require.NoError(t, cur.Sweep(ctx))

	entries, err := s.FeaturedEntries(ctx, domain.FeaturedProducts)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ID)
	assert.Equal(t, int64(1), entries[0].TargetID)
	assert.Equal(t, int64(2), entries[1].ID)
	assert.Equal(t, int64(3), entries[1].TargetID)
}

func TestCurator_UnknownListType(t *testing.T) {
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	cur := NewCurator(s, "banners", 6)

	_, err = cur.ListWithDetails(context.Background())
	assert.ErrorIs(t, err, ErrUnknownList)
}
