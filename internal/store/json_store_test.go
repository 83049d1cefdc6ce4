package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	s, err := NewJSONStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestJSONStore_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p := &domain.Product{Name: "drill", Price: 99.5, Stock: 3, Status: "active"}
	require.NoError(t, s.CreateProduct(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	p2 := &domain.Product{Name: "hammer", Price: 12, Status: "active"}
	require.NoError(t, s.CreateProduct(ctx, p2))
	assert.Equal(t, int64(2), p2.ID)

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "drill", got.Name)

	p.Name = "impact drill"
	require.NoError(t, s.UpdateProduct(ctx, p))
	got, err = s.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "impact drill", got.Name)

	require.NoError(t, s.DeleteProduct(ctx, p.ID))
	_, err = s.Product(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// remaining product keeps its id
	got, err = s.Product(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "hammer", got.Name)
}

func TestJSONStore_UpdateMissingProduct(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateProduct(context.Background(), &domain.Product{ID: 42, Name: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStore_FilterConjunction(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	catA := &domain.Category{Name: "power tools", Status: "active"}
	catB := &domain.Category{Name: "hand tools", Status: "active"}
	require.NoError(t, s.CreateCategory(ctx, catA))
	require.NoError(t, s.CreateCategory(ctx, catB))

	for _, p := range []*domain.Product{
		{Name: "one", Price: 10, CategoryID: catA.ID, Status: "active"},
		{Name: "two", Price: 20, CategoryID: catB.ID, Status: "active"},
		{Name: "three", Price: 30, CategoryID: catA.ID, Status: "active"},
	} {
		require.NoError(t, s.CreateProduct(ctx, p))
	}

	got, err := s.Products(ctx, ProductFilter{CategoryID: catA.ID, MinPrice: floatPtr(15)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "three", got[0].Name)
	assert.Equal(t, 30.0, got[0].Price)
}

func TestProductFilter_Match(t *testing.T) {
	p := domain.Product{
		Name:        "Bosch GSB 13 RE",
		Description: "impact drill with carry case",
		Price:       120,
		CategoryID:  2,
		MarkaID:     7,
		Status:      "active",
	}

	tests := []struct {
		name   string
		filter ProductFilter
		want   bool
	}{
		{"empty filter matches", ProductFilter{}, true},
		{"category match", ProductFilter{CategoryID: 2}, true},
		{"category mismatch", ProductFilter{CategoryID: 3}, false},
		{"marka match", ProductFilter{MarkaID: 7}, true},
		{"search name case insensitive", ProductFilter{Search: "bosch"}, true},
		{"search description", ProductFilter{Search: "CARRY"}, true},
		{"search miss", ProductFilter{Search: "makita"}, false},
		{"min price inclusive", ProductFilter{MinPrice: floatPtr(120)}, true},
		{"max price inclusive", ProductFilter{MaxPrice: floatPtr(120)}, true},
		{"price out of range", ProductFilter{MinPrice: floatPtr(121)}, false},
		{"status mismatch", ProductFilter{Status: "inactive"}, false},
		{"all combined", ProductFilter{CategoryID: 2, MarkaID: 7, Search: "drill", MinPrice: floatPtr(100), MaxPrice: floatPtr(150)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(&p))
		})
	}
}

func TestJSONStore_LegacyReferenceKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	require.NoError(t, err)

	raw := `[
		{"id": 1, "name": "old-a", "price": 5, "status": "active", "categoryId": 4, "marka": 2},
		{"id": 2, "name": "old-b", "price": 6, "status": "active", "category": 4, "markaId": 3},
		{"id": 3, "name": "new", "price": 7, "status": "active", "category_id": 9, "marka_id": 9}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(raw), 0o644))

	products, err := s.Products(context.Background(), ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)

	byID := map[int64]domain.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Equal(t, int64(4), byID[1].CategoryID)
	assert.Equal(t, int64(2), byID[1].MarkaID)
	assert.Equal(t, int64(4), byID[2].CategoryID)
	assert.Equal(t, int64(3), byID[2].MarkaID)
	assert.Equal(t, int64(9), byID[3].CategoryID)

	// canonical keys win over legacy ones after migration
	got, err := s.Products(context.Background(), ProductFilter{CategoryID: 4})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestJSONStore_DegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir)
	require.NoError(t, err)

	// missing file is an empty collection
	products, err := s.Products(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	// malformed file degrades to empty instead of surfacing a parse error
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o644))
	products, err = s.Products(context.Background(), ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	categories, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestJSONStore_EnrichmentDanglingRef(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cat := &domain.Category{Name: "garden", Status: "active"}
	require.NoError(t, s.CreateCategory(ctx, cat))

	p := &domain.Product{Name: "mower", Price: 300, CategoryID: cat.ID, MarkaID: 999, Status: "active"}
	require.NoError(t, s.CreateProduct(ctx, p))

	got, err := s.Product(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "garden", got.Category.Name)
	assert.Nil(t, got.Marka)
}

func TestJSONStore_DerivedProductCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	cat := &domain.Category{Name: "paint", Status: "active"}
	require.NoError(t, s.CreateCategory(ctx, cat))
	marka := &domain.Marka{Name: "Dulux", Status: "active"}
	require.NoError(t, s.CreateMarka(ctx, marka))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateProduct(ctx, &domain.Product{
			Name: "tin", Price: 9, CategoryID: cat.ID, MarkaID: marka.ID, Status: "active",
		}))
	}

	categories, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, int64(3), categories[0].ProductCount)

	markas, err := s.Markas(ctx)
	require.NoError(t, err)
	require.Len(t, markas, 1)
	assert.Equal(t, int64(3), markas[0].ProductCount)

	// counts follow deletions on the next read
	products, _ := s.Products(ctx, ProductFilter{})
	require.NoError(t, s.DeleteProduct(ctx, products[0].ID))
	categories, err = s.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), categories[0].ProductCount)
}

func TestJSONStore_Users(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := &domain.User{Username: "metleb", Email: "m@example.com", Password: "x", Role: "admin", Status: "enabled"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)

	got, err := s.UserByUsername(ctx, "metleb")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// email also resolves
	got, err = s.UserByUsername(ctx, "m@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.UserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONStore_UserPasswordSurvivesRewrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	hash, err := common.HashPassword("secret123")
	require.NoError(t, err)
	u := &domain.User{Username: "admin", Email: "a@example.com", Password: hash, Role: "admin", Status: "enabled"}
	require.NoError(t, s.CreateUser(ctx, u))

	// the hash must come back even though the API model hides it
	got, err := s.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, hash, got.Password)
	assert.True(t, common.CheckPassword(got.Password, "secret123"))

	// and it must survive an unrelated rewrite of the file
	other := &domain.User{Username: "editor", Email: "e@example.com", Password: "h2", Role: "user", Status: "enabled"}
	require.NoError(t, s.CreateUser(ctx, other))
	got, err = s.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, hash, got.Password)
}

func TestJSONStore_Settings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetSetting(ctx, "site", "title")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveSetting(ctx, "site", "title", "Proline"))
	v, err := s.GetSetting(ctx, "site", "title")
	require.NoError(t, err)
	assert.Equal(t, "Proline", v)

	require.NoError(t, s.SaveSetting(ctx, "site", "title", "Proline MMC"))
	v, err = s.GetSetting(ctx, "site", "title")
	require.NoError(t, err)
	assert.Equal(t, "Proline MMC", v)
}
