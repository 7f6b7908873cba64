package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rawthreads/storefront/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileRepo(t *testing.T) ProductRepository {
	t.Helper()
	return NewFileProductRepository(filepath.Join(t.TempDir(), "products.json"))
}

func seedProducts(t *testing.T, repo ProductRepository, drafts ...domain.ProductDraft) []domain.Product {
	t.Helper()
	ctx := context.TODO()
	created := make([]domain.Product, 0, len(drafts))
	for _, d := range drafts {
		p, err := repo.CreateProduct(ctx, d)
		require.NoError(t, err)
		created = append(created, *p)
	}
	return created
}

func TestFileRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	repo := newTestFileRepo(t)

	created := seedProducts(t, repo,
		domain.ProductDraft{Name: "Tee", Price: 1000},
		domain.ProductDraft{Name: "Hoodie", Price: 2500},
		domain.ProductDraft{Name: "Cap", Price: 800},
	)

	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)
	assert.Equal(t, int64(3), created[2].ID)
	assert.False(t, created[0].CreatedAt.IsZero())
}

func TestFileRepository_IDsNeverReused(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.TODO()

	created := seedProducts(t, repo,
		domain.ProductDraft{Name: "Tee"},
		domain.ProductDraft{Name: "Hoodie"},
	)

	// ids come from max+1 over the live set; a delete must never cause a
	// collision among the products that remain.
	_, err := repo.DeleteProduct(ctx, created[0].ID)
	require.NoError(t, err)

	p, err := repo.CreateProduct(ctx, domain.ProductDraft{Name: "Cap"})
	require.NoError(t, err)

	products, err := repo.ListProducts(ctx, Filter{})
	require.NoError(t, err)
	ids := make(map[int64]bool)
	for _, q := range products {
		assert.False(t, ids[q.ID], "duplicate id %d", q.ID)
		ids[q.ID] = true
	}
	assert.True(t, ids[p.ID])
}

func TestFileRepository_ListNewestFirst(t *testing.T) {
	repo := newTestFileRepo(t)

	created := seedProducts(t, repo,
		domain.ProductDraft{Name: "first"},
		domain.ProductDraft{Name: "second"},
		domain.ProductDraft{Name: "third"},
	)

	products, err := repo.ListProducts(context.TODO(), Filter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, created[2].ID, products[0].ID)
	assert.Equal(t, created[1].ID, products[1].ID)
	assert.Equal(t, created[0].ID, products[2].ID)
}

func TestFileRepository_GetProductByID(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.TODO()

	created := seedProducts(t, repo, domain.ProductDraft{Name: "Tee", Price: 1000, Category: "shirts"})

	p, err := repo.GetProductByID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Tee", p.Name)
	assert.Equal(t, "shirts", p.Category)

	_, err = repo.GetProductByID(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFileRepository_PartialUpdate(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.TODO()

	created := seedProducts(t, repo, domain.ProductDraft{
		Name: "Tee", Price: 1000, Category: "shirts", Stock: 5,
	})

	newStock := 12
	updated, err := repo.UpdateProduct(ctx, created[0].ID, domain.ProductUpdate{Stock: &newStock})
	require.NoError(t, err)

	// Only stock changed; everything else is untouched.
	assert.Equal(t, 12, updated.Stock)
	assert.Equal(t, "Tee", updated.Name)
	assert.Equal(t, float64(1000), updated.Price)
	assert.Equal(t, "shirts", updated.Category)
	assert.Equal(t, created[0].CreatedAt, updated.CreatedAt)

	_, err = repo.UpdateProduct(ctx, 999, domain.ProductUpdate{Stock: &newStock})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFileRepository_DeleteReturnsRemoved(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.TODO()

	created := seedProducts(t, repo, domain.ProductDraft{Name: "Tee", Image: "/uploads/tee.png"})

	removed, err := repo.DeleteProduct(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/tee.png", removed.Image)

	_, err = repo.GetProductByID(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = repo.DeleteProduct(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFileRepository_Filtering(t *testing.T) {
	repo := newTestFileRepo(t)
	ctx := context.TODO()

	seedProducts(t, repo,
		domain.ProductDraft{Name: "Basic Tee", Category: "shirts", Featured: true},
		domain.ProductDraft{Name: "Logo Tee", Category: "shirts"},
		domain.ProductDraft{Name: "Beanie", Category: "hats", Featured: true, NewStock: true},
	)

	t.Run("Empty filter is the identity", func(t *testing.T) {
		all, err := repo.ListProducts(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Category 'all' disables the filter", func(t *testing.T) {
		all, err := repo.ListProducts(ctx, Filter{Category: "all"})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Category is exact", func(t *testing.T) {
		shirts, err := repo.ListProducts(ctx, Filter{Category: "shirts"})
		require.NoError(t, err)
		assert.Len(t, shirts, 2)
	})

	t.Run("Search is a case-insensitive substring", func(t *testing.T) {
		tees, err := repo.ListProducts(ctx, Filter{Search: "TEE"})
		require.NoError(t, err)
		assert.Len(t, tees, 2)
	})

	t.Run("NewStock flag", func(t *testing.T) {
		restocked, err := repo.ListProducts(ctx, Filter{NewStock: true})
		require.NoError(t, err)
		require.Len(t, restocked, 1)
		assert.Equal(t, "Beanie", restocked[0].Name)
	})

	t.Run("Filters compose with AND", func(t *testing.T) {
		shirts, err := repo.ListProducts(ctx, Filter{Category: "shirts"})
		require.NoError(t, err)
		featured, err := repo.ListProducts(ctx, Filter{Featured: true})
		require.NoError(t, err)
		both, err := repo.ListProducts(ctx, Filter{Category: "shirts", Featured: true})
		require.NoError(t, err)

		expected := intersect(shirts, featured)
		require.Len(t, both, len(expected))
		for i, p := range both {
			assert.Equal(t, expected[i].ID, p.ID)
		}
	})
}

func TestFileRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	ctx := context.TODO()

	first := NewFileProductRepository(path)
	seedProducts(t, first, domain.ProductDraft{Name: "Tee", Price: 1000})

	second := NewFileProductRepository(path)
	products, err := second.ListProducts(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tee", products[0].Name)
}

func TestFileRepository_MissingFileReadsAsEmpty(t *testing.T) {
	repo := NewFileProductRepository(filepath.Join(t.TempDir(), "missing", "products.json"))

	products, err := repo.ListProducts(context.TODO(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func intersect(a, b []domain.Product) []domain.Product {
	inB := make(map[int64]bool, len(b))
	for _, p := range b {
		inB[p.ID] = true
	}
	out := []domain.Product{}
	for _, p := range a {
		if inB[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
