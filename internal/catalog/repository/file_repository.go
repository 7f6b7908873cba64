package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rawthreads/storefront/internal/catalog/domain"
	"github.com/rawthreads/storefront/internal/platform/logger"
)

// fileProductRepository is the fallback backend: a single JSON array at a
// fixed path, rewritten wholesale on every mutation. The mutex guards the
// read-modify-write cycle; the file itself is assumed to have one writer
// process (single-admin deployment).
type fileProductRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileProductRepository(path string) ProductRepository {
	return &fileProductRepository{path: path}
}

func (r *fileProductRepository) ListProducts(ctx context.Context, f Filter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	filtered := []domain.Product{}
	for _, p := range products {
		if matches(p, f) {
			filtered = append(filtered, p)
		}
	}
	sortNewestFirst(filtered)
	return filtered, nil
}

func (r *fileProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.load() {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *fileProductRepository) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	p := domain.Product{
		ID:          maxID + 1,
		Name:        draft.Name,
		Price:       draft.Price,
		Category:    draft.Category,
		Description: draft.Description,
		Image:       draft.Image,
		Stock:       draft.Stock,
		Featured:    draft.Featured,
		NewStock:    draft.NewStock,
		CreatedAt:   time.Now().UTC(),
	}
	products = append(products, p)
	if err := r.save(products); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *fileProductRepository) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	for i := range products {
		if products[i].ID != id {
			continue
		}
		applyUpdate(&products[i], update)
		if err := r.save(products); err != nil {
			return nil, err
		}
		cp := products[i]
		return &cp, nil
	}
	return nil, ErrProductNotFound
}

func (r *fileProductRepository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load()
	for i := range products {
		if products[i].ID != id {
			continue
		}
		removed := products[i]
		products = append(products[:i], products[i+1:]...)
		if err := r.save(products); err != nil {
			return nil, err
		}
		return &removed, nil
	}
	return nil, ErrProductNotFound
}

// load reads the product file. A missing or unreadable file is treated as an
// empty catalog so a fresh deployment works without seeding.
func (r *fileProductRepository) load() []domain.Product {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("file store: read failed, treating as empty: %v", err)
		}
		return []domain.Product{}
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Warn("file store: corrupt product file, treating as empty: %v", err)
		return []domain.Product{}
	}
	return products
}

func (r *fileProductRepository) save(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		logger.Error("file store: mkdir failed", err)
		return err
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		logger.Error("file store: write failed", err)
		return err
	}
	return nil
}

func applyUpdate(p *domain.Product, u domain.ProductUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Featured != nil {
		p.Featured = *u.Featured
	}
	if u.NewStock != nil {
		p.NewStock = *u.NewStock
	}
}

func matches(p domain.Product, f Filter) bool {
	if f.categoryActive() && p.Category != f.Category {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.NewStock && !p.NewStock {
		return false
	}
	return true
}

// sortNewestFirst applies the canonical catalog ordering so both backends
// present listings identically.
func sortNewestFirst(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID > products[j].ID
	})
}
