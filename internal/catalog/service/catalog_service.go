package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rawthreads/storefront/internal/catalog/domain"
	"github.com/rawthreads/storefront/internal/catalog/repository"
	"github.com/rawthreads/storefront/internal/platform/logger"
)

const (
	defaultCategory   = "general"
	lowStockThreshold = 3
	recentWindow      = 7 * 24 * time.Hour
)

// ImageRemover releases a stored image once no product references it.
// Removal of unmanaged paths (external URLs) must be a no-op.
type ImageRemover interface {
	Remove(publicPath string) error
	Managed(publicPath string) bool
}

type CatalogService interface {
	ListProducts(ctx context.Context, f repository.Filter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]string, error)
	ComputeStats(ctx context.Context) (*domain.CatalogStats, error)
}

type catalogServiceImpl struct {
	repo   repository.ProductRepository
	images ImageRemover
}

func NewCatalogService(repo repository.ProductRepository, images ImageRemover) CatalogService {
	return &catalogServiceImpl{repo: repo, images: images}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, f repository.Filter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, f)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return nil, fmt.Errorf("%w: name is required", repository.ErrInvalidProduct)
	}
	if draft.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", repository.ErrInvalidProduct)
	}
	if draft.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", repository.ErrInvalidProduct)
	}
	if draft.Category == "" {
		draft.Category = defaultCategory
	}
	return s.repo.CreateProduct(ctx, draft)
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name must not be empty", repository.ErrInvalidProduct)
		}
		update.Name = &trimmed
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", repository.ErrInvalidProduct)
	}
	if update.Stock != nil && *update.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", repository.ErrInvalidProduct)
	}
	return s.repo.UpdateProduct(ctx, id, update)
}

// DeleteProduct removes the record and, when its image lives under the
// managed uploads directory, cleans the file up too. Cleanup failures are
// logged and swallowed; the catalog delete already happened.
func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id int64) error {
	removed, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if removed.Image != "" && s.images.Managed(removed.Image) {
		if err := s.images.Remove(removed.Image); err != nil {
			logger.Error("DeleteProduct: image cleanup failed for "+removed.Image, err)
		}
	}
	return nil
}

// ListCategories derives the distinct set of categories from the live
// product set: lowercased, empty values excluded, first-seen order.
func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]string, error) {
	products, err := s.repo.ListProducts(ctx, repository.Filter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range products {
		c := strings.ToLower(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	return categories, nil
}

func (s *catalogServiceImpl) ComputeStats(ctx context.Context) (*domain.CatalogStats, error) {
	products, err := s.repo.ListProducts(ctx, repository.Filter{})
	if err != nil {
		return nil, err
	}

	stats := &domain.CatalogStats{TotalProducts: len(products)}
	weekAgo := time.Now().Add(-recentWindow)
	for _, p := range products {
		if p.Stock <= lowStockThreshold {
			stats.LowStock++
		}
		stats.TotalValue += p.Price * float64(p.Stock)
		if p.CreatedAt.After(weekAgo) {
			stats.NewThisWeek++
		}
	}
	return stats, nil
}
