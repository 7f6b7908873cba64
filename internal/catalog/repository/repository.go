package repository

import (
	"context"
	"errors"

	"github.com/rawthreads/storefront/internal/catalog/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("invalid product data")
)

// Filter narrows a product listing. Zero value means no filtering. All
// conditions compose with AND.
type Filter struct {
	// Category matches exactly as stored; empty or "all" disables it.
	Category string
	// Search is a case-insensitive substring match against the name.
	Search string
	// Featured keeps only promoted products when true.
	Featured bool
	// NewStock keeps only recently restocked products when true.
	NewStock bool
}

func (f Filter) categoryActive() bool {
	return f.Category != "" && f.Category != "all"
}

// ProductRepository is the persistence contract shared by the Postgres and
// file backends. Listings are always returned newest-created-first with ties
// broken by descending id, regardless of backend.
type ProductRepository interface {
	ListProducts(ctx context.Context, f Filter) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error)
	// DeleteProduct returns the removed record so callers can release
	// resources it referenced, such as a locally stored image.
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
}
