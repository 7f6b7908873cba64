package domain

import (
	"time"
)

// Product is the single catalog entity. IDs are assigned by the backing
// store and never change; CreatedAt is set once at creation.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Stock       int       `json:"stock"`
	Featured    bool      `json:"featured"`
	NewStock    bool      `json:"new_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDraft carries the fields a caller may supply when creating a
// product. ID and CreatedAt are assigned by the repository.
type ProductDraft struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Featured    bool    `json:"featured"`
	NewStock    bool    `json:"new_stock"`
}

// ProductUpdate is a partial update: nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Image       *string
	Stock       *int
	Featured    *bool
	NewStock    *bool
}

// Empty reports whether the update would change nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.Category == nil &&
		u.Description == nil && u.Image == nil && u.Stock == nil &&
		u.Featured == nil && u.NewStock == nil
}

// CatalogStats is the admin dashboard summary, recomputed on every request.
type CatalogStats struct {
	TotalProducts int     `json:"totalProducts"`
	NewThisWeek   int     `json:"newThisWeek"`
	LowStock      int     `json:"lowStock"`
	TotalValue    float64 `json:"totalValue"`
}
