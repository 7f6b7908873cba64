package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rawthreads/storefront/internal/catalog/domain"
	"github.com/rawthreads/storefront/internal/platform/logger"
)

const productColumns = `id, name, price, category, description, image, stock, featured, new_stock, created_at`

// postgresProductRepository backs the catalog with the hosted store. The
// products table carries CHECK constraints (price >= 0, stock >= 0,
// name <> '') as a backstop behind service-level validation.
type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, f Filter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var conds []string
	var args []interface{}

	if f.categoryActive() {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Featured {
		conds = append(conds, "featured = TRUE")
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.NewStock {
		conds = append(conds, "new_stock = TRUE")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error("ListProducts: rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	query := `INSERT INTO products (name, price, category, description, image, stock, featured, new_stock, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING ` + productColumns

	p := domain.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query,
		draft.Name, draft.Price, draft.Category, draft.Description,
		draft.Image, draft.Stock, draft.Featured, draft.NewStock, time.Now().UTC(),
	), &p)
	if err != nil {
		if isCheckViolation(err) {
			return nil, ErrInvalidProduct
		}
		logger.Error("CreateProduct: insert failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.Product, error) {
	if update.Empty() {
		return r.GetProductByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Name != nil {
		set("name", *update.Name)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.Category != nil {
		set("category", *update.Category)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Image != nil {
		set("image", *update.Image)
	}
	if update.Stock != nil {
		set("stock", *update.Stock)
	}
	if update.Featured != nil {
		set("featured", *update.Featured)
	}
	if update.NewStock != nil {
		set("new_stock", *update.NewStock)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, args...), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if isCheckViolation(err) {
			return nil, ErrInvalidProduct
		}
		logger.Error("UpdateProduct: update failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("DeleteProduct: delete failed", err)
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Category, &p.Description,
		&p.Image, &p.Stock, &p.Featured, &p.NewStock, &p.CreatedAt,
	)
}

// isCheckViolation reports SQLSTATE 23514, raised when an insert or update
// breaks a table CHECK constraint (e.g. negative price or stock).
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
