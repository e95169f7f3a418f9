package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TaiNguyen1-git/construction-materials-store-sub003/internal/models"
	"github.com/lib/pq"
)

// ProductRepository reads catalog data: the active product list for the
// category index, and display metadata for enriching recommendations.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ActiveProducts returns all purchasable products with their category ids.
func (r *ProductRepository) ActiveProducts(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT id, name, category_id, price, stock
		FROM products
		WHERE active = true
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Active = true
		products = append(products, p)
	}

	return products, rows.Err()
}

// ProductsByID returns display metadata for the given ids, keyed by product
// id. Missing ids are simply absent from the result map.
func (r *ProductRepository) ProductsByID(ctx context.Context, ids []string) (map[string]models.Product, error) {
	if len(ids) == 0 {
		return map[string]models.Product{}, nil
	}

	query := `
		SELECT p.id, p.name, p.category_id, COALESCE(c.name, ''), p.price, p.unit, p.images, p.stock, p.active,
		       p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[string]models.Product, len(ids))
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.Price, &p.Unit,
			pq.Array(&p.Images), &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product metadata: %w", err)
		}
		products[p.ID] = p
	}

	return products, rows.Err()
}
