package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// ListProductsInScope returns the catalog products of a category and/or
// subcategory in catalog order. Empty scope fields match everything.
func (db *DB) ListProductsInScope(ctx context.Context, scope models.ProductScope) ([]models.Product, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if scope.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(category) = LOWER($%d)", argIndex))
		args = append(args, scope.Category)
		argIndex++
	}

	if scope.Subcategory != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("LOWER(subcategory) = LOWER($%d)", argIndex))
		args = append(args, scope.Subcategory)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id::text, product_name, COALESCE(brand_name, ''),
			COALESCE(category, ''), COALESCE(subcategory, ''),
			selling_price, stock
		FROM products
		%s
		ORDER BY created_at ASC, id ASC
	`, whereClause)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Brand,
			&p.Category, &p.Subcategory,
			&p.SellingPrice, &p.Stock,
		)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// CreateProduct inserts a catalog product
func (db *DB) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	p := &models.Product{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO products (product_name, brand_name, category, subcategory, selling_price, stock, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, $6, NOW(), NOW())
		RETURNING id::text, product_name, COALESCE(brand_name, ''),
			COALESCE(category, ''), COALESCE(subcategory, ''),
			selling_price, stock
	`, req.Name, req.Brand, req.Category, req.Subcategory, req.SellingPrice, req.Stock).Scan(
		&p.ID, &p.Name, &p.Brand,
		&p.Category, &p.Subcategory,
		&p.SellingPrice, &p.Stock,
	)

	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetProductsStock writes the same stock value to every listed product.
// matched counts existing products; modified counts rows whose value changed.
func (db *DB) SetProductsStock(ctx context.Context, productIDs []string, stock int) (int64, int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	var matched int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM products WHERE id = ANY($1::text[]::uuid[])
	`, productIDs).Scan(&matched)
	if err != nil {
		return 0, 0, err
	}

	result, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = ANY($1::text[]::uuid[]) AND stock IS DISTINCT FROM $2
	`, productIDs, stock)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}

	return matched, result.RowsAffected(), nil
}

// ApplyPricingChanges writes wholesaler-derived prices in a single
// transaction. Products that don't exist are left out of the results.
// Decimals are sent as text so NUMERIC columns keep their exact value.
func (db *DB) ApplyPricingChanges(ctx context.Context, changes []models.PricingChange) ([]models.PriceUpdateResult, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	results := []models.PriceUpdateResult{}
	for _, c := range changes {
		r := models.PriceUpdateResult{WholesalerPrice: c.WholesalerPrice}

		err := tx.QueryRow(ctx, `
			UPDATE products p
			SET purchase_price_usd = $2, purchase_price = $3, exchange_rate = $4,
				selling_price = $5, last_updated_finance = NOW(), updated_at = NOW()
			FROM (SELECT id, selling_price FROM products WHERE id = $1 FOR UPDATE) old
			WHERE p.id = old.id
			RETURNING p.id::text, p.product_name, old.selling_price, p.selling_price
		`, c.ProductID, c.WholesalerPrice.String(), c.PurchasePrice.String(), c.ExchangeRate.String(), c.SellingPrice).Scan(
			&r.ProductID, &r.ProductName, &r.OldPrice, &r.NewPrice,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("failed to update product %s: %w", c.ProductID, err)
		}

		results = append(results, r)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return results, nil
}
