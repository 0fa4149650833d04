package database

import (
	"context"

	"github.com/foxxcyber/stock-sync/internal/models"
)

// RecordStockRun stores the audit record of a reconciliation run
func (db *DB) RecordStockRun(ctx context.Context, run *models.StockRun) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO stock_sync_runs (id, category, subcategory, total_products, in_stock, out_of_stock, new_available, archive_key, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, run.ID, run.Category, run.Subcategory, run.TotalProducts, run.InStock, run.OutOfStock, run.NewAvailable,
		run.ArchiveKey, run.CreatedBy, run.CreatedAt)
	return err
}

// ListStockRuns returns a page of runs, newest first, and the total count
func (db *DB) ListStockRuns(ctx context.Context, params *models.StockRunListParams) ([]*models.StockRun, int, error) {
	var total int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_sync_runs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, category, subcategory, total_products, in_stock, out_of_stock, new_available,
			archive_key, created_by, created_at
		FROM stock_sync_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	runs := []*models.StockRun{}
	for rows.Next() {
		run := &models.StockRun{}
		err := rows.Scan(
			&run.ID, &run.Category, &run.Subcategory, &run.TotalProducts, &run.InStock, &run.OutOfStock, &run.NewAvailable,
			&run.ArchiveKey, &run.CreatedBy, &run.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}

	return runs, total, rows.Err()
}
