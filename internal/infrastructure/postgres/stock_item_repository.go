package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo StockItemRepository over PostgreSQL (usable with pool or tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository builds the adapter. Pass pool or tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockItemColumns = `id, company_id, ean, asin, sku, name, quantity, market_quantities, purchase_price, removed, created_at, updated_at`

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var s entity.StockItem
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.EAN, &s.ASIN, &s.SKU, &s.Name,
		&s.Quantity, &s.MarketQuantities, &s.PurchasePrice, &s.Removed,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan stock item: %w", err)
	}
	return &s, nil
}

// Create inserts a stock record. Returns domain.ErrDuplicate on the unique
// identifier constraint so the resolver can recover from create races.
func (r *StockItemRepo) Create(item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.EAN, item.ASIN, item.SKU, item.Name,
		item.Quantity, item.MarketQuantities, item.PurchasePrice, item.Removed,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock item: %w", err)
	}
	return nil
}

// GetByID returns one record, nil when absent.
func (r *StockItemRepo) GetByID(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return scanStockItem(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate returns one record locking the row (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1 FOR UPDATE`
	return scanStockItem(r.q.QueryRow(context.Background(), query, id))
}

// FindByEAN exact match within a company.
func (r *StockItemRepo) FindByEAN(companyID, ean string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE company_id = $1 AND ean = $2`
	return scanStockItem(r.q.QueryRow(context.Background(), query, companyID, ean))
}

// FindByASIN case-insensitive match within a company.
func (r *StockItemRepo) FindByASIN(companyID, asin string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE company_id = $1 AND upper(asin) = upper($2)`
	return scanStockItem(r.q.QueryRow(context.Background(), query, companyID, asin))
}

// FindBySKU case-insensitive match within a company.
func (r *StockItemRepo) FindBySKU(companyID, sku string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE company_id = $1 AND upper(sku) = upper($2)`
	return scanStockItem(r.q.QueryRow(context.Background(), query, companyID, sku))
}

// ListByCompany lists a company's records, optionally including soft-removed ones.
func (r *StockItemRepo) ListByCompany(companyID string, includeRemoved bool, limit, offset int) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE company_id = $1`
	if !includeRemoved {
		query += ` AND removed = false`
	}
	query += ` ORDER BY name, sku LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		var s entity.StockItem
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.EAN, &s.ASIN, &s.SKU, &s.Name,
			&s.Quantity, &s.MarketQuantities, &s.PurchasePrice, &s.Removed,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// UpdateQuantity writes the materialized quantity fields. The ledger row for
// the same delta must be written in the same transaction.
func (r *StockItemRepo) UpdateQuantity(id string, quantity int, markets map[string]int) error {
	query := `UPDATE stock_items SET quantity = $2, market_quantities = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity, markets)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateDetails writes name, purchase price and the soft-remove flag.
func (r *StockItemRepo) UpdateDetails(item *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET name = $2, purchase_price = $3, removed = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, item.ID, item.Name, item.PurchasePrice, item.Removed)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
