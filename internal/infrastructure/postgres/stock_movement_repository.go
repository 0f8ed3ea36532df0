package postgres

import (
	"context"
	"fmt"

	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo append-only ledger adapter. Rows are never updated or deleted.
type StockMovementRepo struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, stock_item_id, receiving_item_id, delta, market, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.StockItemID, nullableString(m.ReceivingItemID), m.Delta,
		m.Market, m.Note, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func (r *StockMovementRepo) ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, stock_item_id, COALESCE(receiving_item_id, ''), delta, market, note, created_by, created_at
		FROM stock_movements
		WHERE stock_item_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, stockItemID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.StockItemID, &m.ReceivingItemID, &m.Delta, &m.Market, &m.Note, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumDeltas replays the ledger for one stock record.
func (r *StockMovementRepo) SumDeltas(stockItemID string) (int, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM stock_movements WHERE stock_item_id = $1`
	var total int
	if err := r.q.QueryRow(context.Background(), query, stockItemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return total, nil
}
