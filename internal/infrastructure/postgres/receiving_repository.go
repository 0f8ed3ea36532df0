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

var (
	_ repository.ReceivingShipmentRepository = (*ReceivingShipmentRepo)(nil)
	_ repository.ReceivingItemRepository     = (*ReceivingItemRepo)(nil)
)

// ReceivingShipmentRepo announced-shipment adapter.
type ReceivingShipmentRepo struct {
	q Querier
}

func NewReceivingShipmentRepository(q Querier) *ReceivingShipmentRepo {
	return &ReceivingShipmentRepo{q: q}
}

const shipmentColumns = `id, company_id, created_by, status, forward_mode, carrier, tracking_numbers, shipment_ids, notes, created_at, updated_at`

func scanShipment(row pgx.Row) (*entity.ReceivingShipment, error) {
	var s entity.ReceivingShipment
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CreatedBy, &s.Status, &s.ForwardMode,
		&s.Carrier, &s.TrackingNumbers, &s.ShipmentIDs, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan receiving shipment: %w", err)
	}
	return &s, nil
}

func (r *ReceivingShipmentRepo) Create(s *entity.ReceivingShipment) error {
	query := `
		INSERT INTO receiving_shipments (` + shipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CompanyID, s.CreatedBy, s.Status, s.ForwardMode,
		s.Carrier, s.TrackingNumbers, s.ShipmentIDs, s.Notes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create receiving shipment: %w", err)
	}
	return nil
}

func (r *ReceivingShipmentRepo) GetByID(id string) (*entity.ReceivingShipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM receiving_shipments WHERE id = $1`
	return scanShipment(r.q.QueryRow(context.Background(), query, id))
}

func (r *ReceivingShipmentRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingShipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM receiving_shipments
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list receiving shipments: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceivingShipment
	for rows.Next() {
		var s entity.ReceivingShipment
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.CreatedBy, &s.Status, &s.ForwardMode,
			&s.Carrier, &s.TrackingNumbers, &s.ShipmentIDs, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan receiving shipment: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *ReceivingShipmentRepo) Update(s *entity.ReceivingShipment) error {
	query := `
		UPDATE receiving_shipments
		SET status = $2, forward_mode = $3, carrier = $4, tracking_numbers = $5,
		    shipment_ids = $6, notes = $7, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, s.ForwardMode, s.Carrier, s.TrackingNumbers, s.ShipmentIDs, s.Notes,
	)
	if err != nil {
		return fmt.Errorf("update receiving shipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReceivingShipmentRepo) UpdateStatus(id, status string) error {
	query := `UPDATE receiving_shipments SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update receiving shipment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReceivingItemRepo announced-line adapter. Stores both forwarding
// representations so either reader sees a consistent line.
type ReceivingItemRepo struct {
	q Querier
}

func NewReceivingItemRepository(q Querier) *ReceivingItemRepo {
	return &ReceivingItemRepo{q: q}
}

const receivingItemColumns = `id, shipment_id, ean, asin, sku, product_name, expected_qty, confirmed_qty, forward_to_amazon, forward_qty, remaining_action, stock_item_id, in_prep_request, created_at, updated_at`

func scanReceivingItem(row pgx.Row) (*entity.ReceivingItem, error) {
	var it entity.ReceivingItem
	var stockItemID *string
	err := row.Scan(
		&it.ID, &it.ShipmentID, &it.EAN, &it.ASIN, &it.SKU, &it.ProductName,
		&it.ExpectedQty, &it.ConfirmedQty, &it.ForwardToAmazon, &it.ForwardQty,
		&it.RemainingAction, &stockItemID, &it.InPrepRequest,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan receiving item: %w", err)
	}
	if stockItemID != nil {
		it.StockItemID = *stockItemID
	}
	return &it, nil
}

func (r *ReceivingItemRepo) Create(it *entity.ReceivingItem) error {
	query := `
		INSERT INTO receiving_items (` + receivingItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.ShipmentID, it.EAN, it.ASIN, it.SKU, it.ProductName,
		it.ExpectedQty, it.ConfirmedQty, it.ForwardToAmazon, it.ForwardQty,
		it.RemainingAction, nullableString(it.StockItemID), it.InPrepRequest,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create receiving item: %w", err)
	}
	return nil
}

func (r *ReceivingItemRepo) GetByID(id string) (*entity.ReceivingItem, error) {
	query := `SELECT ` + receivingItemColumns + ` FROM receiving_items WHERE id = $1`
	return scanReceivingItem(r.q.QueryRow(context.Background(), query, id))
}

func (r *ReceivingItemRepo) ListByShipment(shipmentID string) ([]*entity.ReceivingItem, error) {
	query := `
		SELECT ` + receivingItemColumns + `
		FROM receiving_items
		WHERE shipment_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list receiving items: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReceivingItem
	for rows.Next() {
		var it entity.ReceivingItem
		var stockItemID *string
		if err := rows.Scan(
			&it.ID, &it.ShipmentID, &it.EAN, &it.ASIN, &it.SKU, &it.ProductName,
			&it.ExpectedQty, &it.ConfirmedQty, &it.ForwardToAmazon, &it.ForwardQty,
			&it.RemainingAction, &stockItemID, &it.InPrepRequest,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan receiving item: %w", err)
		}
		if stockItemID != nil {
			it.StockItemID = *stockItemID
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *ReceivingItemRepo) Update(it *entity.ReceivingItem) error {
	query := `
		UPDATE receiving_items
		SET ean = $2, asin = $3, sku = $4, product_name = $5,
		    expected_qty = $6, confirmed_qty = $7, forward_to_amazon = $8,
		    forward_qty = $9, remaining_action = $10, stock_item_id = $11,
		    in_prep_request = $12, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		it.ID, it.EAN, it.ASIN, it.SKU, it.ProductName,
		it.ExpectedQty, it.ConfirmedQty, it.ForwardToAmazon,
		it.ForwardQty, it.RemainingAction, nullableString(it.StockItemID),
		it.InPrepRequest,
	)
	if err != nil {
		return fmt.Errorf("update receiving item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkInPrepRequest flags lines consumed by a forwarding request so they are
// excluded from later aggregations.
func (r *ReceivingItemRepo) MarkInPrepRequest(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE receiving_items SET in_prep_request = true, updated_at = now() WHERE id = ANY($1)`
	_, err := r.q.Exec(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("mark receiving items in prep request: %w", err)
	}
	return nil
}
