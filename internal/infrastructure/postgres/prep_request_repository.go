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
	_ repository.PrepRequestRepository         = (*PrepRequestRepo)(nil)
	_ repository.PrepRequestItemRepository     = (*PrepRequestItemRepo)(nil)
	_ repository.PrepRequestTrackingRepository = (*PrepRequestTrackingRepo)(nil)
)

// PrepRequestRepo forwarding-request adapter.
type PrepRequestRepo struct {
	q Querier
}

func NewPrepRequestRepository(q Querier) *PrepRequestRepo {
	return &PrepRequestRepo{q: q}
}

const prepRequestColumns = `id, company_id, created_by, status, destination_country, warehouse_country, amazon_shipment_id, admin_note, confirmed_at, confirmed_by, created_at, updated_at`

func scanPrepRequest(row pgx.Row) (*entity.PrepRequest, error) {
	var p entity.PrepRequest
	var confirmedBy *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CreatedBy, &p.Status,
		&p.DestinationCountry, &p.WarehouseCountry, &p.AmazonShipmentID, &p.AdminNote,
		&p.ConfirmedAt, &confirmedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prep request: %w", err)
	}
	if confirmedBy != nil {
		p.ConfirmedBy = *confirmedBy
	}
	return &p, nil
}

func (r *PrepRequestRepo) Create(p *entity.PrepRequest) error {
	query := `
		INSERT INTO prep_requests (` + prepRequestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.CreatedBy, p.Status,
		p.DestinationCountry, p.WarehouseCountry, p.AmazonShipmentID, p.AdminNote,
		p.ConfirmedAt, nullableString(p.ConfirmedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create prep request: %w", err)
	}
	return nil
}

func (r *PrepRequestRepo) GetByID(id string) (*entity.PrepRequest, error) {
	query := `SELECT ` + prepRequestColumns + ` FROM prep_requests WHERE id = $1`
	return scanPrepRequest(r.q.QueryRow(context.Background(), query, id))
}

func (r *PrepRequestRepo) GetForUpdate(id string) (*entity.PrepRequest, error) {
	query := `SELECT ` + prepRequestColumns + ` FROM prep_requests WHERE id = $1 FOR UPDATE`
	return scanPrepRequest(r.q.QueryRow(context.Background(), query, id))
}

func (r *PrepRequestRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PrepRequest, error) {
	query := `
		SELECT ` + prepRequestColumns + `
		FROM prep_requests
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list prep requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrepRequest
	for rows.Next() {
		var p entity.PrepRequest
		var confirmedBy *string
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.CreatedBy, &p.Status,
			&p.DestinationCountry, &p.WarehouseCountry, &p.AmazonShipmentID, &p.AdminNote,
			&p.ConfirmedAt, &confirmedBy, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prep request: %w", err)
		}
		if confirmedBy != nil {
			p.ConfirmedBy = *confirmedBy
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PrepRequestRepo) Update(p *entity.PrepRequest) error {
	query := `
		UPDATE prep_requests
		SET status = $2, destination_country = $3, warehouse_country = $4,
		    amazon_shipment_id = $5, admin_note = $6, confirmed_at = $7,
		    confirmed_by = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.Status, p.DestinationCountry, p.WarehouseCountry,
		p.AmazonShipmentID, p.AdminNote, p.ConfirmedAt, nullableString(p.ConfirmedBy),
	)
	if err != nil {
		return fmt.Errorf("update prep request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PrepRequestItemRepo forwarding-request line adapter.
type PrepRequestItemRepo struct {
	q Querier
}

func NewPrepRequestItemRepository(q Querier) *PrepRequestItemRepo {
	return &PrepRequestItemRepo{q: q}
}

const prepItemColumns = `id, prep_request_id, receiving_item_id, stock_item_id, product_name, asin, sku, qty_requested, qty_sent, admin_note, created_at, updated_at`

func scanPrepItem(row pgx.Row) (*entity.PrepRequestItem, error) {
	var it entity.PrepRequestItem
	var receivingItemID, stockItemID *string
	err := row.Scan(
		&it.ID, &it.RequestID, &receivingItemID, &stockItemID,
		&it.ProductName, &it.ASIN, &it.SKU,
		&it.QtyRequested, &it.QtySent, &it.AdminNote,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan prep request item: %w", err)
	}
	if receivingItemID != nil {
		it.ReceivingItemID = *receivingItemID
	}
	if stockItemID != nil {
		it.StockItemID = *stockItemID
	}
	return &it, nil
}

func (r *PrepRequestItemRepo) Create(it *entity.PrepRequestItem) error {
	query := `
		INSERT INTO prep_request_items (` + prepItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.RequestID, nullableString(it.ReceivingItemID), nullableString(it.StockItemID),
		it.ProductName, it.ASIN, it.SKU,
		it.QtyRequested, it.QtySent, it.AdminNote,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create prep request item: %w", err)
	}
	return nil
}

func (r *PrepRequestItemRepo) GetByID(id string) (*entity.PrepRequestItem, error) {
	query := `SELECT ` + prepItemColumns + ` FROM prep_request_items WHERE id = $1`
	return scanPrepItem(r.q.QueryRow(context.Background(), query, id))
}

func (r *PrepRequestItemRepo) ListByRequest(prepRequestID string) ([]*entity.PrepRequestItem, error) {
	query := `
		SELECT ` + prepItemColumns + `
		FROM prep_request_items
		WHERE prep_request_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, prepRequestID)
	if err != nil {
		return nil, fmt.Errorf("list prep request items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrepRequestItem
	for rows.Next() {
		var it entity.PrepRequestItem
		var receivingItemID, stockItemID *string
		if err := rows.Scan(
			&it.ID, &it.RequestID, &receivingItemID, &stockItemID,
			&it.ProductName, &it.ASIN, &it.SKU,
			&it.QtyRequested, &it.QtySent, &it.AdminNote,
			&it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prep request item: %w", err)
		}
		if receivingItemID != nil {
			it.ReceivingItemID = *receivingItemID
		}
		if stockItemID != nil {
			it.StockItemID = *stockItemID
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *PrepRequestItemRepo) Update(it *entity.PrepRequestItem) error {
	query := `
		UPDATE prep_request_items
		SET asin = $2, sku = $3, qty_requested = $4, qty_sent = $5,
		    admin_note = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		it.ID, it.ASIN, it.SKU, it.QtyRequested, it.QtySent, it.AdminNote,
	)
	if err != nil {
		return fmt.Errorf("update prep request item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PrepRequestTrackingRepo outbound tracking numbers for confirmed requests.
type PrepRequestTrackingRepo struct {
	q Querier
}

func NewPrepRequestTrackingRepository(q Querier) *PrepRequestTrackingRepo {
	return &PrepRequestTrackingRepo{q: q}
}

func (r *PrepRequestTrackingRepo) Create(t *entity.PrepRequestTracking) error {
	query := `
		INSERT INTO prep_request_trackings (id, prep_request_id, carrier, number, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, t.ID, t.RequestID, t.Carrier, t.Number, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create prep request tracking: %w", err)
	}
	return nil
}

func (r *PrepRequestTrackingRepo) ListByRequest(prepRequestID string) ([]*entity.PrepRequestTracking, error) {
	query := `
		SELECT id, prep_request_id, carrier, number, created_at
		FROM prep_request_trackings
		WHERE prep_request_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, prepRequestID)
	if err != nil {
		return nil, fmt.Errorf("list prep request trackings: %w", err)
	}
	defer rows.Close()
	var list []*entity.PrepRequestTracking
	for rows.Next() {
		var t entity.PrepRequestTracking
		if err := rows.Scan(&t.ID, &t.RequestID, &t.Carrier, &t.Number, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prep request tracking: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *PrepRequestTrackingRepo) Delete(requestID, id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM prep_request_trackings WHERE request_id = $1 AND id = $2`, requestID, id)
	if err != nil {
		return fmt.Errorf("delete prep request tracking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
