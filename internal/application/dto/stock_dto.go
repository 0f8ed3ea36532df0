package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustStockRequest body for POST /api/stock/adjust. Either StockItemID or
// at least one identifier (EAN/ASIN/SKU) must be present; a missing record
// is lazily created from the identifiers.
type AdjustStockRequest struct {
	StockItemID string `json:"stock_item_id,omitempty"`
	EAN         string `json:"ean,omitempty"`
	ASIN        string `json:"asin,omitempty"`
	SKU         string `json:"sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Delta       int    `json:"delta"`
	Market      string `json:"market,omitempty"`
	Note        string `json:"note,omitempty"`
}

// UpdateStockItemRequest body for PUT /api/stock/:id. Nil = unchanged.
type UpdateStockItemRequest struct {
	Name          *string          `json:"name,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	Removed       *bool            `json:"removed,omitempty"`
}

// StockItemResponse stock record in responses.
type StockItemResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	EAN              string          `json:"ean,omitempty"`
	ASIN             string          `json:"asin,omitempty"`
	SKU              string          `json:"sku,omitempty"`
	Name             string          `json:"name,omitempty"`
	Quantity         int             `json:"quantity"`
	MarketQuantities map[string]int  `json:"market_quantities,omitempty"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	Removed          bool            `json:"removed,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// StockMovementResponse ledger entry in responses.
type StockMovementResponse struct {
	ID              string    `json:"id"`
	StockItemID     string    `json:"stock_item_id"`
	ReceivingItemID string    `json:"receiving_item_id,omitempty"`
	Delta           int       `json:"delta"`
	Market          string    `json:"market,omitempty"`
	Note            string    `json:"note,omitempty"`
	CreatedBy       string    `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecomputeStockResponse result of POST /api/stock/:id/recompute: the
// ledger-derived quantity versus the materialized field.
type RecomputeStockResponse struct {
	StockItemID string `json:"stock_item_id"`
	LedgerQty   int    `json:"ledger_qty"`
	StoredQty   int    `json:"stored_qty"`
	Drift       int    `json:"drift"`
	Repaired    bool   `json:"repaired"`
}
