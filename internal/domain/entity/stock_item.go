package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem is a product held in local stock for one company.
//
// Quantity is a materialized cache: the append-only movement ledger is
// authoritative and Quantity must always equal the sum of its deltas.
// MarketQuantities optionally breaks the total down per destination market
// (e.g. "DE" -> 30, "FR" -> 12).
type StockItem struct {
	ID               string
	CompanyID        string
	EAN              string
	ASIN             string
	SKU              string
	Name             string
	Quantity         int
	MarketQuantities map[string]int
	PurchasePrice    decimal.Decimal
	Removed          bool // soft-remove; rows with ledger history are never deleted
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
