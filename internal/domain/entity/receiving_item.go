package entity

import "time"

// ReceivingItem is one line of a ReceivingShipment.
//
// Forwarding intent is stored twice: the explicit pair (ForwardToAmazon,
// ForwardQty) and the legacy encoded string RemainingAction
// ("hold_for_prep" | "direct_to_amazon[:n]"). Rows written before the
// explicit fields existed only carry the string; every mutation going
// forward writes both so new reads never need the fallback.
type ReceivingItem struct {
	ID              string
	ShipmentID      string
	EAN             string
	ASIN            string
	SKU             string
	ProductName     string
	ExpectedQty     int
	ConfirmedQty    int // admin-entered, 0..ExpectedQty
	ForwardToAmazon *bool
	ForwardQty      int
	RemainingAction string // legacy encoded intent, kept in sync on writes
	StockItemID     string // resolved stock record, set on first confirmation
	InPrepRequest   bool   // already included in a forwarding request
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullyConfirmed reports whether the line has been counted in completely.
func (i *ReceivingItem) FullyConfirmed() bool {
	return i.ExpectedQty > 0 && i.ConfirmedQty >= i.ExpectedQty
}

// HasIdentifier reports whether at least one product identifier is present.
func (i *ReceivingItem) HasIdentifier() bool {
	return i.EAN != "" || i.ASIN != "" || i.SKU != ""
}
