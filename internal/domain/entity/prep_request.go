package entity

import "time"

// Lifecycle states of a prep (forwarding) request. Pending is the only
// non-terminal state: pending -> confirmed or pending -> cancelled.
const (
	PrepStatusPending   = "pending"
	PrepStatusConfirmed = "confirmed"
	PrepStatusCancelled = "cancelled"
)

// PrepRequest is a batch fulfillment order aggregating units destined for
// Amazon, created from receiving lines or directly by a client.
type PrepRequest struct {
	ID                 string
	CompanyID          string
	CreatedBy          string
	DestinationCountry string
	WarehouseCountry   string
	Status             string
	AmazonShipmentID   string // externally assigned, optional
	AdminNote          string
	ConfirmedAt        *time.Time
	ConfirmedBy        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PrepRequestItem is one line of a PrepRequest. Product identifiers are
// snapshotted at creation time so later StockItem edits don't rewrite
// history.
type PrepRequestItem struct {
	ID              string
	RequestID       string
	ReceivingItemID string // source receiving line when aggregated; empty for direct orders
	StockItemID     string
	ASIN            string
	SKU             string
	ProductName     string
	QtyRequested    int
	QtySent         int    // 0..QtyRequested
	AdminNote       string // shortfall explanation
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasIdentifier reports whether the line carries a resolvable identifier.
func (i *PrepRequestItem) HasIdentifier() bool {
	return i.ASIN != "" || i.SKU != ""
}

// PrepRequestTracking is a carrier tracking number attached to a confirmed
// request. Kept in insertion order for display.
type PrepRequestTracking struct {
	ID        string
	RequestID string
	Carrier   string
	Number    string
	CreatedAt time.Time
}
