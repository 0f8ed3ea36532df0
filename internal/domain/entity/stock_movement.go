package entity

import "time"

// StockMovement is one entry of the append-only stock ledger. Entries are
// never updated or deleted; the current quantity of a StockItem is the sum
// of its deltas.
type StockMovement struct {
	ID              string
	StockItemID     string
	ReceivingItemID string // originating receiving line, empty for manual/prep movements
	Delta           int    // signed: positive for intake, negative for outbound
	Market          string // optional destination market the delta applies to
	Note            string
	CreatedBy       string // actor user ID
	CreatedAt       time.Time
}
