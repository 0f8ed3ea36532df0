package entity

import "time"

// Lifecycle states of an inbound shipment announced by a client.
// Processed and cancelled are terminal: once set, automatic derivation
// never touches the status again.
const (
	ReceivingStatusDraft     = "draft"
	ReceivingStatusSubmitted = "submitted"
	ReceivingStatusPartial   = "partial"
	ReceivingStatusReceived  = "received" // legacy/manual only; never derived
	ReceivingStatusProcessed = "processed"
	ReceivingStatusCancelled = "cancelled"
)

// Forwarding mode declared on the shipment as a whole.
const (
	ForwardModeNone    = "none"    // everything stays in local stock
	ForwardModeFull    = "full"    // everything goes on to Amazon
	ForwardModePartial = "partial" // split decided per line
)

// ReceivingShipment is an inbound parcel announced by a client and counted
// in by an admin, line by line.
type ReceivingShipment struct {
	ID              string
	CompanyID       string
	CreatedBy       string
	Carrier         string
	TrackingNumbers []string
	ShipmentIDs     []string // destination shipment identifiers (e.g. FBA shipment ids)
	Notes           string
	ForwardMode     string // none, full, partial
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal reports whether the shipment status blocks further mutation.
func (s *ReceivingShipment) IsTerminal() bool {
	return s.Status == ReceivingStatusProcessed || s.Status == ReceivingStatusCancelled
}
