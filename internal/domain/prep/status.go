package prep

import "github.com/Adrian140/prep-center-api/internal/domain/entity"

// DeriveShipmentStatus recomputes a shipment's status from its lines'
// confirmed quantities. Terminal states (processed, cancelled) are sticky:
// once set, derivation returns them unchanged. The function is idempotent.
//
// Rules for non-terminal shipments:
//   - no lines, or every line confirmed 0      -> submitted
//   - some confirmed but not every line full   -> partial
//   - every line full (confirmed >= expected)  -> processed
func DeriveShipmentStatus(current string, items []*entity.ReceivingItem) string {
	if current == entity.ReceivingStatusProcessed || current == entity.ReceivingStatusCancelled {
		return current
	}
	if len(items) == 0 {
		return entity.ReceivingStatusSubmitted
	}

	anyConfirmed := false
	allFull := true
	for _, it := range items {
		if it.ConfirmedQty > 0 {
			anyConfirmed = true
		}
		if !it.FullyConfirmed() {
			allFull = false
		}
	}
	switch {
	case !anyConfirmed:
		return entity.ReceivingStatusSubmitted
	case allFull:
		return entity.ReceivingStatusProcessed
	default:
		return entity.ReceivingStatusPartial
	}
}
