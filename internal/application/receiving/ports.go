package receiving

import (
	"context"

	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// TxRunner executes a function inside a DB transaction, passing repositories
// bound to that tx. Line confirmation mutates the line, the stock ledger and
// the shipment status together, so all of it commits or rolls back as one.
type TxRunner interface {
	RunReceiving(ctx context.Context, fn func(
		shipments repository.ReceivingShipmentRepository,
		items repository.ReceivingItemRepository,
		stockItems repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error) error
}
