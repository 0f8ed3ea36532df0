package prep

import (
	"context"

	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// TxRunner executes a function inside a DB transaction, passing repositories
// bound to that tx. Confirmation persists item edits, the status flip and the
// stock subtraction as one unit.
type TxRunner interface {
	RunPrep(ctx context.Context, fn func(
		requests repository.PrepRequestRepository,
		requestItems repository.PrepRequestItemRepository,
		shipments repository.ReceivingShipmentRepository,
		receivingItems repository.ReceivingItemRepository,
		stockItems repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error) error
}

// Notifier dispatches the confirmation notification to the client. Called
// after the transaction commits; a failure is reported as a warning, never
// rolled back into the confirmation.
type Notifier interface {
	PrepRequestConfirmed(ctx context.Context, request *entity.PrepRequest, items []*entity.PrepRequestItem) error
}
