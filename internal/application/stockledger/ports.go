package stockledger

import (
	"context"

	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// TxRunner executes a function inside a DB transaction, passing repositories
// bound to that tx. Guarantees the movement row and the materialized quantity
// are written atomically.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error) error
}
