package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/application/receiving"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// Ensure TxRunner implements every application-side transaction port.
var _ stockledger.TxRunner = (*TxRunner)(nil)
var _ receiving.TxRunner = (*TxRunner)(nil)
var _ prep.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner with the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run starts a transaction with stock repositories bound to it and commits
// or rolls back.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockItemRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunReceiving starts a transaction with receiving and stock repositories
// (line confirmation touches all four).
func (r *TxRunner) RunReceiving(ctx context.Context, fn func(
	shipments repository.ReceivingShipmentRepository,
	items repository.ReceivingItemRepository,
	stockItems repository.StockItemRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewReceivingShipmentRepository(tx),
		NewReceivingItemRepository(tx),
		NewStockItemRepository(tx),
		NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPrep starts a transaction with prep, receiving and stock repositories
// (creation marks source lines, confirmation draws stock down).
func (r *TxRunner) RunPrep(ctx context.Context, fn func(
	requests repository.PrepRequestRepository,
	requestItems repository.PrepRequestItemRepository,
	shipments repository.ReceivingShipmentRepository,
	receivingItems repository.ReceivingItemRepository,
	stockItems repository.StockItemRepository,
	movements repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewPrepRequestRepository(tx),
		NewPrepRequestItemRepository(tx),
		NewReceivingShipmentRepository(tx),
		NewReceivingItemRepository(tx),
		NewStockItemRepository(tx),
		NewStockMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
