package stockledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// AdjustStockUseCase applies signed quantity deltas to stock records.
//
// Every adjustment writes exactly one ledger movement and updates the
// materialized quantity in the same transaction; the ledger stays the
// authoritative source so quantity can always be recomputed from it.
// Missing stock records are lazily created from whichever identifiers the
// caller supplies (EAN exact, then ASIN, then SKU, case-insensitive).
type AdjustStockUseCase struct {
	txRunner TxRunner
}

// NewAdjustStockUseCase builds the use case.
func NewAdjustStockUseCase(txRunner TxRunner) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner}
}

// AdjustInput one signed adjustment against a stock record.
type AdjustInput struct {
	CompanyID       string
	ActorID         string
	StockItemID     string // optional: skip resolution and use this record
	EAN             string
	ASIN            string
	SKU             string
	ProductName     string
	Delta           int
	Market          string // optional destination-market bucket
	Note            string
	ReceivingItemID string // originating receiving line, if any
}

// Adjust runs one adjustment in its own transaction.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, input AdjustInput) (*entity.StockItem, error) {
	if input.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.StockItem
	err := uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error {
		item, err := uc.AdjustInTx(items, movements, input)
		if err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustInTx applies the adjustment using repositories already bound to the
// caller's transaction. Receiving confirmation and prep confirmation call
// this so their ledger writes commit or roll back with the rest of their
// mutation.
func (uc *AdjustStockUseCase) AdjustInTx(
	items repository.StockItemRepository,
	movements repository.StockMovementRepository,
	input AdjustInput,
) (*entity.StockItem, error) {
	item, err := uc.resolveForUpdate(items, input)
	if err != nil {
		return nil, err
	}

	newQty := item.Quantity + input.Delta
	if newQty < 0 {
		return nil, domain.ErrInsufficientStock
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		StockItemID:     item.ID,
		ReceivingItemID: input.ReceivingItemID,
		Delta:           input.Delta,
		Market:          input.Market,
		Note:            input.Note,
		CreatedBy:       input.ActorID,
		CreatedAt:       now,
	}
	if err := movements.Create(mov); err != nil {
		return nil, err
	}

	item.Quantity = newQty
	if input.Market != "" {
		if item.MarketQuantities == nil {
			item.MarketQuantities = map[string]int{}
		}
		// Per-market buckets are a display-level breakdown; they floor at
		// zero instead of failing when history predates market tagging.
		m := item.MarketQuantities[input.Market] + input.Delta
		if m < 0 {
			m = 0
		}
		item.MarketQuantities[input.Market] = m
	}
	item.UpdatedAt = now
	if err := items.UpdateQuantity(item.ID, item.Quantity, item.MarketQuantities); err != nil {
		return nil, err
	}
	return item, nil
}

// resolveForUpdate finds the stock record to adjust and locks it.
// Resolution order: explicit ID, EAN exact, ASIN, SKU (case-insensitive),
// then lazy create. A create that loses a duplicate-key race re-resolves
// and returns the winner instead of failing.
func (uc *AdjustStockUseCase) resolveForUpdate(
	items repository.StockItemRepository,
	input AdjustInput,
) (*entity.StockItem, error) {
	if input.StockItemID != "" {
		item, err := items.GetForUpdate(input.StockItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		if item.CompanyID != input.CompanyID {
			return nil, domain.ErrForbidden
		}
		return item, nil
	}

	if input.EAN == "" && input.ASIN == "" && input.SKU == "" {
		return nil, domain.ErrMissingIdentifier
	}

	item, err := uc.findByIdentifiers(items, input)
	if err != nil {
		return nil, err
	}
	if item != nil {
		return items.GetForUpdate(item.ID)
	}

	fresh := &entity.StockItem{
		ID:            uuid.New().String(),
		CompanyID:     input.CompanyID,
		EAN:           input.EAN,
		ASIN:          strings.ToUpper(input.ASIN),
		SKU:           input.SKU,
		Name:          input.ProductName,
		Quantity:      0,
		PurchasePrice: decimal.Zero,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := items.Create(fresh); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Concurrent create: another request inserted the same
			// identifier first. Re-resolve and adopt the winner.
			winner, ferr := uc.findByIdentifiers(items, input)
			if ferr != nil {
				return nil, ferr
			}
			if winner == nil {
				return nil, err
			}
			return items.GetForUpdate(winner.ID)
		}
		return nil, err
	}
	return fresh, nil
}

func (uc *AdjustStockUseCase) findByIdentifiers(
	items repository.StockItemRepository,
	input AdjustInput,
) (*entity.StockItem, error) {
	if input.EAN != "" {
		item, err := items.FindByEAN(input.CompanyID, input.EAN)
		if err != nil || item != nil {
			return item, err
		}
	}
	if input.ASIN != "" {
		item, err := items.FindByASIN(input.CompanyID, input.ASIN)
		if err != nil || item != nil {
			return item, err
		}
	}
	if input.SKU != "" {
		item, err := items.FindBySKU(input.CompanyID, input.SKU)
		if err != nil || item != nil {
			return item, err
		}
	}
	return nil, nil
}

// Recompute re-sums the ledger for a stock record and reports drift of the
// materialized quantity; with repair it also rewrites the field to the
// ledger value. The ledger is authoritative.
func (uc *AdjustStockUseCase) Recompute(ctx context.Context, actor dto.Actor, stockItemID string, repair bool) (*dto.RecomputeStockResponse, error) {
	var out *dto.RecomputeStockResponse
	err := uc.txRunner.Run(ctx, func(
		items repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error {
		item, err := items.GetForUpdate(stockItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if !actor.CanAccess(item.CompanyID) {
			return domain.ErrForbidden
		}
		ledgerQty, err := movements.SumDeltas(item.ID)
		if err != nil {
			return err
		}
		resp := &dto.RecomputeStockResponse{
			StockItemID: item.ID,
			LedgerQty:   ledgerQty,
			StoredQty:   item.Quantity,
			Drift:       item.Quantity - ledgerQty,
		}
		if repair && resp.Drift != 0 {
			if err := items.UpdateQuantity(item.ID, ledgerQty, item.MarketQuantities); err != nil {
				return err
			}
			resp.Repaired = true
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
