package stockledger

import (
	"context"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// StockQueryUseCase read side and detail edits for stock records; uses
// pool-bound repositories, no transaction needed.
type StockQueryUseCase struct {
	items     repository.StockItemRepository
	movements repository.StockMovementRepository
}

// NewStockQueryUseCase builds the use case.
func NewStockQueryUseCase(items repository.StockItemRepository, movements repository.StockMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{items: items, movements: movements}
}

// List returns a company's stock records.
func (uc *StockQueryUseCase) List(_ context.Context, actor dto.Actor, companyID string, includeRemoved bool, limit, offset int) ([]*entity.StockItem, error) {
	if !actor.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	return uc.items.ListByCompany(companyID, includeRemoved, limit, offset)
}

// Movements returns the ledger of one stock record, newest first.
func (uc *StockQueryUseCase) Movements(_ context.Context, actor dto.Actor, stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	item, err := uc.items.GetByID(stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(item.CompanyID) {
		return nil, domain.ErrForbidden
	}
	return uc.movements.ListByStockItem(stockItemID, limit, offset)
}

// UpdateDetails edits name, purchase price and the soft-remove flag.
// Quantities are never writable here; only the ledger moves them.
func (uc *StockQueryUseCase) UpdateDetails(_ context.Context, actor dto.Actor, stockItemID string, in dto.UpdateStockItemRequest) (*entity.StockItem, error) {
	item, err := uc.items.GetByID(stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(item.CompanyID) {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.PurchasePrice = *in.PurchasePrice
	}
	if in.Removed != nil {
		item.Removed = *in.Removed
	}
	if err := uc.items.UpdateDetails(item); err != nil {
		return nil, err
	}
	return item, nil
}
