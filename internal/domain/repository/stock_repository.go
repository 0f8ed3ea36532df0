package repository

import "github.com/Adrian140/prep-center-api/internal/domain/entity"

// StockItemRepository persistence port for stock records. Find* lookups are
// company-scoped; ASIN and SKU match case-insensitively.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	// GetForUpdate locks the row (SELECT FOR UPDATE) inside a transaction.
	GetForUpdate(id string) (*entity.StockItem, error)
	FindByEAN(companyID, ean string) (*entity.StockItem, error)
	FindByASIN(companyID, asin string) (*entity.StockItem, error)
	FindBySKU(companyID, sku string) (*entity.StockItem, error)
	ListByCompany(companyID string, includeRemoved bool, limit, offset int) ([]*entity.StockItem, error)
	// UpdateQuantity writes the materialized quantity fields; callers must
	// record the matching ledger movement in the same transaction.
	UpdateQuantity(id string, quantity int, markets map[string]int) error
	UpdateDetails(item *entity.StockItem) error
}

// StockMovementRepository persistence port for the append-only ledger.
// Entries are only ever created and read.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumDeltas recomputes the authoritative quantity from the ledger.
	SumDeltas(stockItemID string) (int, error)
}
