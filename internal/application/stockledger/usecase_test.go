package stockledger_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// ── In-memory fakes ──

type memStockItems struct {
	byID map[string]*entity.StockItem
	// when set, the first Create fails with ErrDuplicate after registering
	// the winner, simulating a lost insert race
	duplicateOnce *entity.StockItem
}

func newMemStockItems() *memStockItems {
	return &memStockItems{byID: map[string]*entity.StockItem{}}
}

func (m *memStockItems) Create(item *entity.StockItem) error {
	if m.duplicateOnce != nil {
		winner := m.duplicateOnce
		m.duplicateOnce = nil
		m.byID[winner.ID] = winner
		return domain.ErrDuplicate
	}
	cp := *item
	m.byID[item.ID] = &cp
	return nil
}

func (m *memStockItems) GetByID(id string) (*entity.StockItem, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (m *memStockItems) GetForUpdate(id string) (*entity.StockItem, error) {
	return m.GetByID(id)
}

func (m *memStockItems) FindByEAN(companyID, ean string) (*entity.StockItem, error) {
	for _, it := range m.byID {
		if it.CompanyID == companyID && it.EAN == ean {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStockItems) FindByASIN(companyID, asin string) (*entity.StockItem, error) {
	for _, it := range m.byID {
		if it.CompanyID == companyID && strings.EqualFold(it.ASIN, asin) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStockItems) FindBySKU(companyID, sku string) (*entity.StockItem, error) {
	for _, it := range m.byID {
		if it.CompanyID == companyID && strings.EqualFold(it.SKU, sku) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStockItems) ListByCompany(companyID string, includeRemoved bool, limit, offset int) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range m.byID {
		if it.CompanyID == companyID && (includeRemoved || !it.Removed) {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStockItems) UpdateQuantity(id string, quantity int, markets map[string]int) error {
	it, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Quantity = quantity
	it.MarketQuantities = markets
	return nil
}

func (m *memStockItems) UpdateDetails(item *entity.StockItem) error {
	it, ok := m.byID[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	it.Name = item.Name
	it.PurchasePrice = item.PurchasePrice
	it.Removed = item.Removed
	return nil
}

type memMovements struct {
	rows []*entity.StockMovement
}

func (m *memMovements) Create(mov *entity.StockMovement) error {
	cp := *mov
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memMovements) ListByStockItem(stockItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, mov := range m.rows {
		if mov.StockItemID == stockItemID {
			out = append(out, mov)
		}
	}
	return out, nil
}

func (m *memMovements) SumDeltas(stockItemID string) (int, error) {
	total := 0
	for _, mov := range m.rows {
		if mov.StockItemID == stockItemID {
			total += mov.Delta
		}
	}
	return total, nil
}

type fakeTxRunner struct {
	items     *memStockItems
	movements *memMovements
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.StockItemRepository, repository.StockMovementRepository) error) error {
	return fn(f.items, f.movements)
}

func newFixture() (*stockledger.AdjustStockUseCase, *memStockItems, *memMovements) {
	items := newMemStockItems()
	movements := &memMovements{}
	uc := stockledger.NewAdjustStockUseCase(&fakeTxRunner{items: items, movements: movements})
	return uc, items, movements
}

const testCompany = "company-1"

var adminActor = dto.Actor{UserID: "admin-1", CompanyID: "prep-center", Admin: true}

// ── Tests ──

func TestAdjust_CreatesItemLazilyAndWritesLedger(t *testing.T) {
	uc, items, movements := newFixture()

	item, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID:   testCompany,
		ActorID:     "admin-1",
		EAN:         "4006381333931",
		ProductName: "Stabilo pens",
		Delta:       12,
	})
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 12, item.Quantity)

	stored, _ := items.GetByID(item.ID)
	require.NotNil(t, stored)
	assert.Equal(t, 12, stored.Quantity)

	require.Len(t, movements.rows, 1)
	assert.Equal(t, 12, movements.rows[0].Delta)
	assert.Equal(t, item.ID, movements.rows[0].StockItemID)
	assert.Equal(t, "admin-1", movements.rows[0].CreatedBy)
}

// Every adjustment leaves quantity equal to the ledger sum.
func TestAdjust_QuantityAlwaysEqualsLedgerSum(t *testing.T) {
	uc, items, movements := newFixture()

	deltas := []int{10, -3, 7, -1, -13}
	var itemID string
	for _, d := range deltas {
		item, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
			CompanyID: testCompany,
			ASIN:      "B00EXAMPLE",
			Delta:     d,
		})
		require.NoError(t, err)
		itemID = item.ID
	}

	stored, _ := items.GetByID(itemID)
	sum, _ := movements.SumDeltas(itemID)
	assert.Equal(t, sum, stored.Quantity)
	assert.Equal(t, 0, stored.Quantity)
	assert.Len(t, movements.rows, len(deltas))
}

func TestAdjust_ZeroDeltaRejected(t *testing.T) {
	uc, _, movements := newFixture()

	_, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		EAN:       "123",
		Delta:     0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, movements.rows)
}

func TestAdjust_NegativeBelowZeroRejected(t *testing.T) {
	uc, _, movements := newFixture()

	_, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		SKU:       "SKU-1",
		Delta:     -5,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, movements.rows, "failed adjustment must not write a ledger row")
}

func TestAdjust_MissingIdentifierRejected(t *testing.T) {
	uc, _, _ := newFixture()

	_, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		Delta:     5,
	})
	assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
}

func TestAdjust_ResolvesCaseInsensitiveASIN(t *testing.T) {
	uc, items, _ := newFixture()

	first, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		ASIN:      "b00abcdef",
		Delta:     3,
	})
	require.NoError(t, err)

	second, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		ASIN:      "B00ABCDEF",
		Delta:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same ASIN in different case must hit the same record")
	assert.Len(t, items.byID, 1)
	assert.Equal(t, 5, second.Quantity)
}

func TestAdjust_ExplicitIDFromOtherCompanyForbidden(t *testing.T) {
	uc, items, _ := newFixture()
	items.byID["theirs"] = &entity.StockItem{ID: "theirs", CompanyID: "company-2", Quantity: 10}

	_, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID:   testCompany,
		StockItemID: "theirs",
		Delta:       1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// A create losing a duplicate-key race re-resolves and adjusts the winner
// instead of failing.
func TestAdjust_DuplicateCreateRaceRecovered(t *testing.T) {
	uc, items, movements := newFixture()
	items.duplicateOnce = &entity.StockItem{
		ID:        "winner",
		CompanyID: testCompany,
		EAN:       "4006381333931",
		Quantity:  4,
	}

	item, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		EAN:       "4006381333931",
		Delta:     6,
	})
	require.NoError(t, err)
	assert.Equal(t, "winner", item.ID)
	assert.Equal(t, 10, item.Quantity)
	require.Len(t, movements.rows, 1)
	assert.Equal(t, "winner", movements.rows[0].StockItemID)
}

func TestAdjust_MarketBucketsFloorAtZero(t *testing.T) {
	uc, _, _ := newFixture()

	item, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		EAN:       "111",
		Delta:     10,
	})
	require.NoError(t, err)

	// The record holds 10 untagged units; a tagged subtraction may not push
	// the bucket negative.
	item, err = uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID:   testCompany,
		StockItemID: item.ID,
		Delta:       -4,
		Market:      "DE",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 0, item.MarketQuantities["DE"])
}

func TestRecompute_ReportsAndRepairsDrift(t *testing.T) {
	uc, items, movements := newFixture()

	item, err := uc.Adjust(context.Background(), stockledger.AdjustInput{
		CompanyID: testCompany,
		EAN:       "222",
		Delta:     8,
	})
	require.NoError(t, err)

	// Corrupt the materialized field behind the ledger's back.
	items.byID[item.ID].Quantity = 11

	out, err := uc.Recompute(context.Background(), adminActor, item.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 8, out.LedgerQty)
	assert.Equal(t, 11, out.StoredQty)
	assert.Equal(t, 3, out.Drift)
	assert.False(t, out.Repaired)

	out, err = uc.Recompute(context.Background(), adminActor, item.ID, true)
	require.NoError(t, err)
	assert.True(t, out.Repaired)

	stored, _ := items.GetByID(item.ID)
	sum, _ := movements.SumDeltas(item.ID)
	assert.Equal(t, sum, stored.Quantity)
}

func TestRecompute_OtherCompanyForbidden(t *testing.T) {
	uc, items, _ := newFixture()
	items.byID["x"] = &entity.StockItem{ID: "x", CompanyID: "company-2"}

	client := dto.Actor{UserID: "u", CompanyID: testCompany}
	_, err := uc.Recompute(context.Background(), client, "x", false)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
