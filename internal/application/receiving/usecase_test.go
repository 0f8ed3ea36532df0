package receiving_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/receiving"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// ── In-memory fakes ──

type memShipments struct {
	byID map[string]*entity.ReceivingShipment
}

func (m *memShipments) Create(s *entity.ReceivingShipment) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memShipments) GetByID(id string) (*entity.ReceivingShipment, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memShipments) ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingShipment, error) {
	var out []*entity.ReceivingShipment
	for _, s := range m.byID {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memShipments) Update(s *entity.ReceivingShipment) error {
	if _, ok := m.byID[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memShipments) UpdateStatus(id, status string) error {
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

type memReceivingItems struct {
	byID map[string]*entity.ReceivingItem
}

func (m *memReceivingItems) Create(it *entity.ReceivingItem) error {
	cp := *it
	m.byID[it.ID] = &cp
	return nil
}

func (m *memReceivingItems) GetByID(id string) (*entity.ReceivingItem, error) {
	it, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (m *memReceivingItems) ListByShipment(shipmentID string) ([]*entity.ReceivingItem, error) {
	var out []*entity.ReceivingItem
	for _, it := range m.byID {
		if it.ShipmentID == shipmentID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memReceivingItems) Update(it *entity.ReceivingItem) error {
	if _, ok := m.byID[it.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *it
	m.byID[it.ID] = &cp
	return nil
}

func (m *memReceivingItems) MarkInPrepRequest(ids []string) error {
	for _, id := range ids {
		if it, ok := m.byID[id]; ok {
			it.InPrepRequest = true
		}
	}
	return nil
}

type memStockItems struct {
	byID map[string]*entity.StockItem
}

func (m *memStockItems) Create(item *entity.StockItem) error {
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

func (m *memStockItems) GetForUpdate(id string) (*entity.StockItem, error) { return m.GetByID(id) }

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

func (m *memStockItems) ListByCompany(string, bool, int, int) ([]*entity.StockItem, error) {
	return nil, nil
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

func (m *memStockItems) UpdateDetails(*entity.StockItem) error { return nil }

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
	shipments *memShipments
	items     *memReceivingItems
	stock     *memStockItems
	movements *memMovements
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.StockItemRepository, repository.StockMovementRepository) error) error {
	return fn(f.stock, f.movements)
}

func (f *fakeTxRunner) RunReceiving(_ context.Context, fn func(
	repository.ReceivingShipmentRepository,
	repository.ReceivingItemRepository,
	repository.StockItemRepository,
	repository.StockMovementRepository,
) error) error {
	return fn(f.shipments, f.items, f.stock, f.movements)
}

type fixture struct {
	uc        *receiving.ReceivingUseCase
	shipments *memShipments
	items     *memReceivingItems
	stock     *memStockItems
	movements *memMovements
}

func newFixture() *fixture {
	f := &fixture{
		shipments: &memShipments{byID: map[string]*entity.ReceivingShipment{}},
		items:     &memReceivingItems{byID: map[string]*entity.ReceivingItem{}},
		stock:     &memStockItems{byID: map[string]*entity.StockItem{}},
		movements: &memMovements{},
	}
	runner := &fakeTxRunner{shipments: f.shipments, items: f.items, stock: f.stock, movements: f.movements}
	adjuster := stockledger.NewAdjustStockUseCase(runner)
	f.uc = receiving.NewReceivingUseCase(runner, f.shipments, f.items, adjuster)
	return f
}

var (
	clientActor = dto.Actor{UserID: "user-1", CompanyID: "company-1"}
	adminActor  = dto.Actor{UserID: "admin-1", CompanyID: "prep-center", Admin: true}
)

func announceOne(t *testing.T, f *fixture, mode string, item dto.AnnounceItemRequest) *dto.ShipmentResponse {
	t.Helper()
	resp, err := f.uc.Announce(context.Background(), clientActor, dto.AnnounceShipmentRequest{
		Carrier:         "DHL",
		TrackingNumbers: []string{"JD014600003928"},
		ForwardMode:     mode,
		Items:           []dto.AnnounceItemRequest{item},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	return resp
}

// ── Tests ──

func TestAnnounce_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Announce(ctx, clientActor, dto.AnnounceShipmentRequest{ForwardMode: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Announce(ctx, clientActor, dto.AnnounceShipmentRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no lines")

	_, err = f.uc.Announce(ctx, clientActor, dto.AnnounceShipmentRequest{
		Items: []dto.AnnounceItemRequest{{EAN: "1", ExpectedQty: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Announce(ctx, clientActor, dto.AnnounceShipmentRequest{
		Items: []dto.AnnounceItemRequest{{ExpectedQty: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrMissingIdentifier)
}

func TestAnnounce_FullModeForwardsWholeExpected(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeFull, dto.AnnounceItemRequest{
		EAN: "4006381333931", ExpectedQty: 20,
	})
	assert.Equal(t, entity.ReceivingStatusSubmitted, resp.Status)
	assert.True(t, resp.Items[0].ForwardToAmazon)
	assert.Equal(t, 20, resp.Items[0].ForwardQty)

	// Both representations are written on the stored line.
	stored := f.items.byID[resp.Items[0].ID]
	require.NotNil(t, stored.ForwardToAmazon)
	assert.True(t, *stored.ForwardToAmazon)
	assert.Equal(t, "direct_to_amazon:20", stored.RemainingAction)
}

func TestAnnounce_NoneModeIgnoresLineIntent(t *testing.T) {
	f := newFixture()
	fwd := true
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{
		EAN: "1", ExpectedQty: 10, ForwardToAmazon: &fwd, ForwardQty: 5,
	})
	assert.False(t, resp.Items[0].ForwardToAmazon)
	assert.Equal(t, "hold_for_prep", f.items.byID[resp.Items[0].ID].RemainingAction)
}

// A draft shipment keeps its status until an admin counts a line; from then
// on the normal derivation takes over.
func TestAnnounce_DraftMovesThroughDerivationOnFirstCount(t *testing.T) {
	f := newFixture()
	resp, err := f.uc.Announce(context.Background(), clientActor, dto.AnnounceShipmentRequest{
		Carrier: "DHL",
		Draft:   true,
		Items:   []dto.AnnounceItemRequest{{EAN: "1", ExpectedQty: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusDraft, resp.Status)

	confirmed := 4
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, entity.ReceivingStatusPartial, updated.Status)
}

// Full inbound cycle: 20 expected, 8 earmarked for Amazon. Counting all 20
// in moves exactly 12 into stock and the shipment ends processed.
func TestUpdateItem_ConfirmSplitsBetweenStockAndForwarding(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModePartial, dto.AnnounceItemRequest{
		EAN: "4006381333931", ProductName: "Stabilo pens", ExpectedQty: 20, ForwardQty: 8,
	})

	confirmed := 20
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{
		ConfirmedQty: &confirmed,
	})
	require.NoError(t, err)

	line := updated.Items[0]
	assert.Equal(t, 20, line.ConfirmedQty)
	assert.Equal(t, 8, line.ForwardQty)
	assert.Equal(t, 12, line.ToStock)
	assert.Equal(t, entity.ReceivingStatusProcessed, updated.Status)

	// Exactly one ledger movement for the stock share; forwarded units never
	// enter stock.
	require.Len(t, f.movements.rows, 1)
	assert.Equal(t, 12, f.movements.rows[0].Delta)
	assert.Equal(t, resp.Items[0].ID, f.movements.rows[0].ReceivingItemID)

	stock := f.stock.byID[line.StockItemID]
	require.NotNil(t, stock)
	assert.Equal(t, 12, stock.Quantity)
	assert.Equal(t, "4006381333931", stock.EAN)
}

// Re-confirming with a different count only moves the ledger by the delta.
// A full count would flip the shipment to terminal processed, so both counts
// stay short of expected here.
func TestUpdateItem_ReconfirmMovesLedgerByDelta(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{
		EAN: "1", ExpectedQty: 12,
	})

	first := 10
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &first})
	require.NoError(t, err)
	stockID := updated.Items[0].StockItemID

	second := 7
	updated, err = f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &second})
	require.NoError(t, err)

	require.Len(t, f.movements.rows, 2)
	assert.Equal(t, 10, f.movements.rows[0].Delta)
	assert.Equal(t, -3, f.movements.rows[1].Delta)
	assert.Equal(t, 7, f.stock.byID[stockID].Quantity)
	assert.Equal(t, entity.ReceivingStatusPartial, updated.Status)
}

// A short count clamps the declared forwarding share to what arrived.
func TestUpdateItem_ShortCountClampsForwardShare(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModePartial, dto.AnnounceItemRequest{
		EAN: "1", ExpectedQty: 20, ForwardQty: 8,
	})

	confirmed := 5
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	require.NoError(t, err)

	line := updated.Items[0]
	assert.Equal(t, 0, line.ToStock, "all five units go to the forwarding share")
	assert.Empty(t, f.movements.rows, "nothing entered stock")
}

// Clearing the forwarding quantity on a forward-flagged line must release
// the held units to stock; the stale encoded string's hint may not
// resurrect the old quantity.
func TestUpdateItem_ClearingForwardQtyReleasesUnitsToStock(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModePartial, dto.AnnounceItemRequest{
		EAN: "1", ExpectedQty: 12, ForwardQty: 5,
	})

	confirmed := 10
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Items[0].ToStock)
	stockID := updated.Items[0].StockItemID

	cleared := 0
	updated, err = f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ForwardQty: &cleared})
	require.NoError(t, err)

	line := updated.Items[0]
	assert.Equal(t, 0, line.ForwardQty)
	assert.Equal(t, 10, line.ToStock)

	// The five released units produced a second ledger movement.
	require.Len(t, f.movements.rows, 2)
	assert.Equal(t, 5, f.movements.rows[0].Delta)
	assert.Equal(t, 5, f.movements.rows[1].Delta)
	assert.Equal(t, 10, f.stock.byID[stockID].Quantity)

	// The stored line carries the cleared quantity in both representations.
	stored := f.items.byID[line.ID]
	assert.Equal(t, 0, stored.ForwardQty)
	assert.Equal(t, "direct_to_amazon", stored.RemainingAction)
}

func TestUpdateItem_ConfirmAboveExpectedRejected(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10})

	over := 11
	_, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &over})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdateItem_ExplicitForwardQtyAboveConfirmedRejected(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModePartial, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10, ForwardQty: 2})

	confirmed := 4
	_, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	require.NoError(t, err)

	tooMany := 6
	_, err = f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ForwardQty: &tooMany})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// A line written by an older release carries only the string form; the
// resolver falls back to it and the split still works.
func TestUpdateItem_LegacyStringIntentHonored(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10})

	legacy := f.items.byID[resp.Items[0].ID]
	legacy.ForwardToAmazon = nil
	legacy.ForwardQty = 0
	legacy.RemainingAction = "direct_to_amazon:4"

	confirmed := 10
	updated, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	require.NoError(t, err)

	line := updated.Items[0]
	assert.True(t, line.ForwardToAmazon)
	assert.Equal(t, 4, line.ForwardQty)
	assert.Equal(t, 6, line.ToStock)

	// The mutation rewrote both representations.
	stored := f.items.byID[line.ID]
	require.NotNil(t, stored.ForwardToAmazon)
	assert.True(t, *stored.ForwardToAmazon)
	assert.Equal(t, "direct_to_amazon:4", stored.RemainingAction)
}

func TestUpdateItem_TerminalShipmentRejected(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10})
	require.NoError(t, f.uc.MarkCancelled(context.Background(), adminActor, resp.ID))

	confirmed := 5
	_, err := f.uc.UpdateItem(context.Background(), adminActor, resp.ID, resp.Items[0].ID, dto.UpdateReceivingItemRequest{ConfirmedQty: &confirmed})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestForceStatus_TerminalIsSticky(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10})

	require.NoError(t, f.uc.MarkProcessed(context.Background(), adminActor, resp.ID))
	err := f.uc.MarkCancelled(context.Background(), adminActor, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestGet_OtherCompanyForbidden(t *testing.T) {
	f := newFixture()
	resp := announceOne(t, f, entity.ForwardModeNone, dto.AnnounceItemRequest{EAN: "1", ExpectedQty: 10})

	stranger := dto.Actor{UserID: "u2", CompanyID: "company-2"}
	_, err := f.uc.Get(context.Background(), stranger, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := f.uc.Get(context.Background(), adminActor, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}
