package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/prep"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// ReceivingUseCase handles the inbound flow: clients announce shipments,
// admins count units in line by line. Confirming a line splits the received
// units between local stock and Amazon forwarding, moves the stock ledger by
// the to-stock delta and recomputes the shipment status.
type ReceivingUseCase struct {
	txRunner  TxRunner
	shipments repository.ReceivingShipmentRepository
	items     repository.ReceivingItemRepository
	adjuster  *stockledger.AdjustStockUseCase
}

// NewReceivingUseCase builds the use case.
func NewReceivingUseCase(
	txRunner TxRunner,
	shipments repository.ReceivingShipmentRepository,
	items repository.ReceivingItemRepository,
	adjuster *stockledger.AdjustStockUseCase,
) *ReceivingUseCase {
	return &ReceivingUseCase{txRunner: txRunner, shipments: shipments, items: items, adjuster: adjuster}
}

// Announce creates a shipment with its declared lines. Every line needs a
// positive expected quantity and at least one of EAN/ASIN/SKU. With forward
// mode "full" every line defaults to forwarding its whole expected quantity;
// with "none" forwarding intent on lines is ignored.
func (uc *ReceivingUseCase) Announce(ctx context.Context, actor dto.Actor, in dto.AnnounceShipmentRequest) (*dto.ShipmentResponse, error) {
	mode := in.ForwardMode
	if mode == "" {
		mode = entity.ForwardModeNone
	}
	if mode != entity.ForwardModeNone && mode != entity.ForwardModeFull && mode != entity.ForwardModePartial {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// A draft is saved but not yet handed over; the first counted line
	// moves it through the normal derivation.
	status := entity.ReceivingStatusSubmitted
	if in.Draft {
		status = entity.ReceivingStatusDraft
	}

	now := time.Now()
	shipment := &entity.ReceivingShipment{
		ID:              uuid.New().String(),
		CompanyID:       actor.CompanyID,
		CreatedBy:       actor.UserID,
		Carrier:         in.Carrier,
		TrackingNumbers: in.TrackingNumbers,
		ShipmentIDs:     in.ShipmentIDs,
		Notes:           in.Notes,
		ForwardMode:     mode,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	lines := make([]*entity.ReceivingItem, 0, len(in.Items))
	for _, it := range in.Items {
		forward, forwardQty := declaredIntent(mode, it)
		lines = append(lines, &entity.ReceivingItem{
			ID:              uuid.New().String(),
			ShipmentID:      shipment.ID,
			EAN:             it.EAN,
			ASIN:            it.ASIN,
			SKU:             it.SKU,
			ProductName:     it.ProductName,
			ExpectedQty:     it.ExpectedQty,
			ForwardToAmazon: &forward,
			ForwardQty:      forwardQty,
			// Both representations written together on every mutation.
			RemainingAction: prep.EncodeForwardingIntent(forward, forwardQty),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	for _, line := range lines {
		if line.ExpectedQty <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if !line.HasIdentifier() {
			return nil, domain.ErrMissingIdentifier
		}
	}

	err := uc.txRunner.RunReceiving(ctx, func(
		shipments repository.ReceivingShipmentRepository,
		items repository.ReceivingItemRepository,
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
	) error {
		if err := shipments.Create(shipment); err != nil {
			return err
		}
		for _, line := range lines {
			if err := items.Create(line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(shipment, lines), nil
}

// declaredIntent applies the shipment-level forward mode to one declared line.
func declaredIntent(mode string, it dto.AnnounceItemRequest) (bool, int) {
	switch mode {
	case entity.ForwardModeNone:
		return false, 0
	case entity.ForwardModeFull:
		qty := it.ForwardQty
		if qty <= 0 || qty > it.ExpectedQty {
			qty = it.ExpectedQty
		}
		return true, qty
	default: // partial
		if it.ForwardToAmazon != nil && !*it.ForwardToAmazon {
			return false, 0
		}
		if it.ForwardToAmazon == nil && it.ForwardQty <= 0 {
			return false, 0
		}
		qty := it.ForwardQty
		if qty < 0 {
			qty = 0
		}
		return true, qty
	}
}

// UpdateItem confirms counted units and/or edits the forwarding intent on a
// line. Runs in one transaction: the line update, the ledger movement for
// the to-stock delta and the shipment status recomputation commit together.
func (uc *ReceivingUseCase) UpdateItem(ctx context.Context, actor dto.Actor, shipmentID, itemID string, in dto.UpdateReceivingItemRequest) (*dto.ShipmentResponse, error) {
	var (
		shipment *entity.ReceivingShipment
		lines    []*entity.ReceivingItem
	)
	err := uc.txRunner.RunReceiving(ctx, func(
		shipments repository.ReceivingShipmentRepository,
		items repository.ReceivingItemRepository,
		stockItems repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error {
		var err error
		shipment, err = shipments.GetByID(shipmentID)
		if err != nil {
			return err
		}
		if shipment == nil {
			return domain.ErrNotFound
		}
		if !actor.CanAccess(shipment.CompanyID) {
			return domain.ErrForbidden
		}
		if shipment.IsTerminal() {
			return domain.ErrInvalidStateTransition
		}

		item, err := items.GetByID(itemID)
		if err != nil {
			return err
		}
		if item == nil || item.ShipmentID != shipment.ID {
			return domain.ErrNotFound
		}

		// Split before the edit: the ledger only moves by the delta.
		oldIntent := prep.ResolveForwardingIntent(item.ForwardToAmazon, item.ForwardQty, item.RemainingAction)
		oldSplit := prep.SplitReceivedQuantity(item.ConfirmedQty, item.ExpectedQty, forwardShare(oldIntent))

		if in.ConfirmedQty != nil {
			if *in.ConfirmedQty < 0 || *in.ConfirmedQty > item.ExpectedQty {
				return domain.ErrInvalidQuantity
			}
			item.ConfirmedQty = *in.ConfirmedQty
		}
		if in.ForwardToAmazon != nil {
			item.ForwardToAmazon = in.ForwardToAmazon
		}
		if in.ForwardQty != nil {
			// An explicit forwarding edit may not exceed what has been
			// counted in; declared intent from before confirmation is
			// clamped by the split instead.
			if *in.ForwardQty < 0 || (item.ConfirmedQty > 0 && *in.ForwardQty > item.ConfirmedQty) {
				return domain.ErrInvalidQuantity
			}
			item.ForwardQty = *in.ForwardQty
		}
		if in.ProductName != "" {
			item.ProductName = in.ProductName
		}

		// An explicit quantity edit supersedes the legacy string; resolving
		// against the stale hint would resurrect the old quantity and
		// silently undo a clear-to-zero edit.
		action := item.RemainingAction
		if in.ForwardQty != nil {
			action = ""
		}
		newIntent := prep.ResolveForwardingIntent(item.ForwardToAmazon, item.ForwardQty, action)
		newSplit := prep.SplitReceivedQuantity(item.ConfirmedQty, item.ExpectedQty, forwardShare(newIntent))

		// Keep both intent representations in sync on every write.
		forward := newIntent.Forward
		item.ForwardToAmazon = &forward
		item.ForwardQty = newIntent.Quantity
		item.RemainingAction = prep.EncodeForwardingIntent(forward, newIntent.Quantity)
		item.UpdatedAt = time.Now()

		if delta := newSplit.ToStock - oldSplit.ToStock; delta != 0 {
			stock, err := uc.adjuster.AdjustInTx(stockItems, movements, stockledger.AdjustInput{
				CompanyID:       shipment.CompanyID,
				ActorID:         actor.UserID,
				StockItemID:     item.StockItemID,
				EAN:             item.EAN,
				ASIN:            item.ASIN,
				SKU:             item.SKU,
				ProductName:     item.ProductName,
				Delta:           delta,
				Note:            "receiving " + shipment.ID,
				ReceivingItemID: item.ID,
			})
			if err != nil {
				return err
			}
			item.StockItemID = stock.ID
		}

		if err := items.Update(item); err != nil {
			return err
		}

		lines, err = items.ListByShipment(shipment.ID)
		if err != nil {
			return err
		}
		if status := prep.DeriveShipmentStatus(shipment.Status, lines); status != shipment.Status {
			shipment.Status = status
			if err := shipments.UpdateStatus(shipment.ID, status); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(shipment, lines), nil
}

// forwardShare maps a resolved intent to its quantity contribution.
func forwardShare(in prep.Intent) int {
	if !in.Forward {
		return 0
	}
	return in.Quantity
}

// MarkProcessed forces the terminal processed status, regardless of line state.
func (uc *ReceivingUseCase) MarkProcessed(ctx context.Context, actor dto.Actor, shipmentID string) error {
	return uc.forceStatus(ctx, actor, shipmentID, entity.ReceivingStatusProcessed)
}

// MarkCancelled forces the terminal cancelled status.
func (uc *ReceivingUseCase) MarkCancelled(ctx context.Context, actor dto.Actor, shipmentID string) error {
	return uc.forceStatus(ctx, actor, shipmentID, entity.ReceivingStatusCancelled)
}

func (uc *ReceivingUseCase) forceStatus(_ context.Context, actor dto.Actor, shipmentID, status string) error {
	shipment, err := uc.shipments.GetByID(shipmentID)
	if err != nil {
		return err
	}
	if shipment == nil {
		return domain.ErrNotFound
	}
	if !actor.CanAccess(shipment.CompanyID) {
		return domain.ErrForbidden
	}
	if shipment.IsTerminal() {
		return domain.ErrInvalidStateTransition
	}
	return uc.shipments.UpdateStatus(shipmentID, status)
}

// Get returns one shipment with its lines.
func (uc *ReceivingUseCase) Get(_ context.Context, actor dto.Actor, shipmentID string) (*dto.ShipmentResponse, error) {
	shipment, err := uc.shipments.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(shipment.CompanyID) {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.items.ListByShipment(shipment.ID)
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(shipment, lines), nil
}

// List returns a company's shipments (without lines).
func (uc *ReceivingUseCase) List(_ context.Context, actor dto.Actor, companyID string, limit, offset int) ([]*dto.ShipmentResponse, error) {
	if companyID == "" {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	shipments, err := uc.shipments.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, toShipmentResponse(s, nil))
	}
	return out, nil
}

func toShipmentResponse(s *entity.ReceivingShipment, lines []*entity.ReceivingItem) *dto.ShipmentResponse {
	resp := &dto.ShipmentResponse{
		ID:              s.ID,
		CompanyID:       s.CompanyID,
		Carrier:         s.Carrier,
		TrackingNumbers: s.TrackingNumbers,
		ShipmentIDs:     s.ShipmentIDs,
		Notes:           s.Notes,
		ForwardMode:     s.ForwardMode,
		Status:          s.Status,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	for _, it := range lines {
		intent := prep.ResolveForwardingIntent(it.ForwardToAmazon, it.ForwardQty, it.RemainingAction)
		split := prep.SplitReceivedQuantity(it.ConfirmedQty, it.ExpectedQty, forwardShare(intent))
		resp.Items = append(resp.Items, dto.ReceivingItemResponse{
			ID:              it.ID,
			EAN:             it.EAN,
			ASIN:            it.ASIN,
			SKU:             it.SKU,
			ProductName:     it.ProductName,
			ExpectedQty:     it.ExpectedQty,
			ConfirmedQty:    it.ConfirmedQty,
			ForwardToAmazon: intent.Forward,
			ForwardQty:      intent.Quantity,
			ToStock:         split.ToStock,
			StockItemID:     it.StockItemID,
			InPrepRequest:   it.InPrepRequest,
		})
	}
	return resp
}
