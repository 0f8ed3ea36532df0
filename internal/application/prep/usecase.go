package prep

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	domainprep "github.com/Adrian140/prep-center-api/internal/domain/prep"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// PrepUseCase creates and confirms forwarding requests.
//
// A request aggregates forwarding-earmarked receiving lines (or direct lines
// a client places against held stock), snapshotting product identity at
// creation. Confirmation is two-phase: pending per-item edits are persisted
// first, then the status flips, so it always acts on the latest
// operator-entered quantities rather than a stale read.
type PrepUseCase struct {
	txRunner  TxRunner
	requests  repository.PrepRequestRepository
	items     repository.PrepRequestItemRepository
	trackings repository.PrepRequestTrackingRepository
	adjuster  *stockledger.AdjustStockUseCase
	notifier  Notifier // nil when mail is not configured
}

// NewPrepUseCase builds the use case. notifier may be nil.
func NewPrepUseCase(
	txRunner TxRunner,
	requests repository.PrepRequestRepository,
	items repository.PrepRequestItemRepository,
	trackings repository.PrepRequestTrackingRepository,
	adjuster *stockledger.AdjustStockUseCase,
	notifier Notifier,
) *PrepUseCase {
	return &PrepUseCase{
		txRunner:  txRunner,
		requests:  requests,
		items:     items,
		trackings: trackings,
		adjuster:  adjuster,
		notifier:  notifier,
	}
}

// Create builds a new pending request, either by aggregating receiving lines
// or from direct lines. Source receiving lines must be eligible: forwarding
// quantity > 0, confirmed quantity covering it, and not already included in
// an earlier request. Each resulting line needs an ASIN or SKU.
func (uc *PrepUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreatePrepRequestRequest) (*dto.PrepRequestResponse, error) {
	if in.DestinationCountry == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.ReceivingItemIDs) == 0 && len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	request := &entity.PrepRequest{
		ID:                 uuid.New().String(),
		CompanyID:          actor.CompanyID,
		CreatedBy:          actor.UserID,
		DestinationCountry: in.DestinationCountry,
		WarehouseCountry:   in.WarehouseCountry,
		Status:             entity.PrepStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var created []*entity.PrepRequestItem
	err := uc.txRunner.RunPrep(ctx, func(
		requests repository.PrepRequestRepository,
		requestItems repository.PrepRequestItemRepository,
		shipments repository.ReceivingShipmentRepository,
		receivingItems repository.ReceivingItemRepository,
		_ repository.StockItemRepository,
		_ repository.StockMovementRepository,
	) error {
		lines, companyID, err := uc.buildLines(actor, in, request.ID, now, shipments, receivingItems)
		if err != nil {
			return err
		}
		request.CompanyID = companyID

		if err := requests.Create(request); err != nil {
			return err
		}
		for _, line := range lines {
			if err := requestItems.Create(line); err != nil {
				return err
			}
		}
		if len(in.ReceivingItemIDs) > 0 {
			// Flag sources so the eligibility filter excludes them from any
			// later aggregation.
			if err := receivingItems.MarkInPrepRequest(in.ReceivingItemIDs); err != nil {
				return err
			}
		}
		created = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(request, created, nil), nil
}

// buildLines validates sources and produces the snapshot lines.
func (uc *PrepUseCase) buildLines(
	actor dto.Actor,
	in dto.CreatePrepRequestRequest,
	requestID string,
	now time.Time,
	shipments repository.ReceivingShipmentRepository,
	receivingItems repository.ReceivingItemRepository,
) ([]*entity.PrepRequestItem, string, error) {
	companyID := actor.CompanyID
	var lines []*entity.PrepRequestItem

	for _, id := range in.ReceivingItemIDs {
		src, err := receivingItems.GetByID(id)
		if err != nil {
			return nil, "", err
		}
		if src == nil {
			return nil, "", domain.ErrNotFound
		}
		shipment, err := shipments.GetByID(src.ShipmentID)
		if err != nil {
			return nil, "", err
		}
		if shipment == nil {
			return nil, "", domain.ErrNotFound
		}
		if !actor.CanAccess(shipment.CompanyID) {
			return nil, "", domain.ErrForbidden
		}
		companyID = shipment.CompanyID

		if src.InPrepRequest {
			return nil, "", domain.ErrInvalidStateTransition
		}
		intent := domainprep.ResolveForwardingIntent(src.ForwardToAmazon, src.ForwardQty, src.RemainingAction)
		if !intent.Forward || intent.Quantity <= 0 || src.ConfirmedQty < intent.Quantity {
			return nil, "", domain.ErrInvalidQuantity
		}
		if src.ASIN == "" && src.SKU == "" {
			return nil, "", domain.ErrMissingIdentifier
		}
		lines = append(lines, &entity.PrepRequestItem{
			ID:              uuid.New().String(),
			RequestID:       requestID,
			ReceivingItemID: src.ID,
			StockItemID:     src.StockItemID,
			ASIN:            src.ASIN,
			SKU:             src.SKU,
			ProductName:     src.ProductName,
			QtyRequested:    intent.Quantity,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	for _, it := range in.Items {
		if it.Qty <= 0 {
			return nil, "", domain.ErrInvalidQuantity
		}
		if it.ASIN == "" && it.SKU == "" {
			return nil, "", domain.ErrMissingIdentifier
		}
		lines = append(lines, &entity.PrepRequestItem{
			ID:           uuid.New().String(),
			RequestID:    requestID,
			StockItemID:  it.StockItemID,
			ASIN:         it.ASIN,
			SKU:          it.SKU,
			ProductName:  it.ProductName,
			QtyRequested: it.Qty,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if len(lines) == 0 {
		return nil, "", domain.ErrInvalidInput
	}
	return lines, companyID, nil
}

// Confirm transitions a pending request to confirmed. Inside one
// transaction: persist the last-minute item edits, validate every line
// (identifier present, 0 <= sent <= requested), subtract stock-backed lines
// from the ledger and flip the status. Any violation aborts with no partial
// mutation. The notification goes out after commit; its failure is returned
// as a warning, not an error.
func (uc *PrepUseCase) Confirm(ctx context.Context, actor dto.Actor, requestID string, in dto.ConfirmPrepRequestRequest) (*dto.ConfirmPrepRequestResponse, error) {
	var (
		request *entity.PrepRequest
		lines   []*entity.PrepRequestItem
	)
	err := uc.txRunner.RunPrep(ctx, func(
		requests repository.PrepRequestRepository,
		requestItems repository.PrepRequestItemRepository,
		_ repository.ReceivingShipmentRepository,
		_ repository.ReceivingItemRepository,
		stockItems repository.StockItemRepository,
		movements repository.StockMovementRepository,
	) error {
		var err error
		request, err = requests.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if request == nil {
			return domain.ErrNotFound
		}
		if !actor.CanAccess(request.CompanyID) {
			return domain.ErrForbidden
		}
		if request.Status != entity.PrepStatusPending {
			return domain.ErrInvalidStateTransition
		}

		lines, err = requestItems.ListByRequest(request.ID)
		if err != nil {
			return err
		}

		// Phase one: fold the operator's last-minute edits in.
		if err := applyEdits(lines, in.Items); err != nil {
			return err
		}

		// Validate everything before any write.
		for _, line := range lines {
			if !line.HasIdentifier() {
				return domain.ErrMissingIdentifier
			}
			if line.QtySent < 0 || line.QtySent > line.QtyRequested {
				return domain.ErrInvalidQuantity
			}
		}

		now := time.Now()
		for _, line := range lines {
			line.UpdatedAt = now
			if err := requestItems.Update(line); err != nil {
				return err
			}
			// Lines aggregated from receiving never entered local stock
			// (their units were split straight to forwarding); only direct
			// stock-backed lines draw the ledger down.
			if line.ReceivingItemID == "" && line.StockItemID != "" && line.QtySent > 0 {
				_, err := uc.adjuster.AdjustInTx(stockItems, movements, stockledger.AdjustInput{
					CompanyID:   request.CompanyID,
					ActorID:     actor.UserID,
					StockItemID: line.StockItemID,
					Delta:       -line.QtySent,
					Note:        "prep request " + request.ID,
				})
				if err != nil {
					return err
				}
			}
		}

		// Phase two: flip the status.
		request.Status = entity.PrepStatusConfirmed
		request.ConfirmedAt = &now
		request.ConfirmedBy = actor.UserID
		if in.AmazonShipmentID != "" {
			request.AmazonShipmentID = in.AmazonShipmentID
		}
		if in.AdminNote != "" {
			request.AdminNote = in.AdminNote
		}
		request.UpdatedAt = now
		return requests.Update(request)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ConfirmPrepRequestResponse{Request: *toRequestResponse(request, lines, nil)}
	if uc.notifier != nil {
		if err := uc.notifier.PrepRequestConfirmed(ctx, request, lines); err != nil {
			resp.Warning = "confirmation saved, but the notification could not be sent: " + err.Error()
		}
	}
	return resp, nil
}

func applyEdits(lines []*entity.PrepRequestItem, edits []dto.PrepItemEdit) error {
	byID := make(map[string]*entity.PrepRequestItem, len(lines))
	for _, line := range lines {
		byID[line.ID] = line
	}
	for _, e := range edits {
		line, ok := byID[e.ItemID]
		if !ok {
			return domain.ErrNotFound
		}
		line.QtySent = e.QtySent
		if e.AdminNote != "" {
			line.AdminNote = e.AdminNote
		}
	}
	return nil
}

// Cancel transitions a pending request to cancelled.
func (uc *PrepUseCase) Cancel(_ context.Context, actor dto.Actor, requestID string) error {
	request, err := uc.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrNotFound
	}
	if !actor.CanAccess(request.CompanyID) {
		return domain.ErrForbidden
	}
	if request.Status != entity.PrepStatusPending {
		return domain.ErrInvalidStateTransition
	}
	request.Status = entity.PrepStatusCancelled
	request.UpdatedAt = time.Now()
	return uc.requests.Update(request)
}

// UpdateItem edits one line while the request is pending.
func (uc *PrepUseCase) UpdateItem(_ context.Context, actor dto.Actor, requestID, itemID string, in dto.UpdatePrepItemRequest) (*entity.PrepRequestItem, error) {
	request, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(request.CompanyID) {
		return nil, domain.ErrForbidden
	}
	if request.Status != entity.PrepStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}
	line, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if line == nil || line.RequestID != requestID {
		return nil, domain.ErrNotFound
	}
	if in.QtySent != nil {
		if *in.QtySent < 0 || *in.QtySent > line.QtyRequested {
			return nil, domain.ErrInvalidQuantity
		}
		line.QtySent = *in.QtySent
	}
	if in.AdminNote != nil {
		line.AdminNote = *in.AdminNote
	}
	if in.ASIN != nil {
		line.ASIN = *in.ASIN
	}
	if in.SKU != nil {
		line.SKU = *in.SKU
	}
	line.UpdatedAt = time.Now()
	if err := uc.items.Update(line); err != nil {
		return nil, err
	}
	return line, nil
}

// AddTracking appends a carrier tracking number to a confirmed request.
func (uc *PrepUseCase) AddTracking(_ context.Context, actor dto.Actor, requestID string, in dto.AddTrackingRequest) (*entity.PrepRequestTracking, error) {
	if in.Number == "" {
		return nil, domain.ErrInvalidInput
	}
	request, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(request.CompanyID) {
		return nil, domain.ErrForbidden
	}
	if request.Status != entity.PrepStatusConfirmed {
		return nil, domain.ErrInvalidStateTransition
	}
	tracking := &entity.PrepRequestTracking{
		ID:        uuid.New().String(),
		RequestID: requestID,
		Carrier:   in.Carrier,
		Number:    in.Number,
		CreatedAt: time.Now(),
	}
	if err := uc.trackings.Create(tracking); err != nil {
		return nil, err
	}
	return tracking, nil
}

// RemoveTracking deletes one tracking number from a request. The delete is
// scoped to the request, so a tracking ID belonging to another request is
// not found here.
func (uc *PrepUseCase) RemoveTracking(_ context.Context, actor dto.Actor, requestID, trackingID string) error {
	request, err := uc.requests.GetByID(requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrNotFound
	}
	if !actor.CanAccess(request.CompanyID) {
		return domain.ErrForbidden
	}
	return uc.trackings.Delete(requestID, trackingID)
}

// Get returns one request with lines and tracking numbers.
func (uc *PrepUseCase) Get(_ context.Context, actor dto.Actor, requestID string) (*dto.PrepRequestResponse, error) {
	request, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(request.CompanyID) {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.items.ListByRequest(requestID)
	if err != nil {
		return nil, err
	}
	trackings, err := uc.trackings.ListByRequest(requestID)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(request, lines, trackings), nil
}

// List returns a company's requests (without lines).
func (uc *PrepUseCase) List(_ context.Context, actor dto.Actor, companyID string, limit, offset int) ([]*dto.PrepRequestResponse, error) {
	if companyID == "" {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return nil, domain.ErrForbidden
	}
	requests, err := uc.requests.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PrepRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRequestResponse(r, nil, nil))
	}
	return out, nil
}

func toRequestResponse(r *entity.PrepRequest, lines []*entity.PrepRequestItem, trackings []*entity.PrepRequestTracking) *dto.PrepRequestResponse {
	resp := &dto.PrepRequestResponse{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		DestinationCountry: r.DestinationCountry,
		WarehouseCountry:   r.WarehouseCountry,
		Status:             r.Status,
		AmazonShipmentID:   r.AmazonShipmentID,
		AdminNote:          r.AdminNote,
		ConfirmedAt:        r.ConfirmedAt,
		CreatedAt:          r.CreatedAt,
	}
	for _, line := range lines {
		resp.Items = append(resp.Items, dto.PrepItemResponse{
			ID:           line.ID,
			StockItemID:  line.StockItemID,
			ASIN:         line.ASIN,
			SKU:          line.SKU,
			ProductName:  line.ProductName,
			QtyRequested: line.QtyRequested,
			QtySent:      line.QtySent,
			AdminNote:    line.AdminNote,
		})
	}
	for _, tr := range trackings {
		resp.Trackings = append(resp.Trackings, dto.PrepTrackingResponse{
			ID:        tr.ID,
			Carrier:   tr.Carrier,
			Number:    tr.Number,
			CreatedAt: tr.CreatedAt,
		})
	}
	return resp
}
