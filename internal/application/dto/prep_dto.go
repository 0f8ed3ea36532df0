package dto

import "time"

// CreatePrepRequestRequest body for POST /api/prep-requests. Either
// ReceivingItemIDs (aggregate forwarding-earmarked lines) or Items (direct
// standalone order) must be non-empty.
type CreatePrepRequestRequest struct {
	DestinationCountry string            `json:"destination_country"`
	WarehouseCountry   string            `json:"warehouse_country,omitempty"`
	ReceivingItemIDs   []string          `json:"receiving_item_ids,omitempty"`
	Items              []PrepItemRequest `json:"items,omitempty"`
}

// PrepItemRequest direct request line. ASIN or SKU required.
type PrepItemRequest struct {
	StockItemID string `json:"stock_item_id,omitempty"`
	ASIN        string `json:"asin,omitempty"`
	SKU         string `json:"sku,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Qty         int    `json:"qty"`
}

// UpdatePrepItemRequest body for PUT /api/prep-requests/:id/items/:itemID.
type UpdatePrepItemRequest struct {
	QtySent   *int    `json:"qty_sent,omitempty"`
	AdminNote *string `json:"admin_note,omitempty"`
	ASIN      *string `json:"asin,omitempty"`
	SKU       *string `json:"sku,omitempty"`
}

// PrepItemEdit last-minute per-line edit carried on the confirm call.
// Confirmation persists these before flipping the status so it never acts
// on a stale read.
type PrepItemEdit struct {
	ItemID    string `json:"item_id"`
	QtySent   int    `json:"qty_sent"`
	AdminNote string `json:"admin_note,omitempty"`
}

// ConfirmPrepRequestRequest body for POST /api/prep-requests/:id/confirm.
type ConfirmPrepRequestRequest struct {
	AmazonShipmentID string         `json:"amazon_shipment_id,omitempty"`
	AdminNote        string         `json:"admin_note,omitempty"`
	Items            []PrepItemEdit `json:"items,omitempty"`
}

// ConfirmPrepRequestResponse outcome of a confirmation. Warning carries the
// non-fatal notification failure, distinguished from the confirmation itself.
type ConfirmPrepRequestResponse struct {
	Request PrepRequestResponse `json:"request"`
	Warning string              `json:"warning,omitempty"`
}

// PrepItemResponse request line in responses.
type PrepItemResponse struct {
	ID           string `json:"id"`
	StockItemID  string `json:"stock_item_id,omitempty"`
	ASIN         string `json:"asin,omitempty"`
	SKU          string `json:"sku,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	QtyRequested int    `json:"qty_requested"`
	QtySent      int    `json:"qty_sent"`
	AdminNote    string `json:"admin_note,omitempty"`
}

// PrepTrackingResponse tracking number in responses.
type PrepTrackingResponse struct {
	ID        string    `json:"id"`
	Carrier   string    `json:"carrier,omitempty"`
	Number    string    `json:"number"`
	CreatedAt time.Time `json:"created_at"`
}

// AddTrackingRequest body for POST /api/prep-requests/:id/trackings.
type AddTrackingRequest struct {
	Carrier string `json:"carrier,omitempty"`
	Number  string `json:"number"`
}

// PrepRequestResponse request with lines for GET /api/prep-requests/:id.
type PrepRequestResponse struct {
	ID                 string                 `json:"id"`
	CompanyID          string                 `json:"company_id"`
	DestinationCountry string                 `json:"destination_country"`
	WarehouseCountry   string                 `json:"warehouse_country,omitempty"`
	Status             string                 `json:"status"`
	AmazonShipmentID   string                 `json:"amazon_shipment_id,omitempty"`
	AdminNote          string                 `json:"admin_note,omitempty"`
	ConfirmedAt        *time.Time             `json:"confirmed_at,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	Items              []PrepItemResponse     `json:"items,omitempty"`
	Trackings          []PrepTrackingResponse `json:"trackings,omitempty"`
}
