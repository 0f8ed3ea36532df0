package dto

import "time"

// AnnounceShipmentRequest body for POST /api/receiving. Clients announce an
// inbound parcel with its declared lines.
type AnnounceShipmentRequest struct {
	Carrier         string                `json:"carrier"`
	TrackingNumbers []string              `json:"tracking_numbers"`
	ShipmentIDs     []string              `json:"shipment_ids,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	ForwardMode     string                `json:"forward_mode"` // none, full, partial
	Draft           bool                  `json:"draft,omitempty"`
	Items           []AnnounceItemRequest `json:"items"`
}

// AnnounceItemRequest declared shipment line. At least one of EAN/ASIN/SKU.
type AnnounceItemRequest struct {
	EAN             string `json:"ean,omitempty"`
	ASIN            string `json:"asin,omitempty"`
	SKU             string `json:"sku,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	ExpectedQty     int    `json:"expected_qty"`
	ForwardToAmazon *bool  `json:"forward_to_amazon,omitempty"`
	ForwardQty      int    `json:"forward_qty,omitempty"`
}

// UpdateReceivingItemRequest body for PUT /api/receiving/:id/items/:itemID.
// Admin confirms counted units and can adjust the forwarding intent.
// Nil pointer = leave field unchanged.
type UpdateReceivingItemRequest struct {
	ConfirmedQty    *int   `json:"confirmed_qty,omitempty"`
	ForwardToAmazon *bool  `json:"forward_to_amazon,omitempty"`
	ForwardQty      *int   `json:"forward_qty,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
}

// ReceivingItemResponse shipment line in responses.
type ReceivingItemResponse struct {
	ID              string `json:"id"`
	EAN             string `json:"ean,omitempty"`
	ASIN            string `json:"asin,omitempty"`
	SKU             string `json:"sku,omitempty"`
	ProductName     string `json:"product_name,omitempty"`
	ExpectedQty     int    `json:"expected_qty"`
	ConfirmedQty    int    `json:"confirmed_qty"`
	ForwardToAmazon bool   `json:"forward_to_amazon"`
	ForwardQty      int    `json:"forward_qty"`
	ToStock         int    `json:"to_stock"`
	StockItemID     string `json:"stock_item_id,omitempty"`
	InPrepRequest   bool   `json:"in_prep_request"`
}

// ShipmentResponse shipment with lines for GET /api/receiving/:id.
type ShipmentResponse struct {
	ID              string                  `json:"id"`
	CompanyID       string                  `json:"company_id"`
	Carrier         string                  `json:"carrier"`
	TrackingNumbers []string                `json:"tracking_numbers"`
	ShipmentIDs     []string                `json:"shipment_ids,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	ForwardMode     string                  `json:"forward_mode"`
	Status          string                  `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Items           []ReceivingItemResponse `json:"items,omitempty"`
}
