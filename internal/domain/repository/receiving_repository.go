package repository

import "github.com/Adrian140/prep-center-api/internal/domain/entity"

// ReceivingShipmentRepository persistence port for inbound shipments.
type ReceivingShipmentRepository interface {
	Create(shipment *entity.ReceivingShipment) error
	GetByID(id string) (*entity.ReceivingShipment, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.ReceivingShipment, error)
	Update(shipment *entity.ReceivingShipment) error
	UpdateStatus(id, status string) error
}

// ReceivingItemRepository persistence port for shipment lines.
type ReceivingItemRepository interface {
	Create(item *entity.ReceivingItem) error
	GetByID(id string) (*entity.ReceivingItem, error)
	ListByShipment(shipmentID string) ([]*entity.ReceivingItem, error)
	Update(item *entity.ReceivingItem) error
	// MarkInPrepRequest flags lines as already aggregated so the eligibility
	// filter excludes them from later requests.
	MarkInPrepRequest(ids []string) error
}
