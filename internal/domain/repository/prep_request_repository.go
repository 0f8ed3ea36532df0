package repository

import "github.com/Adrian140/prep-center-api/internal/domain/entity"

// PrepRequestRepository persistence port for forwarding requests.
type PrepRequestRepository interface {
	Create(request *entity.PrepRequest) error
	GetByID(id string) (*entity.PrepRequest, error)
	// GetForUpdate locks the request row during confirmation.
	GetForUpdate(id string) (*entity.PrepRequest, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.PrepRequest, error)
	Update(request *entity.PrepRequest) error
}

// PrepRequestItemRepository persistence port for request lines.
type PrepRequestItemRepository interface {
	Create(item *entity.PrepRequestItem) error
	GetByID(id string) (*entity.PrepRequestItem, error)
	ListByRequest(requestID string) ([]*entity.PrepRequestItem, error)
	Update(item *entity.PrepRequestItem) error
}

// PrepRequestTrackingRepository persistence port for carrier tracking
// numbers on confirmed requests. Listed in insertion order.
type PrepRequestTrackingRepository interface {
	Create(tracking *entity.PrepRequestTracking) error
	ListByRequest(requestID string) ([]*entity.PrepRequestTracking, error)
	// Delete removes one tracking number, scoped to its request.
	Delete(requestID, id string) error
}
