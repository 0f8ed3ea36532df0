package prep

import (
	"context"
	"fmt"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
	"github.com/Adrian140/prep-center-api/internal/domain/repository"
)

// PackingSlipGenerator renders the packing slip for a request.
type PackingSlipGenerator interface {
	GeneratePackingSlip(
		ctx context.Context,
		request *entity.PrepRequest,
		company *entity.Company,
		items []*entity.PrepRequestItem,
		trackings []*entity.PrepRequestTracking,
	) ([]byte, error)
}

// PDFUseCase generates the packing slip of a confirmed request. A request
// still pending has no final sent quantities, so no slip exists for it.
type PDFUseCase struct {
	requests  repository.PrepRequestRepository
	items     repository.PrepRequestItemRepository
	trackings repository.PrepRequestTrackingRepository
	companies repository.CompanyRepository
	generator PackingSlipGenerator
}

func NewPDFUseCase(
	requests repository.PrepRequestRepository,
	items repository.PrepRequestItemRepository,
	trackings repository.PrepRequestTrackingRepository,
	companies repository.CompanyRepository,
	generator PackingSlipGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		requests:  requests,
		items:     items,
		trackings: trackings,
		companies: companies,
		generator: generator,
	}
}

// DownloadPackingSlip loads the request with its lines and tracking numbers
// and renders the PDF.
//
// Returns:
//   - (pdfBytes, filename, nil) on success.
//   - domain.ErrNotFound when the request does not exist.
//   - domain.ErrForbidden when the actor cannot access the request's company.
//   - domain.ErrInvalidInput when the request is not confirmed yet.
func (uc *PDFUseCase) DownloadPackingSlip(
	ctx context.Context,
	actor dto.Actor,
	requestID string,
) (pdfBytes []byte, filename string, err error) {
	req, err := uc.requests.GetByID(requestID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: get prep request: %w", err)
	}
	if req == nil {
		return nil, "", domain.ErrNotFound
	}
	if !actor.CanAccess(req.CompanyID) {
		return nil, "", domain.ErrForbidden
	}
	if req.Status != entity.PrepStatusConfirmed {
		return nil, "", domain.ErrInvalidInput
	}

	company, err := uc.companies.GetByID(req.CompanyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: get company: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	items, err := uc.items.ListByRequest(req.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: list request items: %w", err)
	}
	trackings, err := uc.trackings.ListByRequest(req.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: list request trackings: %w", err)
	}

	pdfBytes, err = uc.generator.GeneratePackingSlip(ctx, req, company, items, trackings)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generate packing slip: %w", err)
	}
	filename = fmt.Sprintf("packing-slip-%s.pdf", req.ID)
	return pdfBytes, filename, nil
}
