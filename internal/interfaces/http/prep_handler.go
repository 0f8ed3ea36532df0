package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/domain"
)

// PrepHandler handles forwarding-request HTTP requests (protected).
type PrepHandler struct {
	uc  *prep.PrepUseCase
	pdf *prep.PDFUseCase
}

// NewPrepHandler builds the handler.
func NewPrepHandler(uc *prep.PrepUseCase, pdf *prep.PDFUseCase) *PrepHandler {
	return &PrepHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Create a forwarding request
// @Description  Aggregates forwarding-earmarked receiving lines or accepts
//               direct lines against held stock. Source lines are excluded
//               from later aggregations.
// @Tags         prep-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePrepRequestRequest  true  "destination_country, receiving_item_ids or items"
// @Success      201   {object}  dto.PrepRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/prep-requests [post]
func (h *PrepHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" || actor.CompanyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.CreatePrepRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		return prepError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List forwarding requests of a company
// @Tags         prep-requests
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Company filter (admin only)"
// @Param        limit       query  int     false  "Limit"   default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.PrepRequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/prep-requests [get]
func (h *PrepHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = actor.CompanyID
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), actor, companyID, limit, offset)
	if err != nil {
		return prepError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get a forwarding request with lines and trackings
// @Tags         prep-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Request ID"
// @Success      200  {object}  dto.PrepRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id} [get]
func (h *PrepHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return prepError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirm a forwarding request
// @Description  Persists carried per-line edits, validates every line, flips
//               the status and subtracts direct stock-backed lines from the
//               ledger, all in one transaction. A failed client notification
//               is returned as a warning, not an error.
// @Tags         prep-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Request ID"
// @Param        body  body  dto.ConfirmPrepRequestRequest  true  "amazon_shipment_id, per-line edits"
// @Success      200   {object}  dto.ConfirmPrepRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/confirm [post]
func (h *PrepHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmPrepRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Confirm(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return prepError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancel a pending forwarding request
// @Tags         prep-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Request ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/cancel [post]
func (h *PrepHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return prepError(c, err)
	}
	return c.JSON(fiber.Map{"message": "request cancelled"})
}

// UpdateItem godoc
// @Summary      Edit a line of a pending request
// @Tags         prep-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "Request ID"
// @Param        itemID  path  string  true  "Line ID"
// @Param        body    body  dto.UpdatePrepItemRequest  true  "qty_sent, asin, sku, admin_note"
// @Success      200  {object}  dto.PrepItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/items/{itemID} [put]
func (h *PrepHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdatePrepItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	item, err := h.uc.UpdateItem(c.Context(), GetActor(c), c.Params("id"), c.Params("itemID"), in)
	if err != nil {
		return prepError(c, err)
	}
	return c.JSON(dto.PrepItemResponse{
		ID:           item.ID,
		StockItemID:  item.StockItemID,
		ASIN:         item.ASIN,
		SKU:          item.SKU,
		ProductName:  item.ProductName,
		QtyRequested: item.QtyRequested,
		QtySent:      item.QtySent,
		AdminNote:    item.AdminNote,
	})
}

// AddTracking godoc
// @Summary      Attach an outbound tracking number
// @Tags         prep-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Request ID"
// @Param        body  body  dto.AddTrackingRequest  true  "carrier, number"
// @Success      201   {object}  dto.PrepTrackingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/trackings [post]
func (h *PrepHandler) AddTracking(c *fiber.Ctx) error {
	var in dto.AddTrackingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	t, err := h.uc.AddTracking(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return prepError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PrepTrackingResponse{
		ID:        t.ID,
		Carrier:   t.Carrier,
		Number:    t.Number,
		CreatedAt: t.CreatedAt,
	})
}

// RemoveTracking godoc
// @Summary      Remove a tracking number
// @Tags         prep-requests
// @Security     Bearer
// @Produce      json
// @Param        id          path  string  true  "Request ID"
// @Param        trackingID  path  string  true  "Tracking ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/trackings/{trackingID} [delete]
func (h *PrepHandler) RemoveTracking(c *fiber.Ctx) error {
	if err := h.uc.RemoveTracking(c.Context(), GetActor(c), c.Params("id"), c.Params("trackingID")); err != nil {
		return prepError(c, err)
	}
	return c.JSON(fiber.Map{"message": "tracking removed"})
}

// PackingSlip godoc
// @Summary      Download the packing slip PDF
// @Tags         prep-requests
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "Request ID"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/prep-requests/{id}/packing-slip [get]
func (h *PrepHandler) PackingSlip(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdf.DownloadPackingSlip(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOT_CONFIRMED", Message: "request has no packing slip while pending"})
		}
		return prepError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// prepError maps domain errors to HTTP statuses.
func prepError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid data"})
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "quantity out of range"})
	case domain.ErrMissingIdentifier:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_IDENTIFIER", Message: "ASIN or SKU required"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "request or line not found"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case domain.ErrInvalidStateTransition:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "request is not in the required status"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "insufficient stock"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
