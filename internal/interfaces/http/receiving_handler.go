package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/receiving"
	"github.com/Adrian140/prep-center-api/internal/domain"
)

// ReceivingHandler handles inbound-shipment HTTP requests (protected).
type ReceivingHandler struct {
	uc *receiving.ReceivingUseCase
}

// NewReceivingHandler builds the handler.
func NewReceivingHandler(uc *receiving.ReceivingUseCase) *ReceivingHandler {
	return &ReceivingHandler{uc: uc}
}

// Announce godoc
// @Summary      Announce an inbound shipment
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AnnounceShipmentRequest  true  "carrier, tracking_numbers, forward_mode, items"
// @Success      201   {object}  dto.ShipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/receiving [post]
func (h *ReceivingHandler) Announce(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" || actor.CompanyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid token"})
	}
	var in dto.AnnounceShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.Announce(c.Context(), actor, in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      List shipments of a company
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Company filter (admin only; clients are scoped to their own)"
// @Param        limit       query  int     false  "Limit"   default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.ShipmentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/receiving [get]
func (h *ReceivingHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = actor.CompanyID
	}
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), actor, companyID, limit, offset)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Get a shipment with its lines
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Shipment ID"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/receiving/{id} [get]
func (h *ReceivingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Confirm counted units / adjust forwarding of a line
// @Description  Records the counted quantity, syncs both forwarding
//               representations and moves only the stock share into the
//               ledger. Shipment status is re-derived afterwards.
// @Tags         receiving
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "Shipment ID"
// @Param        itemID  path  string  true  "Line ID"
// @Param        body    body  dto.UpdateReceivingItemRequest  true  "confirmed_qty, forward_to_amazon, forward_qty"
// @Success      200  {object}  dto.ShipmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receiving/{id}/items/{itemID} [put]
func (h *ReceivingHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateReceivingItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	out, err := h.uc.UpdateItem(c.Context(), GetActor(c), c.Params("id"), c.Params("itemID"), in)
	if err != nil {
		return receivingError(c, err)
	}
	return c.JSON(out)
}

// MarkProcessed godoc
// @Summary      Force a shipment to processed
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Shipment ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receiving/{id}/process [post]
func (h *ReceivingHandler) MarkProcessed(c *fiber.Ctx) error {
	if err := h.uc.MarkProcessed(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return receivingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "shipment processed"})
}

// MarkCancelled godoc
// @Summary      Cancel a shipment
// @Tags         receiving
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Shipment ID"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/receiving/{id}/cancel [post]
func (h *ReceivingHandler) MarkCancelled(c *fiber.Ctx) error {
	if err := h.uc.MarkCancelled(c.Context(), GetActor(c), c.Params("id")); err != nil {
		return receivingError(c, err)
	}
	return c.JSON(fiber.Map{"message": "shipment cancelled"})
}

// receivingError maps domain errors to HTTP statuses.
func receivingError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid data"})
	case domain.ErrInvalidQuantity:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "quantity out of range"})
	case domain.ErrMissingIdentifier:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_IDENTIFIER", Message: "EAN, ASIN or SKU required"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "shipment or line not found"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case domain.ErrInvalidStateTransition:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "shipment is in a terminal status"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "insufficient stock"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
