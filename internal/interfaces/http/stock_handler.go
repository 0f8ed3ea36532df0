package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Adrian140/prep-center-api/internal/application/dto"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/domain"
	"github.com/Adrian140/prep-center-api/internal/domain/entity"
)

// StockHandler handles stock and ledger HTTP requests (protected).
type StockHandler struct {
	adjuster *stockledger.AdjustStockUseCase
	query    *stockledger.StockQueryUseCase
}

// NewStockHandler builds the handler.
func NewStockHandler(adjuster *stockledger.AdjustStockUseCase, query *stockledger.StockQueryUseCase) *StockHandler {
	return &StockHandler{adjuster: adjuster, query: query}
}

// List godoc
// @Summary      List a company's stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        company_id       query  string  false  "Company filter (admin only)"
// @Param        include_removed  query  bool    false  "Include soft-removed records"
// @Param        limit            query  int     false  "Limit"   default(20)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.StockItemResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	actor := GetActor(c)
	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = actor.CompanyID
	}
	limit, offset := pageParams(c)
	items, err := h.query.List(c.Context(), actor, companyID, c.QueryBool("include_removed", false), limit, offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toStockItemResponse(it))
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Adjust stock by a signed delta
// @Description  Appends a ledger entry and updates the materialized
//               quantity in one transaction. An unknown product given by
//               EAN/ASIN/SKU is created on the fly.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "stock_item_id or identifiers, delta"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	actor := GetActor(c)
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	companyID := c.Query("company_id")
	if companyID == "" {
		companyID = actor.CompanyID
	}
	if !actor.CanAccess(companyID) {
		return stockError(c, domain.ErrForbidden)
	}
	item, err := h.adjuster.Adjust(c.Context(), stockledger.AdjustInput{
		CompanyID:   companyID,
		ActorID:     actor.UserID,
		StockItemID: in.StockItemID,
		EAN:         in.EAN,
		ASIN:        in.ASIN,
		SKU:         in.SKU,
		ProductName: in.ProductName,
		Delta:       in.Delta,
		Market:      in.Market,
		Note:        in.Note,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toStockItemResponse(item))
}

// Movements godoc
// @Summary      Ledger of one stock record, newest first
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Stock item ID"
// @Param        limit   query  int     false  "Limit"   default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.StockMovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	movements, err := h.query.Movements(c.Context(), GetActor(c), c.Params("id"), limit, offset)
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:              m.ID,
			StockItemID:     m.StockItemID,
			ReceivingItemID: m.ReceivingItemID,
			Delta:           m.Delta,
			Market:          m.Market,
			Note:            m.Note,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Edit product details of a stock record
// @Description  Name, purchase price and the soft-remove flag only.
//               Quantity is never writable here.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Stock item ID"
// @Param        body  body  dto.UpdateStockItemRequest  true  "fields to change"
// @Success      200   {object}  dto.StockItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	item, err := h.query.UpdateDetails(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(toStockItemResponse(item))
}

// Recompute godoc
// @Summary      Replay the ledger of one stock record
// @Description  Reports drift between the ledger sum and the materialized
//               quantity; with repair=true the field is rewritten to the
//               ledger value.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Stock item ID"
// @Param        repair  query  bool    false  "Rewrite the stored quantity"
// @Success      200  {object}  dto.RecomputeStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/recompute [post]
func (h *StockHandler) Recompute(c *fiber.Ctx) error {
	out, err := h.adjuster.Recompute(c.Context(), GetActor(c), c.Params("id"), c.QueryBool("repair", false))
	if err != nil {
		return stockError(c, err)
	}
	return c.JSON(out)
}

func toStockItemResponse(it *entity.StockItem) dto.StockItemResponse {
	return dto.StockItemResponse{
		ID:               it.ID,
		CompanyID:        it.CompanyID,
		EAN:              it.EAN,
		ASIN:             it.ASIN,
		SKU:              it.SKU,
		Name:             it.Name,
		Quantity:         it.Quantity,
		MarketQuantities: it.MarketQuantities,
		PurchasePrice:    it.PurchasePrice,
		Removed:          it.Removed,
		UpdatedAt:        it.UpdatedAt,
	}
}

// stockError maps domain errors to HTTP statuses.
func stockError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid data"})
	case domain.ErrMissingIdentifier:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_IDENTIFIER", Message: "EAN, ASIN or SKU required"})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "stock item not found"})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "insufficient stock"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
