package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Adrian140/prep-center-api/internal/application/auth"
	"github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/application/receiving"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	ReceivingUC *receiving.ReceivingUseCase
	AdjustStock *stockledger.AdjustStockUseCase
	StockQuery  *stockledger.StockQueryUseCase
	PrepUC      *prep.PrepUseCase
	PrepPDF     *prep.PDFUseCase
	JWTSecret   string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies (admin)
	companies := protected.Group("/companies", AdminOnly())
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Receiving: clients announce, staff confirms counts
	recvGroup := protected.Group("/receiving")
	receivingHandler := NewReceivingHandler(deps.ReceivingUC)
	recvGroup.Post("/", receivingHandler.Announce)
	recvGroup.Get("/", receivingHandler.List)
	recvGroup.Get("/:id", receivingHandler.Get)
	recvGroup.Put("/:id/items/:itemID", AdminOnly(), receivingHandler.UpdateItem)
	recvGroup.Post("/:id/process", AdminOnly(), receivingHandler.MarkProcessed)
	recvGroup.Post("/:id/cancel", AdminOnly(), receivingHandler.MarkCancelled)

	// Stock and its ledger
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.AdjustStock, deps.StockQuery)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Post("/adjust", AdminOnly(), stockHandler.Adjust)
	stockGroup.Get("/:id/movements", stockHandler.Movements)
	stockGroup.Put("/:id", AdminOnly(), stockHandler.Update)
	stockGroup.Post("/:id/recompute", AdminOnly(), stockHandler.Recompute)

	// Forwarding requests
	prepGroup := protected.Group("/prep-requests")
	prepHandler := NewPrepHandler(deps.PrepUC, deps.PrepPDF)
	prepGroup.Post("/", prepHandler.Create)
	prepGroup.Get("/", prepHandler.List)
	prepGroup.Get("/:id", prepHandler.Get)
	prepGroup.Get("/:id/packing-slip", prepHandler.PackingSlip)
	prepGroup.Post("/:id/confirm", AdminOnly(), prepHandler.Confirm)
	prepGroup.Post("/:id/cancel", prepHandler.Cancel)
	prepGroup.Put("/:id/items/:itemID", AdminOnly(), prepHandler.UpdateItem)
	prepGroup.Post("/:id/trackings", AdminOnly(), prepHandler.AddTracking)
	prepGroup.Delete("/:id/trackings/:trackingID", AdminOnly(), prepHandler.RemoveTracking)
}
