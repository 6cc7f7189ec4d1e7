package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/catalog"
	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *catalog.ProductUseCase
	StockUC    *catalog.StockUseCase
	CustomerUC *catalog.CustomerUseCase
	SupplierUC *catalog.SupplierUseCase
	Decider    receiptDecider
	Query      receiptQuerier
	PDF        receiptPDF
	Creator    receiptCreator
	Restock    restockService
	ReportsUC  *reports.UseCase
	JWTSecret  string
}

// Roles agrupados por permiso.
var (
	anyRole     = []string{entity.RoleManager, entity.RoleStorekeeper, entity.RoleImportStaff, entity.RoleExportStaff}
	catalogEdit = []string{entity.RoleManager, entity.RoleStorekeeper}
	approvers   = []string{entity.RoleStorekeeper}
	reviewers   = []string{entity.RoleManager, entity.RoleStorekeeper}
	importers   = []string{entity.RoleImportStaff, entity.RoleStorekeeper}
	exporters   = []string{entity.RoleExportStaff, entity.RoleStorekeeper}
	importView  = []string{entity.RoleImportStaff, entity.RoleStorekeeper, entity.RoleManager}
	exportView  = []string{entity.RoleExportStaff, entity.RoleStorekeeper, entity.RoleManager}
	purchasers  = []string{entity.RoleImportStaff}
	restockDesk = []string{entity.RoleStorekeeper, entity.RoleImportStaff}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Perfil: cada usuario edita el suyo; el listado por rol es para manager y almacenista.
	profile := protected.Group("/profile")
	profile.Get("/", authHandler.Profile)
	profile.Get("/roles/:role_name", RequireRole(reviewers...), authHandler.UsersByRole)
	profile.Get("/:username", authHandler.Profile)
	profile.Put("/:username/edit", authHandler.UpdateProfile)
	profile.Put("/:username/change-password", authHandler.ChangePassword)

	// Aprobaciones: el almacenista decide; manager solo consulta.
	approvalHandler := NewApprovalHandler(deps.Decider, deps.Query, deps.PDF)
	approvals := protected.Group("/approvals/:kind")
	approvals.Get("/status/:status", RequireRole(reviewers...), approvalHandler.ListByStatus)
	approvals.Get("/:id/pdf", RequireRole(anyRole...), approvalHandler.PDF)
	approvals.Get("/:id", RequireRole(reviewers...), approvalHandler.Detail)
	approvals.Post("/:id", RequireRole(approvers...), approvalHandler.Decide)

	// Comprobantes de entrada y salida
	receiptHandler := NewReceiptHandler(deps.Creator, deps.Query)
	imports := protected.Group("/imports")
	imports.Post("/", RequireRole(importers...), receiptHandler.Create(entity.ReceiptImport))
	imports.Get("/", RequireRole(importView...), receiptHandler.List(entity.ReceiptImport))
	imports.Get("/:id", RequireRole(importView...), receiptHandler.Get(entity.ReceiptImport))

	exports := protected.Group("/exports")
	exports.Post("/", RequireRole(exporters...), receiptHandler.Create(entity.ReceiptExport))
	exports.Get("/", RequireRole(exportView...), receiptHandler.List(entity.ReceiptExport))
	exports.Get("/:id", RequireRole(exportView...), receiptHandler.Get(entity.ReceiptExport))

	// Reposición: el almacenista solicita, compras vincula comprobantes de entrada (rutas fijas antes de /:request_id).
	restockHandler := NewRestockHandler(deps.Restock)
	restocks := protected.Group("/restocks")
	restocks.Get("/", restockHandler.List)
	restocks.Post("/", RequireRole(approvers...), restockHandler.Create)
	restocks.Get("/suggestions", RequireRole(importView...), restockHandler.Suggestions)
	restocks.Get("/links", restockHandler.ListLinks)
	restocks.Post("/links", RequireRole(purchasers...), restockHandler.CreateLink)
	restocks.Get("/links/:link_id", RequireRole(restockDesk...), restockHandler.GetLink)
	restocks.Put("/links/:link_id", RequireRole(approvers...), restockHandler.UpdateLink)
	restocks.Get("/:request_id", RequireRole(restockDesk...), restockHandler.Get)
	restocks.Put("/:request_id", RequireRole(approvers...), restockHandler.UpdateStatus)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", RequireRole(catalogEdit...), productHandler.Create)
	products.Put("/:id", RequireRole(catalogEdit...), productHandler.Update)

	// Stock
	stockHandler := NewStockHandler(deps.StockUC)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Get("/product/:productId", stockHandler.GetByProduct)
	stock.Put("/:id", RequireRole(approvers...), stockHandler.Correct)

	// Clientes y proveedores
	registerPartners(protected.Group("/customers"), NewPartnerHandler(deps.CustomerUC))
	registerPartners(protected.Group("/suppliers"), NewPartnerHandler(deps.SupplierUC))

	// Reportes (rutas fijas antes de /:kind)
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup := protected.Group("/reports", RequireRole(reviewers...))
	reportsGroup.Get("/inventory", reportHandler.Inventory)
	reportsGroup.Get("/dashboard", reportHandler.Dashboard)
	reportsGroup.Get("/:kind", reportHandler.Movements)
}

func registerPartners(g fiber.Router, h *PartnerHandler) {
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Post("/", RequireRole(catalogEdit...), h.Create)
	g.Put("/:id", RequireRole(catalogEdit...), h.Update)
	g.Delete("/:id", RequireRole(catalogEdit...), h.Delete)
}
