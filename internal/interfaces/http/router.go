package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/documents"
	"github.com/jhoicas/boutique-ledger/internal/application/exports"
	"github.com/jhoicas/boutique-ledger/internal/application/history"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/application/usecase"
	"github.com/jhoicas/boutique-ledger/internal/application/views"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/ws"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *ledger.Service
	Views       *views.Service
	History     *history.Service
	Documents   *documents.Service
	Exports     *exports.Service
	ProductUC   *usecase.ProductUseCase
	ClientUC    *usecase.ClientUseCase
	SupplierUC  *usecase.SupplierUseCase
	Hub         *ws.Hub // nil desactiva /ws
	JWTSecret   string
	JWTAudience string
}

// NewApp crea la app fiber de la API. Immutable es obligatorio: params y query
// terminan en filas del almacén en memoria y en la caché de vistas, que viven
// más que el buffer de la petición.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// Pistas de refresco: no llevan datos, solo nombres de vistas.
	if deps.Hub != nil {
		app.Use("/ws", ws.Upgrade)
		app.Get("/ws", deps.Hub.Handler())
	}

	var notifier ledger.Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}

	// Rutas protegidas (requieren Bearer Token de Supabase)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTAudience), RequireRole("authenticated", "service_role"))

	ledgerHandler := NewLedgerHandler(deps.Ledger)
	viewHandler := NewViewHandler(deps.Views, deps.History)
	documentHandler := NewDocumentHandler(deps.Documents)

	// Sagas
	api.Post("/stock/receipts", ledgerHandler.RecordStockReceipt)
	api.Post("/sales", ledgerHandler.RecordSale)
	api.Post("/debts/:kind/:id/settlements", ledgerHandler.SettleDebt)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Views, deps.Ledger, notifier)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/drift", productHandler.Drift)

	// Clients / suppliers
	clients := api.Group("/clients")
	clientHandler := NewPartyHandler(deps.ClientUC, viewHandler.ClientList, notifier, ledger.ViewClients)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewPartyHandler(deps.SupplierUC, viewHandler.SupplierList, notifier, views.KeySuppliers)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Views
	api.Get("/movements", viewHandler.Movements)
	api.Get("/sales", viewHandler.Sales)
	api.Get("/debts/clients", viewHandler.ClientDebts)
	api.Get("/debts/suppliers", viewHandler.SupplierDebts)
	api.Get("/settlements/history", viewHandler.History)
	api.Get("/dashboard", viewHandler.Dashboard)
	api.Get("/alerts", viewHandler.Alerts)

	// Documents
	api.Get("/sales/:id/invoice.pdf", documentHandler.InvoicePDF)
	api.Get("/movements/:id/receipt.pdf", documentHandler.ReceiptNotePDF)

	// Exports
	exportHandler := NewExportHandler(deps.Exports)
	api.Get("/exports/products.xlsx", exportHandler.Products)
	api.Get("/exports/sales.xlsx", exportHandler.Sales)
	api.Get("/exports/debts.xlsx", exportHandler.Debts)
}
