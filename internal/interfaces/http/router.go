package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/billing"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/application/session"
	"github.com/jhoicas/skillbridge-business/internal/application/synccore"
	"github.com/jhoicas/skillbridge-business/internal/application/usecase"
)

// RouterDeps dependencias para el router. Los casos de uso en nil no registran sus rutas.
type RouterDeps struct {
	Core         *synccore.Core
	Connectivity Connectivity
	Reports      *appanalytics.ReportsUseCase
	Dashboard    *appanalytics.DashboardUseCase
	Export       *export.Service
	Invoices     *billing.PDFUseCase
	Chat         *usecase.ChatUseCase
	Sessions     *session.Manager
	APIKey       string
}

// AppConfig configuración de fiber para la API local.
//
// Immutable: los valores de c.Params, c.Query y c.Queries terminan en el estado,
// en la cola offline y en el espejo, y sin copia apuntarían al buffer que
// fasthttp reutiliza en la siguiente petición.
func AppConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:     appName,
		Immutable:   true,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		// sin WriteTimeout: /api/chat mantiene abierta la respuesta SSE
	}
}

// Router registra las rutas de la API local.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		st := deps.Core.State()
		return c.JSON(fiber.Map{"status": "ok", "online": st.Online, "queueLength": len(st.Queue)})
	})

	api := app.Group("/api", APIKeyMiddleware(deps.APIKey))

	// Núcleo de sincronización
	syncHandler := NewSyncHandler(deps.Core, deps.Connectivity)
	api.Get("/state", syncHandler.State)
	api.Get("/queue", syncHandler.Queue)
	api.Post("/queue/process", syncHandler.ProcessQueue)
	api.Post("/connectivity", syncHandler.SetConnectivity)
	api.Get("/settings", syncHandler.Settings)
	api.Put("/settings", syncHandler.SaveSettings)

	// Colecciones
	collections := api.Group("/collections")
	collectionHandler := NewCollectionHandler(deps.Core)
	collections.Get("/:resource", collectionHandler.List)
	collections.Post("/:resource/load", collectionHandler.Load)
	collections.Post("/:resource", collectionHandler.Create)
	collections.Put("/:resource/:key", collectionHandler.Update)
	collections.Delete("/:resource/:key", collectionHandler.Delete)

	// Analítica (remota con respaldo local)
	if deps.Reports != nil {
		analyticsHandler := NewAnalyticsHandler(deps.Reports)
		api.Get("/reports/financial", analyticsHandler.GetFinancial)
	}
	if deps.Dashboard != nil {
		dashboardHandler := NewDashboardHandler(deps.Dashboard)
		api.Get("/dashboard/summary", dashboardHandler.GetSummary)
	}

	// Exportaciones
	if deps.Export != nil {
		exportHandler := NewExportHandler(deps.Export)
		api.Get("/export/report.xlsx", exportHandler.FinancialXLSX)
		api.Get("/export/:resource.csv", exportHandler.CollectionCSV)
	}

	// Facturas
	if deps.Invoices != nil {
		invoiceHandler := NewInvoiceHandler(deps.Invoices)
		api.Get("/sales/:key/invoice.pdf", invoiceHandler.DownloadPDF)
		api.Get("/sales/:key/invoice", invoiceHandler.GetInvoice)
	}

	// Chat (solo con conexión)
	if deps.Chat != nil {
		chatHandler := NewChatHandler(deps.Chat)
		api.Post("/chat", RequireOnline(deps.Connectivity), chatHandler.Chat)
	}

	// Sesión
	if deps.Sessions != nil {
		sessionHandler := NewSessionHandler(deps.Sessions)
		api.Get("/session", sessionHandler.Get)
		api.Post("/session", sessionHandler.Login)
		api.Delete("/session", sessionHandler.Logout)
	}
}
