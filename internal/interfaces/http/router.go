package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dalvarezq/frescura-api/internal/application/analytics"
	"github.com/dalvarezq/frescura-api/internal/application/catalog"
	"github.com/dalvarezq/frescura-api/internal/application/ledger"
	"github.com/dalvarezq/frescura-api/internal/application/scanner"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC    *ledger.UseCase
	CatalogUC   *catalog.UseCase
	AnalyticsUC *analytics.UseCase
	Scanner     *scanner.Scanner
	JWTSecret   string
}

// Router registra las rutas de la API. Todas requieren el token de tenant.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", TenantMiddleware(deps.JWTSecret))

	batchHandler := NewBatchHandler(deps.LedgerUC, deps.Scanner)
	batches := api.Group("/batches")
	// /expired antes que /:id para que no lo capture el parámetro.
	batches.Get("/expired", batchHandler.Expired)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Update)
	batches.Post("/:id/adjust", batchHandler.Adjust)
	batches.Post("/:id/waste", batchHandler.Waste)
	batches.Delete("/:id", batchHandler.Delete)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	categories := api.Group("/categories")
	categories.Post("/", catalogHandler.CreateCategory)
	categories.Get("/", catalogHandler.ListCategories)
	categories.Put("/:id", catalogHandler.UpdateCategory)
	categories.Delete("/:id", catalogHandler.DeleteCategory)

	locations := api.Group("/locations")
	locations.Post("/", catalogHandler.CreateLocation)
	locations.Get("/", catalogHandler.ListLocations)
	locations.Put("/:id", catalogHandler.UpdateLocation)
	locations.Delete("/:id", catalogHandler.DeleteLocation)

	api.Put("/settings/thresholds", catalogHandler.UpdateThresholds)

	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	api.Get("/analytics/monthly", analyticsHandler.Monthly)
}
