package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-ventas/internal/application/draft"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Drafts    *draft.UseCase
	Catalog   draft.CatalogSource
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	needsCatalog := RequireCatalog(deps.Catalog)

	catalogHandler := NewCatalogHandler(deps.Catalog)
	catalog := api.Group("/catalog")
	catalog.Get("/products", catalogHandler.ListProducts)
	catalog.Get("/clients", catalogHandler.ListClients)

	draftHandler := NewDraftHandler(deps.Drafts)
	drafts := api.Group("/drafts")
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Patch("/:id", draftHandler.Update)
	drafts.Delete("/:id", draftHandler.Discard)
	drafts.Post("/:id/items", needsCatalog, draftHandler.AddItem)
	drafts.Put("/:id/items/:index", needsCatalog, draftHandler.SetQuantity)
	drafts.Delete("/:id/items/:index", draftHandler.RemoveItem)
	drafts.Post("/:id/validate", needsCatalog, draftHandler.Validate)
	drafts.Post("/:id/submit", needsCatalog, draftHandler.Submit)
}
