package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/application/dto"
)

// RequireCatalog responde 503 mientras no haya una foto del catálogo cargada.
// Sin catálogo no se puede validar stock ni resolver productos.
func RequireCatalog(src draft.CatalogSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !src.Current().Loaded() {
			c.Set(fiber.HeaderRetryAfter, "5")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "CATALOG_UNAVAILABLE",
				Message: "el catálogo aún no está disponible, intente más tarde",
			})
		}
		return c.Next()
	}
}
