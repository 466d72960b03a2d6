package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/application/dto"
)

// CatalogHandler expone la foto vigente del catálogo.
type CatalogHandler struct {
	src draft.CatalogSource
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(src draft.CatalogSource) *CatalogHandler {
	return &CatalogHandler{src: src}
}

// ListProducts godoc
// @Summary      Listar productos del catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "venta, alquiler o ambos (separados por coma)"
// @Success      200   {object}  dto.ProductListResponse
// @Router       /api/catalog/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	var types []string
	for _, t := range strings.Split(c.Query("type"), ",") {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			types = append(types, t)
		}
	}

	snap := h.src.Current()
	products := snap.Products(types...)
	out := dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, dto.ProductResponse{
			ID:             p.ID,
			Name:           p.Name,
			SKU:            p.SKU,
			Description:    p.Description,
			Price:          p.Price,
			PricePerDay:    p.RentalPrice(),
			Stock:          p.Stock,
			StockAvailable: p.StockAvailable,
			ProductType:    p.ProductType,
		})
	}
	if snap.Loaded() {
		at := snap.FetchedAt()
		out.FetchedAt = &at
	}
	return c.JSON(out)
}

// ListClients godoc
// @Summary      Listar clientes del catálogo
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClientListResponse
// @Router       /api/catalog/clients [get]
func (h *CatalogHandler) ListClients(c *fiber.Ctx) error {
	snap := h.src.Current()
	clients := snap.Clients()
	out := dto.ClientListResponse{Items: make([]dto.ClientResponse, 0, len(clients))}
	for _, cl := range clients {
		out.Items = append(out.Items, dto.ClientResponse{
			ID: cl.ID, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Document: cl.Document,
		})
	}
	if snap.Loaded() {
		at := snap.FetchedAt()
		out.FetchedAt = &at
	}
	return c.JSON(out)
}
