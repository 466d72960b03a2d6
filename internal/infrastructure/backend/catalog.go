package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*Client)(nil)
	_ repository.ClientRepository  = (*Client)(nil)
)

type productJSON struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	PricePerDay      decimal.Decimal `json:"price_per_day"`
	RentalPriceDaily decimal.Decimal `json:"rental_price_daily"`
	Stock            int             `json:"stock"`
	StockAvailable   int             `json:"stock_available"`
	ProductType      string          `json:"product_type"`
	IsActive         *bool           `json:"is_active"`
}

func (p productJSON) toEntity() *entity.Product {
	perDay := p.PricePerDay
	if perDay.IsZero() {
		perDay = p.RentalPriceDaily
	}
	return &entity.Product{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Description:    p.Description,
		Price:          p.Price,
		PricePerDay:    perDay,
		Stock:          p.Stock,
		StockAvailable: p.StockAvailable,
		ProductType:    p.ProductType,
	}
}

type clientJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"rnc"`
}

// ListProducts GET /products. Los inactivos se omiten; el filtro de tipo se aplica localmente.
func (c *Client) ListProducts(ctx context.Context, types ...string) ([]*entity.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/products", nil, &raw); err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	var rows []productJSON
	if err := decodeList(raw, &rows); err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	out := make([]*entity.Product, 0, len(rows))
	for _, r := range rows {
		if r.IsActive != nil && !*r.IsActive {
			continue
		}
		p := r.toEntity()
		if p.MatchesType(types...) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListClients GET /clients/.
func (c *Client) ListClients(ctx context.Context) ([]*entity.Client, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/clients/", nil, &raw); err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	var rows []clientJSON
	if err := decodeList(raw, &rows); err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]*entity.Client, 0, len(rows))
	for _, r := range rows {
		out = append(out, &entity.Client{ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, Document: r.Document})
	}
	return out, nil
}

// decodeList acepta un arreglo o un objeto paginado {"items": [...]}.
func decodeList(raw json.RawMessage, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, out)
	}
	var page struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return err
	}
	if len(page.Items) == 0 {
		return nil
	}
	return json.Unmarshal(page.Items, out)
}
