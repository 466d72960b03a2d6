package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lector del catálogo de productos sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el lector. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const listProductsSQL = `
	SELECT id, name, COALESCE(sku, ''), COALESCE(description, ''),
	       price::numeric, COALESCE(rental_price_daily, 0)::numeric,
	       COALESCE(stock, 0), COALESCE(stock_available, stock, 0), product_type
	FROM products
	WHERE is_active
	  AND ($1::text[] IS NULL OR product_type = ANY($1))
	ORDER BY name`

// ListProducts productos activos, opcionalmente filtrados por tipo.
func (r *ProductRepo) ListProducts(ctx context.Context, types ...string) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, listProductsSQL, typeFilter(types))
	if err != nil {
		return nil, queryError("list products", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Description,
			&p.Price, &p.PricePerDay, &p.Stock, &p.StockAvailable, &p.ProductType); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("list products", err)
	}
	return out, nil
}

// typeFilter nil deja pasar todos los tipos.
func typeFilter(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	return types
}
