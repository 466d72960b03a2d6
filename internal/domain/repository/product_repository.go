package repository

import (
	"context"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos (DIP).
// Cada llamada devuelve una foto completa e inmutable para el núcleo.
type ProductRepository interface {
	// ListProducts lista productos; types filtra por tipo (vacío = todos).
	ListProducts(ctx context.Context, types ...string) ([]*entity.Product, error)
}
