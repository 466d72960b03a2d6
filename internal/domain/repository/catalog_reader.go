package repository

import (
	"context"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// CatalogReader lo implementan los proveedores que pueden leer productos y clientes
// en una sola lectura consistente (p. ej. una transacción de solo lectura).
type CatalogReader interface {
	ReadCatalog(ctx context.Context) ([]*entity.Product, []*entity.Client, error)
}
