package repository

import (
	"context"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// ClientRepository puerto de lectura de clientes.
type ClientRepository interface {
	ListClients(ctx context.Context) ([]*entity.Client, error)
}
