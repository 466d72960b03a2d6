package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo lector de clientes sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el lector.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// ListClients clientes activos ordenados por nombre.
func (r *ClientRepo) ListClients(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(rnc, '')
		FROM clients
		WHERE COALESCE(status, 'activo') = 'activo'
		ORDER BY name`)
	if err != nil {
		return nil, queryError("list clients", err)
	}
	defer rows.Close()

	var out []*entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Document); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("list clients", err)
	}
	return out, nil
}
