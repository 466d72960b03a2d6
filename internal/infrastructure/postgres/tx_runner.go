package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
)

var (
	_ repository.CatalogReader     = (*TxRunner)(nil)
	_ repository.ProductRepository = (*TxRunner)(nil)
	_ repository.ClientRepository  = (*TxRunner)(nil)
)

// TxRunner ejecuta lecturas del catálogo dentro de transacciones de solo lectura.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción REPEATABLE READ de solo lectura y ejecuta fn con ella.
// Todas las consultas de fn ven la misma foto de la base.
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReadCatalog productos y clientes de la misma foto.
func (r *TxRunner) ReadCatalog(ctx context.Context) ([]*entity.Product, []*entity.Client, error) {
	var (
		products []*entity.Product
		clients  []*entity.Client
	)
	err := r.Run(ctx, func(q Querier) error {
		var err error
		if products, err = NewProductRepository(q).ListProducts(ctx); err != nil {
			return err
		}
		clients, err = NewClientRepository(q).ListClients(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return products, clients, nil
}

// ListProducts lectura suelta fuera de transacción.
func (r *TxRunner) ListProducts(ctx context.Context, types ...string) ([]*entity.Product, error) {
	return NewProductRepository(r.pool).ListProducts(ctx, types...)
}

// ListClients lectura suelta fuera de transacción.
func (r *TxRunner) ListClients(ctx context.Context) ([]*entity.Client, error) {
	return NewClientRepository(r.pool).ListClients(ctx)
}
