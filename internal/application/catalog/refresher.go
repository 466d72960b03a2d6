// Package catalog mantiene en memoria la última foto del catálogo externo y la refresca
// periódicamente en segundo plano.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/repository"
	"github.com/jhoicas/gestion-ventas/pkg/logger"
)

// Observer se invoca después de cada reemplazo de la foto.
type Observer func(*Snapshot)

// Refresher dueño de la foto vigente. Los lectores obtienen la foto con Current
// y nunca ven una actualización a medias.
type Refresher struct {
	products repository.ProductRepository
	clients  repository.ClientRepository
	reader   repository.CatalogReader // no nil si el proveedor lee todo de una vez
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time

	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	observers []Observer
}

// NewRefresher crea el refresher con una foto vacía.
func NewRefresher(products repository.ProductRepository, clients repository.ClientRepository, interval time.Duration, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	r := &Refresher{
		products: products,
		clients:  clients,
		interval: interval,
		log:      log.Component("catalog"),
		now:      time.Now,
	}
	if cr, ok := products.(repository.CatalogReader); ok {
		r.reader = cr
	}
	r.current.Store(NewSnapshot(nil, nil, time.Time{}))
	return r
}

// Current foto vigente; nunca nil.
func (r *Refresher) Current() *Snapshot {
	return r.current.Load()
}

// Subscribe registra un observador de cambios de foto.
func (r *Refresher) Subscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Refresh consulta el proveedor y reemplaza la foto. Si falla se conserva la anterior.
func (r *Refresher) Refresh(ctx context.Context) error {
	products, clients, err := r.fetch(ctx)
	if err != nil {
		return err
	}

	snap := NewSnapshot(products, clients, r.now())
	r.current.Store(snap)

	r.mu.Lock()
	obs := append([]Observer(nil), r.observers...)
	r.mu.Unlock()
	for _, o := range obs {
		o(snap)
	}
	r.log.Debug().Int("products", len(snap.products)).Int("clients", len(snap.clients)).Msg("catálogo actualizado")
	return nil
}

func (r *Refresher) fetch(ctx context.Context) ([]*entity.Product, []*entity.Client, error) {
	if r.reader != nil {
		products, clients, err := r.reader.ReadCatalog(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("leer catálogo: %w", err)
		}
		return products, clients, nil
	}

	products, err := r.products.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar productos: %w", err)
	}
	var clients []*entity.Client
	if r.clients != nil {
		clients, err = r.clients.ListClients(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("listar clientes: %w", err)
		}
	}
	return products, clients, nil
}

// Run refresca de inmediato y luego cada intervalo hasta que ctx se cancele.
// Los fallos se registran y el ciclo continúa.
func (r *Refresher) Run(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.log.Warn().Err(err).Msg("carga inicial del catálogo falló")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn().Err(err).Msg("refresco del catálogo falló")
			}
		}
	}
}
