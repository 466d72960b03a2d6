package catalog

import (
	"time"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// Snapshot foto inmutable del catálogo (productos y clientes) en un instante.
// Se reemplaza entera en cada refresco; nunca se modifica después de construida.
type Snapshot struct {
	products  []*entity.Product
	byID      map[int64]*entity.Product
	clients   []*entity.Client
	clientIDs map[int64]*entity.Client
	fetchedAt time.Time
}

// NewSnapshot construye una foto conservando el orden recibido.
func NewSnapshot(products []*entity.Product, clients []*entity.Client, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		products:  make([]*entity.Product, 0, len(products)),
		byID:      make(map[int64]*entity.Product, len(products)),
		clients:   make([]*entity.Client, 0, len(clients)),
		clientIDs: make(map[int64]*entity.Client, len(clients)),
		fetchedAt: fetchedAt,
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		cp := *p
		s.products = append(s.products, &cp)
		s.byID[cp.ID] = &cp
	}
	for _, c := range clients {
		if c == nil {
			continue
		}
		cp := *c
		s.clients = append(s.clients, &cp)
		s.clientIDs[cp.ID] = &cp
	}
	return s
}

// Product busca un producto por id. Implementa stock.Catalog.
func (s *Snapshot) Product(id int64) (*entity.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Products lista los productos de los tipos pedidos (vacío = todos).
func (s *Snapshot) Products(types ...string) []*entity.Product {
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.MatchesType(types...) {
			out = append(out, p)
		}
	}
	return out
}

// Client busca un cliente por id.
func (s *Snapshot) Client(id int64) (*entity.Client, bool) {
	c, ok := s.clientIDs[id]
	return c, ok
}

// Clients lista los clientes.
func (s *Snapshot) Clients() []*entity.Client {
	return append([]*entity.Client(nil), s.clients...)
}

// FetchedAt momento del refresco; cero si nunca se cargó.
func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Loaded indica si la foto proviene de un refresco exitoso.
func (s *Snapshot) Loaded() bool { return !s.fetchedAt.IsZero() }
