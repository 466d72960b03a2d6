package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type fakeProducts struct {
	mu    sync.Mutex
	list  []*entity.Product
	err   error
	calls atomic.Int32
}

func (f *fakeProducts) ListProducts(_ context.Context, types ...string) ([]*entity.Product, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeProducts) set(list []*entity.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list, f.err = list, err
}

type fakeClients struct{ list []*entity.Client }

func (f *fakeClients) ListClients(context.Context) ([]*entity.Client, error) { return f.list, nil }

// fakeReader lee productos y clientes en una sola llamada.
type fakeReader struct {
	fakeProducts
	clients   []*entity.Client
	readCalls int
}

func (f *fakeReader) ReadCatalog(context.Context) ([]*entity.Product, []*entity.Client, error) {
	f.readCalls++
	return f.list, f.clients, f.err
}

func product(id int64, name, typ string, stock int) *entity.Product {
	return &entity.Product{ID: id, Name: name, Price: decimal.NewFromInt(100), Stock: stock, StockAvailable: stock, ProductType: typ}
}

// ─── Snapshot ─────────────────────────────────────────────────────────────────

func TestSnapshot_BusquedaYFiltro(t *testing.T) {
	s := NewSnapshot([]*entity.Product{
		product(1, "Silla", entity.ProductTypeVenta, 5),
		product(2, "Carpa", entity.ProductTypeAlquiler, 2),
		product(3, "Mesa", entity.ProductTypeAmbos, 4),
		nil,
	}, []*entity.Client{{ID: 7, Name: "Ana"}}, time.Now())

	p, ok := s.Product(2)
	require.True(t, ok)
	assert.Equal(t, "Carpa", p.Name)
	_, ok = s.Product(99)
	assert.False(t, ok)

	assert.Len(t, s.Products(), 3)
	assert.Len(t, s.Products(entity.ProductTypeAlquiler, entity.ProductTypeAmbos), 2)

	c, ok := s.Client(7)
	require.True(t, ok)
	assert.Equal(t, "Ana", c.Name)
	assert.True(t, s.Loaded())
}

func TestSnapshot_NoCompartePunterosConElProveedor(t *testing.T) {
	src := product(1, "Silla", entity.ProductTypeVenta, 5)
	s := NewSnapshot([]*entity.Product{src}, nil, time.Now())
	src.Stock = 0

	p, _ := s.Product(1)
	assert.Equal(t, 5, p.Stock)
}

// ─── Refresher ────────────────────────────────────────────────────────────────

func TestRefresher_RefreshReemplazaYNotifica(t *testing.T) {
	prods := &fakeProducts{list: []*entity.Product{product(1, "Silla", entity.ProductTypeVenta, 5)}}
	r := NewRefresher(prods, &fakeClients{list: []*entity.Client{{ID: 1, Name: "Ana"}}}, time.Minute, nil)

	assert.False(t, r.Current().Loaded())

	var seen *Snapshot
	r.Subscribe(func(s *Snapshot) { seen = s })

	require.NoError(t, r.Refresh(context.Background()))
	assert.True(t, r.Current().Loaded())
	assert.Same(t, r.Current(), seen)
	assert.Len(t, r.Current().Clients(), 1)
}

func TestRefresher_ErrorConservaFotoAnterior(t *testing.T) {
	prods := &fakeProducts{list: []*entity.Product{product(1, "Silla", entity.ProductTypeVenta, 5)}}
	r := NewRefresher(prods, nil, time.Minute, nil)
	require.NoError(t, r.Refresh(context.Background()))
	before := r.Current()

	prods.set(nil, errors.New("backend caído"))
	err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, before, r.Current())
}

func TestRefresher_PrefiereLecturaConsistente(t *testing.T) {
	reader := &fakeReader{clients: []*entity.Client{{ID: 9, Name: "Luis"}}}
	reader.list = []*entity.Product{product(1, "Silla", entity.ProductTypeVenta, 5)}
	r := NewRefresher(reader, &fakeClients{}, time.Minute, nil)

	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, 1, reader.readCalls)
	assert.Zero(t, reader.calls.Load(), "no se usa ListProducts")
	_, ok := r.Current().Client(9)
	assert.True(t, ok)

	reader.err = errors.New("serialization failure")
	assert.Error(t, r.Refresh(context.Background()))
	_, ok = r.Current().Client(9)
	assert.True(t, ok)
}

func TestRefresher_RunSeDetieneAlCancelar(t *testing.T) {
	prods := &fakeProducts{list: []*entity.Product{product(1, "Silla", entity.ProductTypeVenta, 5)}}
	r := NewRefresher(prods, nil, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return prods.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}

func TestRefresher_LectoresConcurrentes(t *testing.T) {
	prods := &fakeProducts{list: []*entity.Product{product(1, "Silla", entity.ProductTypeVenta, 5)}}
	r := NewRefresher(prods, nil, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			s := r.Current()
			if s.Loaded() {
				_, ok := s.Product(1)
				assert.True(t, ok)
			}
		}()
	}
	wg.Wait()
}
