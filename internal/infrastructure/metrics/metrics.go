// Package metrics expone contadores Prometheus del servicio: envíos al backend,
// refrescos del catálogo y sesiones de borrador.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
)

const namespace = "gestion_ventas"

// Metrics registro propio; no usa el registro global de Prometheus.
type Metrics struct {
	registry *prometheus.Registry

	submissions     *prometheus.CounterVec
	submittedTotal  *prometheus.CounterVec
	catalogRefresh  prometheus.Counter
	catalogProducts prometheus.Gauge
	catalogClients  prometheus.Gauge
	catalogAge      prometheus.Gauge
	draftsExpired   prometheus.Counter
}

// New crea el registro con las métricas del proceso y de Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Envíos al servicio de pedidos por tipo de borrador y resultado.",
		}, []string{"kind", "result", "status"}),
		submittedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submitted_amount_total",
			Help:      "Suma de los totales enviados con éxito, por tipo de borrador.",
		}, []string{"kind"}),
		catalogRefresh: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_refreshes_total",
			Help:      "Reemplazos exitosos de la foto del catálogo.",
		}),
		catalogProducts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Productos en la foto vigente.",
		}),
		catalogClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_clients",
			Help:      "Clientes en la foto vigente.",
		}),
		catalogAge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_fetched_timestamp_seconds",
			Help:      "Hora Unix de la foto vigente.",
		}),
		draftsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_expired_total",
			Help:      "Borradores descartados por inactividad.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.submittedTotal,
		m.catalogRefresh, m.catalogProducts, m.catalogClients, m.catalogAge,
		m.draftsExpired,
	)
	return m
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry acceso al registro (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// TrackDrafts publica el número de sesiones abiertas leyendo count en cada scrape.
func (m *Metrics) TrackDrafts(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "drafts_open",
		Help:      "Sesiones de borrador abiertas.",
	}, func() float64 { return float64(count()) }))
}

// CatalogRefreshed observador del Refresher.
func (m *Metrics) CatalogRefreshed(s *catalog.Snapshot) {
	m.catalogRefresh.Inc()
	m.catalogProducts.Set(float64(len(s.Products())))
	m.catalogClients.Set(float64(len(s.Clients())))
	m.catalogAge.Set(float64(s.FetchedAt().Unix()))
}

// DraftsExpired callback del barrido de sesiones.
func (m *Metrics) DraftsExpired(n int) {
	m.draftsExpired.Add(float64(n))
}

// Submitter envuelve un OrderSubmitter y cuenta cada envío.
func (m *Metrics) Submitter(next draft.OrderSubmitter) draft.OrderSubmitter {
	return &instrumentedSubmitter{next: next, m: m}
}

type instrumentedSubmitter struct {
	next draft.OrderSubmitter
	m    *Metrics
}

var _ draft.OrderSubmitter = (*instrumentedSubmitter)(nil)

func (s *instrumentedSubmitter) SubmitQuotation(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*draft.SubmitResult, error) {
	res, err := s.next.SubmitQuotation(ctx, d, totals)
	s.m.observe(entity.DraftQuotation, totals, err)
	return res, err
}

func (s *instrumentedSubmitter) SubmitSale(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*draft.SubmitResult, error) {
	res, err := s.next.SubmitSale(ctx, d, totals)
	s.m.observe(entity.DraftSale, totals, err)
	return res, err
}

func (s *instrumentedSubmitter) SubmitRental(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*draft.SubmitResult, error) {
	res, err := s.next.SubmitRental(ctx, d, totals)
	s.m.observe(entity.DraftRental, totals, err)
	return res, err
}

func (m *Metrics) observe(kind entity.DraftKind, totals pricing.Breakdown, err error) {
	if err == nil {
		m.submissions.WithLabelValues(string(kind), "ok", "").Inc()
		// Un contador no admite valores negativos.
		if total := totals.Total.Round(2); total.IsPositive() {
			m.submittedTotal.WithLabelValues(string(kind)).Add(total.InexactFloat64())
		}
		return
	}
	status := ""
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) && subErr.StatusCode > 0 {
		status = strconv.Itoa(subErr.StatusCode)
	}
	m.submissions.WithLabelValues(string(kind), "error", status).Inc()
}
