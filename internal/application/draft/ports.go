package draft

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
)

// SubmitResult identificadores que devolvió el servicio de pedidos.
// Un alquiler genera un registro por unidad, por eso IDs es una lista.
type SubmitResult struct {
	Kind entity.DraftKind
	IDs  []int64
}

// PartialRentalError el servicio creó parte de las unidades de un alquiler antes de fallar.
// Las unidades creadas son las primeras len(IDs) en el orden de las líneas.
type PartialRentalError struct {
	IDs     []int64
	Deposit decimal.Decimal // parte del depósito ya registrada
	Err     error
}

func (e *PartialRentalError) Error() string { return e.Err.Error() }
func (e *PartialRentalError) Unwrap() error { return e.Err }

// OrderSubmitter servicio externo que recibe el borrador completo.
// Los errores deben ser *domain.SubmissionError, envuelto en *PartialRentalError si un
// alquiler quedó creado a medias; el núcleo no reintenta.
type OrderSubmitter interface {
	SubmitQuotation(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*SubmitResult, error)
	SubmitSale(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*SubmitResult, error)
	SubmitRental(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*SubmitResult, error)
}

// CatalogSource entrega la foto vigente del catálogo.
type CatalogSource interface {
	Current() *catalog.Snapshot
}
