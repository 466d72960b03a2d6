// Package draft casos de uso de las sesiones de borrador: cotizaciones, ventas y alquileres
// que se arman línea a línea y se envían completos al servicio de pedidos.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/lineitem"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
	"github.com/jhoicas/gestion-ventas/internal/domain/stock"
	"github.com/jhoicas/gestion-ventas/pkg/logger"
)

// UseCase orquesta acumulador, calculadora y guardia de stock sobre las sesiones.
type UseCase struct {
	store      *Store
	catalog    CatalogSource
	submitter  OrderSubmitter
	defaultTax decimal.Decimal
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewUseCase construye el caso de uso.
func NewUseCase(store *Store, catalog CatalogSource, submitter OrderSubmitter, defaultTax decimal.Decimal, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		store:      store,
		catalog:    catalog,
		submitter:  submitter,
		defaultTax: defaultTax,
		log:        log.Component("drafts"),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Create abre un borrador vacío del tipo pedido.
func (uc *UseCase) Create(in dto.CreateDraftRequest) (*dto.DraftResponse, error) {
	id, now := uc.newID(), uc.now()

	var d *entity.Draft
	switch entity.DraftKind(strings.ToLower(in.Kind)) {
	case entity.DraftQuotation:
		qt := strings.ToLower(in.QuotationType)
		if qt != "" && qt != entity.QuotationTypeVenta && qt != entity.QuotationTypeAlquiler {
			return nil, domain.NewValidationError("quotation_type", "Debe ser venta o alquiler")
		}
		d = entity.NewQuotation(id, qt, uc.defaultTax, now)
	case entity.DraftSale:
		d = entity.NewSale(id, uc.defaultTax, now)
	case entity.DraftRental:
		d = entity.NewRental(id, now)
	default:
		return nil, domain.NewValidationError("kind", "Debe ser quotation, sale o rental")
	}

	uc.store.Put(d)
	uc.log.Debug().Str("draft_id", id).Str("kind", string(d.Kind())).Msg("borrador creado")
	return toDraftResponse(d), nil
}

// Get devuelve el borrador con totales recalculados.
func (uc *UseCase) Get(id string) (*dto.DraftResponse, error) {
	d, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// AddItem agrega un producto del catálogo vigente (fusiona si ya estaba).
func (uc *UseCase) AddItem(id string, in dto.AddItemRequest) (*dto.AddItemResponse, error) {
	product, ok := uc.catalog.Current().Product(in.ProductID)
	if !ok {
		return nil, domain.NewValidationError("product_id", "Producto no encontrado en el catálogo")
	}
	var override *decimal.Decimal
	if in.UnitPrice != nil {
		p := in.UnitPrice.Decimal
		override = &p
	}

	var res lineitem.AddResult
	d, err := uc.store.Update(id, func(d *entity.Draft) error {
		var err error
		res, err = lineitem.For(d).AddItem(product, in.Quantity, override)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AddItemResponse{Index: res.Index, Merged: res.Merged, Draft: toDraftResponse(d)}, nil
}

// SetQuantity reemplaza la cantidad de una línea bajo la misma regla de stock.
func (uc *UseCase) SetQuantity(id string, index int, in dto.SetQuantityRequest) (*dto.DraftResponse, error) {
	snap := uc.catalog.Current()
	d, err := uc.store.Update(id, func(d *entity.Draft) error {
		if index < 0 || index >= len(d.Items) {
			return domain.NewValidationError("index", "Línea inexistente")
		}
		product, ok := snap.Product(d.Items[index].ProductID)
		if !ok {
			return domain.NewValidationError("product_id", "Producto no encontrado en el catálogo")
		}
		return lineitem.For(d).SetQuantity(index, product, in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// RemoveItem quita una línea; un índice fuera de rango no hace nada.
func (uc *UseCase) RemoveItem(id string, index int) (*dto.DraftResponse, error) {
	d, err := uc.store.Update(id, func(d *entity.Draft) error {
		lineitem.For(d).RemoveItem(index)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// Update aplica los campos de cabecera presentes. Si alguno es inválido no se aplica ninguno.
func (uc *UseCase) Update(id string, in dto.UpdateDraftRequest) (*dto.DraftResponse, error) {
	snap := uc.catalog.Current()
	d, err := uc.store.Update(id, func(d *entity.Draft) error {
		return applyHeader(d, in, snap)
	})
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// Validate ejecuta las reglas de envío sin enviar. Devuelve ValidationErrors con
// todas las reglas incumplidas o StockViolationsError con todas las líneas sin stock.
func (uc *UseCase) Validate(id string) (*dto.DraftResponse, error) {
	d, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := uc.check(d); err != nil {
		return nil, err
	}
	return toDraftResponse(d), nil
}

// Submit valida contra la foto vigente y entrega el borrador al servicio de pedidos.
// Con éxito la sesión se cierra; con error el borrador queda intacto para reintentar,
// salvo un alquiler creado a medias: las unidades ya registradas salen del borrador
// para que el reintento no las duplique.
func (uc *UseCase) Submit(ctx context.Context, id string) (*dto.SubmitResponse, error) {
	var res *SubmitResult
	_, err := uc.store.Finish(id, func(d *entity.Draft) error {
		if err := uc.check(d); err != nil {
			return err
		}
		totals := pricing.ForDraft(d)

		var err error
		switch d.Kind() {
		case entity.DraftQuotation:
			res, err = uc.submitter.SubmitQuotation(ctx, d, totals)
		case entity.DraftSale:
			res, err = uc.submitter.SubmitSale(ctx, d, totals)
		case entity.DraftRental:
			res, err = uc.submitRental(ctx, d, totals)
		default:
			err = fmt.Errorf("tipo de borrador desconocido: %s", d.Kind())
		}
		return err
	})
	if err != nil {
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) {
			uc.log.Warn().Err(err).Str("draft_id", id).Int("status", subErr.StatusCode).Msg("envío rechazado")
		}
		return nil, err
	}

	uc.log.Info().Str("draft_id", id).Str("kind", string(res.Kind)).Int("records", len(res.IDs)).Msg("borrador enviado")
	return &dto.SubmitResponse{Kind: string(res.Kind), IDs: res.IDs, Count: len(res.IDs)}, nil
}

// submitRental envía las unidades pendientes. Ante un fallo parcial descuenta del
// borrador lo ya creado y pide al store que conserve ese cambio.
func (uc *UseCase) submitRental(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*SubmitResult, error) {
	t := d.Terms.(*entity.RentalTerms)
	res, err := uc.submitter.SubmitRental(ctx, d, totals)
	if err != nil {
		var partial *PartialRentalError
		if !errors.As(err, &partial) || len(partial.IDs) == 0 {
			return nil, err
		}
		lineitem.For(d).DropUnits(len(partial.IDs))
		t.Deposit = decimal.Max(decimal.Zero, t.Deposit.Sub(partial.Deposit))
		t.Submitted = append(t.Submitted, partial.IDs...)
		uc.log.Warn().Str("draft_id", d.ID).Int("created", len(partial.IDs)).
			Int("pending_units", unitCount(d)).Msg("alquiler creado a medias")
		return nil, &keepChanges{err: err}
	}
	if len(t.Submitted) > 0 {
		res.IDs = append(append([]int64(nil), t.Submitted...), res.IDs...)
	}
	return res, nil
}

func unitCount(d *entity.Draft) int {
	n := 0
	for _, it := range d.Items {
		n += it.Quantity
	}
	return n
}

// Discard cierra la sesión sin enviar.
func (uc *UseCase) Discard(id string) error {
	if !uc.store.Delete(id) {
		return notFound(id)
	}
	return nil
}

// check reglas estructurales primero; solo si pasan se revisa el stock.
func (uc *UseCase) check(d *entity.Draft) error {
	errs := d.MissingRequirements()
	total := pricing.ForDraft(d).Total
	if total.IsNegative() {
		errs = append(errs, domain.NewValidationError("discount", "El descuento no puede superar el subtotal más impuestos"))
	}
	if t, ok := d.Terms.(*entity.SaleTerms); ok && t.Status == entity.SaleStatusCompletada {
		if t.PaidAmount.LessThan(total) {
			errs = append(errs, domain.NewValidationError("paid_amount", "El monto pagado debe ser igual al total para marcar como completada"))
		}
	}
	if err := errs.OrNil(); err != nil {
		return err
	}
	return stock.ValidateDraftForSubmit(d, uc.catalog.Current())
}
