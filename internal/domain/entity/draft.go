package entity

import (
	"time"

	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/shopspring/decimal"
)

// DraftKind tipo de transacción en preparación.
type DraftKind string

const (
	DraftQuotation DraftKind = "quotation"
	DraftSale      DraftKind = "sale"
	DraftRental    DraftKind = "rental"
)

// Tipos de cotización aceptados por el backend.
const (
	QuotationTypeVenta    = "venta"
	QuotationTypeAlquiler = "alquiler"
)

// Métodos de pago.
const (
	PaymentEfectivo      = "efectivo"
	PaymentTarjeta       = "tarjeta"
	PaymentTransferencia = "transferencia"
	PaymentCheque        = "cheque"
)

// ValidPaymentMethod indica si m es un método de pago conocido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentEfectivo, PaymentTarjeta, PaymentTransferencia, PaymentCheque:
		return true
	}
	return false
}

// Estados de una venta; el estado ajusta el monto pagado.
const (
	SaleStatusPendientePago = "pendiente_pago"
	SaleStatusParcial       = "parcial"
	SaleStatusCompletada    = "completada"
	SaleStatusCancelada     = "cancelada"
)

// ValidSaleStatus indica si s es un estado de venta conocido.
func ValidSaleStatus(s string) bool {
	switch s {
	case SaleStatusPendientePago, SaleStatusParcial, SaleStatusCompletada, SaleStatusCancelada:
		return true
	}
	return false
}

// DiscountMode indica cómo se interpreta el descuento del borrador.
type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent" // porcentaje del subtotal
	DiscountAmount  DiscountMode = "amount"  // monto fijo en moneda
)

// Discount descuento a nivel de borrador.
type Discount struct {
	Mode  DiscountMode
	Value decimal.Decimal
}

// PercentDiscount atajo para un descuento porcentual.
func PercentDiscount(p decimal.Decimal) Discount {
	return Discount{Mode: DiscountPercent, Value: p}
}

// AmountDiscount atajo para un descuento de monto fijo.
func AmountDiscount(a decimal.Decimal) Discount {
	return Discount{Mode: DiscountAmount, Value: a}
}

// RentalPeriod rango de fechas de calendario de un alquiler.
type RentalPeriod struct {
	Start time.Time
	End   time.Time
}

// IsSet indica si ambas fechas están definidas.
func (p RentalPeriod) IsSet() bool {
	return !p.Start.IsZero() && !p.End.IsZero()
}

// Days = ceil((fin − inicio) / 1 día), mínimo 1. Sin fechas devuelve 1.
func (p RentalPeriod) Days() int {
	if !p.IsSet() || p.End.Before(p.Start) {
		return 1
	}
	d := p.End.Sub(p.Start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		return 1
	}
	return days
}

// Terms parte variable del borrador según su tipo (cotización, venta o alquiler).
type Terms interface {
	Kind() DraftKind
	isTerms()
}

// QuotationTerms datos propios de una cotización.
// Las cotizaciones de alquiler llevan también período y depósito.
type QuotationTerms struct {
	QuotationType string
	Period        RentalPeriod
	Deposit       decimal.Decimal
}

// SaleTerms datos propios de una venta.
type SaleTerms struct {
	Status     string
	PaidAmount decimal.Decimal
}

// PaidForSubmit monto pagado que se envía: una venta pendiente de pago no lleva pago
// aunque el monto se haya editado después de fijar el estado.
func (t *SaleTerms) PaidForSubmit() decimal.Decimal {
	if t.Status == SaleStatusPendientePago {
		return decimal.Zero
	}
	return t.PaidAmount
}

// RentalTerms datos propios de un alquiler.
type RentalTerms struct {
	Period  RentalPeriod
	Deposit decimal.Decimal
	// Submitted registros ya creados en un envío que falló a mitad; sus unidades
	// ya no figuran en Items.
	Submitted []int64
}

func (*QuotationTerms) Kind() DraftKind { return DraftQuotation }
func (*SaleTerms) Kind() DraftKind      { return DraftSale }
func (*RentalTerms) Kind() DraftKind    { return DraftRental }

func (*QuotationTerms) isTerms() {}
func (*SaleTerms) isTerms()      {}
func (*RentalTerms) isTerms()    {}

// Readiness estado informal del borrador.
type Readiness string

const (
	ReadinessEmpty         Readiness = "empty"
	ReadinessHasItems      Readiness = "has_items"
	ReadinessReadyToSubmit Readiness = "ready_to_submit"
)

// Draft cotización, venta o alquiler en preparación. Solo se modifica a través del
// acumulador de líneas y de la actualización de cabecera; nunca se persiste parcialmente.
type Draft struct {
	ID            string
	ClientID      int64
	Items         []LineItem
	TaxRate       decimal.Decimal // porcentaje (ITBIS)
	Discount      Discount
	PaymentMethod string
	Notes         string
	Terms         Terms
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuotation crea un borrador de cotización vacío.
func NewQuotation(id, quotationType string, taxRate decimal.Decimal, now time.Time) *Draft {
	if quotationType == "" {
		quotationType = QuotationTypeVenta
	}
	return newDraft(id, &QuotationTerms{QuotationType: quotationType}, taxRate, now)
}

// NewSale crea un borrador de venta vacío en estado pendiente de pago.
func NewSale(id string, taxRate decimal.Decimal, now time.Time) *Draft {
	return newDraft(id, &SaleTerms{Status: SaleStatusPendientePago}, taxRate, now)
}

// NewRental crea un borrador de alquiler vacío. Los alquileres no llevan impuesto
// ni descuento: el total es cantidad × precio por día × días.
func NewRental(id string, now time.Time) *Draft {
	return newDraft(id, &RentalTerms{}, decimal.Zero, now)
}

func newDraft(id string, terms Terms, taxRate decimal.Decimal, now time.Time) *Draft {
	return &Draft{
		ID:            id,
		TaxRate:       taxRate,
		Discount:      PercentDiscount(decimal.Zero),
		PaymentMethod: PaymentEfectivo,
		Terms:         terms,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Kind tipo del borrador.
func (d *Draft) Kind() DraftKind { return d.Terms.Kind() }

// Period devuelve el período de alquiler si el borrador lo tiene.
func (d *Draft) Period() (RentalPeriod, bool) {
	switch t := d.Terms.(type) {
	case *RentalTerms:
		return t.Period, true
	case *QuotationTerms:
		if t.QuotationType == QuotationTypeAlquiler {
			return t.Period, true
		}
	}
	return RentalPeriod{}, false
}

// RentalDays multiplicador de días; 1 para borradores que no son de alquiler.
func (d *Draft) RentalDays() int {
	if p, ok := d.Period(); ok {
		return p.Days()
	}
	return 1
}

// StockPurpose campo de stock que gobierna la validación de este borrador.
func (d *Draft) StockPurpose() StockPurpose {
	if _, ok := d.Period(); ok {
		return StockForRental
	}
	return StockForSale
}

// Readiness calcula Empty → HasItems → ReadyToSubmit a partir del estado actual.
func (d *Draft) Readiness() Readiness {
	if len(d.Items) == 0 {
		return ReadinessEmpty
	}
	if len(d.MissingRequirements()) > 0 {
		return ReadinessHasItems
	}
	return ReadinessReadyToSubmit
}

// MissingRequirements reglas estructurales que impiden enviar el borrador, una por regla.
func (d *Draft) MissingRequirements() domain.ValidationErrors {
	var out domain.ValidationErrors
	if len(d.Items) == 0 {
		out = append(out, domain.NewValidationError("items", "Debe agregar al menos un producto"))
	}
	if d.ClientID <= 0 {
		out = append(out, domain.NewValidationError("client_id", "Debe seleccionar un cliente"))
	}
	if p, ok := d.Period(); ok {
		switch {
		case p.Start.IsZero():
			out = append(out, domain.NewValidationError("start_date", "Debe seleccionar una fecha de inicio"))
		case p.End.IsZero():
			out = append(out, domain.NewValidationError("end_date", "Debe seleccionar una fecha de fin"))
		case p.End.Before(p.Start):
			out = append(out, domain.NewValidationError("end_date", "La fecha de fin debe ser igual o posterior a la de inicio"))
		}
	}
	return out
}

// Clone copia profunda del borrador (las líneas no comparten backing array).
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.Items = append([]LineItem(nil), d.Items...)
	switch t := d.Terms.(type) {
	case *QuotationTerms:
		tt := *t
		cp.Terms = &tt
	case *SaleTerms:
		tt := *t
		cp.Terms = &tt
	case *RentalTerms:
		tt := *t
		tt.Submitted = append([]int64(nil), t.Submitted...)
		cp.Terms = &tt
	}
	return &cp
}
