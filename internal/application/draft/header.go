package draft

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
)

// applyHeader valida todos los campos y acumula los errores; el llamador descarta
// la copia si hay alguno.
func applyHeader(d *entity.Draft, in dto.UpdateDraftRequest, snap *catalog.Snapshot) error {
	var errs domain.ValidationErrors
	fail := func(field, msg string) { errs = append(errs, domain.NewValidationError(field, msg)) }

	if in.ClientID != nil {
		switch {
		case *in.ClientID <= 0:
			fail("client_id", "Debe seleccionar un cliente")
		case snap.Loaded() && len(snap.Clients()) > 0:
			if _, ok := snap.Client(*in.ClientID); !ok {
				fail("client_id", "Cliente no encontrado")
				break
			}
			d.ClientID = *in.ClientID
		default:
			d.ClientID = *in.ClientID
		}
	}
	if in.TaxRate != nil {
		switch {
		case in.TaxRate.IsNegative():
			fail("tax_rate", "El impuesto no puede ser negativo")
		case d.Kind() == entity.DraftRental && !in.TaxRate.IsZero():
			fail("tax_rate", "Los alquileres no llevan impuesto")
		default:
			d.TaxRate = in.TaxRate.Decimal
		}
	}
	if in.DiscountMode != nil || in.Discount != nil {
		applyDiscount(d, in, fail)
	}
	if in.PaymentMethod != nil {
		if m := strings.ToLower(*in.PaymentMethod); entity.ValidPaymentMethod(m) {
			d.PaymentMethod = m
		} else {
			fail("payment_method", "Método de pago inválido")
		}
	}
	if in.Notes != nil {
		d.Notes = strings.TrimSpace(*in.Notes)
	}

	if in.StartDate != nil || in.EndDate != nil || in.Deposit != nil {
		applyRental(d, in, fail)
	}
	if in.PaidAmount != nil || in.Status != nil {
		applySale(d, in, fail)
	}
	return errs.OrNil()
}

func applyDiscount(d *entity.Draft, in dto.UpdateDraftRequest, fail func(string, string)) {
	next := d.Discount
	if in.DiscountMode != nil {
		next.Mode = entity.DiscountMode(strings.ToLower(*in.DiscountMode))
	}
	if in.Discount != nil {
		next.Value = in.Discount.Decimal
	}
	if d.Kind() == entity.DraftRental {
		if next.Mode != entity.DiscountPercent || !next.Value.IsZero() {
			fail("discount", "Los alquileres no llevan descuento")
		}
		return
	}
	switch next.Mode {
	case entity.DiscountPercent:
	case entity.DiscountAmount:
		if d.Kind() != entity.DraftSale {
			fail("discount_mode", "El descuento por monto solo aplica a ventas")
			return
		}
	default:
		fail("discount_mode", "Debe ser percent o amount")
		return
	}
	if next.Value.IsNegative() {
		fail("discount", "El descuento no puede ser negativo")
		return
	}
	d.Discount = next
}

func applyRental(d *entity.Draft, in dto.UpdateDraftRequest, fail func(string, string)) {
	var period *entity.RentalPeriod
	var deposit *decimal.Decimal
	switch t := d.Terms.(type) {
	case *entity.RentalTerms:
		period, deposit = &t.Period, &t.Deposit
	case *entity.QuotationTerms:
		if t.QuotationType == entity.QuotationTypeAlquiler {
			period, deposit = &t.Period, &t.Deposit
		}
	}
	if period == nil {
		fail("start_date", "Las fechas y el depósito solo aplican a alquileres")
		return
	}

	if in.StartDate != nil {
		if ts, ok := parseDate(*in.StartDate); ok {
			period.Start = ts
		} else {
			fail("start_date", "Fecha inválida")
		}
	}
	if in.EndDate != nil {
		if ts, ok := parseDate(*in.EndDate); ok {
			period.End = ts
		} else {
			fail("end_date", "Fecha inválida")
		}
	}
	if in.Deposit != nil {
		if in.Deposit.IsNegative() {
			fail("deposit", "El depósito no puede ser negativo")
		} else {
			*deposit = in.Deposit.Decimal
		}
	}
}

func applySale(d *entity.Draft, in dto.UpdateDraftRequest, fail func(string, string)) {
	t, ok := d.Terms.(*entity.SaleTerms)
	if !ok {
		fail("status", "El estado y el monto pagado solo aplican a ventas")
		return
	}
	if in.PaidAmount != nil {
		if in.PaidAmount.IsNegative() {
			fail("paid_amount", "El monto pagado no puede ser negativo")
		} else {
			t.PaidAmount = in.PaidAmount.Decimal
		}
	}
	if in.Status == nil {
		return
	}
	status := strings.ToLower(*in.Status)
	if !entity.ValidSaleStatus(status) {
		fail("status", "Estado inválido")
		return
	}
	t.Status = status
	// El cambio de estado ajusta el pagado: completada = total, pendiente = 0.
	switch status {
	case entity.SaleStatusCompletada:
		t.PaidAmount = pricing.ForDraft(d).Total
	case entity.SaleStatusPendientePago:
		t.PaidAmount = decimal.Zero
	}
}

// parseDate acepta YYYY-MM-DD o RFC3339; vacío borra la fecha.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, true
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
