// Package pricing implementa la calculadora de precios de cotizaciones, ventas y alquileres.
// Todas las funciones son puras: no modifican las líneas y pueden llamarse en cada lectura.
package pricing

import (
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rates parámetros de tarifa del borrador.
type Rates struct {
	TaxRate    decimal.Decimal // porcentaje, ej. 18
	Discount   entity.Discount
	RentalDays int // 1 fuera de alquileres
}

// Breakdown resultado completo del cálculo. Los valores son exactos;
// redondear solo para mostrar (ver Rounded).
type Breakdown struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// Subtotal = Σ cantidad × precio unitario × días de alquiler.
func Subtotal(items []entity.LineItem, rentalDays int) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal(rentalDays))
	}
	return sum
}

// TaxAmount = subtotal × (taxRatePercent / 100).
func TaxAmount(items []entity.LineItem, taxRatePercent decimal.Decimal, rentalDays int) decimal.Decimal {
	return percentOf(Subtotal(items, rentalDays), taxRatePercent)
}

// DiscountAmount = subtotal × (porcentaje / 100) o el monto fijo si el descuento es por monto.
func DiscountAmount(items []entity.LineItem, discount entity.Discount, rentalDays int) decimal.Decimal {
	return discountOn(Subtotal(items, rentalDays), discount)
}

// Total = subtotal + impuesto − descuento. No se recorta a cero:
// un total negativo indica un descuento mayor que subtotal + impuesto y es decisión del llamador.
func Total(items []entity.LineItem, rates Rates) decimal.Decimal {
	return Compute(items, rates).Total
}

// Compute calcula subtotal, impuesto, descuento y total en una sola pasada.
func Compute(items []entity.LineItem, rates Rates) Breakdown {
	sub := Subtotal(items, rates.RentalDays)
	tax := percentOf(sub, rates.TaxRate)
	disc := discountOn(sub, rates.Discount)
	return Breakdown{
		Subtotal:       sub,
		TaxAmount:      tax,
		DiscountAmount: disc,
		Total:          sub.Add(tax).Sub(disc),
	}
}

// RatesFor extrae las tarifas de un borrador.
func RatesFor(d *entity.Draft) Rates {
	return Rates{
		TaxRate:    d.TaxRate,
		Discount:   d.Discount,
		RentalDays: d.RentalDays(),
	}
}

// ForDraft calcula el desglose de un borrador.
func ForDraft(d *entity.Draft) Breakdown {
	return Compute(d.Items, RatesFor(d))
}

// BalanceDue saldo pendiente de una venta (total − pagado).
func BalanceDue(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

// Rounded devuelve el desglose redondeado a 2 decimales para presentación.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:       b.Subtotal.Round(2),
		TaxAmount:      b.TaxAmount.Round(2),
		DiscountAmount: b.DiscountAmount.Round(2),
		Total:          b.Total.Round(2),
	}
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return decimal.Zero
	}
	return base.Mul(percent).Div(hundred)
}

func discountOn(sub decimal.Decimal, d entity.Discount) decimal.Decimal {
	if d.Mode == entity.DiscountAmount {
		return d.Value
	}
	return percentOf(sub, d.Value)
}
