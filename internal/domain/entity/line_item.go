package entity

import "github.com/shopspring/decimal"

// LineItem es una línea de producto dentro de un borrador.
// El subtotal no se almacena: siempre se deriva de cantidad, precio y días de alquiler.
type LineItem struct {
	ProductID       int64
	ProductName     string          // copia al momento de agregar
	Quantity        int             // > 0
	UnitPrice       decimal.Decimal // >= 0; por día en alquileres
	DiscountPercent decimal.Decimal // descuento por línea; se envía al backend
}

// Subtotal = cantidad × precio unitario × días de alquiler (1 fuera de alquileres).
func (l LineItem) Subtotal(rentalDays int) decimal.Decimal {
	if rentalDays < 1 {
		rentalDays = 1
	}
	return l.UnitPrice.
		Mul(decimal.NewFromInt(int64(l.Quantity))).
		Mul(decimal.NewFromInt(int64(rentalDays)))
}
