package entity

import "github.com/shopspring/decimal"

// Tipos de producto del catálogo.
const (
	ProductTypeVenta    = "venta"
	ProductTypeAlquiler = "alquiler"
	ProductTypeAmbos    = "ambos"
)

// StockPurpose indica qué campo de stock gobierna la validación de un borrador.
type StockPurpose int

const (
	StockForSale   StockPurpose = iota // campo stock
	StockForRental                     // campo stock_available (pool de alquiler)
)

// Product es la foto de solo lectura de un producto, tal como la entrega el catálogo externo.
// El núcleo nunca la modifica.
type Product struct {
	ID             int64
	Name           string
	SKU            string
	Description    string
	Price          decimal.Decimal // precio de venta
	PricePerDay    decimal.Decimal // precio de alquiler por período; 0 = usar Price
	Stock          int             // unidades para venta
	StockAvailable int             // unidades libres para alquiler
	ProductType    string          // venta, alquiler, ambos
}

// AvailableFor devuelve el stock que aplica según el propósito del borrador.
// Para productos "ambos" decide el borrador, no el producto.
func (p *Product) AvailableFor(purpose StockPurpose) int {
	if purpose == StockForRental {
		return p.StockAvailable
	}
	return p.Stock
}

// RentalPrice precio por día; si el catálogo no lo define se usa Price.
func (p *Product) RentalPrice() decimal.Decimal {
	if p.PricePerDay.IsZero() {
		return p.Price
	}
	return p.PricePerDay
}

// UnitPriceFor devuelve el precio unitario por defecto según el propósito.
func (p *Product) UnitPriceFor(purpose StockPurpose) decimal.Decimal {
	if purpose == StockForRental {
		return p.RentalPrice()
	}
	return p.Price
}

// Sellable indica si el producto puede venderse.
func (p *Product) Sellable() bool {
	return p.ProductType == ProductTypeVenta || p.ProductType == ProductTypeAmbos
}

// Rentable indica si el producto puede alquilarse.
func (p *Product) Rentable() bool {
	return p.ProductType == ProductTypeAlquiler || p.ProductType == ProductTypeAmbos
}

// MatchesType indica si el producto pertenece a alguno de los tipos pedidos (vacío = todos).
func (p *Product) MatchesType(types ...string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == p.ProductType {
			return true
		}
	}
	return false
}
