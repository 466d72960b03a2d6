// Package lineitem mantiene la lista ordenada de líneas de un borrador,
// aplicando la guarda de stock y la fusión de líneas del mismo producto.
package lineitem

import (
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// Accumulator opera sobre las líneas de un borrador. No es seguro para uso concurrente;
// el llamador serializa el acceso al borrador.
type Accumulator struct {
	draft *entity.Draft
}

// For devuelve el acumulador del borrador d.
func For(d *entity.Draft) *Accumulator {
	return &Accumulator{draft: d}
}

// AddResult señala que la línea quedó agregada para que el llamador limpie su selección.
type AddResult struct {
	Index  int  // posición de la línea afectada
	Merged bool // true si se sumó a una línea existente
}

// AddItem agrega requested unidades de product. Si ya existe una línea del producto
// suma la cantidad; si no, agrega una línea al final. unitPrice nil usa el precio del
// catálogo según el tipo de borrador. En error las líneas no cambian.
func (a *Accumulator) AddItem(product *entity.Product, requested int, unitPrice *decimal.Decimal) (AddResult, error) {
	if product == nil {
		return AddResult{}, domain.NewValidationError("product_id", "Debe seleccionar un producto")
	}
	if requested <= 0 {
		return AddResult{}, domain.NewValidationError("quantity", "La cantidad debe ser mayor que cero")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return AddResult{}, domain.NewValidationError("unit_price", "El precio no puede ser negativo")
	}
	purpose := a.draft.StockPurpose()
	if dec := stock.CanAdd(product, requested, a.draft.Items, purpose); !dec.OK {
		return AddResult{}, dec.Reason
	}

	if i := a.indexOf(product.ID); i >= 0 {
		a.draft.Items[i].Quantity += requested
		return AddResult{Index: i, Merged: true}, nil
	}

	price := product.UnitPriceFor(purpose)
	if unitPrice != nil {
		price = *unitPrice
	}
	a.draft.Items = append(a.draft.Items, entity.LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    requested,
		UnitPrice:   price,
	})
	return AddResult{Index: len(a.draft.Items) - 1}, nil
}

// RemoveItem quita la línea index. Un índice fuera de rango no hace nada y devuelve false.
func (a *Accumulator) RemoveItem(index int) bool {
	if index < 0 || index >= len(a.draft.Items) {
		return false
	}
	items := make([]entity.LineItem, 0, len(a.draft.Items)-1)
	items = append(items, a.draft.Items[:index]...)
	items = append(items, a.draft.Items[index+1:]...)
	a.draft.Items = items
	return true
}

// SetQuantity reemplaza la cantidad de la línea index, con la misma regla de stock que AddItem.
func (a *Accumulator) SetQuantity(index int, product *entity.Product, quantity int) error {
	if index < 0 || index >= len(a.draft.Items) {
		return domain.ErrNotFound
	}
	if product == nil || product.ID != a.draft.Items[index].ProductID {
		return domain.NewValidationError("product_id", "El producto no corresponde a la línea")
	}
	if dec := stock.CanSet(product, index, quantity, a.draft.Items, a.draft.StockPurpose()); !dec.OK {
		return dec.Reason
	}
	a.draft.Items[index].Quantity = quantity
	return nil
}

// DropUnits quita las primeras n unidades recorriendo las líneas en orden; las líneas
// que quedan sin unidades desaparecen. Devuelve las unidades efectivamente quitadas.
func (a *Accumulator) DropUnits(n int) int {
	dropped := 0
	items := make([]entity.LineItem, 0, len(a.draft.Items))
	for _, it := range a.draft.Items {
		take := max(0, min(n-dropped, it.Quantity))
		dropped += take
		it.Quantity -= take
		if it.Quantity > 0 {
			items = append(items, it)
		}
	}
	a.draft.Items = items
	return dropped
}

// Items copia de las líneas actuales.
func (a *Accumulator) Items() []entity.LineItem {
	return append([]entity.LineItem(nil), a.draft.Items...)
}

// Len cantidad de líneas.
func (a *Accumulator) Len() int { return len(a.draft.Items) }

func (a *Accumulator) indexOf(productID int64) int {
	for i, it := range a.draft.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}
