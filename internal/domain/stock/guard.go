// Package stock implementa la guarda de stock: valida cantidades solicitadas contra
// el stock que informa el catálogo externo. Nunca consulta el catálogo por sí misma.
package stock

import (
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
)

// Decision resultado de CanAdd. Reason es nil cuando OK es true.
type Decision struct {
	OK     bool
	Reason error
}

// Catalog búsqueda de productos por ID sobre la foto vigente del catálogo.
type Catalog interface {
	Product(id int64) (*entity.Product, bool)
}

// AlreadyRequested suma las cantidades de las líneas con el mismo producto.
func AlreadyRequested(items []entity.LineItem, productID int64) int {
	n := 0
	for _, it := range items {
		if it.ProductID == productID {
			n += it.Quantity
		}
	}
	return n
}

// CanAdd rechaza si el stock disponible es <= 0 o si lo ya solicitado más lo nuevo
// supera el disponible. Acepta exactamente en el límite.
func CanAdd(product *entity.Product, requested int, current []entity.LineItem, purpose entity.StockPurpose) Decision {
	if product == nil || requested <= 0 {
		return Decision{Reason: domain.NewValidationError("quantity", "Seleccione un producto y una cantidad válida")}
	}
	return checkTotal(product, AlreadyRequested(current, product.ID)+requested, purpose)
}

// CanSet valida reemplazar la cantidad de la línea index por quantity.
func CanSet(product *entity.Product, index, quantity int, current []entity.LineItem, purpose entity.StockPurpose) Decision {
	if product == nil || quantity <= 0 {
		return Decision{Reason: domain.NewValidationError("quantity", "La cantidad debe ser mayor que cero")}
	}
	others := AlreadyRequested(current, product.ID)
	if index >= 0 && index < len(current) && current[index].ProductID == product.ID {
		others -= current[index].Quantity
	}
	return checkTotal(product, others+quantity, purpose)
}

func checkTotal(product *entity.Product, total int, purpose entity.StockPurpose) Decision {
	available := product.AvailableFor(purpose)
	if available <= 0 || total > available {
		return Decision{Reason: &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   available,
			Requested:   total,
		}}
	}
	return Decision{OK: true}
}

// ValidateDraftForSubmit recorre todas las líneas contra la foto más reciente del catálogo
// y devuelve todas las violaciones juntas. Un producto que ya no está en el catálogo
// cuenta con disponible 0.
func ValidateDraftForSubmit(d *entity.Draft, catalog Catalog) error {
	purpose := d.StockPurpose()
	var violations []*domain.InsufficientStockError
	for _, it := range d.Items {
		requested := AlreadyRequested(d.Items, it.ProductID)
		p, ok := catalog.Product(it.ProductID)
		if !ok {
			violations = append(violations, &domain.InsufficientStockError{
				ProductID: it.ProductID, ProductName: it.ProductName, Requested: requested,
			})
			continue
		}
		if available := p.AvailableFor(purpose); requested > available {
			violations = append(violations, &domain.InsufficientStockError{
				ProductID: p.ID, ProductName: p.Name, Available: available, Requested: requested,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &domain.StockViolationsError{Violations: violations}
}
