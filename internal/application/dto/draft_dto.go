package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Entrada ───────────────────────────────────────────────────────────────────

// CreateDraftRequest abre un borrador. Kind: quotation | sale | rental.
type CreateDraftRequest struct {
	Kind          string `json:"kind"`
	QuotationType string `json:"quotation_type"` // venta | alquiler (solo cotizaciones)
}

// UpdateDraftRequest campos de cabecera; solo se aplican los presentes.
// Las fechas aceptan YYYY-MM-DD o RFC3339; texto vacío las borra.
type UpdateDraftRequest struct {
	ClientID      *int64  `json:"client_id"`
	TaxRate       *Amount `json:"tax_rate"`
	Discount      *Amount `json:"discount"`
	DiscountMode  *string `json:"discount_mode"` // percent | amount
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Deposit       *Amount `json:"deposit"`
	Status        *string `json:"status"`
	PaidAmount    *Amount `json:"paid_amount"`
}

// AddItemRequest agrega un producto. Sin unit_price se usa el precio del catálogo.
type AddItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice *Amount `json:"unit_price"`
}

// SetQuantityRequest cambia la cantidad de una línea.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ── Salida ────────────────────────────────────────────────────────────────────

// LineItemResponse línea con su subtotal calculado.
type LineItemResponse struct {
	Index           int             `json:"index"`
	ProductID       int64           `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// DiscountResponse descuento del borrador.
type DiscountResponse struct {
	Mode  string          `json:"mode"`
	Value decimal.Decimal `json:"value"`
}

// TotalsResponse desglose redondeado a 2 decimales, con su versión formateada (es).
type TotalsResponse struct {
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Total          decimal.Decimal   `json:"total"`
	Formatted      map[string]string `json:"formatted"`
}

// DraftResponse vista completa de un borrador.
type DraftResponse struct {
	ID            string             `json:"id"`
	Kind          string             `json:"kind"`
	QuotationType string             `json:"quotation_type,omitempty"`
	ClientID      int64              `json:"client_id,omitempty"`
	Items         []LineItemResponse `json:"items"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Discount      DiscountResponse   `json:"discount"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes,omitempty"`

	StartDate    *time.Time       `json:"start_date,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	RentalDays   int              `json:"rental_days"`
	Deposit      *decimal.Decimal `json:"deposit,omitempty"`
	SubmittedIDs []int64          `json:"submitted_ids,omitempty"` // alquileres ya creados en un envío interrumpido

	Status     string           `json:"status,omitempty"`
	PaidAmount *decimal.Decimal `json:"paid_amount,omitempty"`
	BalanceDue *decimal.Decimal `json:"balance_due,omitempty"`

	Totals    TotalsResponse `json:"totals"`
	Readiness string         `json:"readiness"`
	Missing   []ErrorDetail  `json:"missing,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AddItemResponse resultado de agregar: índice de la línea y si se fusionó con una existente.
type AddItemResponse struct {
	Index  int            `json:"index"`
	Merged bool           `json:"merged"`
	Draft  *DraftResponse `json:"draft"`
}

// SubmitResponse resultado del envío al servicio de pedidos.
type SubmitResponse struct {
	Kind  string  `json:"kind"`
	IDs   []int64 `json:"ids"`
	Count int     `json:"count"`
}
