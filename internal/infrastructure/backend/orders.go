package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
)

var _ draft.OrderSubmitter = (*Client)(nil)

// Valores fijos que el backend espera en las cotizaciones.
const (
	defaultTermsConditions   = "Términos y condiciones estándar"
	defaultPaymentConditions = "Pago al contado"
	defaultDeliveryTime      = "5 días hábiles"
)

type createdJSON struct {
	ID int64 `json:"id"`
}

// ── Cotizaciones ──────────────────────────────────────────────────────────────

type quotationItemJSON struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int    `json:"quantity"`
	UnitPrice       number `json:"unit_price"`
	DiscountPercent number `json:"discount_percent"`
}

type quotationJSON struct {
	QuotationType     string              `json:"quotation_type"`
	ClientID          int64               `json:"client_id"`
	TaxRate           number              `json:"tax_rate"`
	DiscountPercent   number              `json:"discount_percent"`
	Notes             string              `json:"notes"`
	TermsConditions   string              `json:"terms_conditions"`
	PaymentConditions string              `json:"payment_conditions"`
	DeliveryTime      string              `json:"delivery_time"`
	PaymentMethod     string              `json:"payment_method"`
	Items             []quotationItemJSON `json:"items"`
}

// SubmitQuotation POST /quotations. En cotizaciones de alquiler las fechas y el depósito
// viajan dentro de las notas y el precio unitario ya incluye los días, porque el backend
// calcula cantidad × precio.
func (c *Client) SubmitQuotation(ctx context.Context, d *entity.Draft, _ pricing.Breakdown) (*draft.SubmitResult, error) {
	t, ok := d.Terms.(*entity.QuotationTerms)
	if !ok {
		return nil, fmt.Errorf("backend: el borrador %s no es una cotización", d.ID)
	}

	notes := d.Notes
	if t.QuotationType == entity.QuotationTypeAlquiler {
		notes += rentalNotes(t.Period, t.Deposit)
	}
	days := decimal.NewFromInt(int64(d.RentalDays()))
	payload := quotationJSON{
		QuotationType:     t.QuotationType,
		ClientID:          d.ClientID,
		TaxRate:           number(d.TaxRate),
		DiscountPercent:   number(d.Discount.Value),
		Notes:             notes,
		TermsConditions:   defaultTermsConditions,
		PaymentConditions: defaultPaymentConditions,
		DeliveryTime:      defaultDeliveryTime,
		PaymentMethod:     d.PaymentMethod,
		Items:             make([]quotationItemJSON, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		payload.Items = append(payload.Items, quotationItemJSON{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       number(it.UnitPrice.Mul(days)),
			DiscountPercent: number(it.DiscountPercent),
		})
	}

	var created createdJSON
	if err := c.do(ctx, http.MethodPost, "/quotations", payload, &created); err != nil {
		return nil, err
	}
	return &draft.SubmitResult{Kind: entity.DraftQuotation, IDs: []int64{created.ID}}, nil
}

func rentalNotes(p entity.RentalPeriod, deposit decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("\n\n--- Información de Alquiler ---\n")
	fmt.Fprintf(&b, "Fecha Inicio: %s\n", p.Start.Format("2006-01-02"))
	fmt.Fprintf(&b, "Fecha Fin: %s\n", p.End.Format("2006-01-02"))
	fmt.Fprintf(&b, "Días: %d\n", p.Days())
	fmt.Fprintf(&b, "Depósito: %s", deposit.String())
	return b.String()
}

// ── Ventas ────────────────────────────────────────────────────────────────────

type saleItemJSON struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice number `json:"unit_price"`
}

type saleJSON struct {
	ClientID      int64          `json:"client_id"`
	Status        string         `json:"status"`
	PaidAmount    number         `json:"paid_amount"`
	TaxRate       number         `json:"tax_rate"`
	Discount      number         `json:"discount"` // monto, no porcentaje
	PaymentMethod string         `json:"payment_method"`
	Notes         string         `json:"notes"`
	Items         []saleItemJSON `json:"items"`
}

// SubmitSale POST /sales. El backend recibe el descuento como monto.
func (c *Client) SubmitSale(ctx context.Context, d *entity.Draft, totals pricing.Breakdown) (*draft.SubmitResult, error) {
	t, ok := d.Terms.(*entity.SaleTerms)
	if !ok {
		return nil, fmt.Errorf("backend: el borrador %s no es una venta", d.ID)
	}
	payload := saleJSON{
		ClientID:      d.ClientID,
		Status:        t.Status,
		PaidAmount:    number(t.PaidForSubmit()),
		TaxRate:       number(d.TaxRate),
		Discount:      number(totals.DiscountAmount.Round(2)),
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		Items:         make([]saleItemJSON, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		payload.Items = append(payload.Items, saleItemJSON{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: number(it.UnitPrice),
		})
	}

	var created createdJSON
	if err := c.do(ctx, http.MethodPost, "/sales", payload, &created); err != nil {
		return nil, err
	}
	return &draft.SubmitResult{Kind: entity.DraftSale, IDs: []int64{created.ID}}, nil
}

// ── Alquileres ────────────────────────────────────────────────────────────────

type rentalJSON struct {
	ClientID      int64  `json:"client_id"`
	ProductID     int64  `json:"product_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	RentalPeriod  string `json:"rental_period"`
	RentalPrice   number `json:"rental_price"`
	Deposit       number `json:"deposit"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
	TaxRate       number `json:"tax_rate"`
	Discount      number `json:"discount"`
}

// SubmitRental POST /rentals/ una vez por unidad: el backend registra un producto por alquiler.
// El depósito se reparte en partes iguales entre las unidades. Si una petición falla,
// las anteriores ya quedaron creadas y el error las devuelve como *draft.PartialRentalError.
func (c *Client) SubmitRental(ctx context.Context, d *entity.Draft, _ pricing.Breakdown) (*draft.SubmitResult, error) {
	t, ok := d.Terms.(*entity.RentalTerms)
	if !ok {
		return nil, fmt.Errorf("backend: el borrador %s no es un alquiler", d.ID)
	}

	units := 0
	for _, it := range d.Items {
		units += it.Quantity
	}
	depositPerUnit := decimal.Zero
	if units > 0 {
		depositPerUnit = t.Deposit.DivRound(decimal.NewFromInt(int64(units)), 2)
	}

	ids := make([]int64, 0, units)
	for _, it := range d.Items {
		for i := 0; i < it.Quantity; i++ {
			payload := rentalJSON{
				ClientID:      d.ClientID,
				ProductID:     it.ProductID,
				StartDate:     t.Period.Start.UTC().Format(time.RFC3339),
				EndDate:       t.Period.End.UTC().Format(time.RFC3339),
				RentalPeriod:  "daily",
				RentalPrice:   number(it.UnitPrice),
				Deposit:       number(depositPerUnit),
				PaymentMethod: d.PaymentMethod,
				Notes:         d.Notes,
				TaxRate:       number(d.TaxRate),
				Discount:      number(d.Discount.Value),
			}
			var created createdJSON
			if err := c.do(ctx, http.MethodPost, "/rentals/", payload, &created); err != nil {
				return nil, partialRentalError(err, ids, depositPerUnit, units)
			}
			ids = append(ids, created.ID)
		}
	}
	return &draft.SubmitResult{Kind: entity.DraftRental, IDs: ids}, nil
}

func partialRentalError(err error, ids []int64, depositPerUnit decimal.Decimal, total int) error {
	if len(ids) == 0 {
		return err
	}
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) {
		subErr.Messages = append(subErr.Messages,
			fmt.Sprintf("Se crearon %d de %d alquileres antes del error", len(ids), total))
	}
	return &draft.PartialRentalError{
		IDs:     ids,
		Deposit: depositPerUnit.Mul(decimal.NewFromInt(int64(len(ids)))),
		Err:     err,
	}
}
