package draft

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
	"github.com/jhoicas/gestion-ventas/pkg/numfmt"
)

func toDraftResponse(d *entity.Draft) *dto.DraftResponse {
	days := d.RentalDays()
	totals := pricing.ForDraft(d).Rounded()

	out := &dto.DraftResponse{
		ID:            d.ID,
		Kind:          string(d.Kind()),
		ClientID:      d.ClientID,
		Items:         make([]dto.LineItemResponse, 0, len(d.Items)),
		TaxRate:       d.TaxRate,
		Discount:      dto.DiscountResponse{Mode: string(d.Discount.Mode), Value: d.Discount.Value},
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		RentalDays:    days,
		Totals:        toTotalsResponse(totals),
		Readiness:     string(d.Readiness()),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for i, it := range d.Items {
		out.Items = append(out.Items, dto.LineItemResponse{
			Index:           i,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Subtotal:        it.Subtotal(days).Round(2),
		})
	}

	switch t := d.Terms.(type) {
	case *entity.QuotationTerms:
		out.QuotationType = t.QuotationType
		if t.QuotationType == entity.QuotationTypeAlquiler {
			setPeriod(out, t.Period, t.Deposit)
		}
	case *entity.RentalTerms:
		setPeriod(out, t.Period, t.Deposit)
		out.SubmittedIDs = t.Submitted
	case *entity.SaleTerms:
		out.Status = t.Status
		paid := t.PaidForSubmit()
		balance := pricing.BalanceDue(totals.Total, paid).Round(2)
		out.PaidAmount, out.BalanceDue = &paid, &balance
	}

	for _, m := range d.MissingRequirements() {
		out.Missing = append(out.Missing, dto.ErrorDetail{Field: m.Field, Message: m.Message})
	}
	return out
}

func setPeriod(out *dto.DraftResponse, p entity.RentalPeriod, deposit decimal.Decimal) {
	if !p.Start.IsZero() {
		start := p.Start
		out.StartDate = &start
	}
	if !p.End.IsZero() {
		end := p.End
		out.EndDate = &end
	}
	out.Deposit = &deposit
}

func toTotalsResponse(b pricing.Breakdown) dto.TotalsResponse {
	return dto.TotalsResponse{
		Subtotal:       b.Subtotal,
		TaxAmount:      b.TaxAmount,
		DiscountAmount: b.DiscountAmount,
		Total:          b.Total,
		Formatted: map[string]string{
			"subtotal":        numfmt.Format(b.Subtotal, 2),
			"tax_amount":      numfmt.Format(b.TaxAmount, 2),
			"discount_amount": numfmt.Format(b.DiscountAmount, 2),
			"total":           numfmt.Format(b.Total, 2),
		},
	}
}
