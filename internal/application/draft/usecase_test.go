package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type staticCatalog struct{ snap *catalog.Snapshot }

func (s *staticCatalog) Current() *catalog.Snapshot { return s.snap }

type fakeSubmitter struct {
	calls  int
	last   *entity.Draft
	totals pricing.Breakdown
	err    error
}

func (f *fakeSubmitter) submit(kind entity.DraftKind, d *entity.Draft, b pricing.Breakdown) (*SubmitResult, error) {
	f.calls++
	f.last, f.totals = d, b
	if f.err != nil {
		return nil, f.err
	}
	return &SubmitResult{Kind: kind, IDs: []int64{101}}, nil
}

func (f *fakeSubmitter) SubmitQuotation(_ context.Context, d *entity.Draft, b pricing.Breakdown) (*SubmitResult, error) {
	return f.submit(entity.DraftQuotation, d, b)
}

func (f *fakeSubmitter) SubmitSale(_ context.Context, d *entity.Draft, b pricing.Breakdown) (*SubmitResult, error) {
	return f.submit(entity.DraftSale, d, b)
}

func (f *fakeSubmitter) SubmitRental(_ context.Context, d *entity.Draft, b pricing.Breakdown) (*SubmitResult, error) {
	return f.submit(entity.DraftRental, d, b)
}

// rentalBackend crea un registro por unidad y falla en la petición failAt, como el
// servicio de alquileres real.
type rentalBackend struct {
	fakeSubmitter
	posts    int
	failAt   int
	deposits []decimal.Decimal
}

func (r *rentalBackend) SubmitRental(_ context.Context, d *entity.Draft, _ pricing.Breakdown) (*SubmitResult, error) {
	t := d.Terms.(*entity.RentalTerms)
	units := unitCount(d)
	perUnit := t.Deposit.DivRound(decimal.NewFromInt(int64(units)), 2)

	var ids []int64
	for _, it := range d.Items {
		for i := 0; i < it.Quantity; i++ {
			r.posts++
			if r.posts == r.failAt {
				err := &domain.SubmissionError{StatusCode: 400, Messages: []string{"Producto no disponible"}}
				if len(ids) == 0 {
					return nil, err
				}
				return nil, &PartialRentalError{IDs: ids, Deposit: perUnit.Mul(decimal.NewFromInt(int64(len(ids)))), Err: err}
			}
			r.deposits = append(r.deposits, perUnit)
			ids = append(ids, int64(200+r.posts))
		}
	}
	return &SubmitResult{Kind: entity.DraftRental, IDs: ids}, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func amount(s string) *dto.Amount { return dto.NewAmount(dec(s)) }

func ptr[T any](v T) *T { return &v }

func testCatalog() *staticCatalog {
	return &staticCatalog{snap: catalog.NewSnapshot(
		[]*entity.Product{
			{ID: 1, Name: "P1", Price: dec("100"), Stock: 5, StockAvailable: 5, ProductType: entity.ProductTypeVenta},
			{ID: 2, Name: "P2", Price: dec("80"), Stock: 3, StockAvailable: 3, ProductType: entity.ProductTypeVenta},
			{ID: 3, Name: "Carpa", Price: dec("70"), PricePerDay: dec("50"), Stock: 1, StockAvailable: 4, ProductType: entity.ProductTypeAmbos},
		},
		[]*entity.Client{{ID: 7, Name: "Ana"}},
		time.Now(),
	)}
}

func newTestUseCase(sub *fakeSubmitter) (*UseCase, *staticCatalog) {
	cat := testCatalog()
	uc := NewUseCase(NewStore(time.Hour), cat, sub, dec("18"), nil)
	n := 0
	uc.newID = func() string { n++; return "d" + string(rune('0'+n)) }
	return uc, cat
}

// ─── Create / AddItem ─────────────────────────────────────────────────────────

func TestCreate_TiposYValidacion(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})

	q, err := uc.Create(dto.CreateDraftRequest{Kind: "quotation"})
	require.NoError(t, err)
	assert.Equal(t, "venta", q.QuotationType)
	assert.Equal(t, "18", q.TaxRate.String())
	assert.Equal(t, string(entity.ReadinessEmpty), q.Readiness)

	_, err = uc.Create(dto.CreateDraftRequest{Kind: "factura"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(dto.CreateDraftRequest{Kind: "quotation", QuotationType: "leasing"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_EscenarioA(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})

	r, err := uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 2})
	require.NoError(t, err)
	assert.False(t, r.Merged)
	assert.True(t, dec("200").Equal(r.Draft.Totals.Subtotal))

	r, err = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, r.Merged)
	require.Len(t, r.Draft.Items, 1)
	assert.Equal(t, 3, r.Draft.Items[0].Quantity)
	assert.True(t, dec("300").Equal(r.Draft.Totals.Subtotal))
	assert.True(t, dec("54").Equal(r.Draft.Totals.TaxAmount))
	assert.True(t, dec("354").Equal(r.Draft.Totals.Total))
	assert.Equal(t, "354,00", r.Draft.Totals.Formatted["total"])
}

func TestAddItem_StockInsuficienteNoModifica(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})

	_, err := uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 2, Quantity: 4})
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)

	got, _ := uc.Get(d.ID)
	assert.Empty(t, got.Items)
}

func TestAddItem_ProductoDesconocido(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})

	_, err := uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 99, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddItem_AlquilerUsaPrecioPorDiaYStockDisponible(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "rental"})

	_, err := uc.Update(d.ID, dto.UpdateDraftRequest{StartDate: ptr("2024-01-01"), EndDate: ptr("2024-01-04")})
	require.NoError(t, err)

	r, err := uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 3, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Draft.RentalDays)
	assert.True(t, dec("50").Equal(r.Draft.Items[0].UnitPrice))
	assert.True(t, dec("300").Equal(r.Draft.Totals.Subtotal))
}

// ─── Update ───────────────────────────────────────────────────────────────────

func TestUpdate_TodoONada(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})

	_, err := uc.Update(d.ID, dto.UpdateDraftRequest{
		ClientID:      ptr(int64(7)),
		PaymentMethod: ptr("bitcoin"),
	})
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "payment_method", verrs[0].Field)

	got, _ := uc.Get(d.ID)
	assert.Zero(t, got.ClientID)
}

func TestUpdate_EstadoAjustaPagado(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, err := uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 3})
	require.NoError(t, err)

	got, err := uc.Update(d.ID, dto.UpdateDraftRequest{Status: ptr("completada")})
	require.NoError(t, err)
	assert.True(t, dec("354").Equal(*got.PaidAmount))
	assert.True(t, got.BalanceDue.IsZero())

	got, err = uc.Update(d.ID, dto.UpdateDraftRequest{Status: ptr("parcial"), PaidAmount: amount("100")})
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(*got.PaidAmount))
	assert.True(t, dec("254").Equal(*got.BalanceDue))

	got, err = uc.Update(d.ID, dto.UpdateDraftRequest{Status: ptr("pendiente_pago")})
	require.NoError(t, err)
	assert.True(t, got.PaidAmount.IsZero())
}

func TestUpdate_DescuentoPorMontoSoloEnVentas(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	q, _ := uc.Create(dto.CreateDraftRequest{Kind: "quotation"})
	_, err := uc.Update(q.ID, dto.UpdateDraftRequest{DiscountMode: ptr("amount"), Discount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(s.ID, dto.AddItemRequest{ProductID: 1, Quantity: 3})
	got, err := uc.Update(s.ID, dto.UpdateDraftRequest{DiscountMode: ptr("amount"), Discount: amount("50"), TaxRate: amount("0")})
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(got.Totals.Total))
}

func TestUpdate_FechasSoloEnAlquileres(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	s, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, err := uc.Update(s.ID, dto.UpdateDraftRequest{StartDate: ptr("2024-01-01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	q, _ := uc.Create(dto.CreateDraftRequest{Kind: "quotation", QuotationType: "alquiler"})
	got, err := uc.Update(q.ID, dto.UpdateDraftRequest{StartDate: ptr("2024-01-01"), EndDate: ptr("2024-01-03"), Deposit: amount("200")})
	require.NoError(t, err)
	assert.Equal(t, 2, got.RentalDays)
	assert.True(t, dec("200").Equal(*got.Deposit))
}

func TestUpdate_AlquilerSinImpuestoNiDescuento(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	r, err := uc.Create(dto.CreateDraftRequest{Kind: "rental"})
	require.NoError(t, err)
	assert.True(t, r.TaxRate.IsZero())

	_, err = uc.Update(r.ID, dto.UpdateDraftRequest{TaxRate: amount("18")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(r.ID, dto.UpdateDraftRequest{Discount: amount("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Update(r.ID, dto.UpdateDraftRequest{TaxRate: amount("0"), Discount: amount("0"), Notes: ptr("sin cargos")})
	require.NoError(t, err)
	assert.Equal(t, "sin cargos", got.Notes)

	_, err = uc.Update(r.ID, dto.UpdateDraftRequest{StartDate: ptr("2024-01-01"), EndDate: ptr("2024-01-04")})
	require.NoError(t, err)
	added, err := uc.AddItem(r.ID, dto.AddItemRequest{ProductID: 3, Quantity: 1})
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(added.Draft.Totals.Total), "cantidad × precio por día × días")
}

func TestUpdate_PendientePagoNoMuestraPago(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})

	got, err := uc.Update(d.ID, dto.UpdateDraftRequest{PaidAmount: amount("60")})
	require.NoError(t, err)
	assert.Equal(t, "pendiente_pago", got.Status)
	assert.True(t, got.PaidAmount.IsZero())
	assert.True(t, dec("118").Equal(*got.BalanceDue))
}

// ─── Validate / Submit ────────────────────────────────────────────────────────

func TestValidate_ReportaTodasLasReglas(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "rental"})

	_, err := uc.Validate(d.ID)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"items", "client_id", "start_date"}, fields)
}

func TestValidate_CompletadaConPagoMenor(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})
	_, err := uc.Update(d.ID, dto.UpdateDraftRequest{ClientID: ptr(int64(7)), Status: ptr("completada")})
	require.NoError(t, err)
	_, err = uc.Update(d.ID, dto.UpdateDraftRequest{PaidAmount: amount("10")})
	require.NoError(t, err)

	_, err = uc.Validate(d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_RevalidaStockContraFotoVigente(t *testing.T) {
	sub := &fakeSubmitter{}
	uc, cat := newTestUseCase(sub)
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 3})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 2, Quantity: 2})
	_, _ = uc.Update(d.ID, dto.UpdateDraftRequest{ClientID: ptr(int64(7))})

	// Otro usuario vendió unidades mientras tanto.
	cat.snap = catalog.NewSnapshot([]*entity.Product{
		{ID: 1, Name: "P1", Price: dec("100"), Stock: 2, ProductType: entity.ProductTypeVenta},
		{ID: 2, Name: "P2", Price: dec("80"), Stock: 1, ProductType: entity.ProductTypeVenta},
	}, nil, time.Now())

	_, err := uc.Submit(context.Background(), d.ID)
	var violations *domain.StockViolationsError
	require.ErrorAs(t, err, &violations)
	assert.Len(t, violations.Violations, 2)
	assert.Zero(t, sub.calls)

	got, err := uc.Get(d.ID)
	require.NoError(t, err, "el borrador se conserva")
	assert.Len(t, got.Items, 2)
}

func TestSubmit_ExitoCierraLaSesion(t *testing.T) {
	sub := &fakeSubmitter{}
	uc, _ := newTestUseCase(sub)
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "quotation"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 3})
	_, _ = uc.Update(d.ID, dto.UpdateDraftRequest{ClientID: ptr(int64(7)), TaxRate: amount("0"), Discount: amount("10")})

	res, err := uc.Submit(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, "quotation", res.Kind)
	assert.Equal(t, []int64{101}, res.IDs)
	assert.True(t, dec("270").Equal(sub.totals.Total))

	_, err = uc.Get(d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_RechazoConservaBorrador(t *testing.T) {
	sub := &fakeSubmitter{err: &domain.SubmissionError{StatusCode: 422, Messages: []string{"client_id: field required"}}}
	uc, _ := newTestUseCase(sub)
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})
	_, _ = uc.Update(d.ID, dto.UpdateDraftRequest{ClientID: ptr(int64(7))})

	_, err := uc.Submit(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrSubmission)

	got, err := uc.Get(d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestSubmit_TotalNegativoNoSeEnvia(t *testing.T) {
	sub := &fakeSubmitter{}
	uc, _ := newTestUseCase(sub)
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})
	_, err := uc.Update(d.ID, dto.UpdateDraftRequest{
		ClientID:     ptr(int64(7)),
		DiscountMode: ptr("amount"),
		Discount:     amount("500"),
	})
	require.NoError(t, err)

	_, err = uc.Submit(context.Background(), d.ID)
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "discount", verrs[0].Field)
	assert.Zero(t, sub.calls)

	got, err := uc.Get(d.ID)
	require.NoError(t, err)
	assert.True(t, dec("-382").Equal(got.Totals.Total))
}

func TestSubmit_AlquilerInterrumpidoNoDuplicaUnidades(t *testing.T) {
	sub := &rentalBackend{failAt: 2}
	uc := NewUseCase(NewStore(time.Hour), testCatalog(), sub, dec("18"), nil)
	uc.newID = func() string { return "r1" }

	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "rental"})
	_, err := uc.Update(d.ID, dto.UpdateDraftRequest{
		ClientID:  ptr(int64(7)),
		StartDate: ptr("2024-01-01"),
		EndDate:   ptr("2024-01-03"),
		Deposit:   amount("300"),
	})
	require.NoError(t, err)
	_, err = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 3, Quantity: 3})
	require.NoError(t, err)

	_, err = uc.Submit(context.Background(), d.ID)
	assert.ErrorIs(t, err, domain.ErrSubmission)
	assert.Equal(t, 2, sub.posts)

	got, err := uc.Get(d.ID)
	require.NoError(t, err, "el borrador sigue abierto")
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, dec("200").Equal(*got.Deposit))
	assert.Equal(t, []int64{201}, got.SubmittedIDs)

	res, err := uc.Submit(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, sub.posts, "el reintento solo envía las unidades pendientes")
	assert.Equal(t, []int64{201, 203, 204}, res.IDs)
	assert.Equal(t, 3, res.Count)

	sent := decimal.Zero
	for _, dep := range sub.deposits {
		sent = sent.Add(dep)
	}
	assert.True(t, dec("300").Equal(sent), "el depósito total se registra una sola vez")

	_, err = uc.Get(d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveItemYDiscard(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 1, Quantity: 1})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 2, Quantity: 1})

	got, err := uc.RemoveItem(d.ID, 5)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	got, err = uc.RemoveItem(d.ID, 0)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2), got.Items[0].ProductID)

	require.NoError(t, uc.Discard(d.ID))
	assert.True(t, errors.Is(uc.Discard(d.ID), domain.ErrNotFound))
}

func TestSetQuantity_RespetaStock(t *testing.T) {
	uc, _ := newTestUseCase(&fakeSubmitter{})
	d, _ := uc.Create(dto.CreateDraftRequest{Kind: "sale"})
	_, _ = uc.AddItem(d.ID, dto.AddItemRequest{ProductID: 2, Quantity: 1})

	got, err := uc.SetQuantity(d.ID, 0, dto.SetQuantityRequest{Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Items[0].Quantity)

	_, err = uc.SetQuantity(d.ID, 0, dto.SetQuantityRequest{Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.SetQuantity(d.ID, 3, dto.SetQuantityRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
