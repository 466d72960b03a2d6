package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-ventas/internal/application/catalog"
	"github.com/jhoicas/gestion-ventas/internal/application/draft"
	"github.com/jhoicas/gestion-ventas/internal/application/dto"
	"github.com/jhoicas/gestion-ventas/internal/domain"
	"github.com/jhoicas/gestion-ventas/internal/domain/entity"
	"github.com/jhoicas/gestion-ventas/internal/domain/pricing"
	apphttp "github.com/jhoicas/gestion-ventas/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/gestion-ventas/pkg/jwt"
)

// ─── Fakes ────────────────────────────────────────────────────────────────────

type staticCatalog struct{ snap *catalog.Snapshot }

func (s *staticCatalog) Current() *catalog.Snapshot { return s.snap }

type fakeSubmitter struct {
	err      error
	lastTok  string
	lastKind entity.DraftKind
}

func (f *fakeSubmitter) submit(ctx context.Context, kind entity.DraftKind) (*draft.SubmitResult, error) {
	f.lastTok = pkgjwt.TokenFromContext(ctx)
	f.lastKind = kind
	if f.err != nil {
		return nil, f.err
	}
	return &draft.SubmitResult{Kind: kind, IDs: []int64{42}}, nil
}

func (f *fakeSubmitter) SubmitQuotation(ctx context.Context, _ *entity.Draft, _ pricing.Breakdown) (*draft.SubmitResult, error) {
	return f.submit(ctx, entity.DraftQuotation)
}

func (f *fakeSubmitter) SubmitSale(ctx context.Context, _ *entity.Draft, _ pricing.Breakdown) (*draft.SubmitResult, error) {
	return f.submit(ctx, entity.DraftSale)
}

func (f *fakeSubmitter) SubmitRental(ctx context.Context, _ *entity.Draft, _ pricing.Breakdown) (*draft.SubmitResult, error) {
	return f.submit(ctx, entity.DraftRental)
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	app *fiber.App
	cat *staticCatalog
	sub *fakeSubmitter
	tok string
}

func loadedCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot(
		[]*entity.Product{
			{ID: 1, Name: "P1", Price: decimal.NewFromInt(100), Stock: 5, StockAvailable: 5, ProductType: entity.ProductTypeVenta},
			{ID: 2, Name: "P2", Price: decimal.NewFromInt(80), Stock: 3, StockAvailable: 3, ProductType: entity.ProductTypeVenta},
			{ID: 3, Name: "Carpa", Price: decimal.NewFromInt(70), PricePerDay: decimal.NewFromInt(50), Stock: 1, StockAvailable: 4, ProductType: entity.ProductTypeAlquiler},
		},
		[]*entity.Client{{ID: 7, Name: "Ana"}},
		time.Now(),
	)
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	cat := &staticCatalog{snap: loadedCatalog()}
	sub := &fakeSubmitter{}
	uc := draft.NewUseCase(draft.NewStore(time.Hour), cat, sub, decimal.NewFromInt(18), nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Drafts: uc, Catalog: cat, JWTSecret: testJWTSecret})
	return &testEnv{app: app, cat: cat, sub: sub, tok: validToken(t)}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+e.tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw
}

func (e *testEnv) createDraft(t *testing.T, kind string) dto.DraftResponse {
	t.Helper()
	resp, raw := e.do(t, http.MethodPost, "/api/drafts", map[string]string{"kind": kind})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var d dto.DraftResponse
	require.NoError(t, json.Unmarshal(raw, &d))
	return d
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDrafts_FlujoCompletoDeVenta(t *testing.T) {
	env := newEnv(t)
	d := env.createDraft(t, "sale")

	resp, raw := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var added dto.AddItemResponse
	require.NoError(t, json.Unmarshal(raw, &added))
	assert.True(t, added.Merged)
	assert.Equal(t, "354,00", added.Draft.Totals.Formatted["total"])

	resp, raw = env.do(t, http.MethodPatch, "/api/drafts/"+d.ID, map[string]any{"client_id": 7, "status": "completada"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated dto.DraftResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, string(entity.ReadinessReadyToSubmit), updated.Readiness)

	resp, raw = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var sub dto.SubmitResponse
	require.NoError(t, json.Unmarshal(raw, &sub))
	assert.Equal(t, []int64{42}, sub.IDs)
	assert.Equal(t, env.tok, env.sub.lastTok, "el token del usuario llega al servicio de pedidos")

	resp, _ = env.do(t, http.MethodGet, "/api/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDrafts_StockInsuficiente409(t *testing.T) {
	env := newEnv(t)
	d := env.createDraft(t, "sale")

	resp, raw := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 2, "quantity": 4})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, 3, *body.Details[0].Available)
	assert.Equal(t, 4, *body.Details[0].Requested)
}

func TestDrafts_NumerosEnFormatoEspanol(t *testing.T) {
	env := newEnv(t)
	d := env.createDraft(t, "quotation")

	_, _ = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 3, "unit_price": "1.000,50"})
	resp, raw := env.do(t, http.MethodPatch, "/api/drafts/"+d.ID, map[string]any{"tax_rate": "0", "discount": "10"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var got dto.DraftResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, decimal.RequireFromString("3001.5").Equal(got.Totals.Subtotal))
	assert.Equal(t, "2.701,35", got.Totals.Formatted["total"])

	resp, _ = env.do(t, http.MethodPatch, "/api/drafts/"+d.ID, map[string]any{"tax_rate": "18.5"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "18.5 no es formato español")
}

func TestDrafts_ValidateReportaTodasLasReglas(t *testing.T) {
	env := newEnv(t)
	d := env.createDraft(t, "rental")

	resp, raw := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/validate", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Len(t, body.Details, 3)
}

func TestDrafts_RechazoDelBackend(t *testing.T) {
	env := newEnv(t)
	env.sub.err = &domain.SubmissionError{StatusCode: 422, Messages: []string{"client_id: field required"}}
	d := env.createDraft(t, "quotation")
	_, _ = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 1})
	_, _ = env.do(t, http.MethodPatch, "/api/drafts/"+d.ID, map[string]any{"client_id": 7})

	resp, raw := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(raw), "client_id: field required")

	resp, _ = env.do(t, http.MethodGet, "/api/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el borrador se conserva para reintentar")
}

func TestDrafts_QuitarLineaYDescartar(t *testing.T) {
	env := newEnv(t)
	d := env.createDraft(t, "sale")
	_, _ = env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 1})

	resp, raw := env.do(t, http.MethodDelete, "/api/drafts/"+d.ID+"/items/9", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.DraftResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Len(t, got.Items, 1)

	resp, _ = env.do(t, http.MethodDelete, "/api/drafts/"+d.ID+"/items/x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/api/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/drafts/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDrafts_CatalogoNoCargado503(t *testing.T) {
	env := newEnv(t)
	env.cat.snap = catalog.NewSnapshot(nil, nil, time.Time{})
	d := env.createDraft(t, "sale")

	resp, _ := env.do(t, http.MethodPost, "/api/drafts/"+d.ID+"/items", map[string]any{"product_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "5", resp.Header.Get("Retry-After"))
}

func TestCatalog_FiltraPorTipo(t *testing.T) {
	env := newEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/catalog/products?type=alquiler", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Carpa", list.Items[0].Name)
	assert.NotNil(t, list.FetchedAt)

	resp, raw = env.do(t, http.MethodGet, "/api/catalog/clients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var clients dto.ClientListResponse
	require.NoError(t, json.Unmarshal(raw, &clients))
	assert.Len(t, clients.Items, 1)
}
