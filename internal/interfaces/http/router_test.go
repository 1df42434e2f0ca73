package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/boutique-ledger/internal/application/documents"
	"github.com/jhoicas/boutique-ledger/internal/application/exports"
	"github.com/jhoicas/boutique-ledger/internal/application/history"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/application/usecase"
	"github.com/jhoicas/boutique-ledger/internal/application/views"
	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/boutique-ledger/internal/interfaces/http"
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
	token string
}

func newTestServer(t *testing.T, policy ledger.StockPolicy) *testServer {
	t.Helper()
	st := memory.New()
	ledgerSvc := ledger.NewService(ledger.Repositories{
		Products:    st.Products(),
		Movements:   st.Movements(),
		Sales:       st.Sales(),
		SaleLines:   st.SaleLines(),
		Clients:     st.Clients(),
		Settlements: st.Settlements(),
	}, ledger.WithStockPolicy(policy))
	viewSvc := views.NewService(views.Repositories{
		Products:  st.Products(),
		Movements: st.Movements(),
		Sales:     st.Sales(),
		Clients:   st.Clients(),
		Suppliers: st.Suppliers(),
	}, cache.New("test"))
	historySvc := history.NewService(history.Repositories{
		Settlements: st.Settlements(),
		Sales:       st.Sales(),
		Movements:   st.Movements(),
		Clients:     st.Clients(),
		Suppliers:   st.Suppliers(),
		Products:    st.Products(),
	}, zerolog.Nop())
	docSvc := documents.NewService(documents.Repositories{
		Sales:     st.Sales(),
		SaleLines: st.SaleLines(),
		Clients:   st.Clients(),
		Products:  st.Products(),
		Movements: st.Movements(),
		Suppliers: st.Suppliers(),
	}, documents.Shop{Name: "Chez Awa"}, pdf.NewMarotoPDFGenerator())

	app := apphttp.NewApp("boutique-ledger-test")
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:      ledgerSvc,
		Views:       viewSvc,
		History:     historySvc,
		Documents:   docSvc,
		Exports:     exports.NewService(viewSvc, xlsx.NewExcelizeWriter(), "Chez Awa"),
		ProductUC:   usecase.NewProductUseCase(st.Products(), 5),
		ClientUC:    usecase.NewClientUseCase(st.Clients()),
		SupplierUC:  usecase.NewSupplierUseCase(st.Suppliers()),
		JWTSecret:   testJWTSecret,
		JWTAudience: testAudience,
	})
	return &testServer{app: app, store: st, token: tokenForRole(t, "authenticated")}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", s.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	out := map[string]any{}
	if bytes.HasPrefix(raw, []byte("{")) {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestRouter_FlujoCompletoDeVentaACredito(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)

	resp, receipt := s.do(t, http.MethodPost, "/api/stock/receipts", map[string]any{
		"new_product":  map[string]any{"name": "Robe", "purchase_price": 300, "sale_price": 500},
		"quantity":     10,
		"total_amount": 3000,
		"paid_amount":  3000,
		"provenance":   "Marché Sandaga",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, receipt["product_created"])
	assert.Equal(t, float64(10), receipt["quantity_after"])
	productID := receipt["product_id"].(string)

	resp, sale := s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"lines":        []map[string]any{{"product_id": productID, "quantity": 2, "unit_price": 500}},
		"new_client":   map[string]any{"name": "Awa"},
		"payment_mode": "partial",
		"amount_paid":  600,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "400", sale["remaining"])
	assert.Contains(t, sale["refresh"], "client_debts")
	saleID := sale["sale_id"].(string)

	resp, debts := s.do(t, http.MethodGet, "/api/debts/clients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := debts["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Awa", items[0].(map[string]any)["party_name"])

	resp, settled := s.do(t, http.MethodPost, "/api/debts/client/"+saleID+"/settlements", map[string]any{"amount": 400})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "0", settled["new_remaining"])
	assert.Equal(t, "1000", settled["new_paid"])

	resp, hist := s.do(t, http.MethodGet, "/api/settlements/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, hist["items"], 1)

	resp, _ = s.do(t, http.MethodGet, "/api/debts/clients?status=settled", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/exports/debts.xlsx", nil)
	req.Header.Set("Authorization", s.token)
	xlsxResp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(xlsxResp.Body)
	require.NoError(t, err)
	xlsxResp.Body.Close()
	require.Equal(t, http.StatusOK, xlsxResp.StatusCode)
	assert.Contains(t, xlsxResp.Header.Get("Content-Disposition"), "dettes-chez-awa.xlsx")
	assert.Equal(t, "false", xlsxResp.Header.Get("X-Snapshot-Stale"))
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Dettes clients")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Réglée", "Awa"}, rows[1][:2])

	resp, drift := s.do(t, http.MethodGet, "/api/products/"+productID+"/drift", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, drift["drifted"])
	assert.Equal(t, float64(8), drift["quantity"])

	req = httptest.NewRequest(http.MethodGet, "/api/sales/"+saleID+"/invoice.pdf", nil)
	req.Header.Set("Authorization", s.token)
	pdfResp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer pdfResp.Body.Close()
	assert.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
}

func TestRouter_PagoGuardadoNoCambiaConPeticionesPosteriores(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)
	ctx := context.Background()

	_, p := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Robe", "quantity": 5})
	_, sale := s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"lines":        []map[string]any{{"product_id": p["id"], "quantity": 1, "unit_price": 1000}},
		"new_client":   map[string]any{"name": "Awa"},
		"payment_mode": "partial",
		"amount_paid":  200,
	})
	saleID := sale["sale_id"].(string)

	resp, _ := s.do(t, http.MethodPost, "/api/debts/client/"+saleID+"/settlements", map[string]any{"amount": 300})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, dash := s.do(t, http.MethodGet, "/api/dashboard?period=month", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "month", dash["period"])

	filler := strings.Repeat("z", len(saleID))
	for i := 0; i < 20; i++ {
		s.do(t, http.MethodGet, "/api/products/"+filler, nil)
		s.do(t, http.MethodPost, "/api/debts/xxxxxx/"+filler+"/settlements", map[string]any{"amount": 1})
		s.do(t, http.MethodGet, "/api/dashboard?period=yyyyy", nil)
	}

	stored, err := s.store.Settlements().List(ctx, "client")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "client", stored[0].Kind)
	assert.Equal(t, saleID, stored[0].TargetID)

	resp, hist := s.do(t, http.MethodGet, "/api/settlements/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := hist["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, saleID, items[0].(map[string]any)["target_id"])
	assert.Equal(t, "Awa", items[0].(map[string]any)["party_name"])

	s.store.FailOn(memory.OpList, repository.CollectionProducts, 0, domain.ErrUnavailable)
	resp, dash = s.do(t, http.MethodGet, "/api/dashboard?period=month", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, dash["meta"].(map[string]any)["stale"])
	assert.Equal(t, "month", dash["period"])
}

func TestRouter_VentaSinLineasEs400ConCampos(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)
	resp, body := s.do(t, http.MethodPost, "/api/sales", map[string]any{"lines": []any{}, "payment_mode": "full"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", body["code"])
	assert.NotEmpty(t, body["fields"])
	assert.Nil(t, body["saga"])
}

func TestRouter_FalloParcialDevuelveDetalleDeSaga(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)
	resp, p := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Sac", "quantity": 3})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	s.store.FailOn(memory.OpCreate, repository.CollectionSaleLines, 0, domain.ErrUnavailable)
	resp, body := s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"lines": []map[string]any{{"product_id": p["id"], "quantity": 1, "unit_price": 100}},
	})

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "UNAVAILABLE", body["code"])
	saga := body["saga"].(map[string]any)
	assert.Equal(t, "record_sale", saga["saga"])
	assert.Equal(t, "line[0].create_line", saga["failed_step"])
	assert.Equal(t, []any{"create_sale"}, saga["completed_steps"])
	assert.Equal(t, true, saga["integrity_drift"])
}

func TestRouter_RechazoPorStockEs409(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyReject)
	_, p := s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Sac", "quantity": 1})

	resp, body := s.do(t, http.MethodPost, "/api/sales", map[string]any{
		"lines":        []map[string]any{{"product_id": p["id"], "quantity": 2, "unit_price": 100}},
		"payment_mode": "full",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, "check_stock", body["saga"].(map[string]any)["failed_step"])
	assert.Equal(t, false, body["saga"].(map[string]any)["integrity_drift"])
}

func TestRouter_ListadoSirveInstantaneaSiElAlmacenCae(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)
	_, _ = s.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Robe", "quantity": 2})

	resp, first := s.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, first["meta"].(map[string]any)["stale"])

	s.store.FailOn(memory.OpList, repository.CollectionProducts, 0, domain.ErrUnavailable)
	resp, second := s.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meta := second["meta"].(map[string]any)
	assert.Equal(t, true, meta["stale"])
	assert.NotEmpty(t, meta["warning"])
	assert.Len(t, second["items"], 1)

	resp, _ = s.do(t, http.MethodGet, "/api/movements", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	s.store.FailOn(memory.OpList, repository.CollectionMovements, 0, domain.ErrUnavailable)
	resp, _ = s.do(t, http.MethodGet, "/api/dashboard?period=day", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRouter_ParametrosInvalidos(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)

	resp, _ := s.do(t, http.MethodGet, "/api/dashboard?period=week", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/api/debts/suppliers?status=x", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := s.do(t, http.MethodPost, "/api/debts/other/abc/settlements", map[string]any{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	resp, _ = s.do(t, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ClientesCRUD(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)

	resp, c := s.do(t, http.MethodPost, "/api/clients", map[string]any{"name": "Awa", "email": "awa@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := c["id"].(string)

	resp, list := s.do(t, http.MethodGet, "/api/clients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list["items"], 1)

	resp, _ = s.do(t, http.MethodDelete, "/api/clients/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/api/suppliers", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_SinTokenEs401(t *testing.T) {
	s := newTestServer(t, ledger.StockPolicyClamp)
	s.token = ""
	resp, _ := s.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
