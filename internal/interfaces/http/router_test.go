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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/application/auth"
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/usecase"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-silo/internal/interfaces/http"
	"github.com/jhoicas/inventario-silo/pkg/clock"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// newAPI arma la API completa sobre el almacén en memoria y entra como admin.
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	log := logger.Nop()
	store := memstore.New()
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("UTC-4", -4*60*60)))
	tx := memstore.NewTxRunner(store)
	reg := prometheus.NewRegistry()
	ledgerMetrics := metrics.NewLedger(reg)
	reconciler := appinv.NewReconciler(store.Movements(), clk, ledgerMetrics, log)

	authUC := auth.NewAuthUseCase(store.Users(), testJWT, log)
	_, err := authUC.EnsureAdmin(context.Background(), config.AdminConfig{Username: "admin", Password: "secreto123", Name: "Administrador"})
	require.NoError(t, err)

	app := apphttp.NewApp("silo-test", log, nil)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store.Users(), clk),
		ItemUC:      usecase.NewItemUseCase(tx, store.Items(), store.Categories(), store.Locations(), reconciler, clk, log),
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories(), store.Items(), clk),
		LocationUC:  usecase.NewLocationUseCase(store.Locations(), store.Items(), clk),
		Ledger:      appinv.NewLedgerUseCase(tx, store.Movements(), clk, ledgerMetrics),
		Kardex:      appinv.NewKardexUseCase(store.Items(), store.Movements(), pdf.NewKardexGenerator("test"), clk),
		Reports:     appinv.NewReportUseCase(store.Items(), store.Movements(), excel.NewPeriodReportWriter(), clk),
		JWT:         testJWT,
		Gatherer:    reg,
		ServiceName: "silo-test",
	})

	c := &apiClient{t: t, app: app}
	var login dto.LoginResponse
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "Admin", Password: "secreto123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.token = login.Token
	return c
}

// do envía body como JSON y decodifica la respuesta en out si no es nil.
func (c *apiClient) do(method, path string, body any, out any) *http.Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// seedCatalog crea una categoría, una ubicación y un item sin stock.
func (c *apiClient) seedCatalog() dto.ItemResponse {
	c.t.Helper()
	var cat dto.CategoryResponse
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/api/categories", dto.CatalogRequest{Name: "cemento"}, &cat).StatusCode)
	var loc dto.LocationResponse
	require.Equal(c.t, http.StatusCreated, c.do(http.MethodPost, "/api/locations", dto.CatalogRequest{Name: "galpón a"}, &loc).StatusCode)

	var item dto.ItemResponse
	resp := c.do(http.MethodPost, "/api/items", dto.ItemRequest{
		CategoryID: cat.ID, LocationID: loc.ID, Code: "cem-01", Description: "Cemento gris", Unit: "und",
	}, &item)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	return item
}

func movement(item dto.ItemResponse, qty int64, counterparty string) dto.MovementRequest {
	return dto.MovementRequest{
		Code:         item.Code,
		Description:  item.Description,
		Unit:         item.Unit,
		Quantity:     decimal.NewFromInt(qty),
		Counterparty: counterparty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la API
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	c := newAPI(t)
	var body map[string]string
	resp := c.do(http.MethodGet, "/health", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_LoginInvalido(t *testing.T) {
	c := newAPI(t)
	c.token = ""
	var body dto.ErrorResponse
	resp := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "otra"}, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestAPI_SinTokenRechaza(t *testing.T) {
	c := newAPI(t)
	c.token = ""
	resp := c.do(http.MethodGet, "/api/items", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_FlujoRecepcionEntregaKardex(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()
	assert.Equal(t, "CEM-01", item.Code)
	assert.Equal(t, "Cemento", item.Name)

	var receipt dto.MovementResponse
	resp := c.do(http.MethodPost, "/api/receipts", movement(item, 10, "proveedor andino"), &receipt)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, item.ID, receipt.ItemID)
	assert.Equal(t, "Proveedor Andino", receipt.Counterparty)

	var delivery dto.MovementResponse
	resp = c.do(http.MethodPost, "/api/deliveries", movement(item, 4, "obra norte"), &delivery)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Sin stock suficiente: 409 con el detalle
	var failure dto.ErrorResponse
	resp = c.do(http.MethodPost, "/api/deliveries", movement(item, 7, "obra sur"), &failure)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", failure.Code)

	var current dto.ItemResponse
	c.do(http.MethodGet, "/api/items/"+item.ID, nil, &current)
	assert.True(t, decimal.NewFromInt(6).Equal(current.Stock), "stock esperado 6, obtenido %s", current.Stock)

	var kardex dto.KardexResponse
	resp = c.do(http.MethodGet, "/api/kardex?code=cem-01", nil, &kardex)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, kardex.Entries, 2)
	assert.Equal(t, "IN", kardex.Entries[0].Direction)
	assert.Equal(t, "OUT", kardex.Entries[1].Direction)

	// Borrar la entrega devuelve el stock
	resp = c.do(http.MethodDelete, "/api/deliveries/"+delivery.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	c.do(http.MethodGet, "/api/items/code/CEM-01", nil, &current)
	assert.True(t, decimal.NewFromInt(10).Equal(current.Stock))

	var list dto.MovementListResponse
	c.do(http.MethodGet, "/api/deliveries?code=CEM-01", nil, &list)
	assert.Empty(t, list.Items)
}

func TestAPI_SnapshotNoCoincide(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()

	req := movement(item, 1, "proveedor")
	req.Unit = "Kg"
	var body dto.ErrorResponse
	resp := c.do(http.MethodPost, "/api/receipts", req, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "SNAPSHOT_MISMATCH", body.Code)
	assert.Equal(t, "unit", body.Field)
}

func TestAPI_ItemInexistente(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()
	item.Code = "NO-EXISTE"

	var body dto.ErrorResponse
	resp := c.do(http.MethodPost, "/api/receipts", movement(item, 1, "proveedor"), &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestAPI_IdInvalido(t *testing.T) {
	c := newAPI(t)
	var body dto.ErrorResponse
	resp := c.do(http.MethodGet, "/api/items/no-es-uuid", nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", body.Code)
}

func TestAPI_CategoriaEnUso(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()

	var body dto.ErrorResponse
	resp := c.do(http.MethodDelete, "/api/categories/"+item.CategoryID, nil, &body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IN_USE", body.Code)
}

func TestAPI_ReportePorPeriodo(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/receipts", movement(item, 5, "proveedor"), nil).StatusCode)

	var report dto.PeriodReportResponse
	resp := c.do(http.MethodGet, "/api/reports/period?from=2024-03-01&to=2024-03-31", nil, &report)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, report.Rows, 1)
	assert.True(t, decimal.NewFromInt(5).Equal(report.Rows[0].TotalIn))

	var body dto.ErrorResponse
	resp = c.do(http.MethodGet, "/api/reports/period?from=2024-03-31&to=2024-03-01", nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_RANGE", body.Code)

	resp = c.do(http.MethodGet, "/api/reports/period?from=ayer&to=2024-03-01", nil, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "from", body.Field)
}

func TestAPI_Documentos(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/receipts", movement(item, 5, "proveedor"), nil).StatusCode)

	resp := c.do(http.MethodGet, "/api/reports/period.xlsx?from=2024-03-01&to=2024-03-31", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "movimientos_20240301_20240331.xlsx")

	resp = c.do(http.MethodGet, "/api/kardex/pdf?item_id="+item.ID, nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "kardex_CEM-01.pdf")
}

func TestAPI_UsuariosSoloAdmin(t *testing.T) {
	c := newAPI(t)

	var user dto.UserResponse
	resp := c.do(http.MethodPost, "/api/auth/register", dto.CreateUserRequest{
		Username: "Bodega", Password: "clave123", Name: "juan perez",
	}, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "bodega", user.Username)
	assert.Equal(t, "usuario", user.Role)

	var login dto.LoginResponse
	c.token = ""
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "bodega", Password: "clave123"}, &login).StatusCode)
	c.token = login.Token

	resp = c.do(http.MethodGet, "/api/users", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var me dto.UserResponse
	resp = c.do(http.MethodGet, "/api/auth/me", nil, &me)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bodega", me.Username)
}

func TestAPI_Metricas(t *testing.T) {
	c := newAPI(t)
	item := c.seedCatalog()
	c.do(http.MethodPost, "/api/receipts", movement(item, 5, "proveedor"), nil)

	resp := c.do(http.MethodGet, "/metrics", nil, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "silo_movements_applied_total")
}

func TestAPI_RutaInexistente(t *testing.T) {
	c := newAPI(t)
	var body dto.ErrorResponse
	resp := c.do(http.MethodGet, "/no-existe", nil, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", body.Code)
}
