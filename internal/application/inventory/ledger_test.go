package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	appinv "github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/usecase"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/memstore"
	"github.com/jhoicas/inventario-silo/pkg/clock"
)

var laPaz = time.FixedZone("UTC-4", -4*60*60)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	ctx      context.Context
	store    *memstore.Store
	clock    *clock.Fixed
	ledger   *appinv.LedgerUseCase
	items    *usecase.ItemUseCase
	kardex   *appinv.KardexUseCase
	reports  *appinv.ReportUseCase
	category *entity.Category
	location *entity.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, laPaz))
	tx := memstore.NewTxRunner(store)
	reconciler := appinv.NewReconciler(store.Movements(), clk, nil, nil)

	category := &entity.Category{ID: uuid.New().String(), Name: "Cemento"}
	location := &entity.Location{ID: uuid.New().String(), Name: "Galpón A"}
	require.NoError(t, store.Categories().Create(ctx, category))
	require.NoError(t, store.Locations().Create(ctx, location))

	return &fixture{
		ctx:      ctx,
		store:    store,
		clock:    clk,
		ledger:   appinv.NewLedgerUseCase(tx, store.Movements(), clk, nil),
		items:    usecase.NewItemUseCase(tx, store.Items(), store.Categories(), store.Locations(), reconciler, clk, nil),
		kardex:   appinv.NewKardexUseCase(store.Items(), store.Movements(), nil, clk),
		reports:  appinv.NewReportUseCase(store.Items(), store.Movements(), nil, clk),
		category: category,
		location: location,
	}
}

// seedItem inserta un item con saldo previo y sin movimientos, como los datos heredados.
func (f *fixture) seedItem(t *testing.T, code, stock string) *entity.Item {
	t.Helper()
	item := &entity.Item{
		ID:          uuid.New().String(),
		CategoryID:  f.category.ID,
		LocationID:  f.location.ID,
		Code:        code,
		Name:        f.category.Name,
		Description: "Cemento gris",
		Unit:        "Und",
		Stock:       dec(stock),
		Location:    f.location.Name,
	}
	require.NoError(t, f.store.Items().Create(f.ctx, item))
	return item
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := f.store.Items().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

func movementFor(item *entity.Item, qty string) dto.MovementRequest {
	return dto.MovementRequest{
		ItemID:       item.ID,
		Code:         item.Code,
		Description:  item.Description,
		Unit:         item.Unit,
		Quantity:     dec(qty),
		Counterparty: "ferretería central",
	}
}

func itemRequest(f *fixture, item *entity.Item, code, stock string) dto.ItemRequest {
	return dto.ItemRequest{
		CategoryID:  f.category.ID,
		LocationID:  f.location.ID,
		Code:        code,
		Description: item.Description,
		Unit:        item.Unit,
		Stock:       dec(stock),
	}
}

// ─── Escenario principal ──────────────────────────────────────────────────────

func TestLedger_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "10")

	delivery, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "4"))
	require.NoError(t, err)
	assert.True(t, f.stock(t, x.ID).Equal(dec("6")))

	f.clock.Advance(48 * time.Hour)
	receipt, err := f.ledger.CreateReceipt(f.ctx, movementFor(x, "2"))
	require.NoError(t, err)
	assert.True(t, f.stock(t, x.ID).Equal(dec("8")))

	require.NoError(t, f.ledger.Delete(f.ctx, entity.MovementDelivery, delivery.ID))
	assert.True(t, f.stock(t, x.ID).Equal(dec("12")))

	k, err := f.kardex.Get(f.ctx, x.ID, "")
	require.NoError(t, err)
	require.Len(t, k.Entries, 1)
	assert.Equal(t, receipt.ID, k.Entries[0].OriginID)
	assert.Equal(t, entity.DirectionIn, k.Entries[0].Direction)
	assert.True(t, k.Entries[0].Quantity.Equal(dec("2")))
	assert.True(t, k.Stock.Equal(dec("12")))

	day := f.clock.Now()
	report, err := f.reports.PeriodReport(f.ctx, day, day)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.True(t, row.TotalIn.Equal(dec("2")))
	assert.True(t, row.TotalOut.IsZero())
	assert.True(t, row.StockAfter.Equal(dec("12")))

	// Edición directa 12 -> 9: una entrega sintética de 3.
	_, err = f.items.Update(f.ctx, x.ID, itemRequest(f, x, x.Code, "9"))
	require.NoError(t, err)
	assert.True(t, f.stock(t, x.ID).Equal(dec("9")))

	k, err = f.kardex.Get(f.ctx, "", "x-1")
	require.NoError(t, err)
	require.Len(t, k.Entries, 2)
	last := k.Entries[1]
	assert.Equal(t, string(entity.MovementDelivery), last.OriginKind)
	assert.True(t, last.Synthetic)
	assert.Equal(t, entity.SyntheticCounterparty, last.Counterparty)
	assert.True(t, last.Quantity.Equal(dec("3")))
}

// ─── Rechazos ─────────────────────────────────────────────────────────────────

func TestLedger_EntregaSinStock(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "3")

	_, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "5"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, x.ID).Equal(dec("3")))

	list, err := f.ledger.List(f.ctx, entity.MovementDelivery, "")
	require.NoError(t, err)
	assert.Empty(t, list.Items, "un rechazo no deja movimiento escrito")
}

func TestLedger_BorrarRecepcionConsumida(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "0")

	r, err := f.ledger.CreateReceipt(f.ctx, movementFor(x, "5"))
	require.NoError(t, err)
	_, err = f.ledger.CreateDelivery(f.ctx, movementFor(x, "4"))
	require.NoError(t, err)

	err = f.ledger.Delete(f.ctx, entity.MovementReceipt, r.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, x.ID).Equal(dec("1")))
}

func TestLedger_SnapshotNoCoincide(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "10")

	req := movementFor(x, "1")
	req.Unit = "Kg"
	_, err := f.ledger.CreateReceipt(f.ctx, req)
	require.ErrorIs(t, err, domain.ErrSnapshotMismatch)
	assert.True(t, f.stock(t, x.ID).Equal(dec("10")))
}

func TestLedger_ItemInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.CreateReceipt(f.ctx, dto.MovementRequest{
		Code: "NADA", Description: "x", Unit: "Kg", Quantity: dec("1"), Counterparty: "juan",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Edición de movimientos ───────────────────────────────────────────────────

func TestLedger_EditarMismaCantidadNoCambiaStock(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "10")

	d, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "4"))
	require.NoError(t, err)

	req := movementFor(x, "4")
	req.Notes = "corrección de observación"
	updated, err := f.ledger.Update(f.ctx, entity.MovementDelivery, d.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "corrección de observación", updated.Notes)
	assert.True(t, f.stock(t, x.ID).Equal(dec("6")))
}

func TestLedger_EditarCantidadAplicaDiferencia(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "10")

	d, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "4"))
	require.NoError(t, err)

	_, err = f.ledger.Update(f.ctx, entity.MovementDelivery, d.ID, movementFor(x, "7"))
	require.NoError(t, err)
	assert.True(t, f.stock(t, x.ID).Equal(dec("3")))

	_, err = f.ledger.Update(f.ctx, entity.MovementDelivery, d.ID, movementFor(x, "11"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, x.ID).Equal(dec("3")))
}

func TestLedger_MoverMovimientoEntreItems(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "A-1", "10")
	b := f.seedItem(t, "B-1", "1")

	r, err := f.ledger.CreateReceipt(f.ctx, movementFor(a, "5"))
	require.NoError(t, err)
	require.True(t, f.stock(t, a.ID).Equal(dec("15")))

	moved, err := f.ledger.Update(f.ctx, entity.MovementReceipt, r.ID, movementFor(b, "3"))
	require.NoError(t, err)
	assert.Equal(t, b.ID, moved.ItemID)
	assert.Equal(t, "B-1", moved.Code)
	assert.True(t, f.stock(t, a.ID).Equal(dec("10")), "el original pierde la cantidad anterior")
	assert.True(t, f.stock(t, b.ID).Equal(dec("4")), "el destino gana la cantidad nueva")
}

func TestLedger_MoverFallaSinTocarStock(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "A-1", "0")
	b := f.seedItem(t, "B-1", "0")

	r, err := f.ledger.CreateReceipt(f.ctx, movementFor(a, "5"))
	require.NoError(t, err)
	_, err = f.ledger.CreateDelivery(f.ctx, movementFor(a, "5"))
	require.NoError(t, err)

	_, err = f.ledger.Update(f.ctx, entity.MovementReceipt, r.ID, movementFor(b, "5"))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t, a.ID).IsZero())
	assert.True(t, f.stock(t, b.ID).IsZero())
}

func TestLedger_CrearYBorrarDejaStockIgual(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "7.5")

	for _, kind := range entity.MovementKinds {
		m, err := f.ledger.Create(f.ctx, kind, movementFor(x, "2.25"))
		require.NoError(t, err)
		require.NoError(t, f.ledger.Delete(f.ctx, kind, m.ID))
		assert.True(t, f.stock(t, x.ID).Equal(dec("7.5")), kind)
	}

	_, err := f.ledger.Get(f.ctx, entity.MovementReceipt, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Reconciliación ───────────────────────────────────────────────────────────

func TestItems_CrearConStockEmiteRecepcionSintetica(t *testing.T) {
	f := newFixture(t)

	created, err := f.items.Create(f.ctx, dto.ItemRequest{
		CategoryID:  f.category.ID,
		LocationID:  f.location.ID,
		Code:        "ce-40",
		Description: "Cemento 40kg",
		Unit:        "und",
		Stock:       dec("25"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CE-40", created.Code)
	assert.Equal(t, "Cemento", created.Name)

	k, err := f.kardex.Build(f.ctx, created.ID, "")
	require.NoError(t, err)
	require.Len(t, k.Entries, 1)
	assert.True(t, k.Entries[0].Synthetic)
	assert.Equal(t, entity.MovementReceipt, k.Entries[0].OriginKind)
	assert.True(t, k.Balance().Equal(k.Stock))

	_, err = f.items.Create(f.ctx, dto.ItemRequest{
		CategoryID: f.category.ID, LocationID: f.location.ID, Code: "CE-40", Description: "otro", Unit: "Kg",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItems_RenombrarAlcanzaFilasHeredadas(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "OLD-1", "5")

	legacy := &entity.Movement{
		ID:           uuid.New().String(),
		Kind:         entity.MovementReceipt,
		Code:         "old-1",
		Description:  "Cemento gris",
		Unit:         "Und",
		Quantity:     dec("5"),
		Counterparty: "Proveedor",
		Date:         f.clock.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, f.store.Movements().Insert(f.ctx, legacy))
	_, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "2"))
	require.NoError(t, err)

	req := itemRequest(f, x, "NEW-1", "3")
	req.Description = "Cemento blanco"
	_, err = f.items.Update(f.ctx, x.ID, req)
	require.NoError(t, err)

	got, err := f.store.Movements().GetByID(f.ctx, entity.MovementReceipt, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, x.ID, got.ItemID, "la fila heredada queda anclada")
	assert.Equal(t, "NEW-1", got.Code)
	assert.Equal(t, "Cemento blanco", got.Description)

	k, err := f.kardex.Build(f.ctx, "", "new-1")
	require.NoError(t, err)
	require.Len(t, k.Entries, 2)
	for _, e := range k.Entries {
		assert.Equal(t, "Cemento blanco", e.Description)
	}
	assert.True(t, k.Balance().Equal(k.Stock))
}

func TestItems_BorrarEnCascada(t *testing.T) {
	f := newFixture(t)
	x := f.seedItem(t, "X-1", "10")
	other := f.seedItem(t, "Y-1", "10")

	_, err := f.ledger.CreateDelivery(f.ctx, movementFor(x, "1"))
	require.NoError(t, err)
	_, err = f.ledger.CreateReceipt(f.ctx, movementFor(other, "1"))
	require.NoError(t, err)
	require.NoError(t, f.store.Movements().Insert(f.ctx, &entity.Movement{
		ID: uuid.New().String(), Kind: entity.MovementReceipt, Code: "x-1", Quantity: dec("1"), Date: f.clock.Now(),
	}))

	require.NoError(t, f.items.Delete(f.ctx, x.ID))

	for _, kind := range entity.MovementKinds {
		list, err := f.ledger.List(f.ctx, kind, "X-1")
		require.NoError(t, err)
		assert.Empty(t, list.Items)
	}
	list, err := f.ledger.List(f.ctx, entity.MovementReceipt, "Y-1")
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	assert.ErrorIs(t, f.items.Delete(f.ctx, x.ID), domain.ErrNotFound)
}

// ─── Reporte ──────────────────────────────────────────────────────────────────

func TestReport_RangoInvalido(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()
	_, err := f.reports.PeriodReport(f.ctx, now, now.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestParseDay(t *testing.T) {
	d, err := appinv.ParseDay("from", "2024-03-05", laPaz)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 3, 5, 0, 0, 0, 0, laPaz).Equal(d))

	_, err = appinv.ParseDay("from", "05/03/2024", laPaz)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
