package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventario-silo/internal/bootstrap"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/pkg/clock"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

const itemsCSV = `Código;Descripción;Unidad;Categoría;Ubicación;Stock
CEM-01;Cemento gris;und;Cemento;Galpón A;10,5
FIE-02;Fierro corrugado;kg;Fierro;galpón a;0
;;;;;
CEM-01;Repetido;und;Cemento;Galpón A;1
CAL-03;Cal viva;litros;Cemento;Galpón A;1
`

// ─── Lectura del CSV ───────────────────────────────────────────────────────────

func TestReadItemsCSV_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String(itemsCSV)
	require.NoError(t, err)

	records, err := readItemsCSV(strings.NewReader(raw), "latin1", ';')
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "CEM-01", records[0].code)
	assert.Equal(t, "Galpón A", records[0].location)
	assert.True(t, decimal.RequireFromString("10.5").Equal(records[0].stock))
	assert.Equal(t, 2, records[0].line)
	assert.Equal(t, 5, records[2].line)
}

func TestReadItemsCSV_FaltaColumna(t *testing.T) {
	_, err := readItemsCSV(strings.NewReader("codigo,descripcion\nA,B\n"), "utf-8", ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unidad")
}

func TestReadItemsCSV_StockInvalido(t *testing.T) {
	in := "codigo,descripcion,unidad,categoria,ubicacion,stock\nA-1,x,und,c,u,diez\n"
	_, err := readItemsCSV(strings.NewReader(in), "utf-8", ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "línea 2")
}

func TestReadItemsCSV_CodificacionDesconocida(t *testing.T) {
	_, err := readItemsCSV(strings.NewReader(""), "ebcdic", ',')
	assert.Error(t, err)
}

// ─── Importación ──────────────────────────────────────────────────────────────

func TestItemImporter_Import(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		App: config.AppConfig{Name: "silo-test"},
		DB:  config.DBConfig{Driver: config.StorageMemory},
		JWT: config.JWTConfig{Secret: "s", Expiration: 10},
	}
	storage, err := bootstrap.OpenStorage(ctx, cfg.DB, logger.Nop())
	require.NoError(t, err)
	svc := bootstrap.NewServices(cfg, storage, clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)), logger.Nop())

	records, err := readItemsCSV(strings.NewReader(itemsCSV), "utf-8", ';')
	require.NoError(t, err)

	res := newItemImporter(svc, storage, logger.Nop()).Import(ctx, records)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0].Error(), "CAL-03")

	item, err := svc.Items.GetByCode(ctx, "cem-01")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("10.5").Equal(item.Stock))

	locations, err := svc.Locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, locations.Items, 1)

	receipts, err := svc.Ledger.List(ctx, entity.MovementReceipt, "CEM-01")
	require.NoError(t, err)
	require.Len(t, receipts.Items, 1)
	assert.True(t, receipts.Items[0].Synthetic)
}
