// Package pdf genera el kardex imprimible de un item.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Código + Nombre + Ubicación  │  QR del código       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | E/S | Contraparte | Descripción | Cant | Saldo│
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: stock registrado + fecha de emisión                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	domain "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorOut     = &props.Color{Red: 160, Green: 30, Blue: 30}
)

var _ inventory.KardexRenderer = (*KardexGenerator)(nil)

// KardexGenerator implementa inventory.KardexRenderer con Maroto v2.
type KardexGenerator struct {
	author string
}

// NewKardexGenerator construye el generador; author aparece en los metadatos del PDF.
func NewKardexGenerator(author string) *KardexGenerator {
	return &KardexGenerator{author: author}
}

// RenderKardex genera el PDF y devuelve sus bytes.
func (g *KardexGenerator) RenderKardex(ctx context.Context, k *domain.Kardex, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+k.Code, true).
		WithAuthor(nonEmpty(g.author, "inventario-silo"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(k))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())

	rows, err := entryRows(ctx, k.Entries)
	if err != nil {
		return nil, err
	}
	m.AddRows(rows...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(k, generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(k *domain.Kardex) core.Row {
	qr := col.New(2)
	if k.Code != "" {
		qr = col.New(2).Add(code.NewQr(k.Code, props.Rect{Percent: 90, Center: true}))
	}
	return row.New(22).Add(
		col.New(10).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(k.Code+"  "+k.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   Unidad: %s   |   Ubicación: %s",
				nonEmpty(k.Description, "-"), nonEmpty(k.Unit, "-"), nonEmpty(k.Location, "-"),
			), props.Text{Size: 8, Top: 14, Color: colorGray}),
		),
		qr,
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("E/S", 1, align.Center),
		h("Contraparte", 3, align.Left),
		h("Descripción", 3, align.Left),
		h("Cantidad", 1, align.Right),
		h("Saldo", 2, align.Right),
	)
}

// entryRows escribe una fila por movimiento con el saldo acumulado desde cero.
func entryRows(ctx context.Context, entries []domain.KardexEntry) ([]core.Row, error) {
	out := make([]core.Row, 0, len(entries))
	balance := decimal.Zero
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		balance = balance.Add(domain.Effect(e.OriginKind, e.Quantity))

		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1}
		if e.Direction == "OUT" {
			qtyProps.Color = colorOut
		}
		counterparty := e.Counterparty
		if e.Synthetic {
			counterparty += " (ajuste)"
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(e.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(e.Direction, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(counterparty, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(e.Description, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(e.Quantity.StringFixed(2), qtyProps)),
			col.New(2).Add(text.New(balance.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	if len(out) == 0 {
		out = append(out, row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	return out, nil
}

func footerRow(k *domain.Kardex, generatedAt time.Time) core.Row {
	return row.New(12).Add(
		col.New(6).Add(text.New("Emitido: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Top: 3,
		})),
		col.New(6).Add(text.New("Stock registrado: "+k.Stock.StringFixed(2)+" "+k.Unit, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
