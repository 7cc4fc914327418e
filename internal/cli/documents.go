package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type kardexCmd struct {
	code   string
	itemID string
	out    string
}

func (*kardexCmd) Name() string     { return "kardex" }
func (*kardexCmd) Synopsis() string { return "genera el kardex de un item en PDF" }
func (*kardexCmd) Usage() string {
	return `siloctl kardex (-code <código> | -item <id>) [-out <archivo.pdf>]

  Reúne las recepciones y entregas del item, con su saldo corrido, y escribe el PDF.
`
}

func (k *kardexCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&k.code, "code", "", "Código del item.")
	f.StringVar(&k.itemID, "item", "", "ID del item. Tiene prioridad sobre -code.")
	f.StringVar(&k.out, "out", "", "Archivo de salida (por defecto kardex_<código>.pdf).")
}

func (k *kardexCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if k.code == "" && k.itemID == "" {
		return fail(errors.New("indica -code o -item"))
	}
	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	doc, kardex, err := e.svc.Kardex.PDF(ctx, k.itemID, k.code)
	if err != nil {
		return fail(err)
	}
	out := k.out
	if out == "" {
		out = fmt.Sprintf("kardex_%s.pdf", kardex.Code)
	}
	if err := writeFile(out, doc); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type reportCmd struct {
	from string
	to   string
	out  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "genera el reporte de movimientos por periodo en XLSX" }
func (*reportCmd) Usage() string {
	return `siloctl report -from <YYYY-MM-DD> -to <YYYY-MM-DD> [-out <archivo.xlsx>]

  Totales de entradas y salidas por item entre ambas fechas, días completos
  en la zona horaria del libro (APP_TIMEZONE).
`
}

func (r *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.from, "from", "", "Primer día del periodo.")
	f.StringVar(&r.to, "to", "", "Último día del periodo.")
	f.StringVar(&r.out, "out", "", "Archivo de salida (por defecto movimientos_<desde>_<hasta>.xlsx).")
}

func (r *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	from, to, err := e.svc.Reports.ParseRange(r.from, r.to)
	if err != nil {
		return fail(err)
	}
	doc, period, err := e.svc.Reports.PeriodWorkbook(ctx, from, to)
	if err != nil {
		return fail(err)
	}
	out := r.out
	if out == "" {
		out = fmt.Sprintf("movimientos_%s_%s.xlsx", period.Start.Format("20060102"), period.End.Format("20060102"))
	}
	if err := writeFile(out, doc); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
