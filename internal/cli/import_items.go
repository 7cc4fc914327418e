package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/bootstrap"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

type importItemsCmd struct {
	file    string
	charset string
	sep     string
}

func (*importItemsCmd) Name() string     { return "import-items" }
func (*importItemsCmd) Synopsis() string { return "importa items desde un CSV" }
func (*importItemsCmd) Usage() string {
	return `siloctl import-items -file <items.csv> [-charset utf-8|latin1|windows-1252] [-sep ;]

  Columnas (la primera fila es el encabezado, sin importar el orden):
    codigo, descripcion, unidad, categoria, ubicacion, stock
  Categorías y ubicaciones que no existan se crean. Los códigos ya registrados
  se omiten. Un stock mayor que cero queda respaldado por una recepción de ajuste.
`
}

func (i *importItemsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&i.file, "file", "", "Archivo CSV.")
	f.StringVar(&i.charset, "charset", "utf-8", "Codificación del archivo (utf-8, latin1, windows-1252).")
	f.StringVar(&i.sep, "sep", ",", "Separador de columnas.")
}

func (i *importItemsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if i.file == "" {
		return fail(errors.New("indica -file"))
	}
	sep := []rune(i.sep)
	if len(sep) != 1 {
		return fail(fmt.Errorf("separador inválido %q", i.sep))
	}
	f, err := os.Open(i.file)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	records, err := readItemsCSV(f, i.charset, sep[0])
	if err != nil {
		return fail(err)
	}

	e, err := openEnv(ctx)
	if err != nil {
		return fail(err)
	}
	defer e.Close()

	res := newItemImporter(e.svc, e.storage, e.log).Import(ctx, records)
	for _, err := range res.Failed {
		fmt.Fprintln(os.Stderr, err)
	}
	fmt.Fprintf(os.Stdout, "creados: %d, omitidos: %d, con error: %d\n", res.Created, res.Skipped, len(res.Failed))
	if len(res.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// itemRecord una fila del CSV.
type itemRecord struct {
	line        int
	code        string
	description string
	unit        string
	category    string
	location    string
	stock       decimal.Decimal
}

var itemColumns = []string{"codigo", "descripcion", "unidad", "categoria", "ubicacion", "stock"}

func decoderFor(charset string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("codificación no soportada %q", charset)
}

// columnKey quita tildes y mayúsculas del encabezado.
func columnKey(s string) string {
	r := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")
	return r.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// readItemsCSV decodifica el archivo y lo convierte en filas; la fila 1 es el encabezado.
func readItemsCSV(r io.Reader, charset string, sep rune) ([]itemRecord, error) {
	enc, err := decoderFor(charset)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.Comma = sep
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		index[columnKey(h)] = i
	}
	for _, col := range itemColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var records []itemRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			if i := index[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		rec := itemRecord{
			line:        line,
			code:        get("codigo"),
			description: get("descripcion"),
			unit:        get("unidad"),
			category:    get("categoria"),
			location:    get("ubicacion"),
			stock:       decimal.Zero,
		}
		if rec.code == "" && rec.description == "" {
			continue
		}
		if raw := get("stock"); raw != "" {
			if sep != ',' && !strings.Contains(raw, ".") {
				raw = strings.Replace(raw, ",", ".", 1)
			}
			rec.stock, err = decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: stock inválido %q", line, raw)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// importResult resumen de una importación.
type importResult struct {
	Created int
	Skipped int
	Failed  []error
}

// itemImporter crea items resolviendo categorías y ubicaciones por nombre.
type itemImporter struct {
	svc        *bootstrap.Services
	storage    *bootstrap.Storage
	log        *logger.Logger
	categories map[string]string
	locations  map[string]string
}

func newItemImporter(svc *bootstrap.Services, storage *bootstrap.Storage, log *logger.Logger) *itemImporter {
	return &itemImporter{
		svc:        svc,
		storage:    storage,
		log:        log.Component("import"),
		categories: map[string]string{},
		locations:  map[string]string{},
	}
}

func (im *itemImporter) categoryID(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := im.categories[key]; ok {
		return id, nil
	}
	existing, err := im.storage.Categories.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	id := ""
	if existing != nil {
		id = existing.ID
	} else {
		created, err := im.svc.Categories.Create(ctx, dto.CatalogRequest{Name: name})
		if err != nil {
			return "", err
		}
		id = created.ID
	}
	im.categories[key] = id
	return id, nil
}

func (im *itemImporter) locationID(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := im.locations[key]; ok {
		return id, nil
	}
	existing, err := im.storage.Locations.GetByName(ctx, name)
	if err != nil {
		return "", err
	}
	id := ""
	if existing != nil {
		id = existing.ID
	} else {
		created, err := im.svc.Locations.Create(ctx, dto.CatalogRequest{Name: name})
		if err != nil {
			return "", err
		}
		id = created.ID
	}
	im.locations[key] = id
	return id, nil
}

// Import procesa las filas en orden; un error en una fila no detiene las siguientes.
func (im *itemImporter) Import(ctx context.Context, records []itemRecord) importResult {
	var res importResult
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, err)
			return res
		}
		err := im.importOne(ctx, rec)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, domain.ErrDuplicate):
			res.Skipped++
			im.log.Info().Str("code", rec.code).Int("line", rec.line).Msg("item ya registrado")
		default:
			res.Failed = append(res.Failed, fmt.Errorf("línea %d (%s): %w", rec.line, rec.code, err))
		}
	}
	return res
}

func (im *itemImporter) importOne(ctx context.Context, rec itemRecord) error {
	categoryID, err := im.categoryID(ctx, rec.category)
	if err != nil {
		return err
	}
	locationID, err := im.locationID(ctx, rec.location)
	if err != nil {
		return err
	}
	_, err = im.svc.Items.Create(ctx, dto.ItemRequest{
		CategoryID:  categoryID,
		LocationID:  locationID,
		Code:        rec.code,
		Description: rec.description,
		Unit:        rec.unit,
		Stock:       rec.stock,
	})
	return err
}
