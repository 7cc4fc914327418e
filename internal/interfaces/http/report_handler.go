package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/inventory"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler expone el kardex y el reporte por periodo, en JSON o como documento.
type ReportHandler struct {
	kardex  *inventory.KardexUseCase
	reports *inventory.ReportUseCase
}

func NewReportHandler(kardex *inventory.KardexUseCase, reports *inventory.ReportUseCase) *ReportHandler {
	return &ReportHandler{kardex: kardex, reports: reports}
}

// Kardex godoc
// @Summary      Kardex de un item
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "ID del item"
// @Param        code     query  string  false  "Código del item"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex [get]
func (h *ReportHandler) Kardex(c *fiber.Ctx) error {
	out, err := h.kardex.Get(c.UserContext(), c.Query("item_id"), c.Query("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// KardexPDF godoc
// @Summary      Kardex de un item en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        item_id  query  string  false  "ID del item"
// @Param        code     query  string  false  "Código del item"
// @Success      200
// @Router       /api/kardex/pdf [get]
func (h *ReportHandler) KardexPDF(c *fiber.Ctx) error {
	doc, k, err := h.kardex.PDF(c.UserContext(), c.Query("item_id"), c.Query("code"))
	if err != nil {
		return respondError(c, err)
	}
	return sendDocument(c, mimePDF, fmt.Sprintf("kardex_%s.pdf", fileSafe(k.Code)), doc)
}

// Period godoc
// @Summary      Reporte de movimientos por periodo
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.PeriodReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/period [get]
func (h *ReportHandler) Period(c *fiber.Ctx) error {
	from, to, err := h.reports.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.reports.PeriodReport(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PeriodXLSX godoc
// @Summary      Reporte por periodo en Excel
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  true  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  true  "Hasta (YYYY-MM-DD)"
// @Success      200
// @Router       /api/reports/period.xlsx [get]
func (h *ReportHandler) PeriodXLSX(c *fiber.Ctx) error {
	from, to, err := h.reports.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	doc, period, err := h.reports.PeriodWorkbook(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("movimientos_%s_%s.xlsx",
		period.Start.Format("20060102"), period.End.Format("20060102"))
	return sendDocument(c, mimeXLSX, name, doc)
}

func sendDocument(c *fiber.Ctx, mime, filename string, doc []byte) error {
	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(doc)
}

// fileSafe deja solo caracteres seguros para un nombre de archivo.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, s)
}
