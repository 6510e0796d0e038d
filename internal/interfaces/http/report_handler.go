package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
)

const queryDateLayout = "2006-01-02"

// ReportHandler reporte administrativo y sus exportaciones.
type ReportHandler struct {
	agg *reports.Aggregator
	pdf reports.PDFRenderer
}

// NewReportHandler construye el handler. pdf puede ser nil (export PDF deshabilitado).
func NewReportHandler(agg *reports.Aggregator, pdf reports.PDFRenderer) *ReportHandler {
	return &ReportHandler{agg: agg, pdf: pdf}
}

// Admin godoc
// @Summary      Reporte administrativo de ventas
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        user_id     query  string  false  "empleado"
// @Param        start_date  query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        search      query  string  false  "subcategoría, categoría o descripción"
// @Success      200  {object}  dto.SalesReportDTO
// @Router       /api/reports/admin [get]
func (h *ReportHandler) Admin(c *fiber.Ctx) error {
	filter, err := adminFilter(c)
	if err != nil {
		return validation(c, err.Error())
	}
	out, err := h.agg.AdminReport(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportCSV godoc
// @Summary      Reporte administrativo en CSV
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Router       /api/reports/admin/export.csv [get]
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	filter, err := adminFilter(c)
	if err != nil {
		return validation(c, err.Error())
	}
	out, err := h.agg.AdminReport(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	var buf bytes.Buffer
	if err := reports.WriteAdminCSV(&buf, out); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, attachment("sales_report", "csv"))
	return c.Send(buf.Bytes())
}

// ExportPDF godoc
// @Summary      Reporte administrativo en PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Router       /api/reports/admin/export.pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "PDF_DISABLED", Message: "exportación PDF no configurada"})
	}
	filter, err := adminFilter(c)
	if err != nil {
		return validation(c, err.Error())
	}
	out, err := h.agg.AdminReport(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	doc, err := h.pdf.RenderAdminReport(c.UserContext(), out, reports.ReportMeta{
		Title:       "Sales Report",
		GeneratedBy: actor(c),
		Filter:      filter,
	})
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, attachment("sales_report", "pdf"))
	return c.Send(doc)
}

// adminFilter lee user_id, start_date, end_date y search.
func adminFilter(c *fiber.Ctx) (dto.AdminReportFilter, error) {
	rng, err := parseDateRange(c)
	if err != nil {
		return dto.AdminReportFilter{}, err
	}
	return dto.AdminReportFilter{
		UserID:     c.Query("user_id"),
		Range:      rng,
		SearchTerm: c.Query("search"),
	}, nil
}

// parseDateRange lee start_date y end_date (YYYY-MM-DD).
func parseDateRange(c *fiber.Ctx) (dto.DateRange, error) {
	var rng dto.DateRange
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(queryDateLayout, s)
		if err != nil {
			return rng, fmt.Errorf("start_date inválida, formato %s", queryDateLayout)
		}
		rng.Start = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(queryDateLayout, s)
		if err != nil {
			return rng, fmt.Errorf("end_date inválida, formato %s", queryDateLayout)
		}
		rng.End = &t
	}
	return rng, nil
}

func attachment(name, ext string) string {
	return fmt.Sprintf(`attachment; filename="%s_%s.%s"`, name, time.Now().UTC().Format("20060102"), ext)
}
