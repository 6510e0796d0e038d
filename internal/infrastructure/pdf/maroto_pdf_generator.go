// Package pdf genera la versión imprimible del reporte administrativo de ventas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros       │  Generado por + fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Empleado | Categoría | Sub | Monto | Com.    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES POR CATEGORÍA                                       │
//	│  TOTAL VENTAS / TOTAL COMISIONES                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
	"github.com/shayar/CommissionApp/pkg/money"
)

var _ reports.PDFRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa reports.PDFRenderer usando Maroto v2.
type MarotoPDFGenerator struct {
	formatter *money.Formatter
	now       func() time.Time
}

// NewMarotoPDFGenerator construye el generador. f nil usa el formato en-US.
func NewMarotoPDFGenerator(f *money.Formatter) *MarotoPDFGenerator {
	if f == nil {
		f = money.Default()
	}
	return &MarotoPDFGenerator{formatter: f, now: time.Now}
}

// RenderAdminReport genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderAdminReport(_ context.Context, report *dto.SalesReportDTO, meta reports.ReportMeta) ([]byte, error) {
	title := meta.Title
	if title == "" {
		title = "Sales Report"
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(meta.GeneratedBy, "admin"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.SalesDetails) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("No sales match the selected filters.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range g.detailRows(report.SalesDetails) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range g.categoryRows(report.TotalsByCategory) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtros (izq), autor y fecha de generación (der).
func (g *MarotoPDFGenerator) headerRow(title string, meta reports.ReportMeta) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(describeFilter(meta.Filter), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generated by: "+nonEmpty(meta.GeneratedBy, "-"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(g.now().UTC().Format("Jan 2, 2006 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ventas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	r := row.New(8).Add(
		h("Date", 1, align.Left),
		h("Employee", 2, align.Left),
		h("Category", 2, align.Left),
		h("SubCategory", 2, align.Left),
		h("Amount", 2, align.Right),
		h("Commission", 2, align.Right),
		h("Type", 1, align.Center),
	)
	return r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// detailRows: una fila por venta.
func (g *MarotoPDFGenerator) detailRows(details []dto.ReportSaleDetailDTO) []core.Row {
	out := make([]core.Row, 0, len(details))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, d := range details {
		out = append(out, row.New(6).Add(
			cell(d.Date.UTC().Format("1/2/06"), 1, align.Left),
			cell(d.EmployeeName, 2, align.Left),
			cell(d.CategoryName, 2, align.Left),
			cell(d.SubCategoryName, 2, align.Left),
			cell(g.formatter.Amount(d.Amount), 2, align.Right),
			cell(g.formatter.Amount(d.CommissionEarned), 2, align.Right),
			cell(d.PaymentType, 1, align.Center),
		))
	}
	return out
}

// categoryRows: totales por categoría ordenados por nombre.
func (g *MarotoPDFGenerator) categoryRows(totals map[string]decimal.Decimal) []core.Row {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("TOTALS BY CATEGORY", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, name := range names {
		out = append(out, row.New(5).Add(
			col.New(3),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(g.formatter.Amount(totals[name]), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

// totalsRow: totales generales alineados a la derecha.
func (g *MarotoPDFGenerator) totalsRow(report *dto.SalesReportDTO) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: top})
	}
	return row.New(16).Add(
		col.New(3),
		col.New(5).Add(
			label("TOTAL SALES:"),
			text.New("TOTAL COMMISSION:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 7}),
		),
		col.New(4).Add(
			value(g.formatter.Amount(report.GrandTotalSales), 0),
			value(g.formatter.Amount(report.GrandTotalCommission), 7),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func describeFilter(f dto.AdminReportFilter) string {
	var parts []string
	if f.Range.Start != nil {
		parts = append(parts, "from "+f.Range.Start.UTC().Format("2006-01-02"))
	}
	if f.Range.End != nil {
		parts = append(parts, "to "+f.Range.End.UTC().Format("2006-01-02"))
	}
	if f.UserID != "" {
		parts = append(parts, "employee "+f.UserID)
	}
	if f.SearchTerm != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.SearchTerm))
	}
	if len(parts) == 0 {
		return "All sales"
	}
	return "Filters: " + strings.Join(parts, ", ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
