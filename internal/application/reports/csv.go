package reports

import (
	"bufio"
	"io"
	"strings"

	"github.com/shayar/CommissionApp/internal/application/dto"
)

// CSVHeader cabecera del export del reporte administrativo.
const CSVHeader = "Date,Employee,Category,SubCategory,Amount,Commission Earned,Payment Type,Tracking Number,Description"

// WriteAdminCSV escribe el reporte en CSV. Guía y descripción van siempre entre comillas
// con las comillas internas duplicadas; el resto solo si contiene separadores.
func WriteAdminCSV(w io.Writer, report *dto.SalesReportDTO) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(CSVHeader + "\n"); err != nil {
		return err
	}
	for _, s := range report.SalesDetails {
		fields := []string{
			s.Date.UTC().Format("1/2/2006"),
			quoteIfNeeded(s.EmployeeName),
			quoteIfNeeded(s.CategoryName),
			quoteIfNeeded(s.SubCategoryName),
			s.Amount.StringFixed(2),
			s.CommissionEarned.StringFixed(2),
			quoteIfNeeded(s.PaymentType),
			quote(s.TrackingNumber),
			quote(s.Description),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
