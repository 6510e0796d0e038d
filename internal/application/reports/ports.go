package reports

import (
	"context"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// UserLookup resuelve los nombres de varios usuarios en una sola consulta.
type UserLookup interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error)
}

// PDFRenderer genera la versión PDF del reporte administrativo (implementado en infrastructure/pdf).
type PDFRenderer interface {
	RenderAdminReport(ctx context.Context, report *dto.SalesReportDTO, meta ReportMeta) ([]byte, error)
}

// ReportMeta datos de cabecera del reporte exportado.
type ReportMeta struct {
	Title       string
	GeneratedBy string
	Filter      dto.AdminReportFilter
}
