package reports_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shayar/CommissionApp/internal/application/dto"
	"github.com/shayar/CommissionApp/internal/application/reports"
)

func TestWriteAdminCSV(t *testing.T) {
	report := &dto.SalesReportDTO{
		SalesDetails: []dto.ReportSaleDetailDTO{
			{
				Date:             time.Date(2026, 3, 7, 22, 0, 0, 0, time.UTC),
				EmployeeName:     "Ruiz, Ana",
				CategoryName:     "Books",
				SubCategoryName:  reports.NotApplicable,
				Amount:           dec("75"),
				CommissionEarned: dec("3.75"),
				PaymentType:      "Cash",
				Description:      `signed "first edition"`,
			},
			{
				Date:             time.Date(2026, 11, 21, 8, 0, 0, 0, time.UTC),
				EmployeeName:     "Bob",
				CategoryName:     "Electronics",
				SubCategoryName:  "Phones",
				Amount:           dec("1200.5"),
				CommissionEarned: dec("120.05"),
				PaymentType:      "Card",
				TrackingNumber:   "TRK-1",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, reports.WriteAdminCSV(&buf, report))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, reports.CSVHeader, lines[0])
	assert.Equal(t, `3/7/2026,"Ruiz, Ana",Books,N/A,75.00,3.75,Cash,"","signed ""first edition"""`, lines[1])
	assert.Equal(t, `11/21/2026,Bob,Electronics,Phones,1200.50,120.05,Card,"TRK-1",""`, lines[2])
}

func TestWriteAdminCSV_EmptyReportHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, reports.WriteAdminCSV(&buf, &dto.SalesReportDTO{}))
	assert.Equal(t, reports.CSVHeader+"\n", buf.String())
}
