package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

func sampleTravelReport() *entity.TravelReport {
	return &entity.TravelReport{
		DateFrom:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateTo:              time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Currency:            "CAD",
		TravelTypes:         []string{entity.TravelTypeBusiness},
		Jurisdiction:        "CA",
		FilteredDistance:    units.Float64Ptr(1200),
		TotalPeriodDistance: units.Float64Ptr(4000),
		DistanceUnit:        units.DistanceKm,
		BusinessUsePercent:  units.Float64Ptr(30),
		TieredDeductions: []entity.TravelTypeDeduction{
			{
				TravelType:   entity.TravelTypeBusiness,
				Distance:     1200,
				DistanceUnit: units.DistanceKm,
				Currency:     "CAD",
				Total:        840,
				Breakdown:    []entity.TierAmount{{TierDistance: 1200, TierRate: 0.70, TierAmount: 840}},
			},
		},
		TieredDeductionTotal: 840,
		ActualExpense: &entity.ActualExpenseDeduction{
			ByCategory: []entity.CategoryDeduction{
				{Category: entity.CategoryFuel, CategoryTotal: 100, Deductible: 30},
			},
			Total: 30,
		},
		ByCategory: []entity.CostBreakdownRow{
			{Name: entity.CategoryFuel, Cost: 100, RecordsCount: 2, Percent: units.Float64Ptr(100)},
		},
	}
}

func TestExportTravelReportXLSX(t *testing.T) {
	svc := NewReportExportService(&mockLogger{})

	data, filename, err := svc.ExportTravelReport(context.Background(), sampleTravelReport(), ExportFormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "travel-report-2024-01-01-2025-01-01.xlsx", filename)
	// XLSX files are zip archives.
	require.Greater(t, len(data), 4)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}

func TestExportTravelReportPDF(t *testing.T) {
	svc := NewReportExportService(&mockLogger{})

	data, filename, err := svc.ExportTravelReport(context.Background(), sampleTravelReport(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "travel-report-2024-01-01-2025-01-01.pdf", filename)
	require.Greater(t, len(data), 5)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportTravelReportUnsupportedFormat(t *testing.T) {
	svc := NewReportExportService(&mockLogger{})

	_, _, err := svc.ExportTravelReport(context.Background(), sampleTravelReport(), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}
