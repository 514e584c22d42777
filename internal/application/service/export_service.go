package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

// Export formats accepted by the export endpoint.
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

const exportSheetName = "Travel Report"

// ReportExportService renders a built travel report to a downloadable
// document.
type ReportExportService interface {
	ExportTravelReport(ctx context.Context, report *entity.TravelReport, format string) ([]byte, string, error)
}

type reportExportServiceImpl struct {
	logger Logger
}

// NewReportExportService creates a new ReportExportService
func NewReportExportService(logger Logger) ReportExportService {
	return &reportExportServiceImpl{logger: logger}
}

// ExportTravelReport renders the report to the requested format and
// returns the file bytes with a suggested filename.
func (s *reportExportServiceImpl) ExportTravelReport(ctx context.Context, report *entity.TravelReport, format string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("travel-report-%s-%s.%s",
		report.DateFrom.Format("2006-01-02"),
		report.DateTo.Format("2006-01-02"),
		format)

	var data []byte
	var err error
	switch format {
	case ExportFormatXLSX:
		data, err = renderTravelXLSX(report)
	case ExportFormatPDF:
		data, err = renderTravelPDF(report)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		s.logger.Error("Failed to render travel report export", "format", format, "error", err)
		return nil, "", err
	}

	s.logger.Info("Travel report exported", "format", format, "filename", filename, "bytes", len(data))
	return data, filename, nil
}

func renderTravelXLSX(report *entity.TravelReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	index, err := file.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	row := 1
	setRow := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(exportSheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
		return nil
	}
	skipRow := func() { row++ }

	if err := setRow("Travel Report"); err != nil {
		return nil, err
	}
	if err := setRow("Period", report.DateFrom.Format("2006-01-02"), report.DateTo.Format("2006-01-02")); err != nil {
		return nil, err
	}
	if err := setRow("Travel types", strings.Join(report.TravelTypes, ", ")); err != nil {
		return nil, err
	}
	if report.Jurisdiction != "" {
		if err := setRow("Jurisdiction", report.Jurisdiction); err != nil {
			return nil, err
		}
	}
	skipRow()

	if err := setRow("Filtered distance", floatOrEmpty(report.FilteredDistance), report.DistanceUnit); err != nil {
		return nil, err
	}
	if err := setRow("Total period distance", floatOrEmpty(report.TotalPeriodDistance), report.DistanceUnit); err != nil {
		return nil, err
	}
	if err := setRow("Business use %", floatOrEmpty(report.BusinessUsePercent)); err != nil {
		return nil, err
	}
	skipRow()

	if err := setRow("Per-distance deductions"); err != nil {
		return nil, err
	}
	if err := setRow("Travel type", "Distance", "Unit", "Currency", "Deduction"); err != nil {
		return nil, err
	}
	for _, d := range report.TieredDeductions {
		if err := setRow(d.TravelType, d.Distance, d.DistanceUnit, d.Currency, d.Total); err != nil {
			return nil, err
		}
	}
	if err := setRow("Total", "", "", "", report.TieredDeductionTotal); err != nil {
		return nil, err
	}
	skipRow()

	if report.ActualExpense != nil {
		if err := setRow("Actual-expense deductions"); err != nil {
			return nil, err
		}
		if err := setRow("Category", "Category total", "Deductible"); err != nil {
			return nil, err
		}
		for _, c := range report.ActualExpense.ByCategory {
			if err := setRow(c.Category, c.CategoryTotal, c.Deductible); err != nil {
				return nil, err
			}
		}
		if err := setRow("Total", "", report.ActualExpense.Total); err != nil {
			return nil, err
		}
		skipRow()
	}

	if err := setRow("Expenses by category", report.Currency); err != nil {
		return nil, err
	}
	for _, c := range report.ByCategory {
		if err := setRow(c.Name, c.Cost, c.RecordsCount); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTravelPDF(report *entity.TravelReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Travel Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s",
		report.DateFrom.Format("2006-01-02"), report.DateTo.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Travel types: %s", strings.Join(report.TravelTypes, ", ")))
	pdf.Ln(6)
	if report.Jurisdiction != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Jurisdiction: %s", report.Jurisdiction))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Filtered distance: %s %s", formatPtr(report.FilteredDistance), report.DistanceUnit))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total period distance: %s %s", formatPtr(report.TotalPeriodDistance), report.DistanceUnit))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Business use: %s%%", formatPtr(report.BusinessUsePercent)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Per-distance deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, d := range report.TieredDeductions {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %.2f %s at tiered rates = %.2f %s",
			d.TravelType, d.Distance, d.DistanceUnit, d.Total, d.Currency))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Total: %.2f", report.TieredDeductionTotal))
	pdf.Ln(10)

	if report.ActualExpense != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Actual-expense deductions")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, c := range report.ActualExpense.ByCategory {
			pdf.Cell(0, 6, fmt.Sprintf("%s: %.2f of %.2f %s",
				c.Category, c.Deductible, c.CategoryTotal, report.Currency))
			pdf.Ln(6)
		}
		pdf.Cell(0, 6, fmt.Sprintf("Total: %.2f %s", report.ActualExpense.Total, report.Currency))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func formatPtr(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
