// Package export renders reports as downloadable Excel workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/service"
)

// ExcelExporter writes a report into a single-sheet workbook.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

// Write renders the report and streams the workbook to w.
func (e *ExcelExporter) Write(report *service.Report, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	e.setCell(f, sheet, "A1", "Expense Report")
	e.setCell(f, sheet, "A2", fmt.Sprintf("Type: %s", report.Type))
	e.setCell(f, sheet, "A3", fmt.Sprintf("Period: %s to %s",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))

	row := 5
	switch report.Type {
	case service.ReportByCategory:
		e.writeHeader(f, sheet, row, "Category", "Claims", "Total Amount")
		for _, r := range report.Categories {
			row++
			e.writeRow(f, sheet, row, r.CategoryName, r.ClaimCount, r.TotalAmount)
		}
	case service.ReportMonthlyTrend:
		e.writeHeader(f, sheet, row, "Month", "Claims", "Total Amount")
		for _, r := range report.Monthly {
			row++
			e.writeRow(f, sheet, row, r.Month, r.ClaimCount, r.TotalAmount)
		}
	case service.ReportByEmployee:
		e.writeHeader(f, sheet, row, "Employee", "Department", "Claims", "Total Amount")
		for _, r := range report.Employees {
			row++
			e.writeRow(f, sheet, row, r.EmployeeName, r.DepartmentName, r.ClaimCount, r.TotalAmount)
		}
	default:
		e.writeHeader(f, sheet, row, "Department", "Status", "Claims", "Total Amount")
		for _, r := range report.Summary {
			row++
			e.writeRow(f, sheet, row, r.DepartmentName, r.Status, r.ClaimCount, r.TotalAmount)
		}
	}

	if err := f.Write(w); err != nil {
		e.logger.Error("Failed to write workbook", zap.Error(err))
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeHeader(f *excelize.File, sheet string, row int, titles ...interface{}) {
	e.writeRow(f, sheet, row, titles...)
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		col, _ := excelize.ColumnNumberToName(i + 1)
		e.setCellValue(f, sheet, fmt.Sprintf("%s%d", col, row), v)
	}
}

func (e *ExcelExporter) setCell(f *excelize.File, sheet, cell, value string) {
	e.setCellValue(f, sheet, cell, value)
}

func (e *ExcelExporter) setCellValue(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
