// Package export выгружает отчёты в xlsx
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// UsageColumns заголовки колонок отчёта об использовании
var UsageColumns = []string{
	"Company",
	"Total Bookings",
	"Guest Bookings",
	"Cancelled",
	"No Shows",
	"Projected Cost",
	"Actual Cost",
}

// sheetNameLimit ограничение Excel на длину имени листа
const sheetNameLimit = 31

// UsageWriter пишет отчёт об использовании мест в xlsx
type UsageWriter struct{}

// NewUsageWriter создаёт writer отчётов
func NewUsageWriter() *UsageWriter {
	return &UsageWriter{}
}

// ContentType MIME тип результата
func (w *UsageWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FileName имя файла для отчёта за месяц
func (w *UsageWriter) FileName(period *domain.Period) string {
	if period == nil {
		return "usage-report.xlsx"
	}
	return fmt.Sprintf("usage-report-%s.xlsx", period)
}

// Write выгружает строки отчёта на один лист, названный по месяцу
func (w *UsageWriter) Write(out io.Writer, period *domain.Period, rows []domain.MonthlyUsage) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := SheetName(period)
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if err := writeRow(file, sheet, 1, toCells(UsageColumns)); err != nil {
		return err
	}

	// Жирный заголовок
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(UsageColumns), 1)
		_ = file.SetCellStyle(sheet, "A1", endCell, style)
	}

	for i, row := range rows {
		cells := []interface{}{
			row.CompanyName,
			row.Total,
			row.Guest,
			row.Cancelled,
			row.NoShow,
			row.Projected.InexactFloat64(),
			row.Actual.InexactFloat64(),
		}
		if err := writeRow(file, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := file.Write(out); err != nil {
		return fmt.Errorf("export: write xlsx: %w", err)
	}
	return nil
}

// SheetName имя листа для месяца
func SheetName(period *domain.Period) string {
	if period == nil {
		return "Usage"
	}
	name := "Usage " + period.String()
	if len(name) > sheetNameLimit {
		name = name[:sheetNameLimit]
	}
	return name
}

func writeRow(file *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	for col, val := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("export: set %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
