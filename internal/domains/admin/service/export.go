package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"housiee-backend/internal/domains/admin/model"
)

const (
	exportSheet      = "Bookings"
	exportDateFormat = "2006-01-02"
)

var exportHeaders = []string{
	"Booking ID", "Service", "Category", "Provider", "Renter", "Renter Email",
	"Start Date", "End Date", "Quantity", "Total Price", "Status", "Created At",
}

// buildBookingsWorkbook writes one header row and one row per booking.
func buildBookingsWorkbook(rows []*model.ExportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	// Step 1: Sheet
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	// Step 2: Header
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
		_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	}

	// Step 3: Data
	for i, r := range rows {
		rowNum := i + 2
		cell := func(col int) string {
			name, _ := excelize.CoordinatesToCellName(col, rowNum)
			return name
		}

		_ = f.SetCellValue(exportSheet, cell(1), r.BookingID.String())
		_ = f.SetCellValue(exportSheet, cell(2), r.ServiceTitle)
		_ = f.SetCellValue(exportSheet, cell(3), r.Category)
		_ = f.SetCellValue(exportSheet, cell(4), r.ProviderName)
		_ = f.SetCellValue(exportSheet, cell(5), r.RenterName)
		_ = f.SetCellValue(exportSheet, cell(6), r.RenterEmail)
		_ = f.SetCellValue(exportSheet, cell(7), r.StartDate.Format(exportDateFormat))
		if r.EndDate != nil {
			_ = f.SetCellValue(exportSheet, cell(8), r.EndDate.Format(exportDateFormat))
		}
		_ = f.SetCellValue(exportSheet, cell(9), r.Quantity)
		_ = f.SetCellValue(exportSheet, cell(10), r.TotalPrice.StringFixed(2))
		_ = f.SetCellValue(exportSheet, cell(11), r.Status)
		_ = f.SetCellValue(exportSheet, cell(12), r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 38)
	_ = f.SetColWidth(exportSheet, "B", "F", 22)
	_ = f.SetColWidth(exportSheet, "G", "L", 14)

	return f, nil
}
