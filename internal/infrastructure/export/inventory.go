// Package export renders records as spreadsheets.
package export

import (
	"fmt"
	"io"

	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentTypeXLSX is the media type of the workbook written by WriteInventory.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	inventorySheet = "Inventory"
	dateLayout     = "2006-01-02"
)

var inventoryHeadings = []string{
	"Item Code", "Item Name", "Category", "Quantity", "Threshold",
	"Below Threshold", "QC Status", "Lot Number", "Expiry Date", "Updated At",
}

// WriteInventory writes one row per item to w as an xlsx workbook.
func WriteInventory(w io.Writer, items []*dominv.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("export: sheet: %w", err)
	}

	for i, h := range inventoryHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(inventorySheet, cell, h); err != nil {
			return fmt.Errorf("export: heading %s: %w", h, err)
		}
	}

	for r, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(inventorySheet, cell, &[]any{
			item.ItemCode,
			item.ItemName,
			item.Category,
			item.Quantity,
			item.Threshold,
			yesNo(item.BelowThreshold()),
			string(item.QCStatus),
			item.LotNumber,
			formatDate(item),
			item.UpdatedAt.Format(dateLayout),
		}); err != nil {
			return fmt.Errorf("export: row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(inventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: panes: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

func formatDate(item *dominv.Item) string {
	if item.ExpiryDate == nil {
		return ""
	}
	return item.ExpiryDate.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
