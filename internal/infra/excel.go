package infra

import (
	"fmt"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/xuri/excelize/v2"
)

// RenderReportXLSX renders the inventory report as a two-sheet workbook:
// "Summary" with aggregates and "Catalog" with the active item list.
func RenderReportXLSX(report *dto.InventoryReport, items []model.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	rows := [][]interface{}{
		{"Inventory Report"},
		{"Period", report.From, report.To},
		{"Generated", report.GeneratedAt},
		{},
		{"Stock valuation", report.StockValuation.StringFixed(2)},
		{},
		{"Direction", "Quantity", "Operations"},
	}
	for _, d := range report.ByDirection {
		rows = append(rows, []interface{}{d.Direction, d.Quantity, d.Count})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Item type", "Quantity"})
	for _, t := range report.ByItemType {
		rows = append(rows, []interface{}{t.ItemType, t.Quantity})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Destination", "Quantity"})
	for _, d := range report.ByDestination {
		rows = append(rows, []interface{}{d.Destination, d.Quantity})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Request status", "Count"})
	for _, s := range report.RequestsByStatus {
		rows = append(rows, []interface{}{s.Status, s.Count})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Deliveries", report.DeliveriesCount})

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: summary row %d: %w", i+1, err)
		}
	}

	catalog := "Catalog"
	if _, err := f.NewSheet(catalog); err != nil {
		return nil, err
	}
	header := []interface{}{"Code", "Name", "Type", "Quantity", "Min quantity", "Unit cost", "Expiry date"}
	if err := f.SetSheetRow(catalog, "A1", &header); err != nil {
		return nil, err
	}
	for i, item := range items {
		expiry := ""
		if item.ExpiryDate != nil {
			expiry = item.ExpiryDate.Format("2006-01-02")
		}
		row := []interface{}{
			item.Code, item.Name, item.Type,
			item.Quantity, item.MinQuantity,
			item.UnitCost.StringFixed(2), expiry,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(catalog, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: catalog row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
