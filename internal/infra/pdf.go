package infra

// pdf.go — inventory report rendering using go-pdf/fpdf.
// Produces an A4 portrait document with:
//   - Report window header
//   - Movement totals by direction
//   - Stock valuation line
//   - Active catalog table (code, name, type, quantity, unit cost)

import (
	"bytes"
	"fmt"

	"stockroom/internal/dto"
	"stockroom/internal/model"

	"github.com/go-pdf/fpdf"
)

// RenderReportPDF renders the inventory report and active catalog to PDF bytes.
func RenderReportPDF(report *dto.InventoryReport, items []model.Item) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Inventory Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Period: %s to %s", report.From, report.To), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, "Generated "+report.GeneratedAt, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Movement totals ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Movements", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range report.ByDirection {
		pdf.CellFormat(contentW/2, 5, d.Direction, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, fmt.Sprintf("%d units in %d operations", d.Quantity, d.Count), "", 1, "R", false, 0, "")
	}
	for _, t := range report.ByItemType {
		pdf.CellFormat(contentW/2, 5, "  "+t.ItemType, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 5, fmt.Sprintf("%d units", t.Quantity), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, "Stock valuation:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "$"+report.StockValuation.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Catalog table ────────────────────────────────────────────────────────
	col1 := contentW * 0.14 // code
	col2 := contentW * 0.40 // name
	col3 := contentW * 0.16 // type
	col4 := contentW * 0.12 // quantity
	col5 := contentW * 0.18 // unit cost

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Code", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Unit cost", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, i := range items {
		name := i.Name
		if len(name) > 42 {
			name = name[:41] + "…"
		}
		pdf.CellFormat(col1, 5, i.Code, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, i.Type, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 5, fmt.Sprintf("%d", i.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, "$"+i.UnitCost.StringFixed(2), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
